package model

// Section name keys used throughout the planner, generator and assembler.
// They match the JSON keys of Memo so a section map can be merged directly.
const (
	SectionExecutiveSummary       = "executive_summary"
	SectionBusinessProfile        = "business_profile"
	SectionJurisdictionsTreaties  = "jurisdictions_treaties"
	SectionBusinessStructure      = "business_structure"
	SectionTaxConsiderations      = "tax_considerations"
	SectionLegalTopicsOverview    = "legal_topics_overview"
	SectionLegalDeepDive          = "legal_deep_dive"
	SectionMarketEntryOptions     = "market_entry_options"
	SectionImplementationTimeline = "implementation_timeline"
	SectionResourceBudget         = "resource_budget"
	SectionRiskAssessment         = "risk_assessment"
	SectionNextSteps              = "next_steps"
	SectionAppendix               = "appendix"
)

// AllSections lists every memo section name in document order.
func AllSections() []string {
	return []string{
		SectionExecutiveSummary,
		SectionBusinessProfile,
		SectionJurisdictionsTreaties,
		SectionBusinessStructure,
		SectionTaxConsiderations,
		SectionLegalTopicsOverview,
		SectionLegalDeepDive,
		SectionMarketEntryOptions,
		SectionImplementationTimeline,
		SectionResourceBudget,
		SectionRiskAssessment,
		SectionNextSteps,
		SectionAppendix,
	}
}

// Memo is the assembled market-entry memo. Every section is optional: a nil
// section means the planner never scheduled it or generation failed, which
// consumers can distinguish from a present-but-sparse section.
type Memo struct {
	ExecutiveSummary       *ExecutiveSummary       `json:"executiveSummary,omitempty"`
	BusinessProfile        *BusinessProfile        `json:"businessProfile,omitempty"`
	JurisdictionsTreaties  *JurisdictionsTreaties  `json:"jurisdictionsTreaties,omitempty"`
	BusinessStructure      *BusinessStructure      `json:"businessStructure,omitempty"`
	TaxConsiderations      *TaxConsiderations      `json:"taxConsiderations,omitempty"`
	LegalTopicsOverview    *LegalTopicsOverview    `json:"legalTopicsOverview,omitempty"`
	LegalDeepDive          *LegalDeepDive          `json:"legalDeepDive,omitempty"`
	MarketEntryOptions     *MarketEntryOptions     `json:"marketEntryOptions,omitempty"`
	ImplementationTimeline *ImplementationTimeline `json:"implementationTimeline,omitempty"`
	ResourceBudget         *ResourceBudget         `json:"resourceBudget,omitempty"`
	RiskAssessment         *RiskAssessment         `json:"riskAssessment,omitempty"`
	NextSteps              *NextSteps              `json:"nextSteps,omitempty"`
	Appendix               *Appendix               `json:"appendix,omitempty"`
}

// ExecutiveSummary is the memo's lead section.
type ExecutiveSummary struct {
	Overview               string   `json:"overview,omitempty"`
	KeyRecommendations     []string `json:"keyRecommendations,omitempty"`
	CriticalConsiderations []string `json:"criticalConsiderations,omitempty"`
}

// BusinessProfile describes the company itself.
type BusinessProfile struct {
	CompanyDescription string `json:"companyDescription,omitempty"`
	IndustryAnalysis   string `json:"industryAnalysis,omitempty"`
	MarketPosition     string `json:"marketPosition,omitempty"`
}

// JurisdictionsTreaties covers treaty network and jurisdiction notes.
type JurisdictionsTreaties struct {
	PrimaryJurisdiction string   `json:"primaryJurisdiction,omitempty"`
	RelevantTreaties    []string `json:"relevantTreaties,omitempty"`
	TreatyBenefits      string   `json:"treatyBenefits,omitempty"`
}

// BusinessStructure recommends a legal structure.
type BusinessStructure struct {
	RecommendedStructure  string   `json:"recommendedStructure,omitempty"`
	StructureAlternatives []string `json:"structureAlternatives,omitempty"`
	StructureRationale    string   `json:"structureRationale,omitempty"`
}

// TaxConsiderations covers rates, obligations and special regimes.
type TaxConsiderations struct {
	CorporateTaxRate          string   `json:"corporateTaxRate,omitempty"`
	TaxObligations            []string `json:"taxObligations,omitempty"`
	TaxOptimizationStrategies []string `json:"taxOptimizationStrategies,omitempty"`
	SpecialRegimes            []string `json:"specialRegimes,omitempty"`
}

// LegalTopicsOverview surveys the relevant legal areas.
type LegalTopicsOverview struct {
	KeyLegalAreas          []string `json:"keyLegalAreas,omitempty"`
	RegulatoryRequirements []string `json:"regulatoryRequirements,omitempty"`
	ComplianceOverview     string   `json:"complianceOverview,omitempty"`
}

// LegalDeepDive analyzes selected legal topics in depth.
type LegalDeepDive struct {
	DetailedAnalysis    string         `json:"detailedAnalysis,omitempty"`
	SpecificRegulations map[string]any `json:"specificRegulations,omitempty"`
	CaseStudies         []string       `json:"caseStudies,omitempty"`
}

// MarketEntryOptions compares entry vehicles.
type MarketEntryOptions struct {
	RecommendedOption string              `json:"recommendedOption,omitempty"`
	OptionComparison  []map[string]any    `json:"optionComparison,omitempty"`
	ProsAndCons       map[string][]string `json:"prosAndCons,omitempty"`
}

// ImplementationTimeline lays out setup phases and milestones.
type ImplementationTimeline struct {
	Phases            []map[string]any `json:"phases,omitempty"`
	EstimatedDuration string           `json:"estimatedDuration,omitempty"`
	Milestones        []string         `json:"milestones,omitempty"`
}

// ResourceBudget estimates setup and running costs.
type ResourceBudget struct {
	EstimatedCosts        map[string]any   `json:"estimatedCosts,omitempty"`
	CostBreakdown         []map[string]any `json:"costBreakdown,omitempty"`
	BudgetRecommendations string           `json:"budgetRecommendations,omitempty"`
}

// RiskAssessment lists risks and mitigations.
type RiskAssessment struct {
	IdentifiedRisks []map[string]any `json:"identifiedRisks,omitempty"`
	RiskMitigation  []string         `json:"riskMitigation,omitempty"`
	RiskLevel       string           `json:"riskLevel,omitempty"`
}

// NextSteps is the action plan.
type NextSteps struct {
	ImmediateActions       []string `json:"immediateActions,omitempty"`
	ShortTermSteps         []string `json:"shortTermSteps,omitempty"`
	LongTermConsiderations []string `json:"longTermConsiderations,omitempty"`
}

// Appendix holds references and supporting material.
type Appendix struct {
	References          []string          `json:"references,omitempty"`
	AdditionalResources []string          `json:"additionalResources,omitempty"`
	Glossary            map[string]string `json:"glossary,omitempty"`
	DataSources         []string          `json:"dataSources,omitempty"`
}
