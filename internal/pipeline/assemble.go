package pipeline

import (
	"fmt"
	"strings"

	"github.com/sells-group/memo-cli/internal/model"
)

// AssembleMemo maps raw generated section payloads onto the memo document.
// LLM output is alias-tolerant: common key variants (snake_case, camelCase,
// shorthand) are accepted, wrong-typed values degrade to zero values, and
// sections that were never generated stay nil.
func AssembleMemo(sections map[string]map[string]any) *model.Memo {
	memo := &model.Memo{}

	if data, ok := sections[model.SectionExecutiveSummary]; ok {
		data = unwrapSection(model.SectionExecutiveSummary, data)
		memo.ExecutiveSummary = &model.ExecutiveSummary{
			Overview:               getString(data, "overview", "content", "summary", "executive_summary"),
			KeyRecommendations:     getStringSlice(data, "key_recommendations", "keyRecommendations", "recommendations"),
			CriticalConsiderations: getStringSlice(data, "critical_considerations", "criticalConsiderations", "considerations"),
		}
	}

	if data, ok := sections[model.SectionBusinessProfile]; ok {
		memo.BusinessProfile = &model.BusinessProfile{
			CompanyDescription: getString(data, "company_description", "companyDescription", "content"),
			IndustryAnalysis:   getString(data, "industry_analysis", "industryAnalysis"),
			MarketPosition:     getString(data, "market_position", "marketPosition"),
		}
	}

	if data, ok := sections[model.SectionJurisdictionsTreaties]; ok {
		memo.JurisdictionsTreaties = &model.JurisdictionsTreaties{
			PrimaryJurisdiction: getString(data, "primary_jurisdiction", "primaryJurisdiction"),
			RelevantTreaties:    getStringSlice(data, "relevant_treaties", "relevantTreaties"),
			TreatyBenefits:      getString(data, "treaty_benefits", "treatyBenefits", "content"),
		}
	}

	if data, ok := sections[model.SectionBusinessStructure]; ok {
		memo.BusinessStructure = &model.BusinessStructure{
			RecommendedStructure:  getString(data, "recommended_structure", "recommendedStructure", "content"),
			StructureAlternatives: getStringSlice(data, "structure_alternatives", "structureAlternatives"),
			StructureRationale:    getString(data, "structure_rationale", "structureRationale"),
		}
	}

	if data, ok := sections[model.SectionTaxConsiderations]; ok {
		data = unwrapSection(model.SectionTaxConsiderations, data)
		memo.TaxConsiderations = &model.TaxConsiderations{
			CorporateTaxRate:          getString(data, "corporate_tax_rate", "corporateTaxRate", "tax_rate"),
			TaxObligations:            getStringSlice(data, "tax_obligations", "taxObligations"),
			TaxOptimizationStrategies: getStringSlice(data, "tax_optimization_strategies", "taxOptimizationStrategies", "optimization_strategies", "strategies"),
			SpecialRegimes:            getStringSlice(data, "special_regimes", "specialRegimes", "regimes"),
		}
	}

	if data, ok := sections[model.SectionLegalTopicsOverview]; ok {
		memo.LegalTopicsOverview = &model.LegalTopicsOverview{
			KeyLegalAreas:          getStringSlice(data, "key_legal_areas", "keyLegalAreas"),
			RegulatoryRequirements: getStringSlice(data, "regulatory_requirements", "regulatoryRequirements"),
			ComplianceOverview:     getString(data, "compliance_overview", "complianceOverview", "content"),
		}
	}

	if data, ok := sections[model.SectionLegalDeepDive]; ok {
		memo.LegalDeepDive = &model.LegalDeepDive{
			DetailedAnalysis:    getString(data, "detailed_analysis", "detailedAnalysis", "content"),
			SpecificRegulations: getAnyMap(data, "specific_regulations", "specificRegulations"),
			CaseStudies:         getStringSlice(data, "case_studies", "caseStudies"),
		}
	}

	if data, ok := sections[model.SectionMarketEntryOptions]; ok {
		data = unwrapSection(model.SectionMarketEntryOptions, data)
		memo.MarketEntryOptions = assembleEntryOptions(data)
	}

	if data, ok := sections[model.SectionImplementationTimeline]; ok {
		data = unwrapSection(model.SectionImplementationTimeline, data)
		memo.ImplementationTimeline = &model.ImplementationTimeline{
			Phases:            getMapSlice(data, "phases", "phase"),
			EstimatedDuration: getString(data, "estimated_duration", "estimatedDuration", "duration", "content"),
			Milestones:        getStringSlice(data, "milestones", "milestone"),
		}
	}

	if data, ok := sections[model.SectionResourceBudget]; ok {
		memo.ResourceBudget = &model.ResourceBudget{
			EstimatedCosts:        getAnyMap(data, "estimated_costs", "estimatedCosts"),
			CostBreakdown:         getMapSlice(data, "cost_breakdown", "costBreakdown"),
			BudgetRecommendations: getString(data, "budget_recommendations", "budgetRecommendations", "content"),
		}
	}

	if data, ok := sections[model.SectionRiskAssessment]; ok {
		memo.RiskAssessment = &model.RiskAssessment{
			IdentifiedRisks: getMapSlice(data, "identified_risks", "identifiedRisks"),
			RiskMitigation:  getStringSlice(data, "risk_mitigation", "riskMitigation"),
			RiskLevel:       getString(data, "risk_level", "riskLevel"),
		}
	}

	if data, ok := sections[model.SectionNextSteps]; ok {
		memo.NextSteps = &model.NextSteps{
			ImmediateActions:       getStringSlice(data, "immediate_actions", "immediateActions"),
			ShortTermSteps:         getStringSlice(data, "short_term_steps", "shortTermSteps"),
			LongTermConsiderations: getStringSlice(data, "long_term_considerations", "longTermConsiderations"),
		}
	}

	if data, ok := sections[model.SectionAppendix]; ok {
		memo.Appendix = &model.Appendix{
			References:          getStringSlice(data, "references"),
			AdditionalResources: getStringSlice(data, "additional_resources", "additionalResources"),
			Glossary:            getStringMap(data, "glossary"),
			DataSources:         getStringSlice(data, "data_sources", "dataSources"),
		}
	}

	return memo
}

// assembleEntryOptions handles the section most prone to shape drift: the
// model sometimes returns a bare option list, and pros_and_cons arrives as
// either flat lists or nested {pros, cons} objects.
func assembleEntryOptions(data map[string]any) *model.MarketEntryOptions {
	out := &model.MarketEntryOptions{}

	if options, ok := data[model.SectionMarketEntryOptions].([]any); ok {
		out.OptionComparison = toMapSlice(options)
		if len(out.OptionComparison) > 0 {
			out.RecommendedOption = stringValue(out.OptionComparison[0]["option"])
		}
	} else {
		out.RecommendedOption = getString(data, "recommended_option", "recommendedOption", "content", "recommended")
		out.OptionComparison = getMapSlice(data, "option_comparison", "optionComparison", "options")
	}

	out.ProsAndCons = flattenProsAndCons(getRaw(data, "pros_and_cons", "prosAndCons"))
	return out
}

// flattenProsAndCons normalizes pros/cons to map[option][]string. Nested
// {pros: [...], cons: [...]} objects are flattened into one list with cons
// entries prefixed "Cons: ".
func flattenProsAndCons(raw any) map[string][]string {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	out := make(map[string][]string, len(obj))
	for option, value := range obj {
		switch v := value.(type) {
		case map[string]any:
			combined := toStringSlice(v["pros"])
			for _, con := range toStringSlice(v["cons"]) {
				combined = append(combined, "Cons: "+con)
			}
			out[option] = combined
		case []any:
			out[option] = toStringSlice(v)
		default:
			if s := stringValue(v); s != "" {
				out[option] = []string{s}
			} else {
				out[option] = []string{}
			}
		}
	}
	return out
}

// unwrapSection peels one level of nesting when the model wraps its answer in
// the section name ({"executive_summary": {...}}) or a single close-enough key.
func unwrapSection(sectionName string, data map[string]any) map[string]any {
	if inner, ok := data[sectionName].(map[string]any); ok {
		return inner
	}
	if len(data) == 1 {
		for key, value := range data {
			if inner, ok := value.(map[string]any); ok && keysSimilar(sectionName, key) {
				return inner
			}
		}
	}
	return data
}

func keysSimilar(a, b string) bool {
	a = strings.ReplaceAll(a, "_", "")
	b = strings.ReplaceAll(b, "_", "")
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// getRaw returns the first present value among the aliased keys.
func getRaw(data map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := data[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func getString(data map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringValue(data[k]); s != "" {
			return s
		}
	}
	return ""
}

func getStringSlice(data map[string]any, keys ...string) []string {
	raw := getRaw(data, keys...)
	if items, ok := raw.([]any); ok {
		return toStringSlice(items)
	}
	return nil
}

func getMapSlice(data map[string]any, keys ...string) []map[string]any {
	raw := getRaw(data, keys...)
	if items, ok := raw.([]any); ok {
		return toMapSlice(items)
	}
	return nil
}

func getAnyMap(data map[string]any, keys ...string) map[string]any {
	if m, ok := getRaw(data, keys...).(map[string]any); ok {
		return m
	}
	return nil
}

func getStringMap(data map[string]any, keys ...string) map[string]string {
	m, ok := getRaw(data, keys...).(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = stringValue(v)
	}
	return out
}

func toStringSlice(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := stringValue(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func toMapSlice(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}
