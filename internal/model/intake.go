package model

// IntakeProfile is the business-intake form submitted once per memo request.
// JSON tags are camelCase for frontend compatibility. The profile is treated
// as immutable after decoding; only CompanyName is required and that is
// enforced at the transport boundary.
type IntakeProfile struct {
	// Company information
	CompanyName          string `json:"companyName"`
	Industry             string `json:"industry,omitempty"`
	CompanyType          string `json:"companyType,omitempty"`
	FoundingYear         int    `json:"foundingYear,omitempty"`
	HeadquartersLocation string `json:"headquartersLocation,omitempty"`

	// Jurisdiction & entry
	PrimaryJurisdiction string   `json:"primaryJurisdiction,omitempty"`
	TargetMarkets       []string `json:"targetMarkets,omitempty"`
	EntryGoals          []string `json:"entryGoals,omitempty"`
	SelectedLegalTopics []string `json:"selectedLegalTopics,omitempty"`

	// Financial
	CurrentRevenue   float64 `json:"currentRevenue,omitempty"`
	ProjectedRevenue float64 `json:"projectedRevenue,omitempty"`
	BudgetRange      string  `json:"budgetRange,omitempty"`
	FundingStatus    string  `json:"fundingStatus,omitempty"`

	// Operational
	EmployeeCount       int      `json:"employeeCount,omitempty"`
	PlannedEmployees    int      `json:"plannedEmployees,omitempty"`
	CurrentOperations   []string `json:"currentOperations,omitempty"`
	KeyProductsServices []string `json:"keyProductsServices,omitempty"`

	// Timeline & planning
	TimelinePreference string `json:"timelinePreference,omitempty"`
	UrgencyLevel       string `json:"urgencyLevel,omitempty"`
	PreferredStructure string `json:"preferredStructure,omitempty"`

	// Additional context
	TaxConsiderations    []string `json:"taxConsiderations,omitempty"`
	CompliancePriorities []string `json:"compliancePriorities,omitempty"`
	AdditionalContext    string   `json:"additionalContext,omitempty"`
}
