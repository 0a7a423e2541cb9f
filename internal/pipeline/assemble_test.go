package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/memo-cli/internal/model"
)

func TestAssembleMemo_AbsentSectionsStayNil(t *testing.T) {
	memo := AssembleMemo(map[string]map[string]any{})

	assert.Nil(t, memo.ExecutiveSummary)
	assert.Nil(t, memo.TaxConsiderations)
	assert.Nil(t, memo.MarketEntryOptions)
	assert.Nil(t, memo.Appendix)
}

func TestAssembleMemo_ExecutiveSummary(t *testing.T) {
	t.Run("canonical keys", func(t *testing.T) {
		memo := AssembleMemo(map[string]map[string]any{
			model.SectionExecutiveSummary: {
				"overview":                "Enter via a Branch Office.",
				"key_recommendations":     []any{"Register at KvK", "Open a bank account"},
				"critical_considerations": []any{"VAT registration"},
			},
		})

		require.NotNil(t, memo.ExecutiveSummary)
		assert.Equal(t, "Enter via a Branch Office.", memo.ExecutiveSummary.Overview)
		assert.Equal(t, []string{"Register at KvK", "Open a bank account"}, memo.ExecutiveSummary.KeyRecommendations)
	})

	t.Run("alias keys", func(t *testing.T) {
		memo := AssembleMemo(map[string]map[string]any{
			model.SectionExecutiveSummary: {
				"summary":         "Alias overview.",
				"recommendations": []any{"Alias rec"},
				"considerations":  []any{"Alias con"},
			},
		})

		require.NotNil(t, memo.ExecutiveSummary)
		assert.Equal(t, "Alias overview.", memo.ExecutiveSummary.Overview)
		assert.Equal(t, []string{"Alias rec"}, memo.ExecutiveSummary.KeyRecommendations)
		assert.Equal(t, []string{"Alias con"}, memo.ExecutiveSummary.CriticalConsiderations)
	})

	t.Run("wrapped in section name", func(t *testing.T) {
		memo := AssembleMemo(map[string]map[string]any{
			model.SectionExecutiveSummary: {
				"executive_summary": map[string]any{"overview": "Unwrapped."},
			},
		})

		require.NotNil(t, memo.ExecutiveSummary)
		assert.Equal(t, "Unwrapped.", memo.ExecutiveSummary.Overview)
	})

	t.Run("wrong types degrade to empty", func(t *testing.T) {
		memo := AssembleMemo(map[string]map[string]any{
			model.SectionExecutiveSummary: {
				"overview":            "ok",
				"key_recommendations": "should be a list",
			},
		})

		require.NotNil(t, memo.ExecutiveSummary)
		assert.Empty(t, memo.ExecutiveSummary.KeyRecommendations)
	})
}

func TestAssembleMemo_TaxConsiderations(t *testing.T) {
	memo := AssembleMemo(map[string]map[string]any{
		model.SectionTaxConsiderations: {
			"corporateTaxRate": "25.8% for 2025",
			"taxObligations":   []any{"CIT return", "VAT filing"},
			"strategies":       []any{"Use the Innovation Box"},
			"special_regimes":  []any{"Participation Exemption (deelnemingsvrijstelling)"},
		},
	})

	require.NotNil(t, memo.TaxConsiderations)
	assert.Equal(t, "25.8% for 2025", memo.TaxConsiderations.CorporateTaxRate)
	assert.Equal(t, []string{"CIT return", "VAT filing"}, memo.TaxConsiderations.TaxObligations)
	assert.Equal(t, []string{"Use the Innovation Box"}, memo.TaxConsiderations.TaxOptimizationStrategies)
	assert.Equal(t, []string{"Participation Exemption (deelnemingsvrijstelling)"}, memo.TaxConsiderations.SpecialRegimes)
}

func TestAssembleMemo_MarketEntryOptions(t *testing.T) {
	t.Run("flat pros and cons", func(t *testing.T) {
		memo := AssembleMemo(map[string]map[string]any{
			model.SectionMarketEntryOptions: {
				"recommended_option": "Branch Office",
				"option_comparison":  []any{map[string]any{"option": "BV"}, map[string]any{"option": "Branch"}},
				"pros_and_cons": map[string]any{
					"branch": []any{"Fast setup", "No notary"},
				},
			},
		})

		require.NotNil(t, memo.MarketEntryOptions)
		assert.Equal(t, "Branch Office", memo.MarketEntryOptions.RecommendedOption)
		assert.Len(t, memo.MarketEntryOptions.OptionComparison, 2)
		assert.Equal(t, []string{"Fast setup", "No notary"}, memo.MarketEntryOptions.ProsAndCons["branch"])
	})

	t.Run("nested pros and cons flattened with prefix", func(t *testing.T) {
		memo := AssembleMemo(map[string]map[string]any{
			model.SectionMarketEntryOptions: {
				"pros_and_cons": map[string]any{
					"bv": map[string]any{
						"pros": []any{"Limited liability"},
						"cons": []any{"Notary cost", "Slower setup"},
					},
				},
			},
		})

		require.NotNil(t, memo.MarketEntryOptions)
		assert.Equal(t,
			[]string{"Limited liability", "Cons: Notary cost", "Cons: Slower setup"},
			memo.MarketEntryOptions.ProsAndCons["bv"],
		)
	})

	t.Run("bare option list promotes first option", func(t *testing.T) {
		memo := AssembleMemo(map[string]map[string]any{
			model.SectionMarketEntryOptions: {
				"market_entry_options": []any{
					map[string]any{"option": "Branch Office", "description": "fastest"},
					map[string]any{"option": "BV"},
				},
			},
		})

		require.NotNil(t, memo.MarketEntryOptions)
		assert.Equal(t, "Branch Office", memo.MarketEntryOptions.RecommendedOption)
		assert.Len(t, memo.MarketEntryOptions.OptionComparison, 2)
	})
}

func TestAssembleMemo_ImplementationTimeline(t *testing.T) {
	memo := AssembleMemo(map[string]map[string]any{
		model.SectionImplementationTimeline: {
			"phases":   []any{map[string]any{"phase": "Phase 1", "duration": "2 weeks"}},
			"duration": "3-6 months",
			"milestones": []any{
				"KvK registration",
				"Bank account opened",
			},
		},
	})

	require.NotNil(t, memo.ImplementationTimeline)
	assert.Equal(t, "3-6 months", memo.ImplementationTimeline.EstimatedDuration)
	require.Len(t, memo.ImplementationTimeline.Phases, 1)
	assert.Equal(t, "Phase 1", memo.ImplementationTimeline.Phases[0]["phase"])
	assert.Len(t, memo.ImplementationTimeline.Milestones, 2)
}

func TestAssembleMemo_RawTextSection(t *testing.T) {
	// A raw-text fallback arrives as {"content": "..."} and lands in the
	// section's free-text field.
	memo := AssembleMemo(map[string]map[string]any{
		model.SectionBusinessStructure: {"content": "A BV is the way to go."},
	})

	require.NotNil(t, memo.BusinessStructure)
	assert.Equal(t, "A BV is the way to go.", memo.BusinessStructure.RecommendedStructure)
}

func TestAssembleMemo_Appendix(t *testing.T) {
	memo := AssembleMemo(map[string]map[string]any{
		model.SectionAppendix: {
			"references": []any{"Belastingdienst CIT guide"},
			"glossary":   map[string]any{"KvK": "Chamber of Commerce"},
		},
	})

	require.NotNil(t, memo.Appendix)
	assert.Equal(t, []string{"Belastingdienst CIT guide"}, memo.Appendix.References)
	assert.Equal(t, map[string]string{"KvK": "Chamber of Commerce"}, memo.Appendix.Glossary)
}
