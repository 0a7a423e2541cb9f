package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sells-group/memo-cli/internal/model"
	"github.com/sells-group/memo-cli/internal/retrieval"
)

// masterSystemPrompt sets the advisor persona for every section. The data
// rules keep the model honest about gaps in the retrieved context.
const masterSystemPrompt = `You are an experienced, direct, entrepreneurial mentor, NOT a cautious government bureaucrat.
Your goal is to provide actionable "Street Rules" advice for entering the Netherlands.

TONE RULES:
- Be empowering and direct ("Here is what you can do...", not "It is generally recommended that...").
- Prioritize practical reality over theoretical compliance. If a rule is often ignored by small startups, subtly indicate that.
- Challenge dogma: If the user wants a complex Dutch BV but a simple Branch Office is better for them, argue for the Branch.

DATA RULES:
- You MUST use the provided CONTEXT to answer.
- If the context is missing specific rates (e.g., 2025 CIT rate), state "Data for 2025 currently unavailable" DO NOT HALLUCINATE.
- Always cite what you know from context vs. what you're inferring.
- Be honest about data gaps rather than making up numbers.

STYLE RULES:
- Write in clear, actionable language.
- Use bullet points for lists.
- Structure information hierarchically (most important first).
- Avoid legal jargon unless necessary, and always explain it.`

// schemaExamples shows the model the exact shape expected per section.
// Sections without an entry get an empty object and the model free-forms
// within the key-name instructions.
var schemaExamples = map[string]map[string]any{
	model.SectionExecutiveSummary: {
		"overview":                "Brief overview text",
		"key_recommendations":     []string{"Recommendation 1", "Recommendation 2"},
		"critical_considerations": []string{"Consideration 1", "Consideration 2"},
	},
	model.SectionTaxConsiderations: {
		"corporate_tax_rate":          "25.8% for 2025",
		"tax_obligations":             []string{"Obligation 1", "Obligation 2"},
		"tax_optimization_strategies": []string{"Strategy 1", "Strategy 2"},
		"special_regimes":             []string{"Participation Exemption (deelnemingsvrijstelling)", "Innovation Box", "WBSO R&D tax credit"},
	},
	model.SectionMarketEntryOptions: {
		"recommended_option": "Recommended option description",
		"option_comparison":  []map[string]any{{"option": "Option 1", "description": "..."}},
		"pros_and_cons":      map[string][]string{"option1": {"Advantage 1", "Advantage 2"}, "option2": {"Advantage 1", "Advantage 2"}},
	},
	model.SectionImplementationTimeline: {
		"phases":             []map[string]any{{"phase": "Phase 1", "duration": "..."}},
		"estimated_duration": "3-6 months",
		"milestones":         []string{"Milestone 1", "Milestone 2"},
	},
}

func schemaJSON(sectionName string) string {
	example, ok := schemaExamples[sectionName]
	if !ok {
		return "{}"
	}
	b, err := json.MarshalIndent(example, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// userContextBlock renders the intake fields the model may use for
// personalization. Constraints forbid it from letting these override the task.
func userContextBlock(profile *model.IntakeProfile) string {
	if profile == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nUSER CONTEXT:\n")
	fmt.Fprintf(&b, "Company: %s\n", orNA(profile.CompanyName))
	fmt.Fprintf(&b, "Industry: %s\n", orNA(profile.Industry))
	fmt.Fprintf(&b, "Entry Goals: %s\n", strings.Join(profile.EntryGoals, ", "))
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// buildSectionPrompt assembles the full system prompt for one research task.
func buildSectionPrompt(task model.Task, snippets []retrieval.Snippet, profile *model.IntakeProfile) string {
	fullContext := retrieval.FormatContext(snippets) + userContextBlock(profile)
	constraints := buildTaskConstraints(task.Name, task.SearchQuery)

	return fmt.Sprintf(`%s

TASK: Generate the "%s" section of a Market Entry Memo for the Netherlands.

%s

CONTEXT FROM KNOWLEDGE BASE:
%s

EXPECTED JSON STRUCTURE:
%s

INSTRUCTIONS:
1. Extract relevant information from the context above.
2. Write the %s section in a direct, actionable style.
3. If information is missing, state that clearly rather than guessing.
4. Return ONLY valid JSON matching the structure above. Use the exact key names shown.
5. Do NOT wrap the JSON in the section name. Return the object directly.
6. Do NOT include any explanatory text before or after the JSON.
7. Be practical and focus on what the company can actually do.
8. IMPORTANT for tax_considerations: If the context mentions participation exemption, holding companies, or deelnemingsvrijstelling, you MUST include "Participation Exemption (deelnemingsvrijstelling)" in the special_regimes array.
9. IMPORTANT for tax_considerations: Include ALL relevant special tax regimes mentioned in the context (WBSO, Innovation Box, Participation Exemption, etc.).

Return your response as pure JSON only.`,
		masterSystemPrompt,
		task.SectionName,
		constraints,
		fullContext,
		schemaJSON(task.SectionName),
		task.SectionName,
	)
}
