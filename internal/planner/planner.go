package planner

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/memo-cli/internal/model"
)

// Jurisdiction is hard-coded: the knowledge base covers one country.
const Jurisdiction = "Netherlands"

// Plan emits the ordered research task list for a profile. Paths are
// strictly mutually exclusive so incompatible recommendations never mix in
// one memo:
//
//	PATH 1  holding company — strict isolation, returns early, no R&D or
//	        Branch content can leak in
//	PATH 2  operating company, exactly one sub-path in fixed precedence:
//	        2A forced B.V. (name constraint wins over speed)
//	        2B speed/Branch (only when not forced to B.V.)
//	        2C default comparison
//
// Plan is total: every signal combination, including an all-blank profile,
// yields a valid plan (the blank profile falls through to 2C).
func Plan(profile model.IntakeProfile, signals Signals) []model.Task {
	zap.L().Info("planner: signals",
		zap.Bool("holding_intent", signals.HoldingIntent),
		zap.Bool("forced_entity_type", signals.ForcedEntityType),
		zap.Bool("tech_intent", signals.TechIntent),
		zap.Bool("speed_preference", signals.SpeedPreference),
	)

	if signals.HoldingIntent {
		return sortByPriority(holdingTasks())
	}

	var tasks []model.Task
	switch {
	case signals.ForcedEntityType:
		tasks = forcedBVTasks()
	case signals.SpeedPreference:
		tasks = branchTasks()
	default:
		tasks = comparisonTasks()
	}

	if signals.TechIntent {
		tasks = append(tasks, model.Task{
			Name:        "R&D Incentives (WBSO & Innovation Box)",
			SearchQuery: "Netherlands WBSO R&D tax credit requirements and Innovation Box 9% rate conditions software technology 2025",
			SectionName: model.SectionTaxConsiderations,
			Priority:    5,
		})
	}

	// 2A and 2B already carry a tax task; only the comparison path needs the
	// general one.
	if !signals.ForcedEntityType && !signals.SpeedPreference {
		tasks = append(tasks, model.Task{
			Name:        "General Corporate Tax",
			SearchQuery: "Netherlands corporate income tax rate 2025 VAT registration payroll tax obligations 2025",
			SectionName: model.SectionTaxConsiderations,
			Priority:    5,
		})
	}

	if mentionsHiring(profile.EntryGoals) {
		tasks = append(tasks, model.Task{
			Name:        "30% Ruling & Payroll",
			SearchQuery: "Netherlands 30% ruling for foreign employees payroll tax requirements employment contracts 2025",
			SectionName: model.SectionLegalDeepDive,
			Priority:    6,
		})
	}

	return sortByPriority(tasks)
}

// holdingTasks is PATH 1. Tasks are tagged for holding so the generation
// constraints suppress Innovation Box, WBSO and Branch Office content.
func holdingTasks() []model.Task {
	return []model.Task{
		{
			Name:        "Holding Company Executive Summary",
			SearchQuery: "Netherlands holding company benefits executive summary participation exemption dividend withholding 2025",
			SectionName: model.SectionExecutiveSummary,
			Priority:    1,
		},
		{
			Name:        "Participation Exemption Deep Dive",
			SearchQuery: "Netherlands participation exemption deelnemingsvrijstelling requirements 5% ownership motive test dividends capital gains 2025",
			SectionName: model.SectionTaxConsiderations,
			Priority:    2,
		},
		{
			Name:        "Holding Structure (BV)",
			SearchQuery: "Netherlands BV incorporation requirements for holding company notary deed timeline 2025",
			SectionName: model.SectionBusinessStructure,
			Priority:    3,
		},
		{
			Name:        "Corporate Tax for Holding Companies",
			SearchQuery: "Netherlands corporate income tax 2025 treaty network holding company tax benefits 2025",
			SectionName: model.SectionTaxConsiderations,
			Priority:    4,
		},
		{
			Name:        "Holding Company Compliance",
			SearchQuery: "Netherlands holding company substance requirements compliance filing obligations 2025",
			SectionName: model.SectionImplementationTimeline,
			Priority:    5,
		},
	}
}

// forcedBVTasks is sub-path 2A. No urgency framing appears in these queries
// even when the user also asked for speed: the name constraint wins.
func forcedBVTasks() []model.Task {
	return []model.Task{
		{
			Name:        "BV Executive Summary",
			SearchQuery: "Netherlands BV private limited company benefits liability protection executive summary 2025",
			SectionName: model.SectionExecutiveSummary,
			Priority:    1,
		},
		{
			Name:        "BV Incorporation Process",
			SearchQuery: "Netherlands BV incorporation timeline notary requirements bank account opening KvK registration 2025",
			SectionName: model.SectionBusinessStructure,
			Priority:    2,
		},
		{
			Name:        "BV Tax and Compliance",
			SearchQuery: "Netherlands BV corporate income tax VAT registration obligations 2025",
			SectionName: model.SectionTaxConsiderations,
			Priority:    3,
		},
		{
			Name:        "BV Implementation Timeline",
			SearchQuery: "Netherlands BV setup timeline notarization KvK registration bank account duration 2025",
			SectionName: model.SectionImplementationTimeline,
			Priority:    4,
		},
	}
}

// branchTasks is sub-path 2B. The structure query says "no notary required"
// explicitly: Branch Offices have no notarial deed and the generator must
// not hallucinate one in.
func branchTasks() []model.Task {
	return []model.Task{
		{
			Name:        "Branch Office Executive Summary",
			SearchQuery: "Netherlands Branch Office market entry speed benefits vs BV quick setup 2025",
			SectionName: model.SectionExecutiveSummary,
			Priority:    1,
		},
		{
			Name:        "Branch Registration (No Notary)",
			SearchQuery: "Netherlands Branch Office registration Chamber of Commerce KvK no notary required timeline fast setup 2025",
			SectionName: model.SectionBusinessStructure,
			Priority:    2,
		},
		{
			Name:        "Branch Tax and Compliance",
			SearchQuery: "Netherlands Branch Office tax obligations VAT registration corporate income tax 2025",
			SectionName: model.SectionTaxConsiderations,
			Priority:    3,
		},
		{
			Name:        "Branch Implementation Timeline",
			SearchQuery: "Netherlands Branch Office setup timeline KvK registration no notary fast entry 2025",
			SectionName: model.SectionImplementationTimeline,
			Priority:    4,
		},
	}
}

// comparisonTasks is sub-path 2C: no commitment to either entity form.
func comparisonTasks() []model.Task {
	return []model.Task{
		{
			Name:        "Market Entry Comparison",
			SearchQuery: "Netherlands BV vs Branch Office comparison tax liability speed setup requirements 2025",
			SectionName: model.SectionMarketEntryOptions,
			Priority:    1,
		},
		{
			Name:        "Executive Summary Research",
			SearchQuery: "Netherlands market entry overview corporate tax business structure 2025",
			SectionName: model.SectionExecutiveSummary,
			Priority:    2,
		},
		{
			Name:        "Tax Overview Research",
			SearchQuery: "Netherlands corporate income tax rates VAT obligations tax overview 2025",
			SectionName: model.SectionTaxConsiderations,
			Priority:    3,
		},
		{
			Name:        "Implementation Timeline Research",
			SearchQuery: "Netherlands company registration timeline BV branch office setup duration 2025",
			SectionName: model.SectionImplementationTimeline,
			Priority:    4,
		},
	}
}

func mentionsHiring(goals []string) bool {
	joined := strings.ToLower(strings.Join(goals, " "))
	return strings.Contains(joined, "hire") || strings.Contains(joined, "employees")
}

func sortByPriority(tasks []model.Task) []model.Task {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority < tasks[j].Priority
	})
	return tasks
}
