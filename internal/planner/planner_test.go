package planner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/memo-cli/internal/model"
)

func taskNames(tasks []model.Task) []string {
	names := make([]string, 0, len(tasks))
	for _, t := range tasks {
		names = append(names, t.Name)
	}
	return names
}

func TestPlan_HoldingPathIsolation(t *testing.T) {
	// Tech and speed signals set alongside holding: the holding path must
	// return early and let nothing else leak in.
	signals := Signals{HoldingIntent: true, ForcedEntityType: true, TechIntent: true, SpeedPreference: true}
	profile := model.IntakeProfile{EntryGoals: []string{"hire local employees"}}

	tasks := Plan(profile, signals)

	require.Len(t, tasks, 5)
	assert.Equal(t, []string{
		"Holding Company Executive Summary",
		"Participation Exemption Deep Dive",
		"Holding Structure (BV)",
		"Corporate Tax for Holding Companies",
		"Holding Company Compliance",
	}, taskNames(tasks))

	for _, task := range tasks {
		assert.NotContains(t, task.Name, "WBSO")
		assert.NotContains(t, task.Name, "Branch")
		assert.NotContains(t, task.Name, "30% Ruling")
	}
}

func TestPlan_ForcedBVBeatsSpeed(t *testing.T) {
	signals := Signals{ForcedEntityType: true, SpeedPreference: true}

	tasks := Plan(model.IntakeProfile{}, signals)

	require.Len(t, tasks, 4)
	assert.Equal(t, "BV Executive Summary", tasks[0].Name)
	for _, task := range tasks {
		assert.NotContains(t, task.Name, "Branch")
		assert.NotContains(t, strings.ToLower(task.SearchQuery), "branch office")
	}
}

func TestPlan_BranchPathNoNotary(t *testing.T) {
	signals := Signals{SpeedPreference: true}

	tasks := Plan(model.IntakeProfile{}, signals)

	require.Len(t, tasks, 4)
	assert.Equal(t, "Branch Registration (No Notary)", tasks[1].Name)
	assert.Contains(t, tasks[1].SearchQuery, "no notary required")

	// speed sub-path already carries its own tax task
	for _, task := range tasks {
		assert.NotEqual(t, "General Corporate Tax", task.Name)
	}
}

func TestPlan_ComparisonPathDefault(t *testing.T) {
	tasks := Plan(model.IntakeProfile{}, Signals{})

	require.Len(t, tasks, 5)
	assert.Equal(t, "Market Entry Comparison", tasks[0].Name)
	assert.Equal(t, model.SectionMarketEntryOptions, tasks[0].SectionName)
	assert.Equal(t, "General Corporate Tax", tasks[4].Name)
}

func TestPlan_TechAddOn(t *testing.T) {
	tasks := Plan(model.IntakeProfile{}, Signals{TechIntent: true})

	require.Len(t, tasks, 6)
	var found *model.Task
	for i := range tasks {
		if tasks[i].Name == "R&D Incentives (WBSO & Innovation Box)" {
			found = &tasks[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, 5, found.Priority)
	assert.Equal(t, model.SectionTaxConsiderations, found.SectionName)
}

func TestPlan_HiringAddOn(t *testing.T) {
	profile := model.IntakeProfile{EntryGoals: []string{"Hire a local sales team"}}

	tasks := Plan(profile, Signals{ForcedEntityType: true})

	require.Len(t, tasks, 5)
	last := tasks[len(tasks)-1]
	assert.Equal(t, "30% Ruling & Payroll", last.Name)
	assert.Equal(t, 6, last.Priority)
	assert.Equal(t, model.SectionLegalDeepDive, last.SectionName)
}

func TestPlan_NoHiringWithoutGoalMention(t *testing.T) {
	profile := model.IntakeProfile{EntryGoals: []string{"open a sales office"}}

	tasks := Plan(profile, Signals{})

	for _, task := range tasks {
		assert.NotEqual(t, "30% Ruling & Payroll", task.Name)
	}
}

func TestPlan_SortedByPriority(t *testing.T) {
	profile := model.IntakeProfile{EntryGoals: []string{"hire engineers"}}

	tasks := Plan(profile, Signals{TechIntent: true})

	for i := 1; i < len(tasks); i++ {
		assert.LessOrEqual(t, tasks[i-1].Priority, tasks[i].Priority)
	}
}

func TestMentionsHiring(t *testing.T) {
	assert.True(t, mentionsHiring([]string{"Hire local staff"}))
	assert.True(t, mentionsHiring([]string{"relocate employees"}))
	assert.False(t, mentionsHiring([]string{"open a warehouse"}))
	assert.False(t, mentionsHiring(nil))
}
