package pipeline

import "strings"

// buildTaskConstraints emits task-scoped guardrails so the model recommends
// what the research task calls for instead of drifting toward user
// preferences. The task name and search query select which rules fire.
func buildTaskConstraints(taskName, searchQuery string) string {
	if taskName == "" {
		return ""
	}

	task := strings.ToLower(taskName)
	query := strings.ToLower(searchQuery)

	var lines []string
	add := func(s ...string) { lines = append(lines, s...) }

	add("CRITICAL RULE: STICK TO THE TASK")
	add(`Your current task is: "` + taskName + `"`)
	add("")

	if strings.Contains(task, "bv") || strings.Contains(query, "bv") || strings.Contains(query, "b.v") {
		add("1. This task is about researching BV (Besloten Vennootschap) structure.")
		add("   - You MUST recommend a BV structure.")
		add("   - Do NOT recommend a Branch Office, even if the user mentions urgency or speed.")
		add("   - If user context mentions 'urgent' or 'short-term', explain how to set up a BV quickly, but still recommend BV.")
		add("")
	}

	if strings.Contains(task, "branch") || strings.Contains(query, "branch") {
		add("2. This task is about researching Branch Office structure.")
		add("   - You MUST recommend a Branch Office structure.")
		add("   - Do NOT mention notary requirements (Branch Offices don't need notaries).")
		add("   - Focus on speed and simplicity of Branch Office setup.")
		add("")
	}

	if strings.Contains(task, "holding") || strings.Contains(query, "holding") {
		add("3. This task is about Holding Company structures.")
		add("   - You MUST recommend a BV structure (required for participation exemption).")
		add("   - Do NOT recommend a Branch Office for holding companies.")
		add("   - Focus on Participation Exemption benefits.")
		add("   - Do NOT include Innovation Box or WBSO (these are for R&D companies, not financial holdings).")
		add("")
	}

	if strings.Contains(task, "wbso") || strings.Contains(task, "innovation box") || strings.Contains(task, "r&d") {
		add("4. This task is about R&D tax incentives (WBSO/Innovation Box).")
		add("   - Only include these if the company is in Software & Technology or R&D industries.")
		add("   - Do NOT include these for Financial Services or Holding companies.")
		add("")
	}

	if strings.Contains(task, "participation exemption") || strings.Contains(query, "deelnemingsvrijstelling") {
		add("5. This task is about Participation Exemption.")
		add("   - This applies ONLY to Holding Companies.")
		add("   - Do NOT include this for regular operating companies.")
		add("")
	}

	add("GENERAL RULE: The Task is the Source of Truth")
	add("   - The task name and search query define what you MUST research and recommend.")
	add("   - User context (like 'urgent timeline' or 'speed preference') is ONLY for personalization, NOT for changing the structure.")
	add("   - If the task says 'Research BV' but user context says 'urgent timeline',")
	add("     you MUST still recommend BV (you can mention 'fast-track BV setup' but recommend BV, not Branch).")
	add("   - If the task says 'Research Branch Office' but user context mentions 'BV',")
	add("     you MUST still recommend Branch Office (the task defines the structure, not user preferences).")
	add("   - Use ONLY the provided Context Documents. Do not use outside knowledge to override the task.")
	add("")
	add("REMEMBER: Do not think. Just write what the task requires based on the context provided.")
	add("")

	return strings.Join(lines, "\n")
}
