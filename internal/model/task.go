package model

import "time"

// Task is one planned unit of research: a search query bound to a target
// memo section. Created by the planner, consumed once by the section
// generator, then discarded. Lower priority sorts first.
type Task struct {
	Name        string `json:"name"`
	SearchQuery string `json:"search_query"`
	SectionName string `json:"section_name"`
	Priority    int    `json:"priority"`
}

// SectionKind tags the three possible outcomes of one section generation.
type SectionKind string

const (
	SectionStructured SectionKind = "structured" // valid JSON object from the model
	SectionRawText    SectionKind = "raw_text"   // parse failed; cleaned text kept
	SectionFailed     SectionKind = "failed"     // collaborator error; section omitted
)

// SectionResult is the shape-unverified outcome of one generation call.
// Fields is set for structured results, Text for raw-text fallbacks and Err
// for failures; callers must switch on Kind rather than assume a shape.
type SectionResult struct {
	Kind   SectionKind
	Fields map[string]any
	Text   string
	Err    error
}

// Payload returns the section content as a generic map. Raw-text fallbacks
// are wrapped as {"content": text} so downstream assembly sees one shape.
// Returns nil for failed results.
func (r SectionResult) Payload() map[string]any {
	switch r.Kind {
	case SectionStructured:
		return r.Fields
	case SectionRawText:
		return map[string]any{"content": r.Text}
	default:
		return nil
	}
}

// RunStatus represents the state of a memo generation run.
type RunStatus string

const (
	RunStatusPlanning   RunStatus = "planning"
	RunStatusGenerating RunStatus = "generating"
	RunStatusAssembling RunStatus = "assembling"
	RunStatusComplete   RunStatus = "complete"
	RunStatusFailed     RunStatus = "failed"
)

// MemoRun is the operational record of one memo generation. It holds
// metadata only; the memo body itself is never persisted.
type MemoRun struct {
	ID               string    `json:"id"`
	CompanyName      string    `json:"company_name"`
	Status           RunStatus `json:"status"`
	TasksPlanned     int       `json:"tasks_planned"`
	SectionsComplete int       `json:"sections_complete"`
	InputTokens      int64     `json:"input_tokens"`
	OutputTokens     int64     `json:"output_tokens"`
	Error            string    `json:"error,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IngestRecord tracks one knowledge-base source file that has been chunked
// and embedded into the vector collection.
type IngestRecord struct {
	ID         string    `json:"id"`
	Path       string    `json:"path"`
	Collection string    `json:"collection"`
	Chunks     int       `json:"chunks"`
	IngestedAt time.Time `json:"ingested_at"`
}
