// Package store persists memo run metadata and the ingest manifest. Memo
// bodies are never stored; a run row is operational bookkeeping only.
package store

import (
	"context"

	"github.com/sells-group/memo-cli/internal/model"
)

// RunFilter specifies criteria for listing memo runs.
type RunFilter struct {
	Status      model.RunStatus `json:"status,omitempty"`
	CompanyName string          `json:"company_name,omitempty"`
	Limit       int             `json:"limit,omitempty"`
	Offset      int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the memo pipeline.
type Store interface {
	// Runs
	SaveRun(ctx context.Context, run *model.MemoRun) error
	GetRun(ctx context.Context, runID string) (*model.MemoRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.MemoRun, error)

	// Ingest manifest
	SaveIngest(ctx context.Context, rec *model.IngestRecord) error
	ListIngests(ctx context.Context, collection string) ([]model.IngestRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
