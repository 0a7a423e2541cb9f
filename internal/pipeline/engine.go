package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/memo-cli/internal/model"
	"github.com/sells-group/memo-cli/internal/planner"
)

// RunStore records memo run metadata. Store failures are logged and ignored:
// bookkeeping must never sink a memo.
type RunStore interface {
	SaveRun(ctx context.Context, run *model.MemoRun) error
}

// Engine ties planning, generation and assembly into one memo run.
type Engine struct {
	generator *Generator
	runs      RunStore
	llmModel  string
}

// NewEngine creates an Engine. runs may be nil to skip run bookkeeping.
func NewEngine(generator *Generator, runs RunStore) *Engine {
	return &Engine{
		generator: generator,
		runs:      runs,
		llmModel:  generator.model,
	}
}

// Run generates a complete memo for the given intake profile. Individual
// section failures degrade to nil sections; Run itself only errors when the
// context is cancelled.
func (e *Engine) Run(ctx context.Context, profile model.IntakeProfile) (*model.Memo, *model.MemoRun, error) {
	run := &model.MemoRun{
		ID:          uuid.NewString(),
		CompanyName: profile.CompanyName,
		Status:      model.RunStatusPlanning,
		CreatedAt:   time.Now().UTC(),
	}
	e.saveRun(ctx, run)

	signals := planner.Classify(profile)
	tasks := planner.Plan(profile, signals)

	zap.L().Info("engine: planned research tasks",
		zap.String("run_id", run.ID),
		zap.String("company", profile.CompanyName),
		zap.Int("tasks", len(tasks)),
	)

	run.Status = model.RunStatusGenerating
	run.TasksPlanned = len(tasks)
	e.saveRun(ctx, run)

	sections := e.generator.GenerateAll(ctx, tasks, &profile)
	if err := ctx.Err(); err != nil {
		run.Status = model.RunStatusFailed
		run.Error = err.Error()
		e.saveRun(ctx, run)
		return nil, run, err
	}

	run.Status = model.RunStatusAssembling
	run.SectionsComplete = len(sections)
	e.saveRun(ctx, run)

	memo := AssembleMemo(sections)

	usage := e.generator.Usage()
	run.Status = model.RunStatusComplete
	run.InputTokens = usage.InputTokens
	run.OutputTokens = usage.OutputTokens
	run.UpdatedAt = time.Now().UTC()
	e.saveRun(ctx, run)

	usage.LogCost(e.llmModel, "memo generation")
	zap.L().Info("engine: memo complete",
		zap.String("run_id", run.ID),
		zap.Int("sections", len(sections)),
	)

	return memo, run, nil
}

func (e *Engine) saveRun(ctx context.Context, run *model.MemoRun) {
	if e.runs == nil {
		return
	}
	run.UpdatedAt = time.Now().UTC()
	if err := e.runs.SaveRun(ctx, run); err != nil {
		zap.L().Warn("engine: failed to save run record",
			zap.String("run_id", run.ID),
			zap.Error(err),
		)
	}
}
