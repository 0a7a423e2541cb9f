package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/memo-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS memo_runs (
	id                TEXT PRIMARY KEY,
	company_name      TEXT NOT NULL,
	status            TEXT NOT NULL DEFAULT 'planning',
	tasks_planned     INTEGER NOT NULL DEFAULT 0,
	sections_complete INTEGER NOT NULL DEFAULT 0,
	input_tokens      INTEGER NOT NULL DEFAULT 0,
	output_tokens     INTEGER NOT NULL DEFAULT 0,
	error             TEXT,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS ingest_manifest (
	id          TEXT PRIMARY KEY,
	path        TEXT NOT NULL,
	collection  TEXT NOT NULL,
	chunks      INTEGER NOT NULL DEFAULT 0,
	ingested_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_memo_runs_status ON memo_runs(status);
CREATE INDEX IF NOT EXISTS idx_memo_runs_company_name ON memo_runs(company_name);
CREATE INDEX IF NOT EXISTS idx_ingest_manifest_collection ON ingest_manifest(collection);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun upserts the run row keyed by run ID.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *model.MemoRun) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memo_runs (id, company_name, status, tasks_planned, sections_complete, input_tokens, output_tokens, error, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			tasks_planned = excluded.tasks_planned,
			sections_complete = excluded.sections_complete,
			input_tokens = excluded.input_tokens,
			output_tokens = excluded.output_tokens,
			error = excluded.error,
			updated_at = excluded.updated_at`,
		run.ID, run.CompanyName, string(run.Status), run.TasksPlanned, run.SectionsComplete,
		run.InputTokens, run.OutputTokens, nullString(run.Error), run.CreatedAt, run.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: save run %s", run.ID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.MemoRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, company_name, status, tasks_planned, sections_complete, input_tokens, output_tokens, error, created_at, updated_at
		 FROM memo_runs WHERE id = ?`,
		runID,
	)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Errorf("sqlite: run %s not found", runID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.MemoRun, error) {
	query := `SELECT id, company_name, status, tasks_planned, sections_complete, input_tokens, output_tokens, error, created_at, updated_at
		 FROM memo_runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.CompanyName != "" {
		query += ` AND company_name = ?`
		args = append(args, filter.CompanyName)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.MemoRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) SaveIngest(ctx context.Context, rec *model.IngestRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ingest_manifest (id, path, collection, chunks, ingested_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Path, rec.Collection, rec.Chunks, rec.IngestedAt,
	)
	return eris.Wrapf(err, "sqlite: save ingest record %s", rec.Path)
}

func (s *SQLiteStore) ListIngests(ctx context.Context, collection string) ([]model.IngestRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, collection, chunks, ingested_at FROM ingest_manifest WHERE collection = ? ORDER BY ingested_at DESC`,
		collection,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list ingests")
	}
	defer rows.Close()

	var recs []model.IngestRecord
	for rows.Next() {
		var rec model.IngestRecord
		if err := rows.Scan(&rec.ID, &rec.Path, &rec.Collection, &rec.Chunks, &rec.IngestedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan ingest record")
		}
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "sqlite: list ingests iterate")
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*model.MemoRun, error) {
	var (
		run     model.MemoRun
		status  string
		errText sql.NullString
	)
	err := row.Scan(&run.ID, &run.CompanyName, &status, &run.TasksPlanned, &run.SectionsComplete,
		&run.InputTokens, &run.OutputTokens, &errText, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)
	run.Error = errText.String
	return &run, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Store = (*SQLiteStore)(nil)
