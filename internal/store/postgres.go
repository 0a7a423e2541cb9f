package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/memo-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store needs. pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool, used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS memo_runs (
	id                TEXT PRIMARY KEY,
	company_name      TEXT NOT NULL,
	status            TEXT NOT NULL DEFAULT 'planning',
	tasks_planned     INTEGER NOT NULL DEFAULT 0,
	sections_complete INTEGER NOT NULL DEFAULT 0,
	input_tokens      BIGINT NOT NULL DEFAULT 0,
	output_tokens     BIGINT NOT NULL DEFAULT 0,
	error             TEXT,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS ingest_manifest (
	id          TEXT PRIMARY KEY,
	path        TEXT NOT NULL,
	collection  TEXT NOT NULL,
	chunks      INTEGER NOT NULL DEFAULT 0,
	ingested_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_memo_runs_status ON memo_runs(status);
CREATE INDEX IF NOT EXISTS idx_memo_runs_company_name ON memo_runs(company_name);
CREATE INDEX IF NOT EXISTS idx_ingest_manifest_collection ON ingest_manifest(collection);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// SaveRun upserts the run row keyed by run ID.
func (s *PostgresStore) SaveRun(ctx context.Context, run *model.MemoRun) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO memo_runs (id, company_name, status, tasks_planned, sections_complete, input_tokens, output_tokens, error, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			tasks_planned = EXCLUDED.tasks_planned,
			sections_complete = EXCLUDED.sections_complete,
			input_tokens = EXCLUDED.input_tokens,
			output_tokens = EXCLUDED.output_tokens,
			error = EXCLUDED.error,
			updated_at = EXCLUDED.updated_at`,
		run.ID, run.CompanyName, string(run.Status), run.TasksPlanned, run.SectionsComplete,
		run.InputTokens, run.OutputTokens, nullString(run.Error), run.CreatedAt, run.UpdatedAt,
	)
	return eris.Wrapf(err, "postgres: save run %s", run.ID)
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.MemoRun, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, company_name, status, tasks_planned, sections_complete, input_tokens, output_tokens, error, created_at, updated_at
		 FROM memo_runs WHERE id = $1`,
		runID,
	)

	run, err := scanPgRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("postgres: run %s not found", runID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.MemoRun, error) {
	query := `SELECT id, company_name, status, tasks_planned, sections_complete, input_tokens, output_tokens, error, created_at, updated_at
		 FROM memo_runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.CompanyName != "" {
		args = append(args, filter.CompanyName)
		query += ` AND company_name = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.MemoRun
	for rows.Next() {
		r, err := scanPgRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) SaveIngest(ctx context.Context, rec *model.IngestRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ingest_manifest (id, path, collection, chunks, ingested_at) VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.Path, rec.Collection, rec.Chunks, rec.IngestedAt,
	)
	return eris.Wrapf(err, "postgres: save ingest record %s", rec.Path)
}

func (s *PostgresStore) ListIngests(ctx context.Context, collection string) ([]model.IngestRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, path, collection, chunks, ingested_at FROM ingest_manifest WHERE collection = $1 ORDER BY ingested_at DESC`,
		collection,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list ingests")
	}
	defer rows.Close()

	var recs []model.IngestRecord
	for rows.Next() {
		var rec model.IngestRecord
		if err := rows.Scan(&rec.ID, &rec.Path, &rec.Collection, &rec.Chunks, &rec.IngestedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan ingest record")
		}
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "postgres: list ingests iterate")
}

func scanPgRun(row pgx.Row) (*model.MemoRun, error) {
	var (
		run     model.MemoRun
		status  string
		errText *string
	)
	err := row.Scan(&run.ID, &run.CompanyName, &status, &run.TasksPlanned, &run.SectionsComplete,
		&run.InputTokens, &run.OutputTokens, &errText, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)
	if errText != nil {
		run.Error = *errText
	}
	return &run, nil
}

var _ Store = (*PostgresStore)(nil)
