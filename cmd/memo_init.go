package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/memo-cli/internal/pipeline"
	"github.com/sells-group/memo-cli/internal/retrieval"
	"github.com/sells-group/memo-cli/internal/store"
	anthropicpkg "github.com/sells-group/memo-cli/pkg/anthropic"
	openaipkg "github.com/sells-group/memo-cli/pkg/openai"
	qdrantpkg "github.com/sells-group/memo-cli/pkg/qdrant"
)

// memoEnv holds the initialized clients and engine shared by the
// generate/serve/ingest commands.
type memoEnv struct {
	Store    store.Store
	Engine   *pipeline.Engine
	Embedder openaipkg.Client
	Qdrant   qdrantpkg.Client
}

// Close releases resources held by the environment.
func (me *memoEnv) Close() {
	if me.Store != nil {
		_ = me.Store.Close()
	}
}

// initStore opens the configured database backend and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	case "sqlite", "":
		st, err = store.NewSQLite(cfg.Store.SQLitePath)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initMemoEnv sets up the store, API clients and the memo engine. Callers
// should defer env.Close().
func initMemoEnv(ctx context.Context) (*memoEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
	embedder := openaipkg.NewClient(cfg.OpenAI.Key,
		openaipkg.WithBaseURL(cfg.OpenAI.BaseURL),
		openaipkg.WithModel(cfg.OpenAI.Model),
	)

	var qdrantOpts []qdrantpkg.Option
	if cfg.Qdrant.URL != "" {
		qdrantOpts = append(qdrantOpts, qdrantpkg.WithBaseURL(cfg.Qdrant.URL))
	}
	if cfg.Qdrant.Key != "" {
		qdrantOpts = append(qdrantOpts, qdrantpkg.WithAPIKey(cfg.Qdrant.Key))
	}
	qdrantClient := qdrantpkg.NewClient(qdrantOpts...)

	searcher := retrieval.NewVectorSearcher(embedder, qdrantClient, cfg.Qdrant.Collection)
	generator := pipeline.NewGenerator(anthropicClient, searcher, cfg.Anthropic.SonnetModel)
	engine := pipeline.NewEngine(generator, st)

	return &memoEnv{
		Store:    st,
		Engine:   engine,
		Embedder: embedder,
		Qdrant:   qdrantClient,
	}, nil
}
