package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/memo-cli/internal/model"
	"github.com/sells-group/memo-cli/internal/pipeline"
	"github.com/sells-group/memo-cli/internal/retrieval"
	"github.com/sells-group/memo-cli/internal/store"
	"github.com/sells-group/memo-cli/pkg/anthropic"
)

type cannedLLM struct {
	text string
}

func (c *cannedLLM) CreateMessage(_ context.Context, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: c.text}},
		Usage:   anthropic.TokenUsage{InputTokens: 10, OutputTokens: 5},
	}, nil
}

type emptySearcher struct{}

func (emptySearcher) Search(_ context.Context, _ string, _ int) ([]retrieval.Snippet, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) (http.Handler, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })

	llm := &cannedLLM{text: `{"overview": "Use a Branch Office.", "key_recommendations": ["Register at KvK"]}`}
	generator := pipeline.NewGenerator(llm, emptySearcher{}, "claude-sonnet-4-5-20250929")
	engine := pipeline.NewEngine(generator, st)

	return newRouter(engine, st), st
}

func TestRouter_Root(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "operational", body["status"])
}

func TestRouter_Health(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestRouter_GenerateMemo(t *testing.T) {
	r, st := newTestRouter(t)

	payload := `{"companyName": "Acme Corp", "industry": "Manufacturing", "timelinePreference": "urgent"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate-memo", strings.NewReader(payload)))

	require.Equal(t, http.StatusOK, rec.Code)

	var memo model.Memo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &memo))
	require.NotNil(t, memo.ExecutiveSummary)
	assert.Equal(t, "Use a Branch Office.", memo.ExecutiveSummary.Overview)
	assert.Equal(t, []string{"Register at KvK"}, memo.ExecutiveSummary.KeyRecommendations)
	// Sections the speed path never schedules stay absent.
	assert.Nil(t, memo.MarketEntryOptions)
	assert.NotContains(t, rec.Body.String(), "marketEntryOptions")

	// The run was recorded.
	runs, err := st.ListRuns(context.Background(), store.RunFilter{CompanyName: "Acme Corp"})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusComplete, runs[0].Status)
}

func TestRouter_GenerateMemoValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	t.Run("invalid body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate-memo", bytes.NewReader([]byte("{not json"))))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing company name", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate-memo", strings.NewReader(`{"industry":"Tech"}`)))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "companyName is required")
	})
}

func TestRouter_ListRuns(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	payload := `{"companyName": "Globex B.V."}`
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/generate-memo", strings.NewReader(payload)))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs?status=complete", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var runs []model.MemoRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "Globex B.V.", runs[0].CompanyName)
}
