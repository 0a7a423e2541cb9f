package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/memo-cli/internal/model"
	"github.com/sells-group/memo-cli/pkg/qdrant"
)

type fakeEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.calls++
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.1, 0.2, 0.3}
	}
	return vectors, nil
}

type fakeQdrant struct {
	mu        sync.Mutex
	ensured   []string
	points    []qdrant.Point
	upsertErr error
	ensureErr error
}

func (f *fakeQdrant) EnsureCollection(_ context.Context, name string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ensureErr != nil {
		return f.ensureErr
	}
	f.ensured = append(f.ensured, name)
	return nil
}

func (f *fakeQdrant) UpsertPoints(_ context.Context, _ string, points []qdrant.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.points = append(f.points, points...)
	return nil
}

func (f *fakeQdrant) Search(_ context.Context, _ string, _ []float32, _ int) ([]qdrant.ScoredPoint, error) {
	return nil, nil
}

type fakeManifest struct {
	mu   sync.Mutex
	recs []model.IngestRecord
}

func (f *fakeManifest) SaveIngest(_ context.Context, rec *model.IngestRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, *rec)
	return nil
}

func writeSourceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cit_rates.txt"),
		[]byte("The Dutch corporate income tax rate is 25.8% for profits above EUR 200,000."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "branch.html"),
		[]byte("<html><body><p>Branch Offices register at the KvK without a notary.</p></body></html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.pdf"),
		[]byte("%PDF-1.4 binary"), 0o644))
	return dir
}

func TestIngester_Run(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeQdrant{}
	manifest := &fakeManifest{}
	in := NewIngester(embedder, store, manifest, "netherlands_pilot")

	result, err := in.Run(context.Background(), writeSourceDir(t))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Files)
	assert.Equal(t, 2, result.Chunks)
	assert.Empty(t, result.SkippedFiles)
	assert.Equal(t, []string{"netherlands_pilot"}, store.ensured)

	require.Len(t, store.points, 2)
	for _, p := range store.points {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Payload["text"])
		assert.NotEmpty(t, p.Payload["source"])
	}

	// HTML was stripped before chunking.
	var texts []string
	for _, p := range store.points {
		texts = append(texts, p.Payload["text"].(string))
	}
	joined := strings.Join(texts, "\n")
	assert.Contains(t, joined, "Branch Offices register at the KvK without a notary.")
	assert.NotContains(t, joined, "<p>")

	require.Len(t, manifest.recs, 2)
	assert.Equal(t, "netherlands_pilot", manifest.recs[0].Collection)
}

func TestIngester_RunEmptyDir(t *testing.T) {
	in := NewIngester(&fakeEmbedder{}, &fakeQdrant{}, nil, "docs")

	_, err := in.Run(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no supported documents")
}

func TestIngester_RunEnsureCollectionError(t *testing.T) {
	store := &fakeQdrant{ensureErr: eris.New("qdrant unreachable")}
	in := NewIngester(&fakeEmbedder{}, store, nil, "docs")

	_, err := in.Run(context.Background(), writeSourceDir(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ensure collection")
}

func TestIngester_RunAllFilesFail(t *testing.T) {
	embedder := &fakeEmbedder{err: eris.New("quota exhausted")}
	in := NewIngester(embedder, &fakeQdrant{}, nil, "docs")

	_, err := in.Run(context.Background(), writeSourceDir(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "every file failed")
}

func TestIngester_RunSkipsFailingFile(t *testing.T) {
	dir := writeSourceDir(t)
	// A dangling symlink fails to read and gets skipped, the rest still ingests.
	bad := filepath.Join(dir, "dangling.txt")
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing.txt"), bad))

	in := NewIngester(&fakeEmbedder{}, &fakeQdrant{}, nil, "docs")
	result, err := in.Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Files)
	require.Len(t, result.SkippedFiles, 1)
	assert.Equal(t, bad, result.SkippedFiles[0])
}
