// Package ingest loads source documents into the vector knowledge base:
// walk a directory, chunk each file, embed the chunks and upsert them to
// Qdrant, recording a manifest row per file.
package ingest

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/memo-cli/internal/model"
	"github.com/sells-group/memo-cli/pkg/openai"
	"github.com/sells-group/memo-cli/pkg/qdrant"
)

const (
	// maxFileConcurrency limits files processed in parallel.
	maxFileConcurrency = 4

	// embedBatchSize caps texts per embeddings request.
	embedBatchSize = 64
)

// ManifestStore records which files have been ingested.
type ManifestStore interface {
	SaveIngest(ctx context.Context, rec *model.IngestRecord) error
}

// Ingester walks a source directory and loads its documents into a Qdrant
// collection.
type Ingester struct {
	embedder   openai.Client
	store      qdrant.Client
	manifest   ManifestStore
	chunker    *Chunker
	collection string

	// limiter throttles embeddings requests across all workers.
	limiter *rate.Limiter
}

// NewIngester creates an Ingester for the given collection. manifest may be
// nil to skip manifest bookkeeping.
func NewIngester(embedder openai.Client, store qdrant.Client, manifest ManifestStore, collection string) *Ingester {
	return &Ingester{
		embedder:   embedder,
		store:      store,
		manifest:   manifest,
		chunker:    NewChunker(),
		collection: collection,
		limiter:    rate.NewLimiter(rate.Limit(5), 1),
	}
}

// Result summarizes one ingestion run.
type Result struct {
	Files        int
	Chunks       int
	SkippedFiles []string
}

// Run ingests every supported file under dir. Files that fail to load or
// embed are skipped with a warning; Run only errors when nothing at all
// could be ingested or the collection cannot be created.
func (in *Ingester) Run(ctx context.Context, dir string) (*Result, error) {
	paths, err := collectFiles(dir)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: scan source directory")
	}
	if len(paths) == 0 {
		return nil, eris.Errorf("ingest: no supported documents found in %s", dir)
	}

	if err := in.store.EnsureCollection(ctx, in.collection, openai.EmbeddingDims); err != nil {
		return nil, eris.Wrap(err, "ingest: ensure collection")
	}

	zap.L().Info("ingest: starting",
		zap.String("dir", dir),
		zap.String("collection", in.collection),
		zap.Int("files", len(paths)),
	)

	var (
		mu     sync.Mutex
		result Result
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxFileConcurrency)

	for _, path := range paths {
		g.Go(func() error {
			chunks, err := in.ingestFile(gctx, path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				zap.L().Warn("ingest: skipping file",
					zap.String("path", path),
					zap.Error(err),
				)
				result.SkippedFiles = append(result.SkippedFiles, path)
				return nil
			}
			result.Files++
			result.Chunks += chunks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "ingest: run")
	}

	if result.Files == 0 {
		return nil, eris.New("ingest: every file failed to ingest")
	}

	zap.L().Info("ingest: complete",
		zap.Int("files", result.Files),
		zap.Int("chunks", result.Chunks),
		zap.Int("skipped", len(result.SkippedFiles)),
	)
	return &result, nil
}

// ingestFile chunks, embeds and upserts one file, returning its chunk count.
func (in *Ingester) ingestFile(ctx context.Context, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, eris.Wrap(err, "ingest: read file")
	}

	text := string(raw)
	if strings.EqualFold(filepath.Ext(path), ".html") {
		text = stripHTML(text)
	}

	chunks := in.chunker.Split(text)
	if len(chunks) == 0 {
		return 0, eris.New("ingest: file produced no chunks")
	}

	source := filepath.Base(path)
	for i := 0; i < len(chunks); i += embedBatchSize {
		batch := chunks[i:min(i+embedBatchSize, len(chunks))]

		if err := in.limiter.Wait(ctx); err != nil {
			return 0, eris.Wrap(err, "ingest: rate limit wait")
		}
		vectors, err := in.embedder.Embed(ctx, batch)
		if err != nil {
			return 0, eris.Wrap(err, "ingest: embed chunks")
		}

		points := make([]qdrant.Point, 0, len(batch))
		for j, chunk := range batch {
			points = append(points, qdrant.Point{
				ID:     uuid.NewString(),
				Vector: vectors[j],
				Payload: map[string]any{
					"text":   chunk,
					"source": source,
					"path":   path,
					"chunk":  i + j,
				},
			})
		}
		if err := in.store.UpsertPoints(ctx, in.collection, points); err != nil {
			return 0, eris.Wrap(err, "ingest: upsert points")
		}
	}

	if in.manifest != nil {
		rec := &model.IngestRecord{
			ID:         uuid.NewString(),
			Path:       path,
			Collection: in.collection,
			Chunks:     len(chunks),
			IngestedAt: time.Now().UTC(),
		}
		if err := in.manifest.SaveIngest(ctx, rec); err != nil {
			zap.L().Warn("ingest: failed to record manifest row",
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}

	return len(chunks), nil
}

// collectFiles returns supported document paths under dir, sorted by walk
// order.
func collectFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".md", ".html":
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

var (
	tagRe    = regexp.MustCompile(`(?s)<script.*?</script>|<style.*?</style>|<[^>]*>`)
	spaceRe  = regexp.MustCompile(`[ \t]+`)
	blankRe  = regexp.MustCompile(`\n{3,}`)
	entities = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'", "&nbsp;", " ")
)

// stripHTML reduces an HTML document to plain text.
func stripHTML(s string) string {
	s = tagRe.ReplaceAllString(s, " ")
	s = entities.Replace(s)
	s = spaceRe.ReplaceAllString(s, " ")
	s = blankRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
