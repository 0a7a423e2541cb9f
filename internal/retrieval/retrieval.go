// Package retrieval provides semantic lookup over the ingested knowledge
// base. The pipeline treats it as a black box: text query in, ranked
// source-attributed snippets out.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/memo-cli/pkg/openai"
	"github.com/sells-group/memo-cli/pkg/qdrant"
)

// NoContextMarker is injected into prompts when retrieval yields nothing,
// so the model states data gaps instead of hallucinating.
const NoContextMarker = "No relevant context found in knowledge base."

// Snippet is one ranked retrieval hit.
type Snippet struct {
	Score  float64
	Text   string
	Source string
}

// Searcher performs semantic lookup. An empty result set is not an error.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Snippet, error)
}

// VectorSearcher implements Searcher by embedding the query and searching a
// Qdrant collection. Safe for concurrent use.
type VectorSearcher struct {
	embedder   openai.Client
	store      qdrant.Client
	collection string
}

// NewVectorSearcher creates a Searcher over the given collection.
func NewVectorSearcher(embedder openai.Client, store qdrant.Client, collection string) *VectorSearcher {
	return &VectorSearcher{
		embedder:   embedder,
		store:      store,
		collection: collection,
	}
}

// Search embeds the query and returns the top hits with source attribution.
func (s *VectorSearcher) Search(ctx context.Context, query string, limit int) ([]Snippet, error) {
	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, eris.Wrap(err, "retrieval: embed query")
	}
	if len(vectors) == 0 {
		return nil, eris.New("retrieval: embedder returned no vector")
	}

	points, err := s.store.Search(ctx, s.collection, vectors[0], limit)
	if err != nil {
		return nil, eris.Wrap(err, "retrieval: vector search")
	}

	snippets := make([]Snippet, 0, len(points))
	for _, p := range points {
		snippets = append(snippets, Snippet{
			Score:  p.Score,
			Text:   payloadString(p.Payload, "text"),
			Source: sourceLabel(p.Payload),
		})
	}
	return snippets, nil
}

// SearchSoft is Search with fail-soft semantics: a retrieval error degrades
// to zero results so section generation proceeds with the no-context marker.
func SearchSoft(ctx context.Context, s Searcher, query string, limit int) []Snippet {
	snippets, err := s.Search(ctx, query, limit)
	if err != nil {
		zap.L().Warn("retrieval: search failed, continuing without context",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}
	return snippets
}

// FormatContext renders snippets into a numbered context block with source
// attribution, or the no-context marker when there are none.
func FormatContext(snippets []Snippet) string {
	if len(snippets) == 0 {
		return NoContextMarker
	}

	parts := make([]string, 0, len(snippets))
	for i, sn := range snippets {
		parts = append(parts, fmt.Sprintf("Context %d (Source: %s):\n%s", i+1, sn.Source, sn.Text))
	}
	return strings.Join(parts, "\n---\n")
}

func payloadString(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func sourceLabel(payload map[string]any) string {
	if v := payloadString(payload, "source"); v != "" {
		return v
	}
	return "Unknown"
}
