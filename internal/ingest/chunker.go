package ingest

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// defaultChunkSize targets roughly embedding-sized chunks.
	defaultChunkSize = 1000
	// defaultChunkOverlap carries trailing context into the next chunk.
	defaultChunkOverlap = 200
)

// Chunker splits document text into overlapping chunks, preferring to break
// on paragraph, then line, then word boundaries.
type Chunker struct {
	Size    int
	Overlap int
}

// NewChunker returns a Chunker with the default size and overlap.
func NewChunker() *Chunker {
	return &Chunker{Size: defaultChunkSize, Overlap: defaultChunkOverlap}
}

// Split breaks text into chunks. Text is NFC-normalized first so byte
// offsets are stable across sources with different unicode forms.
func (c *Chunker) Split(text string) []string {
	text = norm.NFC.String(strings.TrimSpace(text))
	if text == "" {
		return nil
	}
	if len(text) <= c.Size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + c.Size
		if end >= len(text) {
			chunk := strings.TrimSpace(text[start:])
			if chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		end = breakPoint(text, start, end)
		chunk := strings.TrimSpace(text[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := end - c.Overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// breakPoint finds the best split position at or before end: paragraph
// break, then newline, then space. Falls back to a hard cut.
func breakPoint(text string, start, end int) int {
	window := text[start:end]

	if idx := strings.LastIndex(window, "\n\n"); idx > 0 {
		return start + idx
	}
	if idx := strings.LastIndex(window, "\n"); idx > 0 {
		return start + idx
	}
	if idx := strings.LastIndex(window, " "); idx > 0 {
		return start + idx
	}
	return end
}
