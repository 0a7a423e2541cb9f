package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunker_Split(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, NewChunker().Split("   \n  "))
	})

	t.Run("short text is one chunk", func(t *testing.T) {
		chunks := NewChunker().Split("The Dutch CIT rate is 25.8%.")
		require.Len(t, chunks, 1)
		assert.Equal(t, "The Dutch CIT rate is 25.8%.", chunks[0])
	})

	t.Run("long text splits under size", func(t *testing.T) {
		c := &Chunker{Size: 100, Overlap: 20}
		text := strings.Repeat("word ", 200)
		chunks := c.Split(text)

		require.Greater(t, len(chunks), 1)
		for _, chunk := range chunks {
			assert.LessOrEqual(t, len(chunk), 100)
		}
	})

	t.Run("prefers paragraph boundaries", func(t *testing.T) {
		c := &Chunker{Size: 60, Overlap: 10}
		text := "First paragraph about the BV.\n\nSecond paragraph about the Branch Office and its registration."
		chunks := c.Split(text)

		require.GreaterOrEqual(t, len(chunks), 2)
		assert.Equal(t, "First paragraph about the BV.", chunks[0])
	})

	t.Run("overlap carries context forward", func(t *testing.T) {
		c := &Chunker{Size: 50, Overlap: 20}
		words := make([]string, 30)
		for i := range words {
			words[i] = "abcde"
		}
		text := strings.Join(words, " ")
		chunks := c.Split(text)

		require.Greater(t, len(chunks), 1)
		// The tail of chunk 1 reappears at the head of chunk 2.
		tail := chunks[0][len(chunks[0])-5:]
		assert.Contains(t, chunks[1], strings.TrimSpace(tail))
	})

	t.Run("no content lost between chunks", func(t *testing.T) {
		c := &Chunker{Size: 80, Overlap: 20}
		text := "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima mike november oscar papa quebec romeo sierra tango"
		chunks := c.Split(text)

		joined := strings.Join(chunks, " ")
		for _, word := range strings.Fields(text) {
			assert.Contains(t, joined, word)
		}
	})
}

func TestStripHTML(t *testing.T) {
	html := `<html><head><style>body { color: red; }</style></head>
<body><h1>KvK Registration</h1><p>Branch Offices register directly &amp; pay no notary.</p>
<script>alert("x")</script></body></html>`

	got := stripHTML(html)
	assert.Contains(t, got, "KvK Registration")
	assert.Contains(t, got, "Branch Offices register directly & pay no notary.")
	assert.NotContains(t, got, "<p>")
	assert.NotContains(t, got, "alert")
	assert.NotContains(t, got, "color: red")
}
