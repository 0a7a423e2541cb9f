// Package pipeline runs the memo pipeline: plan research tasks, generate
// each section with retrieval-augmented prompts, and assemble the final
// memo. Sections that fail keep the rest of the memo moving.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/memo-cli/internal/model"
	"github.com/sells-group/memo-cli/internal/retrieval"
	"github.com/sells-group/memo-cli/pkg/anthropic"
)

const (
	// searchLimit caps how many knowledge-base snippets feed one section.
	searchLimit = 5

	generateMaxTokens   = 2000
	generateTemperature = 0.7
)

// Generator produces memo sections from planned research tasks.
type Generator struct {
	llm      anthropic.Client
	searcher retrieval.Searcher
	model    string

	usage anthropic.TokenUsage
}

// NewGenerator creates a Generator using the given LLM model name.
func NewGenerator(llm anthropic.Client, searcher retrieval.Searcher, llmModel string) *Generator {
	return &Generator{
		llm:      llm,
		searcher: searcher,
		model:    llmModel,
	}
}

// Usage returns cumulative token usage across all generated sections.
func (g *Generator) Usage() anthropic.TokenUsage {
	return g.usage
}

// GenerateSection runs one research task through retrieval and the LLM and
// returns the result. It never returns an error: failures come back as a
// SectionResult with Kind SectionFailed so callers can keep going.
func (g *Generator) GenerateSection(ctx context.Context, task model.Task, profile *model.IntakeProfile) model.SectionResult {
	snippets := retrieval.SearchSoft(ctx, g.searcher, task.SearchQuery, searchLimit)
	zap.L().Debug("pipeline: retrieved context",
		zap.String("task", task.Name),
		zap.Int("snippets", len(snippets)),
	)

	prompt := buildSectionPrompt(task, snippets, profile)
	temp := generateTemperature

	resp, err := g.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       g.model,
		MaxTokens:   generateMaxTokens,
		System:      prompt,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf("Generate the %s section now.", task.SectionName)},
		},
	})
	if err != nil {
		zap.L().Warn("pipeline: section generation failed",
			zap.String("task", task.Name),
			zap.String("section", task.SectionName),
			zap.Error(err),
		)
		return model.SectionResult{Kind: model.SectionFailed, Err: err}
	}
	g.usage.Add(resp.Usage)

	text := cleanJSON(anthropic.ExtractText(resp))

	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		// Not valid JSON. Keep the prose so the section is not lost.
		zap.L().Warn("pipeline: response was not valid JSON, keeping raw text",
			zap.String("task", task.Name),
			zap.String("preview", preview(text, 200)),
		)
		return model.SectionResult{Kind: model.SectionRawText, Text: text}
	}

	return model.SectionResult{Kind: model.SectionStructured, Fields: fields}
}

// GenerateAll runs tasks in order and returns a map of section name to the
// generated payload. Later tasks targeting the same section overwrite
// earlier ones. Failed sections are omitted.
func (g *Generator) GenerateAll(ctx context.Context, tasks []model.Task, profile *model.IntakeProfile) map[string]map[string]any {
	sections := make(map[string]map[string]any)

	for _, task := range tasks {
		zap.L().Info("pipeline: generating section",
			zap.String("section", task.SectionName),
			zap.String("task", task.Name),
		)

		result := g.GenerateSection(ctx, task, profile)
		if payload := result.Payload(); payload != nil {
			sections[task.SectionName] = payload
		}
	}

	return sections
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// cleanJSON attempts to extract a JSON object from text that may contain
// markdown code fences or other wrapping.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
