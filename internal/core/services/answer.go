package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driving"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/logger"
)

// Ensure Answerer implements the interface.
var _ driving.AnswerService = (*Answerer)(nil)

// ContextDelimiter separates chunks in the assembled context.
const ContextDelimiter = "\n---\n"

// Answerer answers queries from retrieved chunks.
type Answerer struct {
	gateway *Gateway
	llm     driven.LLMService
	prompts driven.PromptStore
	cfg     domain.Config
}

// NewAnswerer creates an answerer. prompts may be nil.
func NewAnswerer(gateway *Gateway, llm driven.LLMService, prompts driven.PromptStore, cfg domain.Config) *Answerer {
	return &Answerer{gateway: gateway, llm: llm, prompts: prompts, cfg: cfg}
}

// Answer embeds the query, retrieves the nearest chunks and asks the
// generator for a quoted, attributed answer.
//
// Embedding and index failures abort with the wrapped error. An empty result
// set is not an error: the reply is domain.NoRelevantContentReply.
func (a *Answerer) Answer(ctx context.Context, query string, opts domain.QueryOptions) (*domain.QueryResult, error) {
	logger.Section("Answer")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = a.cfg.TopK
	}
	logger.Debug("Query: %q, top_k=%d, filter=%v", query, topK, opts.Filter.Tags)

	// 1. Embed
	var vector []float32
	err := Retry(ctx, a.cfg.Retry, "embed query", func(ctx context.Context) error {
		var err error
		vector, err = a.gateway.Embed(ctx, query)
		return err
	})
	if err != nil {
		return nil, err
	}

	// 2. Search
	matches, err := a.gateway.Query(ctx, vector, topK, opts.Filter)
	if err != nil {
		return nil, err
	}
	sortMatches(matches)
	for i := range matches {
		matches[i].Preview = domain.Preview(matches[i].Metadata.ChunkText, domain.PreviewChars)
	}
	logger.Debug("Retrieved %d matches", len(matches))

	result := &domain.QueryResult{Query: query, Matches: matches}
	if len(matches) == 0 {
		result.Matches = []domain.Match{}
		result.Reply = domain.NoRelevantContentReply
		return result, nil
	}

	// 3. Assemble
	contextText, used := AssembleContext(matches, a.cfg.MaxContextChars)
	if used == 0 {
		result.Reply = domain.NoRelevantContentReply
		return result, nil
	}
	if used < len(matches) {
		logger.Debug("Context bound reached: using %d of %d chunks", used, len(matches))
	}

	// 4. Generate
	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: loadPrompt(a.prompts, driven.PromptAnswer)},
		{Role: driven.RoleUser, Content: fmt.Sprintf("Question: %s\n\nContent:\n%s", query, contextText)},
	}
	var raw string
	err = Retry(ctx, a.cfg.Retry, "generate answer", func(ctx context.Context) error {
		var err error
		raw, err = a.llm.Chat(ctx, messages, driven.ChatOptions{Model: a.cfg.GeneratorModel, JSON: true})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	// 5. Format
	answer, err := ParseAnswer(raw)
	if err != nil {
		logger.Debug("%v", err)
		result.Reply = raw
		return result, nil
	}
	result.Answer = answer
	result.Reply = FormatAnswer(answer)
	return result, nil
}

// sortMatches orders matches by descending score, keeping index order for ties.
func sortMatches(matches []domain.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
}

// AssembleContext renders matches as provenance-headed blocks joined by
// ContextDelimiter, never exceeding maxChars runes when maxChars > 0.
// A block larger than maxChars on its own is skipped; after the first block
// is written, whole blocks are dropped from the tail once the next would not
// fit. It returns the context and how many matches it includes.
func AssembleContext(matches []domain.Match, maxChars int) (string, int) {
	var b strings.Builder
	delim := len([]rune(ContextDelimiter))
	size := 0
	used := 0
	for _, m := range matches {
		block := contextBlock(m)
		n := len([]rune(block))
		if maxChars > 0 && n > maxChars {
			logger.Warn("Skipping %s chunk %d: %d chars exceeds context bound %d",
				m.Metadata.Filename, m.Metadata.ChunkIndex, n, maxChars)
			continue
		}
		if used > 0 {
			n += delim
		}
		if maxChars > 0 && size+n > maxChars {
			break
		}
		if used > 0 {
			b.WriteString(ContextDelimiter)
		}
		b.WriteString(block)
		size += n
		used++
	}
	return b.String(), used
}

func contextBlock(m domain.Match) string {
	tags := strings.Join(m.Metadata.Tags, ", ")
	if tags == "" {
		tags = "none"
	}
	return fmt.Sprintf("Source: %s\nTags: %s\nContent: %s", m.Metadata.Filename, tags, m.Metadata.ChunkText)
}
