package services

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

const testDims = 4

// mockLLM answers chat calls through a responder and records every call.
type mockLLM struct {
	mu      sync.Mutex
	respond func(messages []driven.ChatMessage, opts driven.ChatOptions) (string, error)
	calls   []mockChatCall
}

type mockChatCall struct {
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	return m.Chat(ctx, []driven.ChatMessage{{Role: driven.RoleUser, Content: prompt}}, driven.ChatOptions{Model: opts.Model})
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, mockChatCall{messages: messages, opts: opts})
	respond := m.respond
	m.mu.Unlock()
	if respond == nil {
		return "[]", nil
	}
	return respond(messages, opts)
}

func (m *mockLLM) ModelName() string          { return "mock" }
func (m *mockLLM) Ping(context.Context) error { return nil }
func (m *mockLLM) Close() error               { return nil }

// callsFor returns calls made with the named default prompt.
func (m *mockLLM) callsFor(prompt string) []mockChatCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []mockChatCall
	for _, c := range m.calls {
		if isPrompt(c.messages, prompt) {
			out = append(out, c)
		}
	}
	return out
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// isPrompt reports whether messages use the named default system prompt.
// The two classification prompts share an opening line, so image calls are
// told apart by their attachment.
func isPrompt(messages []driven.ChatMessage, prompt string) bool {
	if len(messages) < 2 {
		return false
	}
	hasImage := len(messages[1].Images) > 0
	switch prompt {
	case driven.PromptClassifyImage:
		return hasImage
	case driven.PromptClassify:
		if hasImage {
			return false
		}
	}
	return strings.HasPrefix(messages[0].Content, firstLine(driven.DefaultPrompts()[prompt]))
}

// mockEmbedder returns fixed vectors for known texts and a hash-derived
// vector for anything else.
type mockEmbedder struct {
	mu      sync.Mutex
	dims    int
	vectors map[string][]float32
	err     error
	calls   int
	batches int
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{dims: testDims, vectors: make(map[string][]float32)}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return hashVector(text, m.dims), nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batches++
	m.mu.Unlock()
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int            { return m.dims }
func (m *mockEmbedder) ModelName() string          { return "mock-embed" }
func (m *mockEmbedder) Ping(context.Context) error { return nil }
func (m *mockEmbedder) Close() error               { return nil }

func hashVector(text string, dims int) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	sum := h.Sum64()
	v := make([]float32, dims)
	for i := range v {
		v[i] = float32((sum>>(uint(i)*8))&0xff) + 1
	}
	return v
}

// mockRunner stands in for pdftotext.
type mockRunner struct {
	out []byte
	err error
}

func (r mockRunner) Run(context.Context, string, ...string) ([]byte, error) {
	return r.out, r.err
}

// mockPromptStore serves prompts from a map.
type mockPromptStore map[string]string

func (s mockPromptStore) Load(name string) (string, error) {
	p, ok := s[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (s mockPromptStore) Reload() {}

// testConfig is DefaultConfig with small vectors and instant retries.
func testConfig() domain.Config {
	cfg := domain.DefaultConfig()
	cfg.EmbeddingDimensions = testDims
	cfg.Summarise = false
	cfg.Retry = fastPolicy(2)
	return cfg
}

// mockKeywordIndex records indexed chunks and serves canned hits.
type mockKeywordIndex struct {
	mu       sync.Mutex
	chunks   map[string]domain.Chunk
	deleted  []string
	hits     []driven.KeywordHit
	indexErr error
	lastQ    string
	lastN    int
}

func newMockKeywordIndex() *mockKeywordIndex {
	return &mockKeywordIndex{chunks: make(map[string]domain.Chunk)}
}

func (m *mockKeywordIndex) Index(_ context.Context, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexErr != nil {
		return m.indexErr
	}
	for _, c := range chunks {
		m.chunks[c.ID] = c
	}
	return nil
}

func (m *mockKeywordIndex) Search(_ context.Context, query string, limit int) ([]driven.KeywordHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQ, m.lastN = query, limit
	return m.hits, nil
}

func (m *mockKeywordIndex) Delete(_ context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.chunks, id)
	}
	m.deleted = append(m.deleted, ids...)
	return nil
}

func (m *mockKeywordIndex) Close() error { return nil }
