package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/connectors/filesystem"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

// mockIngestService implements driving.IngestService for CLI tests.
type mockIngestService struct {
	mu       sync.Mutex
	calls    []string
	failures map[string]error
}

func (m *mockIngestService) Ingest(_ context.Context, filename string, data []byte) (*domain.UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, filename)
	if err := m.failures[filename]; err != nil {
		return nil, err
	}
	return &domain.UploadResult{
		Filename:        filename,
		ChunksProcessed: 2,
		StoragePath:     domain.OriginalsPrefix + filename,
		Tags: map[domain.Category][]domain.Competency{
			domain.CategoryPurpose: {"Vision"},
		},
	}, nil
}

func (m *mockIngestService) Supported(filename string) bool {
	switch filepath.Ext(filename) {
	case ".pdf", ".docx", ".txt":
		return true
	}
	return false
}

func (m *mockIngestService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]string(nil), m.calls...)
	sort.Strings(out)
	return out
}

// mockAnswerService implements driving.AnswerService for CLI tests.
type mockAnswerService struct {
	result    *domain.QueryResult
	err       error
	lastQuery string
	lastOpts  domain.QueryOptions
}

func (m *mockAnswerService) Answer(_ context.Context, query string, opts domain.QueryOptions) (*domain.QueryResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.QueryResult{Query: query, Reply: domain.NoRelevantContentReply, Matches: []domain.Match{}}, nil
}

// mockLibraryService implements driving.LibraryService for CLI tests.
type mockLibraryService struct {
	docs map[string]*domain.ProcessedDocument
}

func (m *mockLibraryService) List(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(m.docs))
	for name := range m.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *mockLibraryService) Get(_ context.Context, filename string) (*domain.ProcessedDocument, error) {
	doc, ok := m.docs[filename]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// mockSearchService implements driving.SearchService for CLI tests.
type mockSearchService struct {
	hits      []driven.KeywordHit
	lastLimit int
}

func (m *mockSearchService) Search(_ context.Context, _ string, limit int) ([]driven.KeywordHit, error) {
	m.lastLimit = limit
	return m.hits, nil
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	ingest  *mockIngestService
	answer  *mockAnswerService
	library *mockLibraryService
	search  *mockSearchService
}

var mocks *testServices

// setupTestServices installs mocks into the package globals and returns a
// function restoring the previous values.
func setupTestServices() func() {
	oldIngest, oldAnswer, oldLibrary, oldSearch := ingestService, answerService, libraryService, searchService
	oldTaxonomy, oldTopK, oldAddr := taxonomy, defaultTopK, serverAddr
	oldCheck := checkProviders
	oldLoader, oldLoaded, oldConfigDir := loader, loaded, configDir

	mocks = &testServices{
		ingest: &mockIngestService{},
		answer: &mockAnswerService{},
		library: &mockLibraryService{docs: map[string]*domain.ProcessedDocument{
			"plan.pdf": {
				Filename:    "plan.pdf",
				StoragePath: "documents/plan.pdf",
				Tags: map[domain.Category][]domain.Competency{
					domain.CategoryDiscipline: {"Planning"},
				},
				Chunks: []domain.Chunk{
					{ID: "plan.pdf#0", Index: 0, Page: 1, Text: "Plan the week.", Tags: []domain.Competency{"Planning"}},
				},
			},
		}},
		search: &mockSearchService{},
	}

	ingestService = mocks.ingest
	answerService = mocks.answer
	libraryService = mocks.library
	searchService = mocks.search
	taxonomy = domain.DefaultTaxonomy()
	defaultTopK = domain.DefaultTopK
	loader = nil
	loaded = true

	return func() {
		ingestService, answerService, libraryService, searchService = oldIngest, oldAnswer, oldLibrary, oldSearch
		taxonomy, defaultTopK, serverAddr = oldTaxonomy, oldTopK, oldAddr
		checkProviders = oldCheck
		loader, loaded, configDir = oldLoader, oldLoaded, oldConfigDir
		resetFlags()
	}
}

// resetFlags restores flag variables that persist between Execute calls.
func resetFlags() {
	verbose = false
	uploadJSON = false
	ingestGlob = filesystem.DefaultPattern
	queryTopK, queryTags, queryJSON, querySources = 0, nil, false, false
	searchLimit, searchJSON = 10, false
	documentsJSON = false
	taxonomyJSON = false
	mcpHTTPAddr = ""
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return out.String(), err
}

// lockedBuffer is a bytes.Buffer safe for a command running in a goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
