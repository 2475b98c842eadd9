package http

import (
	"context"
	"path/filepath"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

type mockIngest struct {
	result   *domain.UploadResult
	err      error
	filename string
	data     []byte
	panics   bool
}

func (m *mockIngest) Ingest(_ context.Context, filename string, data []byte) (*domain.UploadResult, error) {
	if m.panics {
		panic("boom")
	}
	m.filename = filename
	m.data = data
	return m.result, m.err
}

func (m *mockIngest) Supported(filename string) bool {
	switch filepath.Ext(filename) {
	case ".pdf", ".txt", ".png":
		return true
	default:
		return false
	}
}

type mockAnswer struct {
	result *domain.QueryResult
	err    error
	query  string
	opts   domain.QueryOptions
}

func (m *mockAnswer) Answer(_ context.Context, query string, opts domain.QueryOptions) (*domain.QueryResult, error) {
	m.query = query
	m.opts = opts
	return m.result, m.err
}

type mockLibrary struct {
	names []string
	docs  map[string]*domain.ProcessedDocument
	err   error
}

func (m *mockLibrary) List(_ context.Context) ([]string, error) {
	return m.names, m.err
}

func (m *mockLibrary) Get(_ context.Context, filename string) (*domain.ProcessedDocument, error) {
	if m.err != nil {
		return nil, m.err
	}
	doc, ok := m.docs[filename]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}
