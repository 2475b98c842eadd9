package mcp

import (
	"context"
	"path/filepath"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	result    *domain.QueryResult
	err       error
	lastQuery string
	lastOpts  domain.QueryOptions
}

func (m *mockAnswerService) Answer(
	_ context.Context,
	query string,
	opts domain.QueryOptions,
) (*domain.QueryResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &domain.QueryResult{Query: query}, nil
	}
	return m.result, nil
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	err      error
	filename string
	data     []byte
}

func (m *mockIngestService) Ingest(_ context.Context, filename string, data []byte) (*domain.UploadResult, error) {
	m.filename = filename
	m.data = data
	if m.err != nil {
		return nil, m.err
	}
	return &domain.UploadResult{
		Filename:        filename,
		ChunksProcessed: 1,
		StoragePath:     domain.OriginalsPrefix + filename,
	}, nil
}

func (m *mockIngestService) Supported(filename string) bool {
	switch filepath.Ext(filename) {
	case ".txt", ".pdf", ".docx":
		return true
	}
	return false
}

// mockLibraryService is a mock implementation of driving.LibraryService.
type mockLibraryService struct {
	names []string
	docs  map[string]*domain.ProcessedDocument
	err   error
}

func (m *mockLibraryService) List(_ context.Context) ([]string, error) {
	return m.names, m.err
}

func (m *mockLibraryService) Get(_ context.Context, filename string) (*domain.ProcessedDocument, error) {
	if m.err != nil {
		return nil, m.err
	}
	doc, ok := m.docs[filename]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}
