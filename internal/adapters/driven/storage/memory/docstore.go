package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Processed records are stored as JSON so callers never share state with the store.
type DocumentStore struct {
	mu        sync.RWMutex
	originals map[string][]byte
	processed map[string][]byte
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		originals: make(map[string][]byte),
		processed: make(map[string][]byte),
	}
}

// UploadOriginal stores a copy of the uploaded bytes.
func (s *DocumentStore) UploadOriginal(_ context.Context, filename string, data []byte) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.originals[filename] = append([]byte(nil), data...)
	return domain.OriginalPath(filename), nil
}

// Original returns the stored upload bytes.
func (s *DocumentStore) Original(filename string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.originals[filename]
	return data, ok
}

// StoreProcessed stores the processed record, replacing any previous one.
func (s *DocumentStore) StoreProcessed(_ context.Context, doc *domain.ProcessedDocument) (string, error) {
	if doc == nil || doc.Filename == "" {
		return "", fmt.Errorf("%w: processed document requires a filename", domain.ErrInvalidInput)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal processed document: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed[doc.Filename] = data
	return domain.ProcessedPath(doc.Filename), nil
}

// ListProcessed returns processed filenames in lexical order.
func (s *DocumentStore) ListProcessed(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.processed))
	for name := range s.processed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetProcessed returns a processed record or domain.ErrNotFound.
func (s *DocumentStore) GetProcessed(_ context.Context, filename string) (*domain.ProcessedDocument, error) {
	s.mu.RLock()
	data, ok := s.processed[filename]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	var doc domain.ProcessedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal processed document: %w", err)
	}
	return &doc, nil
}

// Close is a no-op for in-memory storage.
func (s *DocumentStore) Close() error {
	return nil
}
