package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driving"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// LibraryService exposes processed documents read-only.
type LibraryService struct {
	store driven.DocumentStore
}

// NewLibraryService creates a library service.
func NewLibraryService(store driven.DocumentStore) *LibraryService {
	return &LibraryService{store: store}
}

// List returns processed filenames in lexical order.
func (s *LibraryService) List(ctx context.Context) ([]string, error) {
	names, err := s.store.ListProcessed(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processed: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Get returns the processed record for filename.
func (s *LibraryService) Get(ctx context.Context, filename string) (*domain.ProcessedDocument, error) {
	name, err := cleanFilename(filename)
	if err != nil {
		return nil, err
	}
	doc, err := s.store.GetProcessed(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get processed %s: %w", name, err)
	}
	return doc, nil
}
