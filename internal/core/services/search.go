package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driving"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// ErrKeywordIndexDisabled is returned when no keyword index is configured.
var ErrKeywordIndexDisabled = errors.New("keyword index is not configured")

// defaultSearchLimit applies when the caller passes a non-positive limit.
const defaultSearchLimit = 20

// SearchService runs keyword queries over chunk text.
type SearchService struct {
	index driven.KeywordIndex
}

// NewSearchService creates a search service. index may be nil.
func NewSearchService(index driven.KeywordIndex) *SearchService {
	return &SearchService{index: index}
}

// Search returns chunks matching query terms, best first.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]driven.KeywordHit, error) {
	if s.index == nil {
		return nil, ErrKeywordIndexDisabled
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []driven.KeywordHit{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	logger.Debug("Keyword search: query=%q, limit=%d", query, limit)
	hits, err := s.index.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	logger.Debug("Keyword search: %d hits", len(hits))
	return hits, nil
}
