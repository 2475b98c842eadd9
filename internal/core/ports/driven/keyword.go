package driven

import (
	"context"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

// KeywordIndex provides full-text search over chunk text.
type KeywordIndex interface {
	// Index adds or replaces chunks in the keyword index.
	Index(ctx context.Context, chunks []domain.Chunk) error

	// Search performs a keyword search.
	Search(ctx context.Context, query string, limit int) ([]KeywordHit, error)

	// Delete removes chunks by id. Missing ids are ignored.
	Delete(ctx context.Context, chunkIDs []string) error

	// Close releases resources.
	Close() error
}

// KeywordHit represents a keyword search result.
type KeywordHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Filename is the source document.
	Filename string

	// Text is the stored chunk text.
	Text string

	// Tags are the chunk's competencies.
	Tags []string

	// Score is the relevance score.
	Score float64
}
