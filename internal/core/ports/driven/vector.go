package driven

import (
	"context"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

// VectorIndex stores embedding records and answers cosine top-k queries.
//
// Tags are stored in one canonical form, a flat list of strings per record.
// Readers decode them with domain.DecodeTags so records written in the
// legacy JSON-string form still filter correctly.
type VectorIndex interface {
	// Upsert inserts or fully replaces records by ChunkID.
	// Every vector must have exactly Dimensions() entries.
	Upsert(ctx context.Context, records []domain.EmbeddingRecord) error

	// Query returns at most topK matches ordered by descending cosine similarity.
	// An empty index yields an empty slice, not an error.
	Query(ctx context.Context, vector []float32, topK int, filter domain.Filter) ([]domain.Match, error)

	// Delete removes records by ChunkID. Missing ids are ignored.
	Delete(ctx context.Context, chunkIDs []string) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Dimensions returns the configured vector length.
	Dimensions() int

	// Close releases resources.
	Close() error
}
