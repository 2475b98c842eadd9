package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an in-memory brute-force cosine index.
type VectorIndex struct {
	mu      sync.RWMutex
	dims    int
	records map[string]domain.EmbeddingRecord
}

// NewVectorIndex creates an empty index for vectors of the given length.
func NewVectorIndex(dims int) *VectorIndex {
	return &VectorIndex{
		dims:    dims,
		records: make(map[string]domain.EmbeddingRecord),
	}
}

// Upsert inserts or replaces records. The batch is rejected as a whole
// when any vector has the wrong length.
func (v *VectorIndex) Upsert(_ context.Context, records []domain.EmbeddingRecord) error {
	for i := range records {
		if len(records[i].Vector) != v.dims {
			return fmt.Errorf("%w: record %s has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, records[i].ChunkID, len(records[i].Vector), v.dims)
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range records {
		rec := records[i]
		rec.Vector = append([]float32(nil), rec.Vector...)
		rec.Metadata.Tags = append([]string(nil), rec.Metadata.Tags...)
		v.records[rec.ChunkID] = rec
	}
	return nil
}

// Query scores every record and returns the best topK.
func (v *VectorIndex) Query(_ context.Context, vector []float32, topK int, filter domain.Filter) ([]domain.Match, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive", domain.ErrInvalidInput)
	}
	if len(vector) != v.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(vector), v.dims)
	}

	v.mu.RLock()
	matches := make([]domain.Match, 0, len(v.records))
	for id, rec := range v.records {
		if !filter.Matches(rec.Metadata.Tags) {
			continue
		}
		matches = append(matches, domain.Match{
			ChunkID:  id,
			Score:    domain.Cosine(vector, rec.Vector),
			Metadata: rec.Metadata,
		})
	}
	v.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ChunkID < matches[j].ChunkID
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Delete removes records by id.
func (v *VectorIndex) Delete(_ context.Context, chunkIDs []string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, id := range chunkIDs {
		delete(v.records, id)
	}
	return nil
}

// Count returns the number of stored records.
func (v *VectorIndex) Count(_ context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.records), nil
}

// Dimensions returns the configured vector length.
func (v *VectorIndex) Dimensions() int {
	return v.dims
}

// Close is a no-op for in-memory storage.
func (v *VectorIndex) Close() error {
	return nil
}
