package services

import (
	"context"
	"fmt"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

// Gateway pairs the embedding provider with the vector index and enforces
// the configured vector dimension on both sides.
//
// It does not retry. Callers wrap calls in Retry.
type Gateway struct {
	embedder   driven.EmbeddingService
	index      driven.VectorIndex
	dimensions int
}

// NewGateway creates a gateway. dimensions is the length every vector must have.
func NewGateway(embedder driven.EmbeddingService, index driven.VectorIndex, dimensions int) *Gateway {
	return &Gateway{embedder: embedder, index: index, dimensions: dimensions}
}

// Dimensions returns the configured vector length.
func (g *Gateway) Dimensions() int {
	return g.dimensions
}

// Embed returns the vector for text. Transport failures, malformed output and
// wrong-length vectors all wrap domain.ErrEmbedding.
func (g *Gateway) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := g.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}
	if err := g.checkDimensions(vec); err != nil {
		return nil, err
	}
	return vec, nil
}

// EmbedBatch embeds texts in one provider call where supported.
func (g *Gateway) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := g.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", domain.ErrEmbedding, len(vecs), len(texts))
	}
	for _, v := range vecs {
		if err := g.checkDimensions(v); err != nil {
			return nil, err
		}
	}
	return vecs, nil
}

func (g *Gateway) checkDimensions(vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("%w: empty vector", domain.ErrEmbedding)
	}
	if g.dimensions > 0 && len(vec) != g.dimensions {
		return fmt.Errorf("%w: %w: got %d, want %d",
			domain.ErrEmbedding, domain.ErrDimensionMismatch, len(vec), g.dimensions)
	}
	return nil
}

// Upsert writes one chunk keyed by its id. The chunk's tags must already be
// validated. Failures wrap domain.ErrIndex.
func (g *Gateway) Upsert(ctx context.Context, chunk domain.Chunk, vector []float32) error {
	return g.UpsertBatch(ctx, []domain.Chunk{chunk}, [][]float32{vector})
}

// UpsertBatch writes chunks with their vectors, index-aligned.
func (g *Gateway) UpsertBatch(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks but %d vectors", domain.ErrIndex, len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	records := make([]domain.EmbeddingRecord, len(chunks))
	for i, c := range chunks {
		if len(vectors[i]) != g.dimensions && g.dimensions > 0 {
			return fmt.Errorf("%w: %w: chunk %s has %d dimensions",
				domain.ErrIndex, domain.ErrDimensionMismatch, c.ID, len(vectors[i]))
		}
		records[i] = RecordFor(c, vectors[i])
	}

	if err := g.index.Upsert(ctx, records); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndex, err)
	}
	return nil
}

// Delete removes chunks by id. Missing ids are ignored.
func (g *Gateway) Delete(ctx context.Context, chunkIDs []string) error {
	if len(chunkIDs) == 0 {
		return nil
	}
	if err := g.index.Delete(ctx, chunkIDs); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndex, err)
	}
	return nil
}

// Query returns up to topK matches by descending similarity.
func (g *Gateway) Query(ctx context.Context, vector []float32, topK int, filter domain.Filter) ([]domain.Match, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive", domain.ErrInvalidInput)
	}
	if err := g.checkDimensions(vector); err != nil {
		return nil, err
	}

	matches, err := g.index.Query(ctx, vector, topK, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndex, err)
	}
	return matches, nil
}

// RecordFor builds the index record for a chunk.
func RecordFor(c domain.Chunk, vector []float32) domain.EmbeddingRecord {
	return domain.EmbeddingRecord{
		ChunkID: c.ID,
		Vector:  vector,
		Metadata: domain.ChunkMetadata{
			Filename:   c.SourceFilename,
			ChunkText:  c.Text,
			ChunkIndex: c.Index,
			Tags:       domain.Strings(c.Tags),
		},
	}
}
