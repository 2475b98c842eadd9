package driven

import "context"

// EmbeddingService turns chunk text and queries into fixed-length vectors.
// Every vector it returns must have Dimensions() entries; the gateway
// rejects anything else with domain.ErrDimensionMismatch.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions must match the VectorIndex the vectors are written to.
	Dimensions() int

	ModelName() string

	// Ping makes the cheapest request the provider allows.
	Ping(ctx context.Context) error

	Close() error
}
