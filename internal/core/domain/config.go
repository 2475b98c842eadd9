package domain

import (
	"fmt"
	"time"
)

// Default pipeline configuration values.
const (
	DefaultChunkSize           = 500
	DefaultChunkOverlap        = 50
	DefaultTopK                = 5
	DefaultMaxContextChars     = 12000
	DefaultConcurrency         = 4
	DefaultEmbeddingDimensions = 1536
	DefaultClassifierModel     = "gpt-4"
	DefaultVisionModel         = "gpt-4o"
	DefaultGeneratorModel      = "gpt-4o"
	DefaultEmbeddingModel      = "text-embedding-3-large"
	DefaultClassifyInputChars  = 5000
)

// RetryPolicy describes exponential backoff for transient provider errors.
type RetryPolicy struct {
	// MaxAttempts includes the first try. Values below 1 mean 1.
	MaxAttempts int

	// InitialBackoff is the wait after the first failure.
	InitialBackoff time.Duration

	// MaxBackoff caps any single wait.
	MaxBackoff time.Duration

	// Multiplier grows the wait after each failure.
	Multiplier float64
}

// DefaultRetryPolicy returns the retry policy used for provider calls.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     8 * time.Second,
		Multiplier:     2,
	}
}

// Config is the immutable pipeline configuration. It is passed by value
// into every component at construction time.
type Config struct {
	// Taxonomy is the closed competency set chunks are tagged with.
	Taxonomy Taxonomy

	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the number of trailing characters carried into the next chunk.
	ChunkOverlap int

	// TopK is the default number of matches retrieved per query.
	TopK int

	// MaxContextChars bounds the assembled generator context.
	MaxContextChars int

	// MaxTags caps validated tags per chunk (at most MaxTagsPerChunk).
	MaxTags int

	// ClassifyInputChars truncates chunk text sent to the classifier.
	ClassifyInputChars int

	// Concurrency bounds per-chunk fan-out within one document.
	Concurrency int

	// EmbeddingDimensions is the vector length the index is configured for.
	EmbeddingDimensions int

	// Model identifiers for each external capability.
	ClassifierModel string
	VisionModel     string
	GeneratorModel  string
	EmbeddingModel  string

	// Summarise enables the per-chunk summary call.
	Summarise bool

	// Retry is applied to classification, summary and embedding calls.
	Retry RetryPolicy
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Taxonomy:            DefaultTaxonomy(),
		ChunkSize:           DefaultChunkSize,
		ChunkOverlap:        DefaultChunkOverlap,
		TopK:                DefaultTopK,
		MaxContextChars:     DefaultMaxContextChars,
		MaxTags:             MaxTagsPerChunk,
		ClassifyInputChars:  DefaultClassifyInputChars,
		Concurrency:         DefaultConcurrency,
		EmbeddingDimensions: DefaultEmbeddingDimensions,
		ClassifierModel:     DefaultClassifierModel,
		VisionModel:         DefaultVisionModel,
		GeneratorModel:      DefaultGeneratorModel,
		EmbeddingModel:      DefaultEmbeddingModel,
		Summarise:           true,
		Retry:               DefaultRetryPolicy(),
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.Taxonomy.Len() == 0 {
		return fmt.Errorf("%w: taxonomy is empty", ErrInvalidInput)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", ErrInvalidInput)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: chunk overlap must be in [0, chunk size)", ErrInvalidInput)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive", ErrInvalidInput)
	}
	if c.MaxContextChars <= 0 {
		return fmt.Errorf("%w: max context chars must be positive", ErrInvalidInput)
	}
	if c.MaxTags <= 0 || c.MaxTags > MaxTagsPerChunk {
		return fmt.Errorf("%w: max tags must be in [1, %d]", ErrInvalidInput, MaxTagsPerChunk)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("%w: concurrency must be positive", ErrInvalidInput)
	}
	if c.EmbeddingDimensions <= 0 {
		return fmt.Errorf("%w: embedding dimensions must be positive", ErrInvalidInput)
	}
	return nil
}
