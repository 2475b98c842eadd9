package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Pipeline Errors.

	// ErrUnsupportedFormat indicates the file extension is not recognised.
	// The document is rejected before any downstream processing.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrDecode indicates the bytes are not valid for the declared format.
	ErrDecode = errors.New("decode error")

	// ErrClassificationParse indicates the classifier output could not be parsed.
	// Recovered locally as an empty tag list.
	ErrClassificationParse = errors.New("classification parse error")

	// ErrEmbedding indicates the embedding backend failed or returned malformed output.
	ErrEmbedding = errors.New("embedding error")

	// ErrIndex indicates a similarity index upsert or query failed.
	ErrIndex = errors.New("index error")

	// ErrDimensionMismatch indicates a vector does not match the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrGenerationParse indicates generator output was not a structured answer.
	// Recovered locally by returning the raw text.
	ErrGenerationParse = errors.New("generation parse error")

	// Provider Errors.

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrAuthInvalid indicates the provider rejected the credentials.
	// Never retried.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
