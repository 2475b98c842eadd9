// Package domain defines the core business entities for heartgpt.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded file and its detected content kind
//   - Chunk: A classified unit of document text
//   - Competency / Taxonomy: The closed set of labels chunks are tagged with
//   - EmbeddingRecord / Match: What the similarity index stores and returns
//   - ProcessedDocument: The durable per-upload record
//   - Config: Immutable pipeline configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
