// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Extractor / ExtractorRegistry: Normalises uploaded bytes by file extension
//   - LLMService: Classification, summarisation, vision and answer generation
//   - EmbeddingService: Fixed-dimension text embeddings
//   - VectorIndex: Upsert and cosine top-k query over embedding records
//   - DocumentStore: Originals and processed records
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - KeywordIndex: Full-text search over chunk text. Without it, untagged
//     chunks are only reachable through similarity search.
//   - PromptStore: User-editable prompt templates. Without it, built-in
//     defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
