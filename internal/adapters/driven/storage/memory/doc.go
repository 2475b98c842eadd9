// Package memory provides in-memory document store and vector index
// implementations. They back the "memory" backends and the service tests.
package memory
