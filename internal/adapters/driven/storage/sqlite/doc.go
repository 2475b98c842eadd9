// Package sqlite provides SQLite-backed implementations of the document
// store and the vector index.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. One Store owns one database file and hands out:
//
//   - DocumentStore: originals and processed records
//   - VectorIndex: embedding records with a brute-force cosine scan
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.heartgpt/data/heartgpt.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. The store runs SQLite in WAL
// mode with a busy timeout.
package sqlite
