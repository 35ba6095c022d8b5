// Package sqlite provides the persistent related-terms cache.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Term expansion is the slowest step of a semantic search,
// and the same term on the same page returns the same words, so results are
// kept across runs:
//
//   - TermCache: related terms keyed by term and page context
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Each migration is a pair of .up.sql and .down.sql files; applied
// versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.findable/data/cache.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses SQLite in WAL mode.
package sqlite
