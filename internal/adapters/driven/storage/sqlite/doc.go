// Package sqlite provides the SQLite-backed implementation of the
// DocumentStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. One database file holds
// four tables: documents, chunks, embeddings and search_indices, with
// ON DELETE CASCADE from documents down to every dependent row.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory and embedded into the binary.
//
// # Data Location
//
// By default, the database is stored at ~/.docchat/documents.db
//
// # Concurrency
//
// The database opens in WAL mode with a 5 second busy timeout. Reads are
// safe from multiple goroutines; concurrent writers to the same fingerprint
// are undefined behaviour and callers must serialize by fingerprint.
package sqlite
