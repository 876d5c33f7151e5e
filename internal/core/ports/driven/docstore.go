package driven

import (
	"context"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// DocumentStore persists documents with their chunks, embeddings and
// search index, keyed by content fingerprint. Backed by SQLite.
//
// Concurrent writers to the same fingerprint are undefined behaviour;
// callers must serialize by fingerprint.
type DocumentStore interface {
	// Exists reports whether a document with the given fingerprint is
	// fully processed: text, chunks, embeddings and index all present.
	Exists(ctx context.Context, fingerprint string) (bool, error)

	// Save atomically persists a document together with its chunks
	// (each carrying an embedding) and its search index. A document with
	// the same filename is superseded in the same transaction. A failed
	// save leaves no partially written document visible to Exists.
	Save(ctx context.Context, doc *domain.Document, chunks []domain.Chunk, index *domain.SearchIndex) error

	// Load retrieves all stored artifacts for a fingerprint.
	// Returns domain.ErrNotFound if the fingerprint is absent.
	Load(ctx context.Context, fingerprint string) (*domain.StoredDocument, error)

	// GetByFilename returns the most recently processed document row for
	// a filename, without chunks. Returns domain.ErrNotFound if absent.
	GetByFilename(ctx context.Context, filename string) (*domain.Document, error)

	// List returns all stored documents, newest first.
	List(ctx context.Context) ([]domain.DocumentInfo, error)

	// Delete removes a document and all dependent rows by fingerprint.
	// Returns domain.ErrNotFound if the fingerprint is absent.
	Delete(ctx context.Context, fingerprint string) error

	// Close releases the underlying database handle.
	Close() error
}
