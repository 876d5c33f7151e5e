package driving

import (
	"context"
	"time"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// DocumentService manages stored documents.
type DocumentService interface {
	// List returns all stored documents, newest first.
	List(ctx context.Context) ([]domain.DocumentInfo, error)

	// Get retrieves a document by filename.
	Get(ctx context.Context, filename string) (*domain.Document, error)

	// GetContent returns the document's full extracted text.
	GetContent(ctx context.Context, filename string) (string, error)

	// GetDetails returns metadata for display.
	GetDetails(ctx context.Context, filename string) (*DocumentDetails, error)

	// Remove deletes a document and all its artifacts.
	Remove(ctx context.Context, filename string) error

	// Open opens the original file in the default application.
	Open(ctx context.Context, filename string) error
}

// DocumentDetails provides a standardised view of document metadata.
type DocumentDetails struct {
	// ID is the store-assigned identifier.
	ID int64

	// Filename is the path the document was ingested from.
	Filename string

	// Fingerprint is the content hash identity.
	Fingerprint string

	// ChunkCount is the number of chunks.
	ChunkCount int

	// WordCount is the total word count across chunks.
	WordCount int

	// IndexDimension is the embedding dimension of the search index.
	IndexDimension int

	// ProcessedAt is when the document was processed.
	ProcessedAt time.Time
}
