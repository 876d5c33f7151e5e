package driving

import (
	"context"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// IngestService turns source files into fully processed documents.
type IngestService interface {
	// Process ingests the file at path: fingerprint, cache check, and on
	// a miss extract, chunk, embed, index and save atomically.
	// Reused reports whether stored artifacts were reused untouched.
	Process(ctx context.Context, path string) (*IngestResult, error)
}

// IngestResult describes the outcome of processing one file.
type IngestResult struct {
	// Document is the stored document row.
	Document domain.Document

	// ChunkCount is the number of chunks the document was split into.
	ChunkCount int

	// Reused is true when the fingerprint was already fully processed
	// and no work was done.
	Reused bool
}
