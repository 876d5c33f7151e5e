package domain

import "time"

// Document represents an ingested document.
// Its identity is the pair (Filename, Fingerprint): the same file path with
// changed content produces a new Document that supersedes the old one.
type Document struct {
	// ID is the store-assigned row identifier. Zero until persisted.
	ID int64

	// Filename is the path the document was ingested from.
	Filename string

	// Fingerprint is the SHA-256 hex digest of the file's raw bytes.
	// It is the stable identity key for cache lookups.
	Fingerprint string

	// Text is the full extracted text before chunking.
	Text string

	// ProcessedAt is when extraction, chunking, embedding and indexing
	// completed. A Document is immutable after this point.
	ProcessedAt time.Time
}

// Chunk represents a contiguous slice of a document's text.
// Chunks are the unit of embedding and retrieval.
type Chunk struct {
	// ID is the unique identifier assigned at chunking time.
	ID string

	// DocumentID links to the parent Document. Zero until persisted.
	DocumentID int64

	// Position is the 0-based ordinal within the document.
	// Chunks ordered by Position reproduce the document's word sequence.
	Position int

	// Content is the chunk text: consecutive words joined by single spaces.
	Content string

	// WordCount is the number of words in Content.
	WordCount int

	// Embedding is the vector representation. Every stored chunk has
	// exactly one embedding.
	Embedding []float32
}

// SearchIndex is a serialized similarity index over one document's chunks.
// It is rebuilt whenever the chunk set changes and is otherwise immutable.
type SearchIndex struct {
	// DocumentID links to the owning Document. Zero until persisted.
	DocumentID int64

	// Dimension is the embedding vector length the index was built for.
	Dimension int

	// Blob is the serialized index. Opaque to the store.
	Blob []byte

	// CreatedAt is when the index was built.
	CreatedAt time.Time
}

// StoredDocument aggregates everything the store holds for one document:
// the document row, its chunks with embeddings, and its search index.
type StoredDocument struct {
	Document Document
	Chunks   []Chunk
	Index    SearchIndex
}

// DocumentInfo is a listing-level view of a stored document.
type DocumentInfo struct {
	ID          int64
	Filename    string
	Fingerprint string
	ProcessedAt time.Time
	ChunkCount  int
}

// FingerprintPrefix returns a short prefix of the fingerprint for display.
func (d DocumentInfo) FingerprintPrefix() string {
	const n = 12
	if len(d.Fingerprint) <= n {
		return d.Fingerprint
	}
	return d.Fingerprint[:n]
}
