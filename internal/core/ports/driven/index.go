package driven

// IndexBuilder creates and restores per-document similarity indices.
// One index covers exactly one document's chunks; it is rebuilt whenever
// the chunk set changes.
type IndexBuilder interface {
	// New creates an empty index for vectors of the given dimension.
	New(dimension int) (SimilarityIndex, error)

	// Restore decodes an index previously serialized with MarshalBinary.
	// Returns domain.ErrIndexCorrupt if the blob cannot be decoded.
	Restore(blob []byte) (SimilarityIndex, error)
}

// SimilarityIndex performs nearest-neighbour search over chunk vectors.
// Positions are chunk ordinals within the owning document.
type SimilarityIndex interface {
	// Add inserts a vector for the chunk at the given position.
	// Returns domain.ErrDimensionMismatch if the vector length is wrong.
	Add(position int, vector []float32) error

	// Search returns the k entries most similar to the query vector,
	// ordered by descending similarity; ties break by ascending position.
	Search(query []float32, k int) ([]IndexHit, error)

	// Dimension returns the vector length the index was built for.
	Dimension() int

	// Len returns the number of indexed vectors.
	Len() int

	// MarshalBinary serializes the index to an opaque blob.
	MarshalBinary() ([]byte, error)
}

// IndexHit represents a similarity search result.
type IndexHit struct {
	// Position is the matched chunk's ordinal within its document.
	Position int

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
