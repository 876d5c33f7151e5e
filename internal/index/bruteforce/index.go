// Package bruteforce provides an exact nearest-neighbour similarity index.
//
// The index holds every chunk vector of one document and scans all of them
// on each query. For the per-document corpus sizes this application handles
// (hundreds of chunks), an exact scan beats approximate structures on both
// simplicity and recall.
package bruteforce

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
)

// envelopeVersion is the serialization format version.
const envelopeVersion = 1

// Ensure interfaces are implemented.
var (
	_ driven.IndexBuilder    = (*Builder)(nil)
	_ driven.SimilarityIndex = (*Index)(nil)
)

// Builder creates and restores brute-force indices.
type Builder struct{}

// NewBuilder creates a new index builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// New creates an empty index for vectors of the given dimension.
func (b *Builder) New(dimension int) (driven.SimilarityIndex, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", domain.ErrInvalidInput, dimension)
	}
	return &Index{dimension: dimension}, nil
}

// Restore decodes an index previously serialized with MarshalBinary.
func (b *Builder) Restore(blob []byte) (driven.SimilarityIndex, error) {
	var env envelope
	if err := msgpack.Unmarshal(blob, &env); err != nil {
		return nil, fmt.Errorf("%w: decode envelope: %w", domain.ErrIndexCorrupt, err)
	}
	if env.Version != envelopeVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", domain.ErrIndexCorrupt, env.Version)
	}
	if env.Dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension %d", domain.ErrIndexCorrupt, env.Dimension)
	}
	if len(env.Positions) != len(env.Vectors) {
		return nil, fmt.Errorf("%w: %d positions for %d vectors",
			domain.ErrIndexCorrupt, len(env.Positions), len(env.Vectors))
	}

	ix := &Index{
		dimension:  env.Dimension,
		positions:  env.Positions,
		vectors:    make([][]float32, len(env.Vectors)),
		magnitudes: make([]float64, len(env.Vectors)),
	}
	for i, raw := range env.Vectors {
		vec, err := bytesToVector(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: vector %d: %w", domain.ErrIndexCorrupt, i, err)
		}
		if len(vec) != env.Dimension {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, want %d",
				domain.ErrIndexCorrupt, i, len(vec), env.Dimension)
		}
		ix.vectors[i] = vec
		ix.magnitudes[i] = magnitude(vec)
	}

	return ix, nil
}

// envelope is the serialized index layout.
// Vector payloads are raw little-endian float32 bytes, matching how
// embeddings are stored in the document store.
type envelope struct {
	Version   int      `msgpack:"version"`
	Dimension int      `msgpack:"dimension"`
	Positions []int    `msgpack:"positions"`
	Vectors   [][]byte `msgpack:"vectors"`
}

// Index is an exact cosine-similarity index over one document's chunks.
// Not safe for concurrent mutation; build fully before sharing.
type Index struct {
	dimension  int
	positions  []int
	vectors    [][]float32
	magnitudes []float64
}

// Add inserts a vector for the chunk at the given position.
func (ix *Index) Add(position int, vector []float32) error {
	if len(vector) != ix.dimension {
		return fmt.Errorf("%w: got %d, index dimension %d",
			domain.ErrDimensionMismatch, len(vector), ix.dimension)
	}

	ix.positions = append(ix.positions, position)
	ix.vectors = append(ix.vectors, vector)
	ix.magnitudes = append(ix.magnitudes, magnitude(vector))
	return nil
}

// Search returns the k entries most similar to the query vector, ordered by
// descending cosine similarity; ties break by ascending chunk position.
func (ix *Index) Search(query []float32, k int) ([]driven.IndexHit, error) {
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("%w: query has %d, index dimension %d",
			domain.ErrDimensionMismatch, len(query), ix.dimension)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}
	if len(ix.vectors) == 0 {
		return nil, nil
	}

	queryMag := magnitude(query)

	hits := make([]driven.IndexHit, len(ix.vectors))
	for i, vec := range ix.vectors {
		hits[i] = driven.IndexHit{
			Position:   ix.positions[i],
			Similarity: cosine(query, queryMag, vec, ix.magnitudes[i]),
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Position < hits[j].Position
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Dimension returns the vector length the index was built for.
func (ix *Index) Dimension() int {
	return ix.dimension
}

// Len returns the number of indexed vectors.
func (ix *Index) Len() int {
	return len(ix.vectors)
}

// MarshalBinary serializes the index to an opaque blob.
func (ix *Index) MarshalBinary() ([]byte, error) {
	env := envelope{
		Version:   envelopeVersion,
		Dimension: ix.dimension,
		Positions: ix.positions,
		Vectors:   make([][]byte, len(ix.vectors)),
	}
	for i, vec := range ix.vectors {
		env.Vectors[i] = vectorToBytes(vec)
	}

	blob, err := msgpack.Marshal(&env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return blob, nil
}

// cosine computes cosine similarity with precomputed magnitudes.
// Zero-magnitude vectors have similarity 0 to everything.
func cosine(a []float32, magA float64, b []float32, magB float64) float64 {
	if magA == 0 || magB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (magA * magB)
}

// magnitude computes the Euclidean norm in float64 precision.
func magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// vectorToBytes encodes a float32 slice as little-endian bytes.
func vectorToBytes(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToVector decodes little-endian bytes back to a float32 slice.
func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("payload length %d not a multiple of 4", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
