// Package chunker provides a fixed-size word chunking processor.
package chunker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// DefaultMaxWords is the default number of words per chunk.
const DefaultMaxWords = 200

// Processor splits document text into fixed-size word chunks.
// Chunks are a total, order-preserving partition of the text's word
// sequence: no word is dropped, duplicated, or reordered.
// It implements the PostProcessor interface.
type Processor struct {
	maxWords int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxWords sets the maximum chunk size in words.
func WithMaxWords(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxWords = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxWords: DefaultMaxWords,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document text into chunks of at most maxWords words.
// Words are split on Unicode whitespace and re-joined with single spaces,
// so chunk text is whitespace-normalised. Input chunks are ignored; this
// processor creates new chunks from document text.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	words := strings.Fields(doc.Text)
	if len(words) == 0 {
		// Empty or whitespace-only text produces no chunks
		return nil, nil
	}

	estimated := (len(words) + p.maxWords - 1) / p.maxWords
	chunks := make([]domain.Chunk, 0, estimated)

	for start := 0; start < len(words); start += p.maxWords {
		end := start + p.maxWords
		if end > len(words) {
			end = len(words)
		}

		batch := words[start:end]
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Position:   len(chunks),
			Content:    strings.Join(batch, " "),
			WordCount:  len(batch),
		})
	}

	return chunks, nil
}
