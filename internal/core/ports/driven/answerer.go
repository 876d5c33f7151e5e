package driven

import (
	"context"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// Answerer produces an answer to a question from retrieved chunks.
// Implementations receive ONLY the retrieved chunks, never the full
// document, so every answer is traceable to its retrieval set.
type Answerer interface {
	// Answer produces an answer grounded on the given chunks.
	// The chunks arrive in retrieval order (descending similarity).
	Answer(ctx context.Context, question string, chunks []domain.RetrievedChunk) (*domain.Answer, error)

	// Mode reports how this answerer produces answers.
	Mode() domain.AnswerMode
}
