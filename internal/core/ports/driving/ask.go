package driving

import (
	"context"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// AnswerService answers questions against a single document.
type AnswerService interface {
	// Ask answers a question from the document at path, ingesting it
	// first if its fingerprint is not already stored. Only the top-k
	// retrieved chunks reach the answerer.
	Ask(ctx context.Context, path, question string, opts domain.AskOptions) (*domain.Answer, error)

	// Mode reports the answer mode the service would currently use.
	Mode() domain.AnswerMode
}
