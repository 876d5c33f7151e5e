package driving

import (
	"context"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// ResultActionService provides actions on answers and documents.
// This is used by TUI, CLI, and MCP adapters.
type ResultActionService interface {
	// CopyToClipboard copies the answer text to the system clipboard.
	CopyToClipboard(ctx context.Context, answer *domain.Answer) error

	// OpenFile opens a source file in the default application.
	OpenFile(ctx context.Context, path string) error
}
