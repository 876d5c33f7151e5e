package services

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

// Operating system identifiers.
const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

// Ensure ResultActionService implements the interface.
var _ driving.ResultActionService = (*ResultActionService)(nil)

// ResultActionService provides actions on answers and documents.
type ResultActionService struct{}

// NewResultActionService creates a new result action service.
func NewResultActionService() *ResultActionService {
	return &ResultActionService{}
}

// CopyToClipboard copies the answer text to the system clipboard.
func (s *ResultActionService) CopyToClipboard(_ context.Context, answer *domain.Answer) error {
	if answer == nil {
		return fmt.Errorf("answer is nil")
	}
	return copyToClipboard(answer.Text)
}

// OpenFile opens a source file in the default application.
func (s *ResultActionService) OpenFile(_ context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("path is empty")
	}
	return openPath(path)
}

// copyToClipboard copies text to the system clipboard using OS-specific commands.
func copyToClipboard(text string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case osDarwin:
		cmd = exec.Command("pbcopy")
	case osLinux:
		// Try xclip first, fall back to xsel
		if _, err := exec.LookPath("xclip"); err == nil {
			cmd = exec.Command("xclip", "-selection", "clipboard")
		} else if _, err := exec.LookPath("xsel"); err == nil {
			cmd = exec.Command("xsel", "--clipboard", "--input")
		} else {
			return fmt.Errorf("no clipboard utility found (install xclip or xsel)")
		}
	case osWindows:
		cmd = exec.Command("cmd", "/c", "clip")
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}
