// Package pdf extracts text from PDF documents by shelling out to
// pdftotext (poppler-utils). The external binary is behind a
// CommandRunner seam so tests can run without poppler installed.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// ErrPDFToolNotFound indicates the pdftotext binary is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner executes an external command and returns its stdout.
// It exists so tests can substitute a fake pdftotext.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Normaliser extracts text from PDF files via pdftotext.
type Normaliser struct {
	runner CommandRunner
}

// New creates a new PDF normaliser using the system pdftotext.
func New() *Normaliser {
	return &Normaliser{runner: execRunner{}}
}

// NewWithRunner creates a PDF normaliser with a custom command runner.
func NewWithRunner(runner CommandRunner) *Normaliser {
	return &Normaliser{runner: runner}
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform-specific installation guidance
// for the pdftotext dependency.
func InstallInstructions() string {
	return `PDF extraction requires pdftotext from poppler:

  macOS:         brew install poppler
  Debian/Ubuntu: sudo apt install poppler-utils
  Fedora:        sudo dnf install poppler-utils
  Arch:          sudo pacman -S poppler`
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific normaliser
}

// Normalise extracts text from the raw PDF bytes.
// The bytes are written to a temporary file because pdftotext reads
// from disk; "-" as the output argument streams text to stdout.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	if err := CheckAvailable(); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "docchat-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(raw.Content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	out, err := n.runner.Run(ctx, "pdftotext", "-layout", tmpPath, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed for %s: %w", filepath.Base(raw.URI), err)
	}

	doc := domain.Document{
		Filename: raw.URI,
		Text:     string(out),
	}

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}
