package services

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages stored documents.
type DocumentService struct {
	docStore driven.DocumentStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore) *DocumentService {
	return &DocumentService{
		docStore: docStore,
	}
}

// List returns all stored documents, newest first.
func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentInfo, error) {
	return s.docStore.List(ctx)
}

// Get retrieves a document by filename.
func (s *DocumentService) Get(ctx context.Context, filename string) (*domain.Document, error) {
	return s.docStore.GetByFilename(ctx, filename)
}

// GetContent returns the document's full extracted text.
func (s *DocumentService) GetContent(ctx context.Context, filename string) (string, error) {
	doc, err := s.docStore.GetByFilename(ctx, filename)
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}

// GetDetails returns metadata for display.
func (s *DocumentService) GetDetails(ctx context.Context, filename string) (*driving.DocumentDetails, error) {
	doc, err := s.docStore.GetByFilename(ctx, filename)
	if err != nil {
		return nil, err
	}

	stored, err := s.docStore.Load(ctx, doc.Fingerprint)
	if err != nil {
		return nil, err
	}

	wordCount := 0
	for _, chunk := range stored.Chunks {
		wordCount += chunk.WordCount
	}

	return &driving.DocumentDetails{
		ID:             doc.ID,
		Filename:       doc.Filename,
		Fingerprint:    doc.Fingerprint,
		ChunkCount:     len(stored.Chunks),
		WordCount:      wordCount,
		IndexDimension: stored.Index.Dimension,
		ProcessedAt:    doc.ProcessedAt,
	}, nil
}

// Remove deletes a document and all its artifacts.
func (s *DocumentService) Remove(ctx context.Context, filename string) error {
	doc, err := s.docStore.GetByFilename(ctx, filename)
	if err != nil {
		return err
	}
	return s.docStore.Delete(ctx, doc.Fingerprint)
}

// Open opens the original file in the default application.
func (s *DocumentService) Open(ctx context.Context, filename string) error {
	doc, err := s.docStore.GetByFilename(ctx, filename)
	if err != nil {
		return err
	}
	return openPath(doc.Filename)
}

// openPath opens a file path using the system default handler.
func openPath(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
