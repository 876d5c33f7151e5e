// Package tui provides an interactive terminal user interface for docchat.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers questions against documents.
	Answer driving.AnswerService

	// Document manages stored documents.
	Document driving.DocumentService

	// Settings manages application settings.
	Settings driving.SettingsService

	// ResultAction provides actions on answers (clipboard, open file).
	ResultAction driving.ResultActionService

	// Ingest processes files into stored documents.
	Ingest driving.IngestService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	answer driving.AnswerService,
	document driving.DocumentService,
	settings driving.SettingsService,
	resultAction driving.ResultActionService,
) *Ports {
	return &Ports{
		Answer:       answer,
		Document:     document,
		Settings:     settings,
		ResultAction: resultAction,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
