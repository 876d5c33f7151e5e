package mcp

import (
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers questions against documents.
	Answer driving.AnswerService

	// Document manages stored documents.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	// Document is optional; the resources degrade to empty listings.
	return nil
}
