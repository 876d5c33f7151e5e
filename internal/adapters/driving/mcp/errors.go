// Package mcp provides an MCP (Model Context Protocol) server adapter for DocChat.
// It enables AI assistants like Claude to ask questions about stored documents.
package mcp

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")
