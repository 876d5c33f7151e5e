package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for DocChat resources.
	uriScheme = "docchat://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing stored documents.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "List of all stored documents",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Template for document text by fingerprint.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{fingerprint}",
		Name:        "document-content",
		Description: "Extracted text of a stored document",
		MIMEType:    "text/plain",
	}, s.handleDocumentContentResource)
}

// handleDocumentsResource returns a list of all stored documents.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	// Build simplified document list.
	type docInfo struct {
		Filename    string `json:"filename"`
		Fingerprint string `json:"fingerprint"`
		ChunkCount  int    `json:"chunk_count"`
		ProcessedAt string `json:"processed_at"`
	}

	infos := make([]docInfo, len(docs))
	for i := range docs {
		infos[i] = docInfo{
			Filename:    docs[i].Filename,
			Fingerprint: docs[i].Fingerprint,
			ChunkCount:  docs[i].ChunkCount,
			ProcessedAt: docs[i].ProcessedAt.Format("2006-01-02 15:04:05"),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentContentResource returns the text of a document by fingerprint.
func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract fingerprint from URI: docchat://documents/{fingerprint}
	fingerprint := extractFingerprint(req.Params.URI)
	if fingerprint == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// The document port is keyed by filename; resolve the fingerprint
	// through the listing.
	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	filename := ""
	for i := range docs {
		if docs[i].Fingerprint == fingerprint {
			filename = docs[i].Filename
			break
		}
	}
	if filename == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	content, err := s.ports.Document.GetContent(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("getting document content: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     content,
		}},
	}, nil
}

// extractFingerprint extracts the fingerprint from a URI like docchat://documents/{fingerprint}.
func extractFingerprint(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
