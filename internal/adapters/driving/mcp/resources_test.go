package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

func TestExtractFingerprint(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid document URI",
			uri:      "docchat://documents/abc123",
			expected: "abc123",
		},
		{
			name:     "invalid prefix",
			uri:      "file://documents/abc123",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractFingerprint(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil document service returns empty list", func(t *testing.T) {
		ports := &Ports{Answer: &mockAnswerService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("docchat://documents")
		result, err := server.handleDocumentsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns documents successfully", func(t *testing.T) {
		mockDoc := &mockDocumentService{
			documents: []domain.DocumentInfo{
				{Filename: "report.pdf", Fingerprint: "aaa111", ChunkCount: 12, ProcessedAt: time.Now()},
				{Filename: "notes.txt", Fingerprint: "bbb222", ChunkCount: 3, ProcessedAt: time.Now()},
			},
		}

		ports := &Ports{Answer: &mockAnswerService{}, Document: mockDoc}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("docchat://documents")
		result, err := server.handleDocumentsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "report.pdf")
		assert.Contains(t, result.Contents[0].Text, "aaa111")
		assert.Contains(t, result.Contents[0].Text, "notes.txt")
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		mockDoc := &mockDocumentService{
			err: errors.New("storage error"),
		}

		ports := &Ports{Answer: &mockAnswerService{}, Document: mockDoc}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("docchat://documents")
		_, err = server.handleDocumentsResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing documents")
	})

	t.Run("handles empty document list", func(t *testing.T) {
		mockDoc := &mockDocumentService{
			documents: []domain.DocumentInfo{},
		}

		ports := &Ports{Answer: &mockAnswerService{}, Document: mockDoc}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("docchat://documents")
		result, err := server.handleDocumentsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})
}

func TestServer_handleDocumentContentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil document service returns not found", func(t *testing.T) {
		ports := &Ports{Answer: &mockAnswerService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("docchat://documents/abc123")
		_, err = server.handleDocumentContentResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		mockDoc := &mockDocumentService{}
		ports := &Ports{Answer: &mockAnswerService{}, Document: mockDoc}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("docchat://invalid/uri")
		_, err = server.handleDocumentContentResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("returns content by fingerprint", func(t *testing.T) {
		mockDoc := &mockDocumentService{
			documents: []domain.DocumentInfo{
				{Filename: "notes.txt", Fingerprint: "abc123"},
			},
			content: "The extracted document text.",
		}

		ports := &Ports{Answer: &mockAnswerService{}, Document: mockDoc}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("docchat://documents/abc123")
		result, err := server.handleDocumentContentResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "The extracted document text.", result.Contents[0].Text)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
	})

	t.Run("unknown fingerprint returns not found", func(t *testing.T) {
		mockDoc := &mockDocumentService{
			documents: []domain.DocumentInfo{
				{Filename: "notes.txt", Fingerprint: "abc123"},
			},
		}

		ports := &Ports{Answer: &mockAnswerService{}, Document: mockDoc}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("docchat://documents/zzz999")
		_, err = server.handleDocumentContentResource(ctx, req)

		require.Error(t, err)
	})
}
