package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

// Ingest Command Tests

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [file...]", ingestCmd.Use)
}

func TestIngestCmd_Short(t *testing.T) {
	assert.Equal(t, "Process documents into the store", ingestCmd.Short)
}

func TestIngestCmd_RequiresAtLeastOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestIngestCmd_ProcessesFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "report.pdf"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "report.pdf: processed into 4 chunks")
}

func TestIngestCmd_ReportsReusedDocuments(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	ingestService = &mockIngestService{
		ProcessFunc: func(_ context.Context, path string) (*driving.IngestResult, error) {
			return &driving.IngestResult{
				Document:   domain.Document{ID: 1, Filename: path},
				ChunkCount: 12,
				Reused:     true,
			}, nil
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "report.pdf"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "report.pdf: unchanged, reusing 12 stored chunks")
}

func TestIngestCmd_ProcessesMultipleFiles(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	var processed []string
	ingestService = &mockIngestService{
		ProcessFunc: func(_ context.Context, path string) (*driving.IngestResult, error) {
			processed = append(processed, path)
			return &driving.IngestResult{
				Document:   domain.Document{Filename: path},
				ChunkCount: 3,
			}, nil
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "a.pdf", "b.txt"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.txt"}, processed)
	assert.Contains(t, buf.String(), "a.pdf: processed into 3 chunks")
	assert.Contains(t, buf.String(), "b.txt: processed into 3 chunks")
}

func TestIngestCmd_ContinuesAfterFailure(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	ingestService = &mockIngestService{
		ProcessFunc: func(_ context.Context, path string) (*driving.IngestResult, error) {
			if path == "broken.pdf" {
				return nil, errors.New("unsupported file type")
			}
			return &driving.IngestResult{
				Document:   domain.Document{Filename: path},
				ChunkCount: 2,
			}, nil
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "broken.pdf", "good.txt"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 file(s) failed")
	output := buf.String()
	assert.Contains(t, output, "broken.pdf: unsupported file type")
	assert.Contains(t, output, "good.txt: processed into 2 chunks")
}

func TestIngestCmd_ErrorsWithoutService(t *testing.T) {
	oldService := ingestService
	ingestService = nil
	defer func() {
		ingestService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "report.pdf"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured")
}
