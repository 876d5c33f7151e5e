package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Settings Command Tests

func TestSettingsCmd_Use(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
}

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	commands := settingsCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "show")
	assert.Contains(t, commandNames, "wizard")
	assert.Contains(t, commandNames, "embedding")
	assert.Contains(t, commandNames, "llm")
	assert.Contains(t, commandNames, "chunk-size")
	assert.Contains(t, commandNames, "top-k")
}

func TestSettingsShowCmd_PrintsSettings(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "Current Settings")
	assert.Contains(t, output, "[Embedding]")
	assert.Contains(t, output, "Provider: Ollama (local)")
	assert.Contains(t, output, "Model: nomic-embed-text")
	assert.Contains(t, output, "Base URL: http://localhost:11434")
	assert.Contains(t, output, "[LLM]")
	assert.Contains(t, output, "[Chunking]")
	assert.Contains(t, output, "Max words per chunk: 200")
	assert.Contains(t, output, "[Retrieval]")
	assert.Contains(t, output, "Top-k chunks: 5")
	assert.Contains(t, output, "[Storage]")
}

func TestSettingsShowCmd_NotesExtractiveModeWithoutLLM(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Answers use local extractive mode until an LLM provider is configured.")
}

func TestSettingsShowCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	settingsService = &mockCLISettingsService{
		GetFunc: func() (*domain.AppSettings, error) {
			return nil, errors.New("config file unreadable")
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get settings")
}

func TestSettingsShowCmd_ErrorsWithoutService(t *testing.T) {
	oldService := settingsService
	settingsService = nil
	defer func() {
		settingsService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

// Settings Chunk Size Tests

func TestSettingsChunkCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "chunk-size"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSettingsChunkCmd_SetsChunkSize(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockCLISettingsService{}
	settingsService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "chunk-size", "300"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, 300, mock.chunkWords)
	assert.Contains(t, buf.String(), "Chunk size set to 300 words.")
}

func TestSettingsChunkCmd_RejectsNonNumeric(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "chunk-size", "lots"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid chunk size: lots")
}

// Settings Top-K Tests

func TestSettingsTopKCmd_SetsTopK(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockCLISettingsService{}
	settingsService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "top-k", "10"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, 10, mock.topK)
	assert.Contains(t, buf.String(), "Retrieval depth set to 10 chunks per question.")
}

func TestSettingsTopKCmd_RejectsNonNumeric(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "top-k", "many"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid top-k: many")
}

