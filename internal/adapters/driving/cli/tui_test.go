package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUICmd_Exists(t *testing.T) {
	// Verify the tui command is registered
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "tui" {
			found = true
			break
		}
	}
	assert.True(t, found, "tui command should be registered")
}

func TestTUICmd_ShortDescription(t *testing.T) {
	assert.Equal(t, "Launch the interactive terminal UI", tuiCmd.Short)
}

func TestTUICmd_LongDescription(t *testing.T) {
	assert.Contains(t, tuiCmd.Long, "interactive terminal user interface")
	assert.Contains(t, tuiCmd.Long, "Controls:")
}

func TestTUICmd_HelpOutput(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"tui", "--help"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "interactive terminal user interface")
	assert.Contains(t, output, "Controls:")
}

func TestMCPCmd_Exists(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "mcp" {
			found = true
			break
		}
	}
	assert.True(t, found, "mcp command should be registered")
}

func TestMCPServeCmd_HelpOutput(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"mcp", "serve", "--help"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "Model Context Protocol")
	assert.Contains(t, output, "--port")
}
