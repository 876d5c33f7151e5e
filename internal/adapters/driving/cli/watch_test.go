package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Watch Command Tests
//
// runWatch blocks on the change channel until the context is cancelled,
// so only the wiring around it is tested here. The watcher itself is
// covered in internal/watcher.

func TestWatchCmd_Use(t *testing.T) {
	assert.Equal(t, "watch [path...]", watchCmd.Use)
}

func TestWatchCmd_Short(t *testing.T) {
	assert.Equal(t, "Reprocess documents when they change", watchCmd.Short)
}

func TestWatchCmd_RequiresAtLeastOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"watch"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestWatchCmd_ErrorsWithoutService(t *testing.T) {
	oldService := ingestService
	ingestService = nil
	defer func() {
		ingestService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"watch", "docs/"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured")
}

func TestWatchCmd_HelpOutput(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"watch", "--help"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "reprocesses a document")
	assert.Contains(t, output, "Ctrl-C")
}
