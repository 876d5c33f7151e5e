// Package cli implements the docchat command surface.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
	"github.com/docchat-labs/docchat-cli/internal/logger"
)

// version is set by the build via SetVersion.
var version = "dev"

// Services the commands depend on. Wired once at startup by the
// composition root; commands check for nil so partial wiring degrades
// to a clear error instead of a panic.
var (
	answerService    driving.AnswerService
	ingestService    driving.IngestService
	documentService  driving.DocumentService
	migrationService driving.MigrationService
	settingsService  driving.SettingsService
	actionService    driving.ResultActionService
)

// Services bundles everything the CLI needs.
type Services struct {
	Answer    driving.AnswerService
	Ingest    driving.IngestService
	Document  driving.DocumentService
	Migration driving.MigrationService
	Settings  driving.SettingsService
	Action    driving.ResultActionService
}

// SetServices wires the service implementations into the commands.
func SetServices(s *Services) {
	answerService = s.Answer
	ingestService = s.Ingest
	documentService = s.Document
	migrationService = s.Migration
	settingsService = s.Settings
	actionService = s.Action
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Ask questions about your documents",
	Long: `DocChat answers questions about PDF and text files.

Run without arguments for the interactive flow: you are prompted for a
filename, the document is processed (or reused if unchanged), and then
you can ask questions about it until you type 'exit' or press Ctrl-D.

Use the subcommands for one-shot operation and management tasks.`,
	SilenceUsage: true,
	RunE:         runInteractive,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context so
// commands are cancelled on shutdown signals.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	if answerService == nil || ingestService == nil {
		return errors.New("answer service not configured")
	}

	ctx := cmd.Context()
	reader := bufio.NewReader(cmd.InOrStdin())

	// Import any legacy caches sitting next to the documents before the
	// first prompt. Best effort: a failed migration never blocks asking.
	if migrationService != nil {
		if report, err := migrationService.Migrate(ctx, "."); err == nil && report.Imported > 0 {
			cmd.Printf("Imported %d legacy cache(s) into the document store.\n\n", report.Imported)
		}
	}

	cmd.Print("Document file: ")
	path, err := readInteractiveLine(reader)
	if err != nil {
		return nil // EOF before a filename: nothing to do
	}
	if path == "" {
		return errors.New("no document file given")
	}

	result, err := ingestService.Process(ctx, path)
	if err != nil {
		return err
	}
	if result.Reused {
		cmd.Printf("Using stored document (%d chunks).\n", result.ChunkCount)
	} else {
		cmd.Printf("Processed %s into %d chunks.\n", result.Document.Filename, result.ChunkCount)
	}
	cmd.Printf("Answer mode: %s\n\n", answerService.Mode().Description())

	for {
		cmd.Print("Question (exit to quit): ")
		question, err := readInteractiveLine(reader)
		if err != nil || question == "exit" {
			cmd.Println()
			return nil
		}
		if question == "" {
			continue
		}

		answer, err := answerService.Ask(ctx, path, question, domain.AskOptions{})
		if err != nil {
			cmd.Printf("Error: %v\n\n", err)
			continue
		}
		printAnswer(cmd, answer, false)
	}
}

// readInteractiveLine reads one trimmed line, reporting EOF as an error.
func readInteractiveLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" && errors.Is(err, io.EOF) {
		return "", io.EOF
	}
	return line, nil
}

// printAnswer renders an answer with its sources.
func printAnswer(cmd *cobra.Command, answer *domain.Answer, showSimilarity bool) {
	cmd.Println(answer.Text)
	if len(answer.Sources) > 0 {
		cmd.Println()
		parts := make([]string, 0, len(answer.Sources))
		for _, src := range answer.Sources {
			if showSimilarity {
				parts = append(parts, fmt.Sprintf("chunk %d (%.2f)", src.Chunk.Position, src.Similarity))
			} else {
				parts = append(parts, fmt.Sprintf("chunk %d", src.Chunk.Position))
			}
		}
		cmd.Printf("Sources: %s\n", strings.Join(parts, ", "))
	}
	cmd.Println()
}

var verboseFlag bool

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "print pipeline debug output to stderr")
	rootCmd.PersistentPreRun = func(*cobra.Command, []string) {
		logger.SetVerbose(verboseFlag)
	}
}
