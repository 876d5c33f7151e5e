package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Process documents into the store",
	Long: `Extracts, chunks, embeds and indexes each file so later questions
are answered instantly. Files whose content is already stored are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	var failed int
	for _, path := range args {
		result, err := ingestService.Process(cmd.Context(), path)
		if err != nil {
			cmd.Printf("%s: %v\n", path, err)
			failed++
			continue
		}
		if result.Reused {
			cmd.Printf("%s: unchanged, reusing %d stored chunks\n", path, result.ChunkCount)
		} else {
			cmd.Printf("%s: processed into %d chunks\n", path, result.ChunkCount)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(args))
	}
	return nil
}
