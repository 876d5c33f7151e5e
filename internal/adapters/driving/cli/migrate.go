package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [dir]",
	Short: "Import legacy per-file caches",
	Long: `Scans a directory for cache files left by earlier versions
(extracted text, .embeddings.npy, .faiss sidecars) and imports complete
sets into the document store. Partial or inconsistent sets are skipped;
those documents are simply reprocessed from source on next use.

Re-running after a successful migration is a no-op.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if migrationService == nil {
		return errors.New("migration service not configured")
	}

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	report, err := migrationService.Migrate(cmd.Context(), dir)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	cmd.Printf("Scanned:        %d\n", report.Scanned)
	cmd.Printf("Imported:       %d\n", report.Imported)
	cmd.Printf("Already stored: %d\n", report.AlreadyStored)
	cmd.Printf("Skipped:        %d\n", report.Incomplete)
	if report.Incomplete > 0 {
		cmd.Println("\nSkipped documents will be reprocessed from source on next use.")
	}
	return nil
}
