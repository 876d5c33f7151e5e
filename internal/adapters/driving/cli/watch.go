package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/docchat-labs/docchat-cli/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path...]",
	Short: "Reprocess documents when they change",
	Long: `Watches the given files or directories and reprocesses a document
every time it is written. Unchanged content is detected by fingerprint,
so redundant events are cheap. Stop with Ctrl-C.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	w := watcher.New(args...)
	defer w.Close()

	ctx := cmd.Context()
	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %d path(s). Ctrl-C to stop.\n", len(args))
	for change := range changes {
		switch change.Type {
		case watcher.ChangeDeleted:
			cmd.Printf("%s: removed, keeping stored document\n", change.Path)
		default:
			result, err := ingestService.Process(ctx, change.Path)
			if err != nil {
				cmd.Printf("%s: %v\n", change.Path, err)
				continue
			}
			if result.Reused {
				cmd.Printf("%s: unchanged\n", change.Path)
			} else {
				cmd.Printf("%s: reprocessed into %d chunks\n", change.Path, result.ChunkCount)
			}
		}
	}
	return nil
}
