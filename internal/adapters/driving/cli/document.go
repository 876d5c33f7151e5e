package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage stored documents",
	Long:  `List, view, remove, or open stored documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	RunE:  runDocumentList,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [filename]",
	Short: "Show document metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [filename]",
	Short: "Print the extracted text",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentRemoveCmd = &cobra.Command{
	Use:   "remove [filename]",
	Short: "Remove a document from the store",
	Long:  `Deletes the document together with its chunks, embeddings and index.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentRemove,
}

var documentOpenCmd = &cobra.Command{
	Use:   "open [filename]",
	Short: "Open the original file in the default application",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentOpen,
}

// removeForce skips the confirmation prompt.
var removeForce bool

func init() {
	documentRemoveCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "remove without confirmation")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentRemoveCmd)
	documentCmd.AddCommand(documentOpenCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents stored.")
		return nil
	}

	cmd.Println("Stored documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].Filename)
		cmd.Printf("    Fingerprint: %s\n", shortFingerprint(docs[i].Fingerprint))
		cmd.Printf("    Chunks:      %d\n", docs[i].ChunkCount)
		cmd.Printf("    Processed:   %s\n", docs[i].ProcessedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d document(s)\n", len(docs))
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	details, err := documentService.GetDetails(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", details.Filename)
	cmd.Printf("  Fingerprint: %s\n", details.Fingerprint)
	cmd.Printf("  Chunks:      %d\n", details.ChunkCount)
	cmd.Printf("  Words:       %d\n", details.WordCount)
	cmd.Printf("  Dimensions:  %d\n", details.IndexDimension)
	cmd.Printf("  Processed:   %s\n", details.ProcessedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	content, err := documentService.GetContent(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document content: %w", err)
	}

	cmd.Println(content)
	return nil
}

func runDocumentRemove(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	filename := args[0]
	if !removeForce {
		cmd.Printf("Remove %s and all its stored data? [y/N]: ", filename)
		reader := bufio.NewReader(cmd.InOrStdin())
		input, _ := reader.ReadString('\n') //nolint:errcheck // empty input means no
		if answer := strings.ToLower(strings.TrimSpace(input)); answer != "y" && answer != "yes" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := documentService.Remove(cmd.Context(), filename); err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}

	cmd.Printf("Removed %s.\n", filename)
	return nil
}

func runDocumentOpen(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Open(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}

	cmd.Printf("Opened %s in default application.\n", args[0])
	return nil
}

// shortFingerprint abbreviates a fingerprint for table display.
func shortFingerprint(fp string) string {
	if len(fp) <= 12 {
		return fp
	}
	return fp[:12] + "..."
}
