package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

var (
	askTopK  int
	askLocal bool
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [file] [question]",
	Short: "Ask a question about a document",
	Long: `Processes the document if needed and answers the question from its
most relevant chunks. With an LLM provider configured the answer is
generated; otherwise the best matching sentences are quoted verbatim.`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default from settings)")
	askCmd.Flags().BoolVar(&askLocal, "local", false, "force local extractive answering, no network")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	path, question := args[0], args[1]
	opts := domain.AskOptions{
		TopK:            askTopK,
		ForceExtractive: askLocal,
	}

	answer, err := answerService.Ask(cmd.Context(), path, question, opts)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}

	printAnswer(cmd, answer, true)
	return nil
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	type source struct {
		Position   int     `json:"position"`
		Similarity float64 `json:"similarity"`
		Content    string  `json:"content"`
	}
	out := struct {
		Answer  string   `json:"answer"`
		Mode    string   `json:"mode"`
		Sources []source `json:"sources"`
	}{
		Answer:  answer.Text,
		Mode:    answer.Mode.String(),
		Sources: make([]source, 0, len(answer.Sources)),
	}
	for _, src := range answer.Sources {
		out.Sources = append(out.Sources, source{
			Position:   src.Chunk.Position,
			Similarity: src.Similarity,
			Content:    src.Chunk.Content,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
