package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	File     string `json:"file" jsonschema:"path of the document to question"`
	Question string `json:"question" jsonschema:"the question to answer from the document"`
	K        int    `json:"k,omitempty" jsonschema:"number of chunks to retrieve (default from settings)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Mode    string         `json:"mode"`
	Sources []SourceOutput `json:"sources"`
}

// SourceOutput is one retrieved chunk the answer is grounded on.
type SourceOutput struct {
	Position   int     `json:"position"`
	Similarity float64 `json:"similarity"`
	Content    string  `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question about a document using its most relevant chunks",
	}, s.handleAsk)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	opts := domain.AskOptions{TopK: input.K}

	answer, err := s.ports.Answer.Ask(ctx, input.File, input.Question, opts)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:  answer.Text,
		Mode:    answer.Mode.String(),
		Sources: make([]SourceOutput, len(answer.Sources)),
	}
	for i, src := range answer.Sources {
		output.Sources[i] = SourceOutput{
			Position:   src.Chunk.Position,
			Similarity: src.Similarity,
			Content:    src.Chunk.Content,
		}
	}

	return nil, output, nil
}
