// Package llm provides an answerer that sends the question plus the
// retrieved chunks to a configured LLM provider.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure Answerer implements the interfaces.
var (
	_ driven.Answerer         = (*Answerer)(nil)
	_ driven.PromptStoreAware = (*Answerer)(nil)
)

// Generation parameters. Answers should be factual, so temperature is low.
const (
	defaultMaxTokens   = 512
	defaultTemperature = 0.2
)

// defaultAnswerPrompt is the fallback template when no PromptStore is
// configured. Placeholders: context, question.
const defaultAnswerPrompt = `Answer the question using ONLY the context below.
If the context does not contain the answer, say so plainly.

Context:
%s

Question: %s

Answer:`

// defaultAnswerSystemPrompt is the fallback system prompt.
const defaultAnswerSystemPrompt = `You answer questions about a document. ` +
	`Use only the provided context. Do not invent facts that are not in the context.`

// Answerer produces answers by prompting an LLM with the question and
// the retrieved chunks. The prompt contains only the retrieved chunks,
// never the full document.
type Answerer struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// New creates a new LLM-backed answerer.
func New(llm driven.LLMService) (*Answerer, error) {
	if llm == nil {
		return nil, fmt.Errorf("%w: LLM service is required", domain.ErrInvalidInput)
	}
	return &Answerer{llm: llm}, nil
}

// Answer prompts the LLM with the question and the retrieved chunks.
func (a *Answerer) Answer(ctx context.Context, question string, chunks []domain.RetrievedChunk) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks retrieved", domain.ErrInvalidInput)
	}

	promptTemplate := a.loadPrompt(driven.PromptAnswer, defaultAnswerPrompt)
	prompt := fmt.Sprintf(promptTemplate, buildContext(chunks), question)

	text, err := a.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
		System:      a.loadPrompt(driven.PromptAnswerSystem, defaultAnswerSystemPrompt),
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{
		Text:    strings.TrimSpace(text),
		Mode:    domain.AnswerModeLLM,
		Sources: chunks,
	}, nil
}

// Mode reports how this answerer produces answers.
func (a *Answerer) Mode() domain.AnswerMode {
	return domain.AnswerModeLLM
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the answerer uses hardcoded default prompts.
func (a *Answerer) SetPromptStore(store driven.PromptStore) {
	a.promptStore = store
}

// buildContext renders the retrieved chunks as numbered passages.
func buildContext(chunks []domain.RetrievedChunk) string {
	var b strings.Builder
	for i, rc := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] %s", i+1, rc.Chunk.Content)
	}
	return b.String()
}

// loadPrompt loads a prompt from the store, falling back to the default
// if unavailable.
func (a *Answerer) loadPrompt(name, fallback string) string {
	if a.promptStore == nil {
		return fallback
	}
	prompt, err := a.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}
