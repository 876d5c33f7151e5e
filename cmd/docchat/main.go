// Command docchat answers questions about PDF and text documents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/docchat-labs/docchat-cli/internal/adapters/driven/ai"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driven/answerer/extractive"
	llmanswerer "github.com/docchat-labs/docchat-cli/internal/adapters/driven/answerer/llm"
	configfile "github.com/docchat-labs/docchat-cli/internal/adapters/driven/config/file"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driven/storage/sqlite"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/cli"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
	"github.com/docchat-labs/docchat-cli/internal/core/services"
	"github.com/docchat-labs/docchat-cli/internal/index/bruteforce"
	"github.com/docchat-labs/docchat-cli/internal/normalisers"
	"github.com/docchat-labs/docchat-cli/internal/normalisers/pdf"
	"github.com/docchat-labs/docchat-cli/internal/normalisers/plaintext"
	"github.com/docchat-labs/docchat-cli/internal/postprocessors"
	"github.com/docchat-labs/docchat-cli/internal/postprocessors/chunker"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// API keys may live in a .env next to the documents.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	docStore, err := sqlite.NewStore(settings.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	defer docStore.Close()

	// A missing or unreachable AI provider degrades to extractive
	// answering instead of refusing to start.
	embeddingService, err := ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if embeddingService != nil {
		defer embeddingService.Close()
	}

	llmService, err := ai.CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if llmService != nil {
		defer llmService.Close()
	}

	registry := normalisers.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(pdf.New())

	var chunkerOpts []chunker.Option
	if settings.Chunking.MaxWords > 0 {
		chunkerOpts = append(chunkerOpts, chunker.WithMaxWords(settings.Chunking.MaxWords))
	}
	pipeline := postprocessors.NewPipeline(chunker.New(chunkerOpts...))

	indexBuilder := bruteforce.NewBuilder()

	var llmAnswerer driven.Answerer
	if llmService != nil {
		answerer, err := llmanswerer.New(llmService)
		if err != nil {
			return fmt.Errorf("create LLM answerer: %w", err)
		}
		if promptStore, err := configfile.NewPromptStore(""); err == nil {
			answerer.SetPromptStore(promptStore)
		}
		llmAnswerer = answerer
	}

	ingestService := services.NewIngestService(docStore, registry, pipeline, embeddingService, indexBuilder)
	answerService := services.NewAnswerService(
		ingestService,
		docStore,
		embeddingService,
		indexBuilder,
		llmAnswerer,
		extractive.New(),
		settings.Retrieval.TopK,
	)

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		Answer:    answerService,
		Ingest:    ingestService,
		Document:  services.NewDocumentService(docStore),
		Migration: services.NewMigrationService(docStore, pipeline, indexBuilder),
		Settings:  settingsService,
		Action:    services.NewResultActionService(),
	})

	return cli.ExecuteContext(ctx)
}
