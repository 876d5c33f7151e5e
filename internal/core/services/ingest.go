package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
	"github.com/docchat-labs/docchat-cli/internal/fingerprint"
	"github.com/docchat-labs/docchat-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the processing pipeline for one file:
// fingerprint, cache check, extract, chunk, embed, index, save.
type IngestService struct {
	docStore         driven.DocumentStore
	registry         driven.NormaliserRegistry
	pipeline         driven.PostProcessorPipeline
	embeddingService driven.EmbeddingService
	indexBuilder     driven.IndexBuilder
}

// NewIngestService creates a new ingest service.
// The embeddingService may be nil; processing then fails with
// domain.ErrEmbeddingUnavailable until a provider is configured.
func NewIngestService(
	docStore driven.DocumentStore,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embeddingService driven.EmbeddingService,
	indexBuilder driven.IndexBuilder,
) *IngestService {
	return &IngestService{
		docStore:         docStore,
		registry:         registry,
		pipeline:         pipeline,
		embeddingService: embeddingService,
		indexBuilder:     indexBuilder,
	}
}

// Process ingests the file at path.
// A fingerprint already fully processed is reused untouched; changing one
// byte of the file changes the fingerprint and forces reprocessing.
func (s *IngestService) Process(ctx context.Context, path string) (*driving.IngestResult, error) {
	// 1. STAT AND FINGERPRINT
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: file %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}

	mimeType, err := detectMIMEType(path)
	if err != nil {
		return nil, err
	}

	fp, err := fingerprint.File(path)
	if err != nil {
		return nil, fmt.Errorf("fingerprint %s: %w", path, err)
	}

	// 2. CACHE CHECK
	exists, err := s.docStore.Exists(ctx, fp)
	if err != nil {
		return nil, fmt.Errorf("check store: %w", err)
	}
	if exists {
		logger.Debug("Reusing stored document for %s (%s)", path, fp[:12])
		stored, err := s.docStore.Load(ctx, fp)
		if err != nil {
			return nil, fmt.Errorf("load stored document: %w", err)
		}
		return &driving.IngestResult{
			Document:   stored.Document,
			ChunkCount: len(stored.Chunks),
			Reused:     true,
		}, nil
	}

	// 3. EXTRACT TEXT
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	raw := &domain.RawDocument{
		URI:      path,
		MIMEType: mimeType,
		Content:  content,
	}

	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	doc := result.Document
	doc.Fingerprint = fp

	// 4. CHUNK
	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("chunk: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s contains no extractable text", domain.ErrInvalidInput, path)
	}

	// 5. EMBED
	if s.embeddingService == nil {
		return nil, fmt.Errorf("%w: configure a provider with 'docchat settings'", domain.ErrEmbeddingUnavailable)
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}
	embeddings, err := s.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrExternalService, len(embeddings), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	// 6. INDEX
	index, err := buildIndex(s.indexBuilder, chunks)
	if err != nil {
		return nil, err
	}

	// 7. SAVE ATOMICALLY
	doc.ProcessedAt = time.Now()
	if err := s.docStore.Save(ctx, &doc, chunks, index); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	logger.Info("Processed %s: %d chunks, %d-dim index", path, len(chunks), index.Dimension)

	return &driving.IngestResult{
		Document:   doc,
		ChunkCount: len(chunks),
		Reused:     false,
	}, nil
}

// buildIndex builds a similarity index over the chunks' embeddings and
// serializes it.
func buildIndex(builder driven.IndexBuilder, chunks []domain.Chunk) (*domain.SearchIndex, error) {
	dimension := len(chunks[0].Embedding)
	if dimension == 0 {
		return nil, fmt.Errorf("%w: empty embedding vector", domain.ErrExternalService)
	}

	ix, err := builder.New(dimension)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	for _, chunk := range chunks {
		if err := ix.Add(chunk.Position, chunk.Embedding); err != nil {
			return nil, fmt.Errorf("index chunk %d: %w", chunk.Position, err)
		}
	}

	blob, err := ix.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("serialize index: %w", err)
	}

	return &domain.SearchIndex{
		Dimension: dimension,
		Blob:      blob,
		CreatedAt: time.Now(),
	}, nil
}

// detectMIMEType maps a file extension to a MIME type for normaliser
// dispatch. Only PDF and plain text files are supported; extensionless
// files are treated as plain text.
func detectMIMEType(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return "application/pdf", nil
	case ".txt", "":
		return "text/plain", nil
	default:
		return "", fmt.Errorf("%w: %s, use .txt or .pdf", domain.ErrUnsupportedType, ext)
	}
}
