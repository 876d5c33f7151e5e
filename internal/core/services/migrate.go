package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
	"github.com/docchat-labs/docchat-cli/internal/fingerprint"
	"github.com/docchat-labs/docchat-cli/internal/legacy"
	"github.com/docchat-labs/docchat-cli/internal/logger"
)

// Ensure MigrationService implements the interface.
var _ driving.MigrationService = (*MigrationService)(nil)

// MigrationService imports legacy per-file caches into the document store.
// It runs once per directory; after a successful import Exists reports the
// fingerprint as stored and re-running is a no-op.
type MigrationService struct {
	docStore     driven.DocumentStore
	pipeline     driven.PostProcessorPipeline
	indexBuilder driven.IndexBuilder
}

// NewMigrationService creates a new migration service.
func NewMigrationService(
	docStore driven.DocumentStore,
	pipeline driven.PostProcessorPipeline,
	indexBuilder driven.IndexBuilder,
) *MigrationService {
	return &MigrationService{
		docStore:     docStore,
		pipeline:     pipeline,
		indexBuilder: indexBuilder,
	}
}

// Migrate scans dir for legacy cache sidecars and imports every complete,
// consistent set whose fingerprint is not already stored. Partial or
// inconsistent sets are skipped; those documents are regenerated from
// source on next use.
func (s *MigrationService) Migrate(ctx context.Context, dir string) (*driving.MigrationReport, error) {
	sets, err := legacy.Discover(dir)
	if err != nil {
		return nil, fmt.Errorf("discover legacy caches: %w", err)
	}

	report := &driving.MigrationReport{}
	for _, set := range sets {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		report.Scanned++

		if !set.Complete() {
			logger.Debug("Legacy cache for %s is partial, skipping", set.SourcePath)
			report.Incomplete++
			continue
		}

		fp, err := fingerprint.File(set.SourcePath)
		if err != nil {
			logger.Debug("Cannot fingerprint %s: %v", set.SourcePath, err)
			report.Incomplete++
			continue
		}

		exists, err := s.docStore.Exists(ctx, fp)
		if err != nil {
			return nil, fmt.Errorf("check store for %s: %w", set.SourcePath, err)
		}
		if exists {
			report.AlreadyStored++
			continue
		}

		if err := s.importSet(ctx, set, fp); err != nil {
			logger.Debug("Legacy import of %s failed: %v", set.SourcePath, err)
			report.Incomplete++
			continue
		}
		logger.Info("Imported legacy cache for %s", set.SourcePath)
		report.Imported++
	}

	return report, nil
}

// importSet reconstructs one document from its legacy sidecars and saves
// it. The legacy index file is never read; the index is rebuilt from the
// imported embeddings.
func (s *MigrationService) importSet(ctx context.Context, set legacy.CacheSet, fp string) error {
	text, err := os.ReadFile(set.TextPath)
	if err != nil {
		return fmt.Errorf("read text sidecar: %w", err)
	}

	matrix, err := legacy.ReadMatrix(set.EmbeddingsPath)
	if err != nil {
		return fmt.Errorf("read embeddings: %w", err)
	}
	if len(matrix) == 0 {
		return fmt.Errorf("embeddings array is empty")
	}

	doc := domain.Document{
		Filename:    set.SourcePath,
		Fingerprint: fp,
		Text:        string(text),
	}

	// Re-chunk the text and pair chunks with the legacy embedding rows.
	// A row-count mismatch means the legacy cache disagrees with the
	// chunker; the set is inconsistent and is not imported.
	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return fmt.Errorf("chunk text: %w", err)
	}
	if len(chunks) != len(matrix) {
		return fmt.Errorf("embeddings rows (%d) disagree with chunk count (%d)", len(matrix), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = matrix[i]
	}

	index, err := buildIndex(s.indexBuilder, chunks)
	if err != nil {
		return err
	}

	doc.ProcessedAt = time.Now()
	if err := s.docStore.Save(ctx, &doc, chunks, index); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}
