package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
	"github.com/docchat-labs/docchat-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// AnswerService answers questions against a single document.
// It ingests the document on demand, retrieves the top-k most similar
// chunks and hands ONLY those to the answerer.
type AnswerService struct {
	ingest           driving.IngestService
	docStore         driven.DocumentStore
	embeddingService driven.EmbeddingService
	indexBuilder     driven.IndexBuilder
	llmAnswerer      driven.Answerer
	localAnswerer    driven.Answerer
	defaultTopK      int
}

// NewAnswerService creates a new answer service.
// The llmAnswerer may be nil; the service then always answers locally.
// The localAnswerer is required.
func NewAnswerService(
	ingest driving.IngestService,
	docStore driven.DocumentStore,
	embeddingService driven.EmbeddingService,
	indexBuilder driven.IndexBuilder,
	llmAnswerer driven.Answerer,
	localAnswerer driven.Answerer,
	defaultTopK int,
) *AnswerService {
	return &AnswerService{
		ingest:           ingest,
		docStore:         docStore,
		embeddingService: embeddingService,
		indexBuilder:     indexBuilder,
		llmAnswerer:      llmAnswerer,
		localAnswerer:    localAnswerer,
		defaultTopK:      domain.ClampTopK(defaultTopK),
	}
}

// Ask answers a question from the document at path.
func (s *AnswerService) Ask(ctx context.Context, path, question string, opts domain.AskOptions) (*domain.Answer, error) {
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	// 1. ENSURE THE DOCUMENT IS PROCESSED
	result, err := s.ingest.Process(ctx, path)
	if err != nil {
		return nil, err
	}

	// 2. LOAD STORED ARTIFACTS
	stored, err := s.docStore.Load(ctx, result.Document.Fingerprint)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	// 3. RETRIEVE TOP-K CHUNKS
	retrieved, err := s.retrieve(ctx, stored, question, opts.TopK)
	if err != nil {
		return nil, err
	}

	// 4. ANSWER FROM RETRIEVED CHUNKS ONLY
	answerer := s.selectAnswerer(opts.ForceExtractive)
	logger.Debug("Answering with %d chunks in %s mode", len(retrieved), answerer.Mode())

	answer, err := answerer.Answer(ctx, question, retrieved)
	if err != nil {
		return nil, fmt.Errorf("answer: %w", err)
	}
	return answer, nil
}

// Mode reports the answer mode the service would currently use.
func (s *AnswerService) Mode() domain.AnswerMode {
	return s.selectAnswerer(false).Mode()
}

// retrieve embeds the question and searches the document's index.
func (s *AnswerService) retrieve(
	ctx context.Context,
	stored *domain.StoredDocument,
	question string,
	topK int,
) ([]domain.RetrievedChunk, error) {
	if s.embeddingService == nil {
		return nil, fmt.Errorf("%w: configure a provider with 'docchat settings'", domain.ErrEmbeddingUnavailable)
	}

	index, err := s.indexBuilder.Restore(stored.Index.Blob)
	if err != nil {
		return nil, fmt.Errorf("restore index for %s: %w", stored.Document.Filename, err)
	}

	query, err := s.embeddingService.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	k := topK
	if k == 0 {
		k = s.defaultTopK
	}
	k = domain.ClampTopK(k)

	hits, err := index.Search(query, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	// Resolve hit positions back to chunks.
	byPosition := make(map[int]domain.Chunk, len(stored.Chunks))
	for _, chunk := range stored.Chunks {
		byPosition[chunk.Position] = chunk
	}

	retrieved := make([]domain.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		chunk, ok := byPosition[hit.Position]
		if !ok {
			return nil, fmt.Errorf("%w: index position %d has no chunk", domain.ErrIndexCorrupt, hit.Position)
		}
		retrieved = append(retrieved, domain.RetrievedChunk{
			Chunk:      chunk,
			Similarity: hit.Similarity,
		})
	}

	// Search already orders by descending similarity; keep that order
	// stable even if a backend returns ties unsorted.
	sort.SliceStable(retrieved, func(i, j int) bool {
		if retrieved[i].Similarity != retrieved[j].Similarity {
			return retrieved[i].Similarity > retrieved[j].Similarity
		}
		return retrieved[i].Chunk.Position < retrieved[j].Chunk.Position
	})

	return retrieved, nil
}

// selectAnswerer picks the LLM answerer when one is configured, unless
// the caller forces local answering.
func (s *AnswerService) selectAnswerer(forceExtractive bool) driven.Answerer {
	if forceExtractive || s.llmAnswerer == nil {
		return s.localAnswerer
	}
	return s.llmAnswerer
}
