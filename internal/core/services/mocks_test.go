package services

import (
	"context"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// --- Mock implementations shared across service tests ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// embedFn controls the vector returned per text; when nil a fixed unit
// vector is returned for everything.
type mockEmbeddingService struct {
	embedFn  func(text string) []float32
	embedErr error
	dims     int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.embedFn != nil {
		return m.embedFn(text), nil
	}
	return []float32{1, 0, 0}, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = vec
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 3
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockAnswerer implements driven.Answerer and records what it received.
type mockAnswerer struct {
	mode      domain.AnswerMode
	answerErr error

	lastQuestion string
	lastChunks   []domain.RetrievedChunk
	calls        int
}

func (m *mockAnswerer) Answer(_ context.Context, question string, chunks []domain.RetrievedChunk) (*domain.Answer, error) {
	m.calls++
	m.lastQuestion = question
	m.lastChunks = chunks
	if m.answerErr != nil {
		return nil, m.answerErr
	}
	return &domain.Answer{
		Text:    "mock answer",
		Mode:    m.mode,
		Sources: chunks,
	}, nil
}

func (m *mockAnswerer) Mode() domain.AnswerMode {
	return m.mode
}
