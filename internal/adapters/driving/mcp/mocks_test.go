package mcp

import (
	"context"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer *domain.Answer
	err    error

	lastPath     string
	lastQuestion string
	lastOpts     domain.AskOptions
}

func (m *mockAnswerService) Ask(
	_ context.Context,
	path, question string,
	opts domain.AskOptions,
) (*domain.Answer, error) {
	m.lastPath = path
	m.lastQuestion = question
	m.lastOpts = opts
	return m.answer, m.err
}

func (m *mockAnswerService) Mode() domain.AnswerMode {
	return domain.AnswerModeExtractive
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.DocumentInfo
	document  *domain.Document
	content   string
	details   *driving.DocumentDetails
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.DocumentInfo, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) GetContent(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockDocumentService) GetDetails(_ context.Context, _ string) (*driving.DocumentDetails, error) {
	return m.details, m.err
}

func (m *mockDocumentService) Remove(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentService) Open(_ context.Context, _ string) error {
	return m.err
}
