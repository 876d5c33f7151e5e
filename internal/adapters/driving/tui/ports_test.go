package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

// MockAnswerService implements driving.AnswerService for testing.
type MockAnswerService struct {
	AskFunc  func(ctx context.Context, path, question string, opts domain.AskOptions) (*domain.Answer, error)
	ModeFunc func() domain.AnswerMode
}

func (m *MockAnswerService) Ask(
	ctx context.Context, path, question string, opts domain.AskOptions,
) (*domain.Answer, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, path, question, opts)
	}
	return &domain.Answer{Mode: domain.AnswerModeExtractive}, nil
}

func (m *MockAnswerService) Mode() domain.AnswerMode {
	if m.ModeFunc != nil {
		return m.ModeFunc()
	}
	return domain.AnswerModeExtractive
}

// MockDocumentService implements driving.DocumentService for testing.
type MockDocumentService struct {
	ListFunc       func(ctx context.Context) ([]domain.DocumentInfo, error)
	GetFunc        func(ctx context.Context, filename string) (*domain.Document, error)
	GetContentFunc func(ctx context.Context, filename string) (string, error)
	GetDetailsFunc func(ctx context.Context, filename string) (*driving.DocumentDetails, error)
	RemoveFunc     func(ctx context.Context, filename string) error
	OpenFunc       func(ctx context.Context, filename string) error
}

func (m *MockDocumentService) List(ctx context.Context) ([]domain.DocumentInfo, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockDocumentService) Get(ctx context.Context, filename string) (*domain.Document, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, filename)
	}
	return nil, nil
}

func (m *MockDocumentService) GetContent(ctx context.Context, filename string) (string, error) {
	if m.GetContentFunc != nil {
		return m.GetContentFunc(ctx, filename)
	}
	return "", nil
}

func (m *MockDocumentService) GetDetails(ctx context.Context, filename string) (*driving.DocumentDetails, error) {
	if m.GetDetailsFunc != nil {
		return m.GetDetailsFunc(ctx, filename)
	}
	return nil, nil
}

func (m *MockDocumentService) Remove(ctx context.Context, filename string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, filename)
	}
	return nil
}

func (m *MockDocumentService) Open(ctx context.Context, filename string) error {
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, filename)
	}
	return nil
}

// MockSettingsService implements driving.SettingsService for testing.
type MockSettingsService struct {
	GetFunc                  func() (*domain.AppSettings, error)
	SaveFunc                 func(settings *domain.AppSettings) error
	SetEmbeddingProviderFunc func(provider domain.AIProvider, model, apiKey string) error
	SetLLMProviderFunc       func(provider domain.AIProvider, model, apiKey string) error
	SetChunkWordsFunc        func(words int) error
	SetTopKFunc              func(k int) error
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	if m.GetFunc != nil {
		return m.GetFunc()
	}
	defaults := domain.DefaultAppSettings()
	return &defaults, nil
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(settings)
	}
	return nil
}

func (m *MockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if m.SetEmbeddingProviderFunc != nil {
		return m.SetEmbeddingProviderFunc(provider, model, apiKey)
	}
	return nil
}

func (m *MockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if m.SetLLMProviderFunc != nil {
		return m.SetLLMProviderFunc(provider, model, apiKey)
	}
	return nil
}

func (m *MockSettingsService) SetChunkWords(words int) error {
	if m.SetChunkWordsFunc != nil {
		return m.SetChunkWordsFunc(words)
	}
	return nil
}

func (m *MockSettingsService) SetTopK(k int) error {
	if m.SetTopKFunc != nil {
		return m.SetTopKFunc(k)
	}
	return nil
}

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *MockSettingsService) ValidateEmbeddingConfig() error {
	return nil
}

func (m *MockSettingsService) ValidateLLMConfig() error {
	return nil
}

// MockResultActionService implements driving.ResultActionService for testing.
type MockResultActionService struct {
	CopyToClipboardFunc func(ctx context.Context, answer *domain.Answer) error
	OpenFileFunc        func(ctx context.Context, path string) error
}

func (m *MockResultActionService) CopyToClipboard(ctx context.Context, answer *domain.Answer) error {
	if m.CopyToClipboardFunc != nil {
		return m.CopyToClipboardFunc(ctx, answer)
	}
	return nil
}

func (m *MockResultActionService) OpenFile(ctx context.Context, path string) error {
	if m.OpenFileFunc != nil {
		return m.OpenFileFunc(ctx, path)
	}
	return nil
}

func TestNewPorts(t *testing.T) {
	answer := &MockAnswerService{}
	document := &MockDocumentService{}
	settings := &MockSettingsService{}
	resultAction := &MockResultActionService{}

	ports := NewPorts(answer, document, settings, resultAction)

	require.NotNil(t, ports)
	assert.Equal(t, answer, ports.Answer)
	assert.Equal(t, document, ports.Document)
	assert.Equal(t, settings, ports.Settings)
	assert.Equal(t, resultAction, ports.ResultAction)
}

func TestPorts_Validate_AllSet(t *testing.T) {
	ports := &Ports{
		Answer:   &MockAnswerService{},
		Document: &MockDocumentService{},
		Settings: &MockSettingsService{},
	}

	err := ports.Validate()

	assert.NoError(t, err)
}

func TestPorts_Validate_MissingAnswer(t *testing.T) {
	ports := &Ports{
		Answer:   nil,
		Document: &MockDocumentService{},
		Settings: &MockSettingsService{},
	}

	err := ports.Validate()

	assert.ErrorIs(t, err, ErrMissingAnswerService)
}

func TestPorts_Validate_MissingDocument(t *testing.T) {
	ports := &Ports{
		Answer:   &MockAnswerService{},
		Document: nil,
		Settings: &MockSettingsService{},
	}

	err := ports.Validate()

	assert.ErrorIs(t, err, ErrMissingDocumentService)
}

func TestPorts_Validate_MissingSettings(t *testing.T) {
	ports := &Ports{
		Answer:   &MockAnswerService{},
		Document: &MockDocumentService{},
		Settings: nil,
	}

	err := ports.Validate()

	assert.ErrorIs(t, err, ErrMissingSettingsService)
}
