package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAIProvider_IsValid tests all valid and invalid providers
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{"ollama is valid", AIProviderOllama, true},
		{"openai is valid", AIProviderOpenAI, true},
		{"anthropic is valid", AIProviderAnthropic, true},
		{"deepseek is valid", AIProviderDeepSeek, true},
		{"empty string is invalid", AIProvider(""), false},
		{"unknown provider is invalid", AIProvider("cohere"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

// TestAIProvider_RequiresAPIKey tests API key requirements per provider
func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
	assert.True(t, AIProviderDeepSeek.RequiresAPIKey())
}

// TestAIProvider_IsLocal tests local/cloud classification
func TestAIProvider_IsLocal(t *testing.T) {
	assert.True(t, AIProviderOllama.IsLocal())
	assert.False(t, AIProviderOpenAI.IsLocal())
	assert.False(t, AIProviderAnthropic.IsLocal())
	assert.False(t, AIProviderDeepSeek.IsLocal())
}

// TestEmbeddingSettings_IsConfigured tests embedding configuration states
func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		expected bool
	}{
		{
			name:     "unconfigured",
			settings: EmbeddingSettings{},
			expected: false,
		},
		{
			name:     "ollama without key is configured",
			settings: EmbeddingSettings{Provider: AIProviderOllama, Model: "nomic-embed-text"},
			expected: true,
		},
		{
			name:     "openai without key is not configured",
			settings: EmbeddingSettings{Provider: AIProviderOpenAI, Model: "text-embedding-3-small"},
			expected: false,
		},
		{
			name: "openai with key is configured",
			settings: EmbeddingSettings{
				Provider: AIProviderOpenAI,
				Model:    "text-embedding-3-small",
				APIKey:   "sk-test",
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

// TestLLMSettings_IsConfigured tests LLM configuration states
func TestLLMSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings LLMSettings
		expected bool
	}{
		{
			name:     "unconfigured",
			settings: LLMSettings{},
			expected: false,
		},
		{
			name:     "deepseek without key is not configured",
			settings: LLMSettings{Provider: AIProviderDeepSeek, Model: "deepseek-chat"},
			expected: false,
		},
		{
			name: "deepseek with key is configured",
			settings: LLMSettings{
				Provider: AIProviderDeepSeek,
				Model:    "deepseek-chat",
				APIKey:   "sk-test",
			},
			expected: true,
		},
		{
			name:     "ollama without key is configured",
			settings: LLMSettings{Provider: AIProviderOllama, Model: "llama3.2"},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

// TestDefaultAppSettings tests default values
func TestDefaultAppSettings(t *testing.T) {
	settings := DefaultAppSettings()

	assert.False(t, settings.Embedding.IsConfigured())
	assert.False(t, settings.LLM.IsConfigured())
	assert.Equal(t, 200, settings.Chunking.MaxWords)
	assert.Equal(t, DefaultTopK, settings.Retrieval.TopK)
	assert.Empty(t, settings.Storage.DatabasePath)
}

// TestDefaultModels tests that every provider has a default model
func TestDefaultModels(t *testing.T) {
	embeddingModels := DefaultEmbeddingModels()
	for _, p := range AllEmbeddingProviders() {
		assert.NotEmpty(t, embeddingModels[p], "embedding provider %s has no default model", p)
	}

	llmModels := DefaultLLMModels()
	for _, p := range AllLLMProviders() {
		assert.NotEmpty(t, llmModels[p], "LLM provider %s has no default model", p)
	}
}

// TestDefaultBaseURLs tests provider endpoint defaults
func TestDefaultBaseURLs(t *testing.T) {
	urls := DefaultBaseURLs()

	require.Contains(t, urls, AIProviderOllama)
	require.Contains(t, urls, AIProviderDeepSeek)
	assert.Contains(t, urls[AIProviderOllama], "localhost")
	assert.Contains(t, urls[AIProviderDeepSeek], "deepseek")
}

// TestEmbeddingDimensions tests known model dimensions
func TestEmbeddingDimensions(t *testing.T) {
	dims := EmbeddingDimensions()

	assert.Equal(t, 768, dims["nomic-embed-text"])
	assert.Equal(t, 384, dims["all-minilm"])
	assert.Equal(t, 1536, dims["text-embedding-3-small"])
}
