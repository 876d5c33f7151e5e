package services

import (
	"fmt"
	"os"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"
	keyLLMProvider   = "llm.provider"
	keyLLMModel      = "llm.model"
	keyLLMBaseURL    = "llm.base_url"
	keyLLMAPIKey     = "llm.api_key"
	keyChunkWords    = "chunking.max_words"
	keyTopK          = "retrieval.top_k"
	keyDatabasePath  = "storage.database_path"
)

// Environment variables that override file settings. Loaded after the
// config file so a key in the environment always wins.
//
//nolint:gosec // G101: These are env var names, not actual credentials.
const (
	envEmbedProvider = "DOCCHAT_EMBEDDING_PROVIDER"
	envEmbedModel    = "DOCCHAT_EMBEDDING_MODEL"
	envEmbedBaseURL  = "DOCCHAT_EMBEDDING_BASE_URL"
	envEmbedAPIKey   = "DOCCHAT_EMBEDDING_API_KEY"
	envLLMProvider   = "DOCCHAT_LLM_PROVIDER"
	envLLMModel      = "DOCCHAT_LLM_MODEL"
	envLLMBaseURL    = "DOCCHAT_LLM_BASE_URL"
	envLLMAPIKey     = "DOCCHAT_LLM_API_KEY"
	envDatabasePath  = "DOCCHAT_DB"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
// Precedence: environment > config file > defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, envEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, envEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.getString(keyEmbedBaseURL, envEmbedBaseURL, ""), // Empty is valid for cloud providers
			APIKey:   s.getString(keyEmbedAPIKey, envEmbedAPIKey, ""),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, envLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, envLLMModel, defaults.LLM.Model),
			BaseURL:  s.getString(keyLLMBaseURL, envLLMBaseURL, ""),
			APIKey:   s.getString(keyLLMAPIKey, envLLMAPIKey, ""),
		},
		Chunking: domain.ChunkingSettings{
			MaxWords: s.getInt(keyChunkWords, defaults.Chunking.MaxWords),
		},
		Retrieval: domain.RetrievalSettings{
			TopK: s.getInt(keyTopK, defaults.Retrieval.TopK),
		},
		Storage: domain.StorageSettings{
			DatabasePath: s.getString(keyDatabasePath, envDatabasePath, defaults.Storage.DatabasePath),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save chunking and retrieval settings
	if err := s.configStore.Set(keyChunkWords, settings.Chunking.MaxWords); err != nil {
		return fmt.Errorf("save chunk words: %w", err)
	}
	if err := s.configStore.Set(keyTopK, settings.Retrieval.TopK); err != nil {
		return fmt.Errorf("save top_k: %w", err)
	}

	// Save storage settings
	if err := s.configStore.Set(keyDatabasePath, settings.Storage.DatabasePath); err != nil {
		return fmt.Errorf("save database path: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate provider supports embeddings
	valid := false
	for _, p := range domain.AllEmbeddingProviders() {
		if p == provider {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
			settings.Embedding.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = domain.DefaultBaseURLs()[provider]
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
			settings.LLM.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() || provider == domain.AIProviderDeepSeek {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = domain.DefaultBaseURLs()[provider]
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetChunkWords updates the chunk size in words.
func (s *SettingsService) SetChunkWords(words int) error {
	if words <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, words)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Chunking.MaxWords = words
	return s.Save(settings)
}

// SetTopK updates the retrieval depth.
func (s *SettingsService) SetTopK(k int) error {
	if k < domain.MinTopK || k > domain.MaxTopK {
		return fmt.Errorf("%w: top-k must be between %d and %d, got %d",
			domain.ErrInvalidInput, domain.MinTopK, domain.MaxTopK, k)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Retrieval.TopK = k
	return s.Save(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with env overrides and defaults.

func (s *SettingsService) getString(key, envKey, defaultVal string) string {
	if envKey != "" {
		if val := os.Getenv(envKey); val != "" {
			return val
		}
	}
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key, envKey string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.getString(key, envKey, "")
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
