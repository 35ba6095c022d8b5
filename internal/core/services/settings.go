package services

import (
	"fmt"

	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/core/ports/driven"
	"github.com/custodia-labs/findable/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeySynonyms          = "search.synonyms"
	KeyAntonyms          = "search.antonyms"
	KeyRelatedWords      = "search.related_words"
	KeyImageSearch       = "search.image_search"
	KeyContextChars      = "search.context_chars"
	KeyChunkSize         = "search.chunk_size"
	KeyRootID            = "highlight.root_id"
	KeyExtraExcludedTags = "highlight.extra_excluded_tags"
	KeyLLMProvider       = "llm.provider"
	KeyLLMModel          = "llm.model"
	KeyLLMBaseURL        = "llm.base_url"
	KeyLLMAPIKey         = "llm.api_key"
	KeyLLMRate           = "llm.requests_per_second"
	KeyCacheEnabled      = "cache.enabled"
	KeyCacheTTLHours     = "cache.ttl_hours"
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
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(KeyLLMProvider, defaults.LLM.Provider)
	model := s.getString(KeyLLMModel, "")
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}
	baseURL := s.configStore.GetString(KeyLLMBaseURL)
	if baseURL == "" && provider.IsLocal() {
		baseURL = defaults.LLM.BaseURL
	}

	settings := &domain.AppSettings{
		Find: domain.FindSettings{
			Options: domain.SearchOptions{
				Synonyms:     s.getBool(KeySynonyms, defaults.Find.Options.Synonyms),
				Antonyms:     s.getBool(KeyAntonyms, defaults.Find.Options.Antonyms),
				RelatedWords: s.getBool(KeyRelatedWords, defaults.Find.Options.RelatedWords),
				ImageSearch:  s.getBool(KeyImageSearch, defaults.Find.Options.ImageSearch),
			},
			ContextChars: s.getInt(KeyContextChars, defaults.Find.ContextChars),
			ChunkSize:    s.getInt(KeyChunkSize, defaults.Find.ChunkSize),
		},
		Highlight: domain.HighlightSettings{
			RootID:            s.getString(KeyRootID, defaults.Highlight.RootID),
			ExtraExcludedTags: s.configStore.GetStringSlice(KeyExtraExcludedTags),
		},
		LLM: domain.LLMSettings{
			Provider:          provider,
			Model:             model,
			BaseURL:           baseURL,
			APIKey:            s.configStore.GetString(KeyLLMAPIKey),
			RequestsPerSecond: s.configStore.GetFloat(KeyLLMRate),
		},
		Cache: domain.CacheSettings{
			Enabled:  s.getBool(KeyCacheEnabled, defaults.Cache.Enabled),
			TTLHours: s.getInt(KeyCacheTTLHours, defaults.Cache.TTLHours),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeySynonyms, settings.Find.Options.Synonyms},
		{KeyAntonyms, settings.Find.Options.Antonyms},
		{KeyRelatedWords, settings.Find.Options.RelatedWords},
		{KeyImageSearch, settings.Find.Options.ImageSearch},
		{KeyContextChars, settings.Find.ContextChars},
		{KeyChunkSize, settings.Find.ChunkSize},
		{KeyRootID, settings.Highlight.RootID},
		{KeyLLMProvider, settings.LLM.Provider.String()},
		{KeyLLMModel, settings.LLM.Model},
		{KeyLLMBaseURL, settings.LLM.BaseURL},
		{KeyLLMRate, settings.LLM.RequestsPerSecond},
		{KeyCacheEnabled, settings.Cache.Enabled},
		{KeyCacheTTLHours, settings.Cache.TTLHours},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if len(settings.Highlight.ExtraExcludedTags) > 0 {
		if err := s.configStore.Set(KeyExtraExcludedTags, settings.Highlight.ExtraExcludedTags); err != nil {
			return fmt.Errorf("save %s: %w", KeyExtraExcludedTags, err)
		}
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(KeyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// SetSearchOptions updates which related terms are highlighted.
func (s *SettingsService) SetSearchOptions(opts domain.SearchOptions) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Find.Options = opts
	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
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
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = domain.DefaultAppSettings().LLM.BaseURL
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Find.ContextChars < 0 {
		return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, KeyContextChars)
	}
	if settings.Find.ChunkSize <= 0 {
		return fmt.Errorf("%w: %s must be positive", domain.ErrInvalidInput, KeyChunkSize)
	}
	if settings.LLM.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, KeyLLMRate)
	}
	if settings.Find.Options.Any() && !settings.LLM.IsConfigured() {
		return fmt.Errorf(
			"%w: related terms are enabled but %s is not configured",
			domain.ErrLLMUnavailable, settings.LLM.Provider.Description(),
		)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
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

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
