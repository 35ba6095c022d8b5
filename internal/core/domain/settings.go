package domain

const unknownDescription = "Unknown"

// SearchOptions selects which related terms are highlighted next to the query.
type SearchOptions struct {
	// Synonyms highlights words with the same meaning.
	Synonyms bool

	// Antonyms highlights words with the opposite meaning.
	Antonyms bool

	// RelatedWords highlights other related words and forms.
	RelatedWords bool

	// ImageSearch also reports images whose alt text or title contains
	// a highlighted term.
	ImageSearch bool
}

// Allows reports whether a term with the given relation should be highlighted.
func (o SearchOptions) Allows(r Relation) bool {
	switch r {
	case RelationSynonym:
		return o.Synonyms
	case RelationAntonym:
		return o.Antonyms
	case RelationRelated:
		return o.RelatedWords
	default:
		return false
	}
}

// Any reports whether at least one relation is enabled.
func (o SearchOptions) Any() bool {
	return o.Synonyms || o.Antonyms || o.RelatedWords
}

// AIProvider identifies an AI service provider for the LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// AllLLMProviders returns every provider that can serve term expansion.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}
}

// DefaultLLMModels returns the default model for each provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// RequestsPerSecond throttles per-chunk sentence requests. Zero disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// FindSettings holds search behaviour configuration.
type FindSettings struct {
	// Options are the default relation filters.
	Options SearchOptions

	// ContextChars is how much page text is sent with a term-expansion request.
	ContextChars int

	// ChunkSize is the size of page text chunks in sentence mode.
	ChunkSize int
}

// HighlightSettings configures the scan-exclusion policy.
type HighlightSettings struct {
	// RootID is the id of the UI root that is never scanned.
	RootID string

	// ExtraExcludedTags are element names excluded in addition to the built-in set.
	ExtraExcludedTags []string
}

// CacheSettings configures the related-terms cache.
type CacheSettings struct {
	// Enabled turns on the persistent cache.
	Enabled bool

	// TTLHours is how long a cached expansion stays valid.
	TTLHours int
}

// AppSettings aggregates all application settings.
type AppSettings struct {
	Find      FindSettings
	Highlight HighlightSettings
	LLM       LLMSettings
	Cache     CacheSettings
}

// DefaultRootID is the id of the UI root excluded from scanning.
const DefaultRootID = "findable-extension-root"

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Find: FindSettings{
			Options: SearchOptions{
				Synonyms:     true,
				Antonyms:     false,
				RelatedWords: true,
				ImageSearch:  true,
			},
			ContextChars: 4000,
			ChunkSize:    2000,
		},
		Highlight: HighlightSettings{
			RootID: DefaultRootID,
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    DefaultLLMModels()[AIProviderOllama],
			BaseURL:  "http://localhost:11434",
		},
		Cache: CacheSettings{
			Enabled:  true,
			TTLHours: 24 * 7,
		},
	}
}
