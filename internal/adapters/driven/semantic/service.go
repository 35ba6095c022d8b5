package semantic

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/core/ports/driven"
	"github.com/custodia-labs/findable/internal/logger"
)

// Ensure Service implements the interfaces.
var (
	_ driven.TermExpander     = (*Service)(nil)
	_ driven.SentenceMatcher  = (*Service)(nil)
	_ driven.PromptStoreAware = (*Service)(nil)
)

// ErrMalformedResponse indicates the model reply held no usable JSON.
var ErrMalformedResponse = errors.New("malformed model response")

const (
	// DefaultContextChars bounds the page text sent with a term-expansion request.
	DefaultContextChars = 4000

	// cacheKeyChars is how much page text distinguishes cache entries.
	cacheKeyChars = 500

	maxResponseTokens = 1024
	temperature       = 0.2
)

// defaultRelatedTermsPrompt is the fallback prompt when no PromptStore is configured.
const defaultRelatedTermsPrompt = `Here is the text of a web page:
---
%[2]s
---
For the search term "%[1]s", reply with a JSON object with keys "correctedTerm"
(the spell-checked term) and "semanticMatches" (an array of {"word", "score", "relation"}
for words that appear in the text; score is -1.0 to 1.0, negative for opposites;
relation is "synonym", "antonym" or "related"). Respond with the JSON only.`

// defaultMatchingSentencesPrompt is the fallback prompt when no PromptStore is configured.
const defaultMatchingSentencesPrompt = `Here is some text:
---
%[2]s
---
Find all sentences in the text that match this description: "%[1]s".
Reply with a JSON object with a single key "matches": an array of
{"matchingSentence", "relevanceScore"} where the sentence is copied exactly
and the score is 0.0 to 1.0. Respond with the JSON only.`

// Config holds optional settings for the service.
type Config struct {
	// ContextChars bounds the page text in a term-expansion prompt (default: 4000).
	ContextChars int

	// RequestsPerSecond throttles sentence-matching requests. Zero disables throttling.
	RequestsPerSecond float64

	// Cache stores term-expansion results. Nil disables caching.
	Cache driven.TermCache
}

// Service asks an LLM for related terms and matching sentences.
type Service struct {
	llm          driven.LLMService
	promptStore  driven.PromptStore
	cache        driven.TermCache
	limiter      *rate.Limiter
	contextChars int
}

// New creates a semantic service over llm.
func New(llm driven.LLMService, cfg Config) *Service {
	if cfg.ContextChars <= 0 {
		cfg.ContextChars = DefaultContextChars
	}

	s := &Service{
		llm:          llm,
		cache:        cfg.Cache,
		contextChars: cfg.ContextChars,
	}
	if cfg.RequestsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return s
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses built-in prompts.
func (s *Service) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

type relatedTermsResponse struct {
	CorrectedTerm   string                `json:"correctedTerm"`
	SemanticMatches []domain.WeightedTerm `json:"semanticMatches"`
}

type matchingSentencesResponse struct {
	Matches *[]domain.SentenceMatch `json:"matches"`
}

// RelatedTerms asks the model for words in pageContext related to term.
func (s *Service) RelatedTerms(ctx context.Context, term, pageContext string) (*domain.RelatedTerms, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: empty term", domain.ErrInvalidInput)
	}

	key := CacheKey(term, pageContext)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			logger.Warn("Term cache read failed: %v", err)
		case ok:
			logger.Debug("Term cache hit for %q", term)
			return cached, nil
		}
	}

	prompt := fmt.Sprintf(s.loadPrompt(driven.PromptRelatedTerms, defaultRelatedTermsPrompt),
		term, truncate(pageContext, s.contextChars))

	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   maxResponseTokens,
		Temperature: temperature,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("related terms: %w", err)
	}

	var resp relatedTermsResponse
	if err := extractJSON(raw, &resp); err != nil {
		return nil, fmt.Errorf("related terms: %w", err)
	}

	result := &domain.RelatedTerms{
		CorrectedTerm: strings.TrimSpace(resp.CorrectedTerm),
		Matches:       normaliseTerms(resp.SemanticMatches),
	}
	if result.CorrectedTerm == "" {
		result.CorrectedTerm = term
	}
	logger.Debug("Model %s returned %d related terms for %q", s.llm.ModelName(), len(result.Matches), term)

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, result); err != nil {
			logger.Warn("Term cache write failed: %v", err)
		}
	}
	return result, nil
}

// MatchingSentences asks the model for sentences in chunk matching description.
func (s *Service) MatchingSentences(ctx context.Context, description, chunk string) ([]domain.SentenceMatch, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: empty description", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(chunk) == "" {
		return nil, nil
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("matching sentences: %w", err)
		}
	}

	prompt := fmt.Sprintf(s.loadPrompt(driven.PromptMatchingSentences, defaultMatchingSentencesPrompt),
		description, chunk)

	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   maxResponseTokens,
		Temperature: temperature,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("matching sentences: %w", err)
	}

	var resp matchingSentencesResponse
	if err := extractJSON(raw, &resp); err != nil {
		return nil, fmt.Errorf("matching sentences: %w", err)
	}
	if resp.Matches == nil {
		return nil, fmt.Errorf("matching sentences: %w: no matches array", ErrMalformedResponse)
	}

	matches := make([]domain.SentenceMatch, 0, len(*resp.Matches))
	for _, m := range *resp.Matches {
		m.Sentence = strings.TrimSpace(m.Sentence)
		if m.Sentence == "" {
			continue
		}
		m.Score = clamp(m.Score, 0, 1)
		matches = append(matches, m)
	}
	return matches, nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *Service) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}

// CacheKey identifies an expansion by term and the start of the page text.
func CacheKey(term, pageContext string) string {
	sum := sha256.Sum256([]byte(truncate(pageContext, cacheKeyChars)))
	return term + ":" + hex.EncodeToString(sum[:8])
}

// extractJSON decodes the outermost JSON object in raw into v.
func extractJSON(raw string, v any) error {
	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first == -1 || last < first {
		return fmt.Errorf("%w: no JSON object", ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(raw[first:last+1]), v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}

// normaliseTerms drops blank words, clamps scores to [-1, 1] and
// lowercases relations.
func normaliseTerms(terms []domain.WeightedTerm) []domain.WeightedTerm {
	out := make([]domain.WeightedTerm, 0, len(terms))
	for _, t := range terms {
		t.Text = t.Trimmed()
		if t.Text == "" {
			continue
		}
		t.Score = clamp(t.Score, -1, 1)
		t.Relation = domain.Relation(strings.ToLower(strings.TrimSpace(string(t.Relation))))
		out = append(out, t)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(lo, math.Min(hi, v))
}

// truncate returns at most n runes of text.
func truncate(text string, n int) string {
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos]
		}
		i++
	}
	return text
}
