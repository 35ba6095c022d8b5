package driven

import (
	"context"

	"github.com/custodia-labs/findable/internal/core/domain"
)

// TermExpander finds words related to a query in a page's text.
// This is an optional service - when nil, only the literal query is highlighted.
type TermExpander interface {
	// RelatedTerms returns the spell-checked query and words from pageContext
	// related to it, each with a score in [-1, 1]. Negative scores denote
	// opposite meaning.
	RelatedTerms(ctx context.Context, term, pageContext string) (*domain.RelatedTerms, error)
}

// SentenceMatcher finds sentences matching a free-text description.
// This is an optional service - when nil, descriptive search is unavailable.
type SentenceMatcher interface {
	// MatchingSentences returns sentences from chunk that match description,
	// verbatim, with relevance scores.
	MatchingSentences(ctx context.Context, description, chunk string) ([]domain.SentenceMatch, error)
}

// TermCache stores term-expansion results.
type TermCache interface {
	// Get returns the cached result for key. Expired entries are misses.
	Get(ctx context.Context, key string) (*domain.RelatedTerms, bool, error)

	// Put stores a result under key.
	Put(ctx context.Context, key string, terms *domain.RelatedTerms) error

	// Purge removes every entry and returns how many were removed.
	Purge(ctx context.Context) (int, error)
}

// Chunker splits text into pieces small enough for one request.
type Chunker interface {
	// Chunk splits text. Returns nil for blank text.
	Chunk(text string) []string
}
