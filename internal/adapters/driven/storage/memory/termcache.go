package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/core/ports/driven"
)

// Ensure TermCache implements the interface.
var _ driven.TermCache = (*TermCache)(nil)

type termEntry struct {
	terms     domain.RelatedTerms
	expiresAt time.Time
}

// TermCache is an in-memory driven.TermCache for a single process.
type TermCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]termEntry
}

// NewTermCache creates a cache whose entries expire after ttl.
// Zero ttl keeps entries until purged.
func NewTermCache(ttl time.Duration) *TermCache {
	return &TermCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]termEntry),
	}
}

// Get returns a copy of the cached terms for key.
func (c *TermCache) Get(_ context.Context, key string) (*domain.RelatedTerms, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	terms := copyTerms(e.terms)
	return &terms, true, nil
}

// Put stores a copy of terms under key.
func (c *TermCache) Put(_ context.Context, key string, terms *domain.RelatedTerms) error {
	if terms == nil {
		return domain.ErrInvalidInput
	}
	e := termEntry{terms: copyTerms(*terms)}
	if c.ttl > 0 {
		e.expiresAt = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
	return nil
}

// Purge removes every entry.
func (c *TermCache) Purge(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]termEntry)
	return n, nil
}

func copyTerms(t domain.RelatedTerms) domain.RelatedTerms {
	if t.Matches != nil {
		t.Matches = append([]domain.WeightedTerm(nil), t.Matches...)
	}
	return t
}
