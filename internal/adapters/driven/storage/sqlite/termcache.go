package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/core/ports/driven"
)

// termCache implements driven.TermCache.
type termCache struct {
	store *Store
	ttl   time.Duration
	now   func() time.Time
}

var _ driven.TermCache = (*termCache)(nil)

// Get returns the cached related terms for key.
func (c *termCache) Get(ctx context.Context, key string) (*domain.RelatedTerms, bool, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT payload, expires_at FROM term_cache WHERE cache_key = ?
	`, key)

	var payload string
	var expiresAt sql.NullTime
	if err := row.Scan(&payload, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("scanning term cache entry: %w", err)
	}

	if expiresAt.Valid && !c.now().UTC().Before(expiresAt.Time) {
		return nil, false, nil
	}

	var terms domain.RelatedTerms
	if err := json.Unmarshal([]byte(payload), &terms); err != nil {
		return nil, false, fmt.Errorf("unmarshaling term cache entry: %w", err)
	}
	return &terms, true, nil
}

// Put stores terms under key, replacing any previous entry.
func (c *termCache) Put(ctx context.Context, key string, terms *domain.RelatedTerms) error {
	if terms == nil {
		return fmt.Errorf("%w: nil related terms", domain.ErrInvalidInput)
	}
	payload, err := json.Marshal(terms)
	if err != nil {
		return fmt.Errorf("marshalling related terms: %w", err)
	}

	now := c.now().UTC()
	var expiresAt sql.NullTime
	if c.ttl > 0 {
		expiresAt = sql.NullTime{Time: now.Add(c.ttl), Valid: true}
	}

	_, err = c.store.db.ExecContext(ctx, `
		INSERT INTO term_cache (cache_key, term, payload, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			term = excluded.term,
			payload = excluded.payload,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, key, terms.CorrectedTerm, string(payload), now, expiresAt)
	if err != nil {
		return fmt.Errorf("saving term cache entry: %w", err)
	}
	return nil
}

// Purge removes every entry.
func (c *termCache) Purge(ctx context.Context) (int, error) {
	res, err := c.store.db.ExecContext(ctx, "DELETE FROM term_cache")
	if err != nil {
		return 0, fmt.Errorf("purging term cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting purged entries: %w", err)
	}
	return int(n), nil
}
