package session

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/findable/internal/core/domain"
)

// Store keeps open sessions by id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	limit    int
}

// DefaultLimit is the number of sessions kept before the oldest is dropped.
const DefaultLimit = 16

// NewStore creates a store holding at most limit sessions.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{sessions: make(map[string]*Session), limit: limit}
}

// Limit returns the number of sessions kept.
func (st *Store) Limit() int {
	return st.limit
}

// Add stores s, evicting the oldest session when the store is full.
func (st *Store) Add(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.sessions) >= st.limit {
		var oldest *Session
		for _, cur := range st.sessions {
			if oldest == nil || cur.Opened.Before(oldest.Opened) {
				oldest = cur
			}
		}
		delete(st.sessions, oldest.ID)
	}
	st.sessions[s.ID] = s
}

// Get returns the session with id.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
	}
	return s, nil
}

// Remove closes the session with id. Removing an unknown id is a no-op.
func (st *Store) Remove(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// List returns every session, oldest first.
func (st *Store) List() []*Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Opened.Before(out[j].Opened)
	})
	return out
}
