package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/findable/internal/core/domain"
)

// --- Mock implementations ---

// mockDocument implements driven.Document with one marker per eligible term.
type mockDocument struct {
	mu        sync.Mutex
	text      string
	groups    []domain.TermGroup
	total     int
	cursor    int
	selected  bool
	clears    int
	deselects int
	err       error
}

func newMockDocument(text string) *mockDocument {
	return &mockDocument{text: text, cursor: domain.NoSelection}
}

func (m *mockDocument) Highlight(group domain.TermGroup) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.groups = append(m.groups, group)
	m.total = 0
	for _, p := range group.Primary {
		if p != "" {
			m.total++
		}
	}
	for _, t := range group.Semantic {
		if t.IsEligible() {
			m.total++
		}
	}
	m.cursor = domain.NoSelection
	m.selected = false
	if m.total > 0 {
		m.cursor = 0
		m.selected = true
	}
	return m.total, nil
}

func (m *mockDocument) Next() domain.Position     { return m.step(1) }
func (m *mockDocument) Previous() domain.Position { return m.step(-1) }

func (m *mockDocument) step(delta int) domain.Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.total == 0 {
		return domain.EmptyPosition()
	}
	m.cursor = ((m.cursor+delta)%m.total + m.total) % m.total
	m.selected = true
	return domain.Position{Current: m.cursor, Total: m.total}
}

func (m *mockDocument) GoTo(index int) domain.Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.total == 0 {
		return domain.EmptyPosition()
	}
	m.cursor = max(0, min(index, m.total-1))
	m.selected = true
	return domain.Position{Current: m.cursor, Total: m.total}
}

func (m *mockDocument) Deselect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = false
	m.deselects++
}

func (m *mockDocument) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total = 0
	m.cursor = domain.NoSelection
	m.selected = false
	m.clears++
}

func (m *mockDocument) Position() domain.Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.total == 0 {
		return domain.EmptyPosition()
	}
	return domain.Position{Current: m.cursor, Total: m.total}
}

func (m *mockDocument) Text() string { return m.text }

func (m *mockDocument) lastGroup() domain.TermGroup {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.groups) == 0 {
		return domain.TermGroup{}
	}
	return m.groups[len(m.groups)-1]
}

func (m *mockDocument) passes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.groups)
}

// mockTermExpander implements driven.TermExpander for testing.
type mockTermExpander struct {
	result  *domain.RelatedTerms
	err     error
	context string
	// gate, when set, blocks until closed.
	gate    chan struct{}
	started chan struct{}
}

func (m *mockTermExpander) RelatedTerms(ctx context.Context, _ string, pageContext string) (*domain.RelatedTerms, error) {
	m.context = pageContext
	if m.started != nil {
		close(m.started)
	}
	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockSentenceMatcher implements driven.SentenceMatcher for testing.
// Chunks listed in fail return an error.
type mockSentenceMatcher struct {
	mu      sync.Mutex
	byChunk map[string][]domain.SentenceMatch
	fail    map[string]bool
	chunks  []string
}

func (m *mockSentenceMatcher) MatchingSentences(_ context.Context, _ string, chunk string) ([]domain.SentenceMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = append(m.chunks, chunk)
	if m.fail[chunk] {
		return nil, errors.New("model overloaded")
	}
	return m.byChunk[chunk], nil
}

// mockChunker splits on a fixed separator.
type mockChunker struct {
	parts []string
}

func (m *mockChunker) Chunk(string) []string {
	return m.parts
}

// imageDocument is a mockDocument that also lists images.
type imageDocument struct {
	*mockDocument
	images []domain.Image
}

func (d *imageDocument) Images() []domain.Image {
	return d.images
}
