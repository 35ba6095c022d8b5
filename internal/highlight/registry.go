package highlight

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/logger"
)

// FocusFunc is called with the marker that just became current, so the
// caller can scroll it into the middle of its viewport. It runs while the
// Registry is locked and must not call back into it.
type FocusFunc func(m Marker)

// Registry is the ordered set of live markers in one document plus the
// navigation cursor. Construct one per document (frame) being searched.
type Registry struct {
	mu      sync.Mutex
	doc     *html.Node
	scan    *html.Node
	mutator *Mutator
	focus   FocusFunc

	markers []*html.Node
	cursor  int
}

// Option configures a Registry.
type Option func(*Registry)

// WithPolicy sets the exclusion policy used while scanning.
func WithPolicy(p *Policy) Option {
	return func(r *Registry) {
		r.mutator = NewMutator(p)
	}
}

// WithFocus sets the callback run whenever the current marker changes.
func WithFocus(fn FocusFunc) Option {
	return func(r *Registry) {
		r.focus = fn
	}
}

// NewRegistry creates an empty registry over doc.
// Scanning starts at the document body, or at doc when there is none.
func NewRegistry(doc *html.Node, opts ...Option) *Registry {
	r := &Registry{
		doc:     doc,
		scan:    FindBody(doc),
		mutator: NewMutator(nil),
		cursor:  domain.NoSelection,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetFocus replaces the focus callback.
func (r *Registry) SetFocus(fn FocusFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.focus = fn
}

// Highlight clears previous markers, then marks the primary terms
// (sentence category in sentence mode, original otherwise) followed by the
// semantic terms. Markers are recorded in document order and the first one
// becomes current. It returns the number of markers in the document.
func (r *Registry) Highlight(group domain.TermGroup) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	r.clearLocked()

	var primaryOpts []CompileOption
	if group.SentenceMode {
		primaryOpts = append(primaryOpts, FlexibleWhitespace())
	}
	primary, err := Compile(group.PrimaryTerms(), primaryOpts...)
	if err != nil {
		return 0, fmt.Errorf("compile primary terms: %w", err)
	}
	semantic, err := Compile(group.Semantic)
	if err != nil {
		return 0, fmt.Errorf("compile semantic terms: %w", err)
	}

	category := group.PrimaryCategory()
	primaryCount := r.mutator.Apply(r.scan, primary, category)
	semanticCount := r.mutator.Apply(r.scan, semantic, domain.MarkerSemantic)

	// Secondary markers can land before primary ones, so order comes from
	// the tree rather than from insertion.
	r.markers = findMarkers(r.doc, r.mutator.policy)
	if len(r.markers) > 0 {
		r.cursor = 0
		r.applyCurrentLocked()
	}

	logger.Debug("Highlight pass: %s=%d semantic=%d total=%d (%s)",
		category, primaryCount, semanticCount, len(r.markers), time.Since(start))

	return len(r.markers), nil
}

// Next moves the cursor forward, wrapping from the last marker to the first.
func (r *Registry) Next() domain.Position {
	return r.step(1)
}

// Previous moves the cursor backward, wrapping from the first marker to the last.
func (r *Registry) Previous() domain.Position {
	return r.step(-1)
}

func (r *Registry) step(delta int) domain.Position {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.markers)
	if n == 0 {
		return domain.EmptyPosition()
	}
	r.cursor = ((r.cursor+delta)%n + n) % n
	r.applyCurrentLocked()
	return r.positionLocked()
}

// GoTo makes the marker at index current. Out-of-range indexes are clamped
// to the first or last marker. On an empty registry it does nothing.
func (r *Registry) GoTo(index int) domain.Position {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.markers)
	if n == 0 {
		return domain.EmptyPosition()
	}
	switch {
	case index < 0:
		index = 0
	case index >= n:
		index = n - 1
	}
	r.cursor = index
	r.applyCurrentLocked()
	return r.positionLocked()
}

// Deselect removes the current flag from every marker while keeping the
// cursor, for when another document holds the global selection.
func (r *Registry) Deselect() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.markers {
		removeClass(m, CurrentClass)
	}
}

// Clear unwraps every marker outside excluded subtrees, merges the split
// text back together and empties the registry. Clearing an empty registry is a no-op.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked()
}

func (r *Registry) clearLocked() {
	for _, m := range findMarkers(r.doc, r.mutator.policy) {
		parent := m.Parent
		if !replaceNode(m, &html.Node{Type: html.TextNode, Data: TextContent(m)}) {
			continue
		}
		normalize(parent)
	}
	r.markers = nil
	r.cursor = domain.NoSelection
}

// Position returns the cursor and marker count.
func (r *Registry) Position() domain.Position {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.positionLocked()
}

func (r *Registry) positionLocked() domain.Position {
	if len(r.markers) == 0 {
		return domain.EmptyPosition()
	}
	return domain.Position{Current: r.cursor, Total: len(r.markers)}
}

// Len returns the number of live markers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.markers)
}

// Current returns the current marker, if any.
func (r *Registry) Current() (Marker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.markers) == 0 {
		return Marker{}, false
	}
	return Marker{node: r.markers[r.cursor]}, true
}

// Markers returns the live markers in document order.
func (r *Registry) Markers() []Marker {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Marker, len(r.markers))
	for i, n := range r.markers {
		out[i] = Marker{node: n}
	}
	return out
}

// applyCurrentLocked flags the marker at the cursor and unflags the rest.
func (r *Registry) applyCurrentLocked() {
	for _, m := range r.markers {
		removeClass(m, CurrentClass)
	}
	current := r.markers[r.cursor]
	addClass(current, CurrentClass)
	if r.focus != nil {
		r.focus(Marker{node: current})
	}
}
