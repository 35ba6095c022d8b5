package page

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/core/ports/driven"
	"github.com/custodia-labs/findable/internal/highlight"
)

// Ensure Page implements the interfaces.
var (
	_ driven.Document    = (*Page)(nil)
	_ driven.PageSource  = (*Page)(nil)
	_ driven.ImageSource = (*Page)(nil)
)

// Page is one parsed HTML document and its highlight registry.
//
// The tree is guarded by mu: passes, navigation and HTML rendering (which
// writes frame markup back into srcdoc) hold it exclusively, text
// extraction and marker reads share it. Frames have their own lock and
// are always locked after their parent.
type Page struct {
	mu       sync.RWMutex
	root     *html.Node
	base     *url.URL
	policy   *highlight.Policy
	registry *highlight.Registry
	frames   []*Page
	iframes  []*html.Node
}

// Option configures a Page.
type Option func(*options)

type options struct {
	policy *highlight.Policy
	base   *url.URL
	focus  highlight.FocusFunc
}

// WithPolicy sets the scan-exclusion policy. Frames inherit it.
func WithPolicy(p *highlight.Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithSettings builds the exclusion policy from highlight settings.
func WithSettings(s domain.HighlightSettings) Option {
	return WithPolicy(highlight.NewPolicy(
		highlight.WithRootID(s.RootID),
		highlight.WithExcludedTags(s.ExtraExcludedTags...),
	))
}

// WithBaseURL resolves relative links and images against base.
func WithBaseURL(base *url.URL) Option {
	return func(o *options) {
		o.base = base
	}
}

// WithFocus sets the callback run when a marker becomes current. It runs
// with the page locked and must not call back into the Page.
func WithFocus(fn highlight.FocusFunc) Option {
	return func(o *options) {
		o.focus = fn
	}
}

// Parse reads an HTML document.
func Parse(r io.Reader, opts ...Option) (*Page, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return FromNode(root, opts...), nil
}

// ParseString parses an HTML document held in a string.
func ParseString(s string, opts ...Option) (*Page, error) {
	return Parse(strings.NewReader(s), opts...)
}

// FromNode wraps an already parsed document.
func FromNode(root *html.Node, opts ...Option) *Page {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.policy == nil {
		o.policy = highlight.NewPolicy(highlight.WithRootID(domain.DefaultRootID))
	}

	p := &Page{
		root:   root,
		base:   o.base,
		policy: o.policy,
	}
	regOpts := []highlight.Option{highlight.WithPolicy(o.policy)}
	if o.focus != nil {
		regOpts = append(regOpts, highlight.WithFocus(o.focus))
	}
	p.registry = highlight.NewRegistry(root, regOpts...)
	p.loadFrames(opts)
	return p
}

// loadFrames parses the srcdoc of every iframe that is not excluded.
func (p *Page) loadFrames(opts []Option) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		// Iframe content is excluded from scanning, but its srcdoc is a
		// document of its own. Excluded ancestors were never descended into.
		if n.Type == html.ElementNode && n.DataAtom == atom.Iframe {
			if src, ok := attr(n, "srcdoc"); ok {
				frame, err := Parse(strings.NewReader(src), opts...)
				if err == nil {
					p.frames = append(p.frames, frame)
					p.iframes = append(p.iframes, n)
				}
			}
			return
		}
		if n.Type == html.ElementNode && p.policy.Rejects(n) {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(p.root)
}

// Frames returns the sub-documents loaded from iframe srcdoc attributes.
func (p *Page) Frames() []*Page {
	return p.frames
}

// Units returns the page followed by its frames, in document order.
func (p *Page) Units() []driven.Document {
	units := make([]driven.Document, 0, len(p.frames)+1)
	units = append(units, p)
	for _, f := range p.frames {
		units = append(units, f)
	}
	return units
}

// Highlight runs a highlighting pass over this document only.
func (p *Page) Highlight(group domain.TermGroup) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.registry.Highlight(group)
}

// Next moves to the next marker in this document.
func (p *Page) Next() domain.Position {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.registry.Next()
}

// Previous moves to the previous marker in this document.
func (p *Page) Previous() domain.Position {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.registry.Previous()
}

// GoTo selects the marker at index.
func (p *Page) GoTo(index int) domain.Position {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.registry.GoTo(index)
}

// Deselect clears the current flag.
func (p *Page) Deselect() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registry.Deselect()
}

// Clear removes every marker.
func (p *Page) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registry.Clear()
}

// Position returns the navigation state.
func (p *Page) Position() domain.Position {
	return p.registry.Position()
}

// Markers returns a snapshot of every marker in document order.
func (p *Page) Markers() []highlight.MarkerState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	markers := p.registry.Markers()
	out := make([]highlight.MarkerState, len(markers))
	for i, m := range markers {
		out[i] = m.State()
	}
	return out
}

// MarkerAt returns a snapshot of the marker at a local index.
func (p *Page) MarkerAt(index int) (highlight.MarkerState, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	markers := p.registry.Markers()
	if index < 0 || index >= len(markers) {
		return highlight.MarkerState{}, false
	}
	return markers[index].State(), true
}

// syncFrames writes each frame's current markup back into its iframe.
// The caller holds p.mu exclusively.
func (p *Page) syncFrames() error {
	for i, frame := range p.frames {
		var b strings.Builder
		if err := frame.RenderHTML(&b); err != nil {
			return fmt.Errorf("render frame %d: %w", i, err)
		}
		setAttr(p.iframes[i], "srcdoc", b.String())
	}
	return nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
