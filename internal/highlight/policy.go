package highlight

import (
	"strings"

	"golang.org/x/net/html"
)

// defaultExcludedTags are elements whose content is never scanned: scripts
// and styles, existing marks, and elements whose content serializes as
// raw text, where a marker would turn into literal markup.
var defaultExcludedTags = []string{
	"script", "style", "noscript", MarkerTag,
	"textarea", "title", "xmp", "iframe", "noembed", "noframes", "plaintext",
}

// Policy decides which subtrees are never scanned or mutated.
type Policy struct {
	rootID string
	tags   map[string]bool
}

// PolicyOption configures a Policy.
type PolicyOption func(*Policy)

// WithRootID excludes the element with the given id and everything inside it.
func WithRootID(id string) PolicyOption {
	return func(p *Policy) {
		p.rootID = strings.TrimSpace(id)
	}
}

// WithExcludedTags excludes additional element names.
func WithExcludedTags(tags ...string) PolicyOption {
	return func(p *Policy) {
		for _, tag := range tags {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag != "" {
				p.tags[tag] = true
			}
		}
	}
}

// NewPolicy creates an exclusion policy. The default tags are always
// excluded; options add to them.
func NewPolicy(opts ...PolicyOption) *Policy {
	p := &Policy{tags: make(map[string]bool, len(defaultExcludedTags))}
	for _, tag := range defaultExcludedTags {
		p.tags[tag] = true
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RootID returns the id of the excluded UI root, if any.
func (p *Policy) RootID() string {
	return p.rootID
}

// Rejects reports whether n is, or is contained within, an excluded subtree.
func (p *Policy) Rejects(n *html.Node) bool {
	if n == nil {
		return true
	}
	if p.rejectsElement(n) {
		return true
	}
	for a := n.Parent; a != nil; a = a.Parent {
		if p.rejectsElement(a) {
			return true
		}
	}
	return false
}

// rejectsElement applies the policy to n alone, ignoring its ancestors.
func (p *Policy) rejectsElement(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if p.tags[strings.ToLower(n.Data)] {
		return true
	}
	return p.rootID != "" && attr(n, "id") == p.rootID
}
