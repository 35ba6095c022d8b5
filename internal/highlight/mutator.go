package highlight

import (
	"golang.org/x/net/html"

	"github.com/custodia-labs/findable/internal/core/domain"
)

// Mutator wraps matches found in a document's text in marker elements.
type Mutator struct {
	policy *Policy
}

// NewMutator creates a mutator that honours policy.
// A nil policy uses the default exclusions.
func NewMutator(policy *Policy) *Mutator {
	if policy == nil {
		policy = NewPolicy()
	}
	return &Mutator{policy: policy}
}

// Apply wraps every match of matcher under root in a marker of the given
// category and returns the number of markers created.
//
// Text nodes are collected by a read-only traversal first and replaced
// afterwards, so the traversal never walks a tree it is changing. Text
// nodes without a match are not touched.
func (m *Mutator) Apply(root *html.Node, matcher *Matcher, category domain.MarkerCategory) int {
	if root == nil || matcher.IsEmpty() {
		return 0
	}

	targets := m.collect(root, matcher)

	created := 0
	for _, text := range targets {
		created += m.wrap(text, matcher, category)
	}
	return created
}

// collect returns, in document order, the text nodes under root that
// contain a match and lie outside excluded subtrees.
func (m *Mutator) collect(root *html.Node, matcher *Matcher) []*html.Node {
	if m.policy.Rejects(root) {
		return nil
	}

	var targets []*html.Node
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				if matcher.Matches(c.Data) {
					targets = append(targets, c)
				}
			case html.ElementNode:
				if !m.policy.rejectsElement(c) {
					visit(c)
				}
			}
		}
	}
	visit(root)

	return targets
}

// wrap replaces one text node with its literal and marker segments.
func (m *Mutator) wrap(text *html.Node, matcher *Matcher, category domain.MarkerCategory) int {
	if text.Parent == nil {
		return 0
	}

	content := text.Data
	matches := matcher.FindAll(content)
	if len(matches) == 0 {
		return 0
	}

	segments := make([]*html.Node, 0, 2*len(matches)+1)
	last := 0
	for _, match := range matches {
		if match.Start > last {
			segments = append(segments, &html.Node{Type: html.TextNode, Data: content[last:match.Start]})
		}
		segments = append(segments, newMarkerNode(match.Text, category, Intensity(match.Score)))
		last = match.End
	}
	if last < len(content) {
		segments = append(segments, &html.Node{Type: html.TextNode, Data: content[last:]})
	}

	if !replaceNode(text, segments...) {
		return 0
	}
	return len(matches)
}
