package highlight

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/findable/internal/core/domain"
)

// Marker is a view of one <mark> element produced by a highlighting pass.
// It owns exactly the text it wraps.
type Marker struct {
	node *html.Node
}

// newMarkerNode creates a detached marker element wrapping text.
func newMarkerNode(text string, category domain.MarkerCategory, intensity float64) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     MarkerTag,
		DataAtom: atom.Mark,
		Attr: []html.Attribute{
			{Key: "class", Val: StyleFor(category).Class},
			{Key: "style", Val: intensityDeclaration(intensity)},
		},
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

// IsMarker reports whether n is a marker element created by this package.
func IsMarker(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode || n.Data != MarkerTag {
		return false
	}
	_, ok := categoryFromClasses(attr(n, "class"))
	return ok
}

// Node returns the underlying element.
func (m Marker) Node() *html.Node {
	return m.node
}

// Text returns the wrapped page text.
func (m Marker) Text() string {
	return TextContent(m.node)
}

// Category returns the marker category.
func (m Marker) Category() domain.MarkerCategory {
	c, _ := categoryFromClasses(attr(m.node, "class"))
	return c
}

// Intensity returns the intensity attached to the marker.
func (m Marker) Intensity() float64 {
	v, ok := parseIntensity(attr(m.node, "style"))
	if !ok {
		return domain.DefaultScore
	}
	return v
}

// IsCurrent reports whether the marker carries the current-selection flag.
func (m Marker) IsCurrent() bool {
	return hasClass(m.node, CurrentClass)
}

// MarkerState is a copy of a marker's attributes. It stays valid after
// later passes rewrite the tree.
type MarkerState struct {
	Text      string
	Category  domain.MarkerCategory
	Intensity float64
	Current   bool
}

// State copies the marker's attributes.
func (m Marker) State() MarkerState {
	if m.node == nil {
		return MarkerState{}
	}
	return MarkerState{
		Text:      m.Text(),
		Category:  m.Category(),
		Intensity: m.Intensity(),
		Current:   m.IsCurrent(),
	}
}

// findMarkers returns every marker under root in document order, skipping
// subtrees rejected by policy. A nil policy skips nothing.
func findMarkers(root *html.Node, policy *Policy) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if IsMarker(n) {
			found = append(found, n)
			return
		}
		if policy != nil && policy.rejectsElement(n) {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return found
}
