package highlight

import (
	"strings"

	"golang.org/x/net/html"
)

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

// setAttr sets or replaces the named attribute.
func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// hasClass reports whether n carries the class.
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// addClass adds class to n if it is missing.
func addClass(n *html.Node, class string) {
	if hasClass(n, class) {
		return
	}
	classes := strings.Fields(attr(n, "class"))
	setAttr(n, "class", strings.Join(append(classes, class), " "))
}

// removeClass removes class from n.
func removeClass(n *html.Node, class string) {
	if !hasClass(n, class) {
		return
	}
	classes := strings.Fields(attr(n, "class"))
	kept := classes[:0]
	for _, c := range classes {
		if c != class {
			kept = append(kept, c)
		}
	}
	setAttr(n, "class", strings.Join(kept, " "))
}

// TextContent returns the concatenated text of n and its descendants.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		for ; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
			walk(c.FirstChild)
		}
	}
	walk(n.FirstChild)
	return b.String()
}

// normalize merges adjacent text children of parent and drops empty ones.
func normalize(parent *html.Node) {
	c := parent.FirstChild
	for c != nil {
		next := c.NextSibling
		if c.Type != html.TextNode {
			c = next
			continue
		}
		for next != nil && next.Type == html.TextNode {
			c.Data += next.Data
			following := next.NextSibling
			parent.RemoveChild(next)
			next = following
		}
		if c.Data == "" {
			parent.RemoveChild(c)
		}
		c = next
	}
}

// replaceNode swaps old for the replacement nodes, keeping their order.
// A node that has already been detached is left alone.
func replaceNode(old *html.Node, replacement ...*html.Node) bool {
	parent := old.Parent
	if parent == nil {
		return false
	}
	for _, r := range replacement {
		parent.InsertBefore(r, old)
	}
	parent.RemoveChild(old)
	return true
}

// FindBody returns the <body> element of a document, or n itself when the
// tree has no body.
func FindBody(n *html.Node) *html.Node {
	var body *html.Node
	var walk func(*html.Node) bool
	walk = func(c *html.Node) bool {
		if c.Type == html.ElementNode && c.Data == "body" {
			body = c
			return true
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			if walk(child) {
				return true
			}
		}
		return false
	}
	if n == nil || !walk(n) {
		return n
	}
	return body
}

// Precedes reports whether a comes before b in document order
// (pre-order, depth-first, left to right). Nodes from different trees,
// or a node compared with itself, never precede.
func Precedes(a, b *html.Node) bool {
	if a == nil || b == nil || a == b {
		return false
	}
	pa, pb := ancestry(a), ancestry(b)
	if pa[0] != pb[0] {
		return false
	}

	// Walk down the shared path until the two nodes diverge.
	i := 0
	for i < len(pa) && i < len(pb) && pa[i] == pb[i] {
		i++
	}
	if i == len(pa) {
		return true // a is an ancestor of b
	}
	if i == len(pb) {
		return false // b is an ancestor of a
	}
	for s := pa[i].NextSibling; s != nil; s = s.NextSibling {
		if s == pb[i] {
			return true
		}
	}
	return false
}

// ancestry returns the path from the tree root down to n.
func ancestry(n *html.Node) []*html.Node {
	var path []*html.Node
	for ; n != nil; n = n.Parent {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
