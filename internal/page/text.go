package page

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/findable/internal/highlight"
)

// hiddenElements never contribute visible text.
var hiddenElements = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Iframe:   true,
	atom.Svg:      true,
}

// blockElements start a new line of text.
var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Dd: true, atom.Details: true, atom.Div: true, atom.Dl: true,
	atom.Dt: true, atom.Figcaption: true, atom.Figure: true, atom.Footer: true,
	atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Summary: true, atom.Table: true, atom.Td: true,
	atom.Th: true, atom.Tr: true, atom.Ul: true,
}

// Text returns the visible text of the document body: excluded subtrees
// are skipped, whitespace is collapsed and block elements are separated
// by newlines. Frame text is not included.
func (p *Page) Text() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.text()
}

func (p *Page) text() string {
	var w textWriter
	p.walkText(highlight.FindBody(p.root), &w, nil)
	return w.String()
}

// walkText writes the visible text under n. When onMarker is set it is
// called for each marker instead of writing the marker's text.
func (p *Page) walkText(n *html.Node, w *textWriter, onMarker func(*html.Node)) {
	if n == nil {
		return
	}
	switch n.Type {
	case html.TextNode:
		w.WriteText(n.Data)
		return
	case html.ElementNode:
		if highlight.IsMarker(n) {
			if onMarker != nil {
				onMarker(n)
			} else {
				w.WriteText(highlight.TextContent(n))
			}
			return
		}
		if n.DataAtom == atom.Mark {
			w.WriteText(highlight.TextContent(n))
			return
		}
		if hiddenElements[n.DataAtom] || p.policy.Rejects(n) {
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		w.Break()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walkText(c, w, onMarker)
	}
	if block {
		w.Break()
	}
}

// textWriter accumulates text with collapsed whitespace.
type textWriter struct {
	b       strings.Builder
	space   bool
	newline bool
}

// WriteText appends text, collapsing runs of whitespace to one space.
func (w *textWriter) WriteText(s string) {
	for _, word := range splitKeepEdges(s) {
		if word == "" {
			w.space = true
			continue
		}
		w.pad()
		w.b.WriteString(word)
	}
}

// WriteRaw appends s as a single word without touching its content.
func (w *textWriter) WriteRaw(s string) {
	w.pad()
	w.b.WriteString(s)
}

// Break ends the current line.
func (w *textWriter) Break() {
	if w.b.Len() > 0 {
		w.newline = true
	}
	w.space = false
}

func (w *textWriter) pad() {
	switch {
	case w.newline:
		w.b.WriteByte('\n')
	case w.space && w.b.Len() > 0:
		w.b.WriteByte(' ')
	}
	w.newline = false
	w.space = false
}

func (w *textWriter) String() string {
	return w.b.String()
}

// splitKeepEdges splits s into words, with an empty string standing for
// each run of whitespace, including leading and trailing runs.
func splitKeepEdges(s string) []string {
	var parts []string
	inSpace := false
	start := -1
	for i, r := range s {
		if isSpace(r) {
			if start >= 0 {
				parts = append(parts, s[start:i])
				start = -1
			}
			if !inSpace {
				parts = append(parts, "")
				inSpace = true
			}
			continue
		}
		inSpace = false
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		parts = append(parts, s[start:])
	}
	return parts
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\u00a0':
		return true
	}
	return false
}
