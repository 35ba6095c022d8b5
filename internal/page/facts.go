package page

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/highlight"
)

const (
	wordsPerMinute = 200
	maxLinks       = 10
	maxImages      = 5
)

var headingLevels = map[atom.Atom]int{
	atom.H1: 1, atom.H2: 2, atom.H3: 3, atom.H4: 4, atom.H5: 5, atom.H6: 6,
}

// Facts summarises the page: word count and reading time of the visible
// text, every heading, and the first links and images.
func (p *Page) Facts() domain.PageFacts {
	p.mu.RLock()
	defer p.mu.RUnlock()

	words := len(strings.Fields(p.text()))
	facts := domain.PageFacts{
		Title:       p.title(),
		WordCount:   words,
		ReadingTime: (words + wordsPerMinute - 1) / wordsPerMinute,
		Links:       []domain.Link{},
		Headings:    []domain.Heading{},
		Images:      []domain.Image{},
		Frames:      len(p.frames),
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if hiddenElements[n.DataAtom] || p.policy.Rejects(n) && !highlight.IsMarker(n) {
				return
			}
			switch n.DataAtom {
			case atom.A:
				if href, ok := attr(n, "href"); ok && len(facts.Links) < maxLinks {
					if text := collapse(highlight.TextContent(n)); text != "" {
						facts.Links = append(facts.Links, domain.Link{Text: text, URL: p.resolve(href)})
					}
				}
			case atom.Img:
				if img, ok := p.image(n); ok && len(facts.Images) < maxImages {
					facts.Images = append(facts.Images, img)
				}
			default:
				if level, ok := headingLevels[n.DataAtom]; ok {
					if text := collapse(highlight.TextContent(n)); text != "" {
						facts.Headings = append(facts.Headings, domain.Heading{Level: level, Text: text})
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(highlight.FindBody(p.root))

	return facts
}

// Images returns every image in the body outside excluded subtrees.
func (p *Page) Images() []domain.Image {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var images []domain.Image
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if hiddenElements[n.DataAtom] || p.policy.Rejects(n) {
				return
			}
			if img, ok := p.image(n); ok {
				images = append(images, img)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if body := highlight.FindBody(p.root); body != nil {
		walk(body)
	}
	return images
}

// image describes an img element with a source.
func (p *Page) image(n *html.Node) (domain.Image, bool) {
	if n.DataAtom != atom.Img {
		return domain.Image{}, false
	}
	src, ok := attr(n, "src")
	if !ok {
		return domain.Image{}, false
	}
	alt, _ := attr(n, "alt")
	title, _ := attr(n, "title")
	return domain.Image{Src: p.resolve(src), Alt: collapse(alt), Title: collapse(title)}, true
}

func (p *Page) title() string {
	var found string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Title {
			found = collapse(highlight.TextContent(n))
			return true
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(p.root)
	return found
}

// resolve makes ref absolute when the page has a base URL.
func (p *Page) resolve(ref string) string {
	if p.base == nil {
		return ref
	}
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return p.base.ResolveReference(u).String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
