package page

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"

	"github.com/custodia-labs/findable/internal/highlight"
)

// Styler renders the text of one marker for a terminal.
type Styler interface {
	Marker(text string, m highlight.Marker) string
}

// StylerFunc adapts a function to the Styler interface.
type StylerFunc func(text string, m highlight.Marker) string

// Marker calls f.
func (f StylerFunc) Marker(text string, m highlight.Marker) string {
	return f(text, m)
}

// RenderHTML writes the document, frames included, as HTML.
func (p *Page) RenderHTML(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.syncFrames(); err != nil {
		return err
	}
	if err := html.Render(w, p.root); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// RenderANSI writes the visible text with markers styled by s. Frame
// text follows the page text, one block per frame.
func (p *Page) RenderANSI(w io.Writer, s Styler) error {
	var out strings.Builder
	out.WriteString(p.lockedStyledText(s))
	for i, frame := range p.frames {
		text := frame.lockedStyledText(s)
		if text == "" {
			continue
		}
		fmt.Fprintf(&out, "\n\n--- frame %d ---\n%s", i+1, text)
	}
	out.WriteString("\n")
	_, err := io.WriteString(w, out.String())
	return err
}

func (p *Page) lockedStyledText(s Styler) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.styledText(s)
}

func (p *Page) styledText(s Styler) string {
	markers := p.registry.Markers()
	byNode := make(map[*html.Node]highlight.Marker, len(markers))
	for _, m := range markers {
		byNode[m.Node()] = m
	}

	var w textWriter
	p.walkText(highlight.FindBody(p.root), &w, func(n *html.Node) {
		text := strings.Join(strings.Fields(highlight.TextContent(n)), " ")
		w.WriteRaw(s.Marker(text, byNode[n]))
	})
	return w.String()
}

// LipglossStyler colours markers with their category colour. Lower
// intensity blends the colour toward white; the current marker is
// underlined and bold.
type LipglossStyler struct {
	renderer *lipgloss.Renderer
}

// NewLipglossStyler creates a styler rendering for w's terminal.
func NewLipglossStyler(w io.Writer) *LipglossStyler {
	return &LipglossStyler{renderer: lipgloss.NewRenderer(w)}
}

// minIntensity keeps faint markers visible.
const minIntensity = 0.25

// Marker renders one marker.
func (l *LipglossStyler) Marker(text string, m highlight.Marker) string {
	if m.Node() == nil {
		return text
	}
	color := Blend(highlight.StyleFor(m.Category()).Color, m.Intensity())
	style := l.renderer.NewStyle().
		Background(lipgloss.Color(color)).
		Foreground(lipgloss.Color("#000000"))
	if m.IsCurrent() {
		style = style.Bold(true).Underline(true)
	}
	return style.Render(text)
}

// Blend mixes a #RRGGBB colour with white; intensity 1 keeps the colour.
// Intensity is clamped to [minIntensity, 1].
func Blend(hex string, intensity float64) string {
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return hex
	}
	switch {
	case math.IsNaN(intensity) || intensity < minIntensity:
		intensity = minIntensity
	case intensity > 1:
		intensity = 1
	}
	mix := func(c uint8) uint8 {
		return uint8(255 - (255-float64(c))*intensity + 0.5)
	}
	return fmt.Sprintf("#%02X%02X%02X", mix(r), mix(g), mix(b))
}
