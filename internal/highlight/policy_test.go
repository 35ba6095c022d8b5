package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const policyPage = `<html><body>
<div id="findable-extension-root"><p id="inside">ui text</p></div>
<script id="js">var cat = 1;</script>
<style id="css">.cat {}</style>
<noscript id="ns">cat</noscript>
<mark id="pre">cat</mark>
<aside id="aside">cat</aside>
<p id="plain">cat</p>
</body></html>`

func TestPolicy_Rejects(t *testing.T) {
	doc := parse(t, policyPage)
	p := NewPolicy(WithRootID("findable-extension-root"))

	tests := []struct {
		id       string
		rejected bool
	}{
		{"findable-extension-root", true},
		{"inside", true},
		{"js", true},
		{"css", true},
		{"ns", true},
		{"pre", true},
		{"aside", false},
		{"plain", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			n := findByID(doc, tt.id)
			require.NotNil(t, n)
			assert.Equal(t, tt.rejected, p.Rejects(n))
		})
	}
}

func TestPolicy_RejectsTextInsideRoot(t *testing.T) {
	doc := parse(t, policyPage)
	p := NewPolicy(WithRootID("findable-extension-root"))

	inside := findByID(doc, "inside")
	require.NotNil(t, inside.FirstChild)
	assert.Equal(t, html.TextNode, inside.FirstChild.Type)
	assert.True(t, p.Rejects(inside.FirstChild))
}

func TestPolicy_ExtraTags(t *testing.T) {
	doc := parse(t, policyPage)
	p := NewPolicy(WithExcludedTags(" ASIDE ", ""))

	assert.True(t, p.Rejects(findByID(doc, "aside")))
	assert.False(t, p.Rejects(findByID(doc, "plain")))
}

func TestPolicy_NoRootID(t *testing.T) {
	doc := parse(t, policyPage)
	p := NewPolicy()

	assert.Equal(t, "", p.RootID())
	assert.False(t, p.Rejects(findByID(doc, "inside")))
	assert.True(t, p.Rejects(nil))
}
