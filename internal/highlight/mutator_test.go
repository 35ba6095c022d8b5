package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/findable/internal/core/domain"
)

func compile(t *testing.T, terms ...domain.WeightedTerm) *Matcher {
	t.Helper()
	m, err := Compile(terms)
	require.NoError(t, err)
	return m
}

func TestMutator_WrapsMatchesPreservingText(t *testing.T) {
	doc := parse(t, `<html><body><p id="p">A Cat and a cat.</p></body></html>`)
	mut := NewMutator(nil)

	n := mut.Apply(FindBody(doc), compile(t, domain.WeightedTerm{Text: "cat", Score: 1}), domain.MarkerOriginal)

	assert.Equal(t, 2, n)
	p := findByID(doc, "p")
	assert.Equal(t, "A Cat and a cat.", TextContent(p))
	assert.Equal(t,
		`<p id="p">A <mark class="findable-highlight-original" style="--highlight-intensity: 1">Cat</mark>`+
			` and a <mark class="findable-highlight-original" style="--highlight-intensity: 1">cat</mark>.</p>`,
		render(t, p))
}

func TestMutator_NestedElements(t *testing.T) {
	doc := parse(t, `<html><body><div><p>cat <b>cat<i>cat</i></b> dog</p><span>cat</span></div></body></html>`)
	mut := NewMutator(nil)

	n := mut.Apply(FindBody(doc), compile(t, domain.WeightedTerm{Text: "cat", Score: 1}), domain.MarkerOriginal)

	assert.Equal(t, 4, n)
	markers := findMarkers(doc, nil)
	require.Len(t, markers, 4)
	for i := 1; i < len(markers); i++ {
		assert.True(t, Precedes(markers[i-1], markers[i]))
	}
	assert.Equal(t, "b", markers[1].Parent.Data)
	assert.Equal(t, "i", markers[2].Parent.Data)
}

func TestMutator_NoMatchNoWrites(t *testing.T) {
	doc := parse(t, `<html><body><p>nothing to see</p></body></html>`)
	before := render(t, doc)

	n := NewMutator(nil).Apply(FindBody(doc), compile(t, domain.WeightedTerm{Text: "cat", Score: 1}), domain.MarkerOriginal)

	assert.Equal(t, 0, n)
	assert.Equal(t, before, render(t, doc))
}

func TestMutator_ZeroEligibleTerms(t *testing.T) {
	doc := parse(t, `<html><body><p>cat</p></body></html>`)
	before := render(t, doc)

	n := NewMutator(nil).Apply(FindBody(doc), compile(t, domain.WeightedTerm{Text: "  "}), domain.MarkerSemantic)

	assert.Equal(t, 0, n)
	assert.Equal(t, before, render(t, doc))
}

func TestMutator_SkipsExcludedSubtrees(t *testing.T) {
	doc := parse(t, policyPage)
	mut := NewMutator(NewPolicy(WithRootID("findable-extension-root")))

	n := mut.Apply(FindBody(doc), compile(t, domain.WeightedTerm{Text: "cat", Score: 1}, domain.WeightedTerm{Text: "ui", Score: 1}), domain.MarkerOriginal)

	// Only the aside and the plain paragraph are eligible.
	assert.Equal(t, 2, n)
	assert.Empty(t, findMarkers(findByID(doc, "findable-extension-root"), nil))
	assert.Equal(t, "var cat = 1;", TextContent(findByID(doc, "js")))
	pre := findByID(doc, "pre")
	assert.Equal(t, "cat", pre.FirstChild.Data)
}

func TestMutator_SkipsRawTextElements(t *testing.T) {
	doc := parse(t, `<html><body><p id="p">cat</p>`+
		`<form><textarea id="textarea">cat food</textarea></form>`+
		`<title id="title">cat</title><xmp id="xmp">cat</xmp>`+
		`<noembed id="noembed">cat</noembed><noframes id="noframes">cat</noframes>`+
		`<iframe id="iframe">cat</iframe><plaintext id="plaintext">cat`)

	n := NewMutator(nil).Apply(FindBody(doc), compile(t, domain.WeightedTerm{Text: "cat", Score: 1}), domain.MarkerOriginal)

	assert.Equal(t, 1, n)
	for _, id := range []string{"textarea", "title", "xmp", "noembed", "noframes", "iframe", "plaintext"} {
		el := findByID(doc, id)
		require.NotNil(t, el, id)
		assert.Empty(t, findMarkers(el, nil), id)
	}

	reparsed := parse(t, render(t, doc))
	assert.Equal(t, "cat food", TextContent(findByID(reparsed, "textarea")))
	assert.Equal(t, "cat", TextContent(findByID(reparsed, "xmp")))
}

func TestMutator_RootInsideExcludedSubtree(t *testing.T) {
	doc := parse(t, policyPage)
	mut := NewMutator(NewPolicy(WithRootID("findable-extension-root")))

	n := mut.Apply(findByID(doc, "inside"), compile(t, domain.WeightedTerm{Text: "ui", Score: 1}), domain.MarkerOriginal)

	assert.Equal(t, 0, n)
}

func TestMutator_IntensityFromScore(t *testing.T) {
	doc := parse(t, `<html><body>hot and cold</body></html>`)

	NewMutator(nil).Apply(FindBody(doc), compile(t,
		domain.WeightedTerm{Text: "hot", Score: 0.25},
		domain.WeightedTerm{Text: "cold", Score: -0.75},
	), domain.MarkerSemantic)

	markers := findMarkers(doc, nil)
	require.Len(t, markers, 2)
	assert.Equal(t, 0.25, Marker{node: markers[0]}.Intensity())
	assert.Equal(t, 0.75, Marker{node: markers[1]}.Intensity())
	assert.Equal(t, domain.MarkerSemantic, Marker{node: markers[1]}.Category())
}

func TestMutator_DetachedTextNodeSkipped(t *testing.T) {
	doc := parse(t, `<html><body><p id="p">cat</p></body></html>`)
	p := findByID(doc, "p")
	text := p.FirstChild
	p.RemoveChild(text)

	n := NewMutator(nil).wrap(text, compile(t, domain.WeightedTerm{Text: "cat", Score: 1}), domain.MarkerOriginal)

	assert.Equal(t, 0, n)
}
