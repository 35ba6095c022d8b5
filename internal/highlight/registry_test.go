package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/findable/internal/core/domain"
)

const catPage = `<html><head><title>cat</title></head><body>The cat sat on the mat. The cat ran.</body></html>`

func TestRegistry_HighlightScenario(t *testing.T) {
	doc := parse(t, catPage)
	r := NewRegistry(doc)

	count, err := r.Highlight(domain.TermGroup{Primary: []string{"cat"}})

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	markers := r.Markers()
	require.Len(t, markers, 2)
	assert.True(t, Precedes(markers[0].Node(), markers[1].Node()))
	assert.Equal(t, domain.Position{Current: 0, Total: 2}, r.Position())
	assert.True(t, markers[0].IsCurrent())
	assert.False(t, markers[1].IsCurrent())

	assert.Equal(t, domain.Position{Current: 1, Total: 2}, r.Next())
	assert.Equal(t, domain.Position{Current: 0, Total: 2}, r.Next())
}

func TestRegistry_TitleIsNotScanned(t *testing.T) {
	doc := parse(t, catPage)
	r := NewRegistry(doc)

	_, err := r.Highlight(domain.TermGroup{Primary: []string{"cat"}})
	require.NoError(t, err)

	for _, m := range r.Markers() {
		assert.NotEqual(t, "title", m.Node().Parent.Data)
	}
}

func TestRegistry_SemanticIntensityScenario(t *testing.T) {
	doc := parse(t, catPage)
	r := NewRegistry(doc)

	count, err := r.Highlight(domain.TermGroup{
		Semantic: []domain.WeightedTerm{
			{Text: "mat", Score: 0.5},
			{Text: "ran", Score: -0.8},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	markers := r.Markers()
	require.Len(t, markers, 2)
	assert.Equal(t, "mat", markers[0].Text())
	assert.Equal(t, 0.5, markers[0].Intensity())
	assert.Equal(t, "ran", markers[1].Text())
	assert.Equal(t, 0.8, markers[1].Intensity())
	assert.Equal(t, domain.MarkerSemantic, markers[1].Category())
}

func TestRegistry_CountMatchesDocument(t *testing.T) {
	doc := parse(t, `<html><body><p>Cat <b>cat</b> and <i>dog <span>cat</span></i></p><p>dog</p></body></html>`)
	r := NewRegistry(doc)

	count, err := r.Highlight(domain.TermGroup{
		Primary:  []string{"cat"},
		Semantic: []domain.WeightedTerm{{Text: "dog", Score: 0.4}},
	})

	require.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.Len(t, findMarkers(doc, nil), count)
}

func TestRegistry_OrderIsDocumentOrder(t *testing.T) {
	// The semantic pass inserts "alpha" before the primary "omega" markers.
	doc := parse(t, `<html><body><p>alpha omega</p><div>omega <em>alpha</em></div></body></html>`)
	r := NewRegistry(doc)

	_, err := r.Highlight(domain.TermGroup{
		Primary:  []string{"omega"},
		Semantic: []domain.WeightedTerm{{Text: "alpha", Score: 0.9}},
	})
	require.NoError(t, err)

	markers := r.Markers()
	assert.Equal(t, []string{"alpha", "omega", "omega", "alpha"}, markerTexts(markers))
	for i := 1; i < len(markers); i++ {
		assert.True(t, Precedes(markers[i-1].Node(), markers[i].Node()), "marker %d out of order", i)
		assert.False(t, Precedes(markers[i].Node(), markers[i-1].Node()))
	}
}

func TestRegistry_NoDoubleWrap(t *testing.T) {
	doc := parse(t, catPage)
	r := NewRegistry(doc)

	count, err := r.Highlight(domain.TermGroup{
		Primary:  []string{"cat"},
		Semantic: []domain.WeightedTerm{{Text: "cat", Score: 1.0}},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	for _, m := range r.Markers() {
		assert.Equal(t, domain.MarkerOriginal, m.Category())
		assert.Empty(t, findMarkers(m.Node().FirstChild, nil))
		assert.False(t, IsMarker(m.Node().Parent))
	}
}

func TestRegistry_SentenceMode(t *testing.T) {
	doc := parse(t, catPage)
	r := NewRegistry(doc)

	count, err := r.Highlight(domain.TermGroup{
		Primary:      []string{"The cat ran."},
		SentenceMode: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	m, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, domain.MarkerSentence, m.Category())
	assert.Equal(t, "The cat ran.", m.Text())
}

func TestRegistry_SentenceModeSpansSourceWhitespace(t *testing.T) {
	doc := parse(t, "<html><body><p>Intro. The cat\n    sat on\tthe mat.</p></body></html>")
	r := NewRegistry(doc)

	count, err := r.Highlight(domain.TermGroup{
		Primary:      []string{"The cat sat on the mat."},
		SentenceMode: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	m, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, "The cat\n    sat on\tthe mat.", m.Text())

	count, err = r.Highlight(domain.TermGroup{Primary: []string{"cat sat"}})
	require.NoError(t, err)
	assert.Equal(t, 0, count, "word mode stays literal")
}

func TestRegistry_ClearRestoresDocument(t *testing.T) {
	pages := []string{
		catPage,
		`<html><body><div><p>cat <b>Cat<i>caT</i></b> dog</p><span>cat</span></div></body></html>`,
		`<html><body><ul><li>category</li><li>concatenate cat</li></ul><script>cat()</script></body></html>`,
	}

	for _, src := range pages {
		doc := parse(t, src)
		before := render(t, doc)
		nodes := countNodes(doc)
		r := NewRegistry(doc)

		_, err := r.Highlight(domain.TermGroup{
			Primary:  []string{"cat"},
			Semantic: []domain.WeightedTerm{{Text: "dog", Score: 0.5}, {Text: "ten", Score: -0.2}},
		})
		require.NoError(t, err)
		require.NotEqual(t, before, render(t, doc))

		r.Clear()

		assert.Equal(t, before, render(t, doc))
		assert.Equal(t, nodes, countNodes(doc))
		assert.Equal(t, domain.EmptyPosition(), r.Position())
		assert.Empty(t, r.Markers())
	}
}

func TestRegistry_RehighlightReplacesPreviousPass(t *testing.T) {
	doc := parse(t, catPage)
	r := NewRegistry(doc)

	_, err := r.Highlight(domain.TermGroup{Primary: []string{"cat"}})
	require.NoError(t, err)
	r.Next()

	count, err := r.Highlight(domain.TermGroup{Primary: []string{"mat"}})

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"mat"}, markerTexts(r.Markers()))
	assert.Equal(t, domain.Position{Current: 0, Total: 1}, r.Position())
	assert.Len(t, findMarkers(doc, nil), 1)
}

func TestRegistry_ClearWhenEmpty(t *testing.T) {
	doc := parse(t, catPage)
	before := render(t, doc)
	r := NewRegistry(doc)

	assert.NotPanics(t, func() {
		r.Clear()
		r.Clear()
	})
	assert.Equal(t, before, render(t, doc))
	assert.Equal(t, domain.EmptyPosition(), r.Position())
}

func TestRegistry_EmptyNavigation(t *testing.T) {
	doc := parse(t, catPage)
	r := NewRegistry(doc)

	count, err := r.Highlight(domain.TermGroup{Primary: []string{"zebra"}})
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	sentinel := domain.Position{Current: -1, Total: 0}
	assert.Equal(t, sentinel, r.Next())
	assert.Equal(t, sentinel, r.Previous())
	assert.Equal(t, sentinel, r.GoTo(3))
	_, ok := r.Current()
	assert.False(t, ok)
}

func TestRegistry_EmptyTermGroupMakesNoWrites(t *testing.T) {
	doc := parse(t, catPage)
	before := render(t, doc)
	r := NewRegistry(doc)

	count, err := r.Highlight(domain.TermGroup{Primary: []string{"", "  "}})

	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, before, render(t, doc))
}

func TestRegistry_CircularNavigation(t *testing.T) {
	doc := parse(t, `<html><body>a b a b a b a</body></html>`)
	r := NewRegistry(doc)

	n, err := r.Highlight(domain.TermGroup{Primary: []string{"a"}, Semantic: []domain.WeightedTerm{{Text: "b", Score: 1}}})
	require.NoError(t, err)
	require.Equal(t, 7, n)

	start := r.Position().Current
	var pos domain.Position
	for i := 0; i < n; i++ {
		pos = r.Next()
	}
	assert.Equal(t, start, pos.Current)

	for i := 0; i < n; i++ {
		pos = r.Previous()
	}
	assert.Equal(t, start, pos.Current)

	assert.Equal(t, n-1, r.Previous().Current)
}

func TestRegistry_OnlyCursorIsCurrent(t *testing.T) {
	doc := parse(t, `<html><body>x x x x</body></html>`)
	r := NewRegistry(doc)
	_, err := r.Highlight(domain.TermGroup{Primary: []string{"x"}})
	require.NoError(t, err)

	for step := 0; step < 6; step++ {
		pos := r.Next()
		for i, m := range r.Markers() {
			assert.Equal(t, i == pos.Current, m.IsCurrent())
		}
	}
}

func TestRegistry_GoToClamps(t *testing.T) {
	doc := parse(t, `<html><body>x x x</body></html>`)
	r := NewRegistry(doc)
	_, err := r.Highlight(domain.TermGroup{Primary: []string{"x"}})
	require.NoError(t, err)

	assert.Equal(t, domain.Position{Current: 2, Total: 3}, r.GoTo(2))
	assert.Equal(t, domain.Position{Current: 2, Total: 3}, r.GoTo(10))
	assert.Equal(t, domain.Position{Current: 0, Total: 3}, r.GoTo(-4))
	assert.Equal(t, domain.Position{Current: 1, Total: 3}, r.GoTo(1))
	assert.True(t, r.Markers()[1].IsCurrent())
}

func TestRegistry_FocusCallback(t *testing.T) {
	doc := parse(t, catPage)
	var focused []string
	r := NewRegistry(doc, WithFocus(func(m Marker) {
		focused = append(focused, m.Text()+"@"+m.Node().Parent.Data)
	}))

	_, err := r.Highlight(domain.TermGroup{Primary: []string{"cat"}, Semantic: []domain.WeightedTerm{{Text: "mat", Score: 1}}})
	require.NoError(t, err)
	r.Next()
	r.Previous()

	assert.Equal(t, []string{"cat@body", "mat@body", "cat@body"}, focused)
}

func TestRegistry_Deselect(t *testing.T) {
	doc := parse(t, catPage)
	r := NewRegistry(doc)
	_, err := r.Highlight(domain.TermGroup{Primary: []string{"cat"}})
	require.NoError(t, err)

	r.Deselect()

	for _, m := range r.Markers() {
		assert.False(t, m.IsCurrent())
	}
	assert.Equal(t, 0, r.Position().Current)
	r.Next()
	assert.True(t, r.Markers()[1].IsCurrent())
}

func TestRegistry_ExcludesUIRoot(t *testing.T) {
	doc := parse(t, `<html><body><div id="findable-extension-root"><input value="cat"><span>cat</span></div><p>cat</p></body></html>`)
	r := NewRegistry(doc, WithPolicy(NewPolicy(WithRootID(domain.DefaultRootID))))

	count, err := r.Highlight(domain.TermGroup{Primary: []string{"cat"}})

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "p", r.Markers()[0].Node().Parent.Data)
}

func TestRegistry_ClearLeavesUIRootMarkers(t *testing.T) {
	const ui = `<div id="findable-extension-root"><mark class="findable-highlight-original">legend</mark></div>`
	doc := parse(t, `<html><body>`+ui+`<p>legend</p></body></html>`)
	r := NewRegistry(doc, WithPolicy(NewPolicy(WithRootID(domain.DefaultRootID))))

	count, err := r.Highlight(domain.TermGroup{Primary: []string{"legend"}})
	require.NoError(t, err)
	assert.Equal(t, 1, count, "markers inside the UI root are not ours to track")

	r.Clear()

	assert.Equal(t, 0, r.Len())
	assert.Equal(t, ui, render(t, findByID(doc, domain.DefaultRootID)))
	assert.Equal(t, "<p>legend</p>", render(t, findByID(doc, domain.DefaultRootID).NextSibling))
}

func TestRegistry_BareText(t *testing.T) {
	doc := parse(t, `cat`)
	r := NewRegistry(doc)

	count, err := r.Highlight(domain.TermGroup{Primary: []string{"cat"}})

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, r.Len())
}
