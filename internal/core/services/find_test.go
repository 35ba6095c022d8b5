package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/findable/internal/core/domain"
)

var allOptions = domain.SearchOptions{Synonyms: true, Antonyms: true, RelatedWords: true}

func newTestFindService(doc *mockDocument) *FindService {
	return NewFindService(doc, domain.DefaultAppSettings().Find)
}

func TestFindService_Literal(t *testing.T) {
	doc := newMockDocument("The cat sat on the mat.")
	svc := newTestFindService(doc)

	result, err := svc.Find(context.Background(), domain.FindRequest{Query: "  cat "})

	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.RequestID)
	assert.False(t, result.Stale)
	assert.False(t, result.Degraded)
	assert.Equal(t, []string{"cat"}, result.Group.Primary)
	assert.Empty(t, result.Group.Semantic)
	assert.Equal(t, domain.Position{Current: 0, Total: 1}, result.Position)
}

func TestFindService_RequestIDsIncrease(t *testing.T) {
	svc := newTestFindService(newMockDocument("text"))

	for want := uint64(1); want <= 3; want++ {
		result, err := svc.Find(context.Background(), domain.FindRequest{Query: "text"})
		require.NoError(t, err)
		assert.Equal(t, want, result.RequestID)
	}
	assert.Equal(t, uint64(3), svc.LatestRequestID())
}

func TestFindService_SemanticFiltersByOptions(t *testing.T) {
	doc := newMockDocument("page text")
	svc := newTestFindService(doc)
	svc.SetTermExpander(&mockTermExpander{result: &domain.RelatedTerms{
		CorrectedTerm: "cat",
		Matches: []domain.WeightedTerm{
			{Text: "kitten", Score: 0.9, Relation: domain.RelationSynonym},
			{Text: "dog", Score: -0.8, Relation: domain.RelationAntonym},
			{Text: "CAT", Score: 1},
			{Text: "feline", Score: 0.5},
			{Text: "big", Score: -0.3},
			{Text: "  ", Score: 0.4},
		},
	}})

	result, err := svc.Find(context.Background(), domain.FindRequest{
		Query:    "cta",
		Semantic: true,
		Options:  domain.SearchOptions{Synonyms: true, RelatedWords: true},
	})

	require.NoError(t, err)
	assert.Equal(t, "cat", result.CorrectedTerm)
	assert.Equal(t, []string{"cta"}, result.Group.Primary)
	assert.Equal(t, []domain.WeightedTerm{
		{Text: "kitten", Score: 0.9, Relation: domain.RelationSynonym},
		{Text: "CAT", Score: 1},
		{Text: "feline", Score: 0.5},
	}, result.Group.Semantic)
	assert.Equal(t, 4, result.Position.Total)
}

func TestFindService_ImageSearch(t *testing.T) {
	images := []domain.Image{
		{Src: "a.png", Alt: "A grey Cat"},
		{Src: "b.png", Title: "dog"},
		{Src: "c.png", Alt: "KITTEN asleep"},
		{Src: "d.png"},
	}
	newService := func() *FindService {
		doc := &imageDocument{mockDocument: newMockDocument("cat kitten dog"), images: images}
		svc := NewFindService(doc, domain.DefaultAppSettings().Find)
		svc.SetTermExpander(&mockTermExpander{result: &domain.RelatedTerms{
			Matches: []domain.WeightedTerm{{Text: "kitten", Score: 0.9, Relation: domain.RelationSynonym}},
		}})
		svc.SetSentenceMatcher(&mockSentenceMatcher{})
		return svc
	}

	tests := []struct {
		name string
		req  domain.FindRequest
		want []string
	}{
		{"literal", domain.FindRequest{Query: "cat", Options: domain.SearchOptions{ImageSearch: true}}, []string{"a.png"}},
		{"title", domain.FindRequest{Query: "DOG", Options: domain.SearchOptions{ImageSearch: true}}, []string{"b.png"}},
		{"related terms", domain.FindRequest{
			Query: "cat", Semantic: true,
			Options: domain.SearchOptions{Synonyms: true, ImageSearch: true},
		}, []string{"a.png", "c.png"}},
		{"disabled", domain.FindRequest{Query: "cat"}, nil},
		{"sentence mode", domain.FindRequest{Description: "cats", Options: domain.SearchOptions{ImageSearch: true}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newService().Find(context.Background(), tt.req)
			require.NoError(t, err)

			var got []string
			for _, img := range result.Images {
				got = append(got, img.Src)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindService_ImageSearchWithoutImageSource(t *testing.T) {
	svc := newTestFindService(newMockDocument("cat"))

	result, err := svc.Find(context.Background(), domain.FindRequest{
		Query:   "cat",
		Options: domain.SearchOptions{ImageSearch: true},
	})

	require.NoError(t, err)
	assert.Nil(t, result.Images)
}

func TestFindService_SemanticDropsQueryItself(t *testing.T) {
	doc := newMockDocument("page text")
	svc := newTestFindService(doc)
	svc.SetTermExpander(&mockTermExpander{result: &domain.RelatedTerms{
		Matches: []domain.WeightedTerm{{Text: "Cat", Score: 1}, {Text: "kitty", Score: 0.7}},
	}})

	result, err := svc.Find(context.Background(), domain.FindRequest{Query: "cat", Semantic: true, Options: allOptions})

	require.NoError(t, err)
	assert.Equal(t, []domain.WeightedTerm{{Text: "kitty", Score: 0.7}}, result.Group.Semantic)
}

func TestFindService_SemanticContextIsTruncated(t *testing.T) {
	doc := newMockDocument("héllo wörld")
	expander := &mockTermExpander{result: &domain.RelatedTerms{}}
	svc := NewFindService(doc, domain.FindSettings{ContextChars: 7})
	svc.SetTermExpander(expander)

	_, err := svc.Find(context.Background(), domain.FindRequest{Query: "x", Semantic: true, Options: allOptions})

	require.NoError(t, err)
	assert.Equal(t, "héllo w", expander.context)
}

func TestFindService_SemanticSkippedWhenDisabled(t *testing.T) {
	tests := []struct {
		name string
		req  domain.FindRequest
	}{
		{name: "semantic off", req: domain.FindRequest{Query: "cat", Options: allOptions}},
		{name: "no options", req: domain.FindRequest{Query: "cat", Semantic: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expander := &mockTermExpander{started: make(chan struct{})}
			svc := newTestFindService(newMockDocument("cat"))
			svc.SetTermExpander(expander)

			result, err := svc.Find(context.Background(), tt.req)

			require.NoError(t, err)
			assert.Empty(t, result.Group.Semantic)
			select {
			case <-expander.started:
				t.Fatal("expander should not be called")
			default:
			}
		})
	}
}

func TestFindService_ExpanderFailureDegrades(t *testing.T) {
	doc := newMockDocument("The cat sat.")
	svc := newTestFindService(doc)
	svc.SetTermExpander(&mockTermExpander{err: domain.ErrLLMUnavailable})

	result, err := svc.Find(context.Background(), domain.FindRequest{Query: "cat", Semantic: true, Options: allOptions})

	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Equal(t, []string{"cat"}, result.Group.Primary)
	assert.Empty(t, result.Group.Semantic)
	assert.Equal(t, 1, doc.passes())
}

func TestFindService_NoExpanderIsLiteral(t *testing.T) {
	svc := newTestFindService(newMockDocument("cat"))

	result, err := svc.Find(context.Background(), domain.FindRequest{Query: "cat", Semantic: true, Options: allOptions})

	require.NoError(t, err)
	assert.False(t, result.Degraded)
	assert.Equal(t, 1, result.Position.Total)
}

func TestFindService_EmptyQueryClears(t *testing.T) {
	doc := newMockDocument("cat")
	svc := newTestFindService(doc)
	_, err := svc.Find(context.Background(), domain.FindRequest{Query: "cat"})
	require.NoError(t, err)

	result, err := svc.Find(context.Background(), domain.FindRequest{Query: "   "})

	require.NoError(t, err)
	assert.Equal(t, domain.EmptyPosition(), result.Position)
	assert.Equal(t, 1, doc.clears)
	assert.Equal(t, 1, doc.passes())
}

func TestFindService_StaleResultsAreDropped(t *testing.T) {
	doc := newMockDocument("The cat and the dog.")
	expander := &mockTermExpander{
		result:  &domain.RelatedTerms{Matches: []domain.WeightedTerm{{Text: "kitten", Score: 0.9}}},
		gate:    make(chan struct{}),
		started: make(chan struct{}),
	}
	svc := newTestFindService(doc)
	svc.SetTermExpander(expander)

	type outcome struct {
		result domain.FindResult
		err    error
	}
	first := make(chan outcome, 1)
	go func() {
		r, err := svc.Find(context.Background(), domain.FindRequest{Query: "cat", Semantic: true, Options: allOptions})
		first <- outcome{r, err}
	}()
	<-expander.started

	second, err := svc.Find(context.Background(), domain.FindRequest{Query: "dog"})
	require.NoError(t, err)
	close(expander.gate)
	got := <-first

	require.NoError(t, got.err)
	assert.Equal(t, uint64(1), got.result.RequestID)
	assert.True(t, got.result.Stale)
	assert.Empty(t, got.result.Group.Primary)

	assert.Equal(t, uint64(2), second.RequestID)
	assert.False(t, second.Stale)
	assert.Equal(t, 1, doc.passes())
	assert.Equal(t, []string{"dog"}, doc.lastGroup().Primary)
}

func TestFindService_IsStale(t *testing.T) {
	svc := newTestFindService(newMockDocument("cat"))
	_, err := svc.Find(context.Background(), domain.FindRequest{Query: "cat"})
	require.NoError(t, err)

	svc.seq.Add(1)

	assert.True(t, svc.isStale(1))
	assert.False(t, svc.isStale(svc.LatestRequestID()))
}

func TestFindService_SentenceMode(t *testing.T) {
	doc := newMockDocument("ignored")
	matcher := &mockSentenceMatcher{
		byChunk: map[string][]domain.SentenceMatch{
			"c1": {{Sentence: "The cat sat.", Score: 0.9}},
			"c3": {{Sentence: " Dogs bark. ", Score: 0.5}, {Sentence: " ", Score: 0.1}},
		},
		fail: map[string]bool{"c2": true},
	}
	svc := newTestFindService(doc)
	svc.SetSentenceMatcher(matcher)
	svc.SetChunker(&mockChunker{parts: []string{"c1", "c2", "c3"}})

	result, err := svc.Find(context.Background(), domain.FindRequest{Description: "animals doing things"})

	require.NoError(t, err)
	assert.True(t, result.Group.SentenceMode)
	assert.Equal(t, []string{"The cat sat.", "Dogs bark."}, result.Group.Primary)
	assert.True(t, result.Degraded)
	assert.Equal(t, []string{"c1", "c2", "c3"}, matcher.chunks)
	assert.Equal(t, 2, result.Position.Total)
}

func TestFindService_SentenceModeWithoutChunker(t *testing.T) {
	doc := newMockDocument("The whole page.")
	matcher := &mockSentenceMatcher{}
	svc := newTestFindService(doc)
	svc.SetSentenceMatcher(matcher)

	result, err := svc.Find(context.Background(), domain.FindRequest{Description: "anything"})

	require.NoError(t, err)
	assert.False(t, result.Degraded)
	assert.Equal(t, []string{"The whole page."}, matcher.chunks)
	assert.Equal(t, domain.EmptyPosition(), result.Position)
}

func TestFindService_SentenceModeFallsBack(t *testing.T) {
	t.Run("all chunks fail", func(t *testing.T) {
		svc := newTestFindService(newMockDocument("text"))
		svc.SetSentenceMatcher(&mockSentenceMatcher{fail: map[string]bool{"a": true, "b": true}})
		svc.SetChunker(&mockChunker{parts: []string{"a", "b"}})

		result, err := svc.Find(context.Background(), domain.FindRequest{Query: "cat", Description: "felines"})

		require.NoError(t, err)
		assert.True(t, result.Degraded)
		assert.False(t, result.Group.SentenceMode)
		assert.Equal(t, []string{"cat"}, result.Group.Primary)
	})

	t.Run("no matcher", func(t *testing.T) {
		svc := newTestFindService(newMockDocument("text"))

		result, err := svc.Find(context.Background(), domain.FindRequest{Description: "felines"})

		require.NoError(t, err)
		assert.True(t, result.Degraded)
		assert.Empty(t, result.Group.Primary)
	})

	t.Run("cancelled", func(t *testing.T) {
		matcher := &mockSentenceMatcher{}
		svc := newTestFindService(newMockDocument("text"))
		svc.SetSentenceMatcher(matcher)
		svc.SetChunker(&mockChunker{parts: []string{"a", "b"}})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := svc.Find(ctx, domain.FindRequest{Query: "cat", Description: "felines"})

		require.NoError(t, err)
		assert.True(t, result.Degraded)
		assert.Equal(t, []string{"cat"}, result.Group.Primary)
		assert.Empty(t, matcher.chunks)
	})
}

func TestFindService_HighlightErrorPropagates(t *testing.T) {
	doc := newMockDocument("text")
	doc.err = domain.ErrInvalidPattern
	svc := newTestFindService(doc)

	_, err := svc.Find(context.Background(), domain.FindRequest{Query: "cat"})

	assert.ErrorIs(t, err, domain.ErrInvalidPattern)
}

func TestFindService_Navigation(t *testing.T) {
	doc := newMockDocument("text")
	svc := newTestFindService(doc)
	svc.SetTermExpander(&mockTermExpander{result: &domain.RelatedTerms{
		Matches: []domain.WeightedTerm{{Text: "b", Score: 0.5}, {Text: "c", Score: 0.5}},
	}})
	_, err := svc.Find(context.Background(), domain.FindRequest{Query: "a", Semantic: true, Options: allOptions})
	require.NoError(t, err)

	assert.Equal(t, domain.Position{Current: 1, Total: 3}, svc.Next())
	assert.Equal(t, domain.Position{Current: 2, Total: 3}, svc.Next())
	assert.Equal(t, domain.Position{Current: 0, Total: 3}, svc.Next())
	assert.Equal(t, domain.Position{Current: 2, Total: 3}, svc.Previous())
	assert.Equal(t, domain.Position{Current: 0, Total: 3}, svc.GoTo(-4))
	assert.Equal(t, domain.Position{Current: 0, Total: 3}, svc.Position())

	svc.Clear()
	assert.Equal(t, domain.EmptyPosition(), svc.Position())
	assert.Equal(t, domain.EmptyPosition(), svc.Next())
}

func TestAllowsTerm(t *testing.T) {
	tests := []struct {
		name string
		opts domain.SearchOptions
		term domain.WeightedTerm
		want bool
	}{
		{"synonym allowed", domain.SearchOptions{Synonyms: true}, domain.WeightedTerm{Score: 0.8, Relation: domain.RelationSynonym}, true},
		{"synonym blocked", domain.SearchOptions{RelatedWords: true}, domain.WeightedTerm{Score: 0.8, Relation: domain.RelationSynonym}, false},
		{"antonym allowed", domain.SearchOptions{Antonyms: true}, domain.WeightedTerm{Score: -0.8, Relation: domain.RelationAntonym}, true},
		{"related blocked", domain.SearchOptions{Synonyms: true}, domain.WeightedTerm{Score: 0.3, Relation: domain.RelationRelated}, false},
		{"unlabelled negative", domain.SearchOptions{Antonyms: true}, domain.WeightedTerm{Score: -0.2}, true},
		{"unlabelled negative blocked", domain.SearchOptions{Synonyms: true, RelatedWords: true}, domain.WeightedTerm{Score: -0.2}, false},
		{"unlabelled positive via synonyms", domain.SearchOptions{Synonyms: true}, domain.WeightedTerm{Score: 0.2}, true},
		{"unlabelled positive via related", domain.SearchOptions{RelatedWords: true}, domain.WeightedTerm{Score: 0.2}, true},
		{"unlabelled positive blocked", domain.SearchOptions{Antonyms: true}, domain.WeightedTerm{Score: 0.2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllowsTerm(tt.opts, tt.term))
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héllo", truncateRunes("héllo", 0))
	assert.Equal(t, "hé", truncateRunes("héllo", 2))
	assert.Equal(t, "héllo", truncateRunes("héllo", 5))
	assert.Equal(t, "héllo", truncateRunes("héllo", 50))
}
