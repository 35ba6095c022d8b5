package semantic

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/findable/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/core/ports/driven"
)

// mockLLM returns canned replies and records prompts.
type mockLLM struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []string
	opts    []driven.GenerateOptions
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "", errors.New("no reply queued")
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return reply, nil
}

func (m *mockLLM) Chat(context.Context, []driven.ChatMessage, driven.ChatOptions) (string, error) {
	return "", errors.New("not implemented")
}

func (m *mockLLM) ModelName() string          { return "mock" }
func (m *mockLLM) Ping(context.Context) error { return nil }
func (m *mockLLM) Close() error               { return nil }

func (m *mockLLM) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

type mockPromptStore map[string]string

func (m mockPromptStore) Load(name string) (string, error) {
	p, ok := m[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m mockPromptStore) Reload() {}

const catReply = `Sure! Here you go:
{"correctedTerm": "cat", "semanticMatches": [
  {"word": "kitten", "score": 0.9, "relation": "Synonym"},
  {"word": "  ", "score": 0.5},
  {"word": "dog", "score": -1.7, "relation": "antonym"}
]}
Hope that helps.`

func TestRelatedTerms(t *testing.T) {
	llm := &mockLLM{replies: []string{catReply}}
	s := New(llm, Config{})

	got, err := s.RelatedTerms(context.Background(), " cat ", "The kitten and the dog.")

	require.NoError(t, err)
	assert.Equal(t, "cat", got.CorrectedTerm)
	assert.Equal(t, []domain.WeightedTerm{
		{Text: "kitten", Score: 0.9, Relation: domain.RelationSynonym},
		{Text: "dog", Score: -1, Relation: domain.RelationAntonym},
	}, got.Matches)

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], `"cat"`)
	assert.Contains(t, llm.prompts[0], "The kitten and the dog.")
	assert.True(t, llm.opts[0].JSON)
}

func TestRelatedTerms_CorrectedTermDefaultsToTerm(t *testing.T) {
	llm := &mockLLM{replies: []string{`{"semanticMatches": []}`}}

	got, err := New(llm, Config{}).RelatedTerms(context.Background(), "colour", "text")

	require.NoError(t, err)
	assert.Equal(t, "colour", got.CorrectedTerm)
	assert.Empty(t, got.Matches)
}

func TestRelatedTerms_TruncatesContext(t *testing.T) {
	llm := &mockLLM{replies: []string{`{}`}}
	page := strings.Repeat("a", 20) + "TAIL"

	_, err := New(llm, Config{ContextChars: 20}).RelatedTerms(context.Background(), "x", page)

	require.NoError(t, err)
	assert.NotContains(t, llm.prompts[0], "TAIL")
}

func TestRelatedTerms_Errors(t *testing.T) {
	t.Run("empty term", func(t *testing.T) {
		_, err := New(&mockLLM{}, Config{}).RelatedTerms(context.Background(), "  ", "text")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("llm failure", func(t *testing.T) {
		llm := &mockLLM{err: domain.ErrLLMUnavailable}
		_, err := New(llm, Config{}).RelatedTerms(context.Background(), "cat", "text")
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})

	t.Run("no json", func(t *testing.T) {
		llm := &mockLLM{replies: []string{"I cannot help with that."}}
		_, err := New(llm, Config{}).RelatedTerms(context.Background(), "cat", "text")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("broken json", func(t *testing.T) {
		llm := &mockLLM{replies: []string{`{"correctedTerm": }`}}
		_, err := New(llm, Config{}).RelatedTerms(context.Background(), "cat", "text")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestRelatedTerms_Cache(t *testing.T) {
	llm := &mockLLM{replies: []string{catReply}}
	s := New(llm, Config{Cache: memory.NewTermCache(time.Hour)})
	ctx := context.Background()

	first, err := s.RelatedTerms(ctx, "cat", "The kitten and the dog.")
	require.NoError(t, err)
	second, err := s.RelatedTerms(ctx, "cat", "The kitten and the dog.")
	require.NoError(t, err)

	assert.Equal(t, 1, llm.calls())
	assert.Equal(t, first, second)

	// A different page is a different entry.
	_, err = s.RelatedTerms(ctx, "cat", "Another page entirely.")
	assert.Error(t, err)
	assert.Equal(t, 2, llm.calls())
}

func TestCacheKey(t *testing.T) {
	prefix := strings.Repeat("p", cacheKeyChars)

	assert.Equal(t, CacheKey("cat", prefix+"one"), CacheKey("cat", prefix+"two"))
	assert.NotEqual(t, CacheKey("cat", "one"), CacheKey("cat", "two"))
	assert.NotEqual(t, CacheKey("cat", "one"), CacheKey("dog", "one"))
	assert.True(t, strings.HasPrefix(CacheKey("cat", "x"), "cat:"))
}

func TestMatchingSentences(t *testing.T) {
	llm := &mockLLM{replies: []string{
		`{"matches": [{"matchingSentence": " The cat sat. ", "relevanceScore": 1.4}, {"matchingSentence": "", "relevanceScore": 0.2}]}`,
	}}

	got, err := New(llm, Config{}).MatchingSentences(context.Background(), "sitting animals", "The cat sat. The sky is blue.")

	require.NoError(t, err)
	assert.Equal(t, []domain.SentenceMatch{{Sentence: "The cat sat.", Score: 1}}, got)
	assert.Contains(t, llm.prompts[0], `"sitting animals"`)
	assert.Contains(t, llm.prompts[0], "The sky is blue.")
}

func TestMatchingSentences_EmptyArray(t *testing.T) {
	llm := &mockLLM{replies: []string{`{"matches": []}`}}

	got, err := New(llm, Config{}).MatchingSentences(context.Background(), "d", "chunk")

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMatchingSentences_MissingArray(t *testing.T) {
	llm := &mockLLM{replies: []string{`{"sentences": []}`}}

	_, err := New(llm, Config{}).MatchingSentences(context.Background(), "d", "chunk")

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestMatchingSentences_BlankChunk(t *testing.T) {
	llm := &mockLLM{}

	got, err := New(llm, Config{}).MatchingSentences(context.Background(), "d", "   ")

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, llm.calls())
}

func TestMatchingSentences_RateLimitHonoursContext(t *testing.T) {
	llm := &mockLLM{replies: []string{`{"matches": []}`, `{"matches": []}`}}
	s := New(llm, Config{RequestsPerSecond: 0.001})

	_, err := s.MatchingSentences(context.Background(), "d", "chunk one")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = s.MatchingSentences(ctx, "d", "chunk two")

	assert.Error(t, err)
	assert.Equal(t, 1, llm.calls())
}

func TestPromptStore(t *testing.T) {
	llm := &mockLLM{replies: []string{`{}`, `{"matches": []}`}}
	s := New(llm, Config{})
	s.SetPromptStore(mockPromptStore{
		driven.PromptRelatedTerms: "TERM=%[1]s PAGE=%[2]s",
	})

	_, err := s.RelatedTerms(context.Background(), "cat", "page")
	require.NoError(t, err)
	_, err = s.MatchingSentences(context.Background(), "desc", "chunk")
	require.NoError(t, err)

	assert.Equal(t, "TERM=cat PAGE=page", llm.prompts[0])
	// Missing prompt falls back to the built-in one.
	assert.Contains(t, llm.prompts[1], `"desc"`)
}
