package services

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/core/ports/driven"
	"github.com/custodia-labs/findable/internal/core/ports/driving"
	"github.com/custodia-labs/findable/internal/logger"
)

// Ensure FindService implements the interface.
var _ driving.FindService = (*FindService)(nil)

// FindService runs searches against one document.
//
// Every call to Find takes the next request id. Term expansion happens
// before the document is touched; when the results arrive the id is
// compared with the latest one and superseded results are dropped.
type FindService struct {
	doc      driven.Document
	settings domain.FindSettings

	expander driven.TermExpander
	matcher  driven.SentenceMatcher
	chunker  driven.Chunker

	seq atomic.Uint64
	// apply serialises the staleness check with the highlight pass.
	apply sync.Mutex
}

// NewFindService creates a find service over doc.
// Semantic collaborators are optional and set separately.
func NewFindService(doc driven.Document, settings domain.FindSettings) *FindService {
	return &FindService{
		doc:      doc,
		settings: settings,
	}
}

// SetTermExpander sets the related-term source for semantic searches.
func (s *FindService) SetTermExpander(e driven.TermExpander) {
	s.expander = e
}

// SetSentenceMatcher sets the sentence source for descriptive searches.
func (s *FindService) SetSentenceMatcher(m driven.SentenceMatcher) {
	s.matcher = m
}

// SetChunker sets how page text is split for descriptive searches.
// Without one the whole text is sent in a single request.
func (s *FindService) SetChunker(c driven.Chunker) {
	s.chunker = c
}

// LatestRequestID returns the id of the most recent request.
func (s *FindService) LatestRequestID() uint64 {
	return s.seq.Load()
}

// Find highlights the terms of req in the document.
func (s *FindService) Find(ctx context.Context, req domain.FindRequest) (domain.FindResult, error) {
	id := s.seq.Add(1)
	query := strings.TrimSpace(req.Query)
	description := strings.TrimSpace(req.Description)

	logger.Section("Find")
	logger.Debug("Request %d: query=%q description=%q semantic=%t", id, query, description, req.Semantic)

	result := domain.FindResult{RequestID: id}

	if query == "" && description == "" {
		s.apply.Lock()
		defer s.apply.Unlock()
		if s.isStale(id) {
			result.Stale = true
			return result, nil
		}
		s.doc.Clear()
		result.Position = s.doc.Position()
		logger.Debug("Empty query, cleared highlights")
		return result, nil
	}

	var group domain.TermGroup
	if description != "" {
		group, result.Degraded = s.sentenceGroup(ctx, description, query)
	} else {
		group, result.CorrectedTerm, result.Degraded = s.wordGroup(ctx, query, req)
	}

	s.apply.Lock()
	defer s.apply.Unlock()

	if s.isStale(id) {
		logger.Debug("Request %d superseded by %d, dropping results", id, s.seq.Load())
		result.Stale = true
		return result, nil
	}

	count, err := s.doc.Highlight(group)
	if err != nil {
		return result, err
	}
	result.Group = group
	result.Position = s.doc.Position()
	if req.Options.ImageSearch {
		result.Images = s.matchImages(group)
	}
	logger.Info("Request %d: %d matches, %d images", id, count, len(result.Images))

	return result, nil
}

// wordGroup builds the term group for a word search: the literal query
// plus, when requested, related terms allowed by the request options.
func (s *FindService) wordGroup(
	ctx context.Context, query string, req domain.FindRequest,
) (group domain.TermGroup, corrected string, degraded bool) {
	group.Primary = []string{query}

	if !req.Semantic || !req.Options.Any() {
		return group, "", false
	}
	if s.expander == nil {
		logger.Debug("No term expander configured, literal search only")
		return group, "", false
	}

	defer logger.Timed("related terms")()
	related, err := s.expander.RelatedTerms(ctx, query, truncateRunes(s.doc.Text(), s.settings.ContextChars))
	if err != nil {
		logger.Warn("Related terms unavailable, highlighting %q only: %v", query, err)
		return group, "", true
	}
	if related == nil {
		return group, "", false
	}

	group.Semantic = filterTerms(related.Matches, query, req.Options)
	logger.Debug("Related terms: %d returned, %d kept", len(related.Matches), len(group.Semantic))
	return group, related.CorrectedTerm, false
}

// sentenceGroup asks for sentences matching description chunk by chunk.
// Chunks that fail are skipped; when nothing could be retrieved the
// literal query, if any, is highlighted instead.
func (s *FindService) sentenceGroup(
	ctx context.Context, description, query string,
) (group domain.TermGroup, degraded bool) {
	fallback := domain.TermGroup{}
	if query != "" {
		fallback.Primary = []string{query}
	}
	if s.matcher == nil {
		logger.Warn("Descriptive search unavailable: no sentence matcher configured")
		return fallback, true
	}

	defer logger.Timed("matching sentences")()
	chunks := s.chunks(s.doc.Text())
	logger.Debug("Descriptive search over %d chunks", len(chunks))

	group.SentenceMode = true
	failures := 0
	for i, chunk := range chunks {
		if ctx.Err() != nil {
			logger.Warn("Descriptive search cancelled after %d of %d chunks", i, len(chunks))
			failures += len(chunks) - i
			break
		}
		matches, err := s.matcher.MatchingSentences(ctx, description, chunk)
		if err != nil {
			logger.Warn("Chunk %d failed: %v", i, err)
			failures++
			continue
		}
		for _, m := range matches {
			if sentence := strings.TrimSpace(m.Sentence); sentence != "" {
				group.Primary = append(group.Primary, sentence)
			}
		}
	}

	if failures > 0 && failures == len(chunks) {
		return fallback, true
	}
	return group, failures > 0
}

// matchImages returns the images whose alt text or title contains a word
// term of group. Sentence groups match no images.
func (s *FindService) matchImages(group domain.TermGroup) []domain.Image {
	src, ok := s.doc.(driven.ImageSource)
	if !ok || group.SentenceMode {
		return nil
	}

	var terms []string
	for _, t := range append(group.PrimaryTerms(), group.Semantic...) {
		if text := strings.ToLower(t.Trimmed()); text != "" {
			terms = append(terms, text)
		}
	}
	if len(terms) == 0 {
		return nil
	}

	var found []domain.Image
	for _, img := range src.Images() {
		label := strings.ToLower(img.Alt + "\n" + img.Title)
		for _, term := range terms {
			if strings.Contains(label, term) {
				found = append(found, img)
				break
			}
		}
	}
	return found
}

func (s *FindService) chunks(text string) []string {
	if s.chunker != nil {
		return s.chunker.Chunk(text)
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []string{text}
}

// filterTerms keeps the related terms enabled by opts, dropping the
// query itself.
func filterTerms(terms []domain.WeightedTerm, query string, opts domain.SearchOptions) []domain.WeightedTerm {
	var kept []domain.WeightedTerm
	for _, t := range terms {
		if !t.IsEligible() || strings.EqualFold(t.Trimmed(), query) {
			continue
		}
		if !AllowsTerm(opts, t) {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

// AllowsTerm reports whether opts admit t. Terms without an explicit relation
// are classified by score: negative is an antonym, anything else counts
// as both synonym and related word.
func AllowsTerm(opts domain.SearchOptions, t domain.WeightedTerm) bool {
	if t.Relation != "" {
		return opts.Allows(t.EffectiveRelation())
	}
	if t.Score < 0 {
		return opts.Antonyms
	}
	return opts.Synonyms || opts.RelatedWords
}

func (s *FindService) isStale(id uint64) bool {
	return id != s.seq.Load()
}

// Next moves to the next match.
func (s *FindService) Next() domain.Position {
	return s.doc.Next()
}

// Previous moves to the previous match.
func (s *FindService) Previous() domain.Position {
	return s.doc.Previous()
}

// GoTo jumps to the match at index.
func (s *FindService) GoTo(index int) domain.Position {
	return s.doc.GoTo(index)
}

// Clear removes all highlights.
func (s *FindService) Clear() {
	s.doc.Clear()
}

// Position returns the navigation state.
func (s *FindService) Position() domain.Position {
	return s.doc.Position()
}

// truncateRunes returns at most n runes of text. Zero or negative n keeps everything.
func truncateRunes(text string, n int) string {
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos]
		}
		i++
	}
	return text
}
