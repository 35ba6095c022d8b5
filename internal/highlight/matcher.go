package highlight

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/findable/internal/core/domain"
)

// Match is one occurrence of a term inside a text run.
type Match struct {
	// Start and End are byte offsets into the scanned text.
	Start, End int

	// Text is the matched text exactly as it appears in the page.
	Text string

	// Score is the score of the term that produced the match.
	Score float64
}

// Matcher finds occurrences of a set of weighted terms.
// Terms are matched as case-insensitive literal substrings.
type Matcher struct {
	pattern  *regexp.Regexp
	terms    []domain.WeightedTerm
	scores   map[string]float64
	flexible bool
}

// CompileOption configures Compile.
type CompileOption func(*Matcher)

// FlexibleWhitespace lets any run of whitespace, non-breaking spaces
// included, stand for the whitespace between the words of a term. Used
// for sentences taken from collapsed page text and matched against raw
// text nodes.
func FlexibleWhitespace() CompileOption {
	return func(m *Matcher) {
		m.flexible = true
	}
}

// spaceRun matches the whitespace between words in flexible mode.
const spaceRun = `[\s\x{00A0}]+`

// Compile builds a Matcher from the eligible terms.
// Terms that are empty after trimming are dropped. Terms differing only in
// case collapse into one; the first registered keeps its score.
// A Matcher compiled from no eligible terms matches nothing.
func Compile(terms []domain.WeightedTerm, opts ...CompileOption) (*Matcher, error) {
	m := &Matcher{scores: make(map[string]float64)}
	for _, opt := range opts {
		opt(m)
	}

	alternatives := make([]string, 0, len(terms))
	for _, t := range terms {
		text := t.Trimmed()
		if text == "" {
			continue
		}
		key := m.key(text)
		if _, dup := m.scores[key]; dup {
			continue
		}
		m.scores[key] = t.Score
		m.terms = append(m.terms, domain.WeightedTerm{Text: text, Score: t.Score, Relation: t.Relation})
		alternatives = append(alternatives, m.quote(text))
	}

	if len(alternatives) == 0 {
		return m, nil
	}

	// Go regexps are leftmost-first: at a given offset the earliest
	// alternative wins, so ties go to the first registered term.
	re, err := regexp.Compile("(?i)(?:" + strings.Join(alternatives, "|") + ")")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidPattern, err)
	}
	m.pattern = re

	return m, nil
}

// quote escapes text for the pattern.
func (m *Matcher) quote(text string) string {
	if !m.flexible {
		return regexp.QuoteMeta(text)
	}
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(words, spaceRun)
}

// key folds text for score lookups and duplicate detection.
func (m *Matcher) key(text string) string {
	if m.flexible {
		text = strings.Join(strings.Fields(text), " ")
	}
	return strings.ToLower(text)
}

// IsEmpty reports whether the matcher has no terms.
func (m *Matcher) IsEmpty() bool {
	return m == nil || m.pattern == nil
}

// Terms returns the deduplicated, trimmed terms in registration order.
func (m *Matcher) Terms() []domain.WeightedTerm {
	if m == nil {
		return nil
	}
	out := make([]domain.WeightedTerm, len(m.terms))
	copy(out, m.terms)
	return out
}

// Matches reports whether text contains at least one occurrence.
func (m *Matcher) Matches(text string) bool {
	if m.IsEmpty() || text == "" {
		return false
	}
	return m.pattern.MatchString(text)
}

// FindAll returns every non-overlapping occurrence in text, left to right.
func (m *Matcher) FindAll(text string) []Match {
	if m.IsEmpty() || text == "" {
		return nil
	}

	locs := m.pattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		found := text[loc[0]:loc[1]]
		matches = append(matches, Match{
			Start: loc[0],
			End:   loc[1],
			Text:  found,
			Score: m.scoreOf(found),
		})
	}
	return matches
}

// scoreOf looks up the score of the term that matched found.
func (m *Matcher) scoreOf(found string) float64 {
	key := m.key(found)
	if score, ok := m.scores[key]; ok {
		return score
	}
	// Unicode case folding can disagree with ToLower; fall back to EqualFold.
	for _, t := range m.terms {
		if strings.EqualFold(m.key(t.Text), key) {
			return t.Score
		}
	}
	return domain.DefaultScore
}
