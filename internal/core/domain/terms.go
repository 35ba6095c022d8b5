package domain

import "strings"

// DefaultScore is the score given to terms with no associated relevance,
// such as the literal query.
const DefaultScore = 1.0

// Relation describes how a semantically derived term relates to the query.
type Relation string

// Known relations returned by term expansion.
const (
	// RelationSynonym is a word with the same meaning.
	RelationSynonym Relation = "synonym"

	// RelationAntonym is a word with the opposite meaning.
	RelationAntonym Relation = "antonym"

	// RelationRelated is any other closely related word or form.
	RelationRelated Relation = "related"
)

// WeightedTerm is a term paired with a relevance score.
// The sign of Score may carry meaning (synonym vs antonym);
// its magnitude always maps to visual intensity.
type WeightedTerm struct {
	// Text is the literal text to match.
	Text string `json:"word"`

	// Score is the relevance or polarity of the term.
	Score float64 `json:"score"`

	// Relation is the optional relation to the query.
	Relation Relation `json:"relation,omitempty"`
}

// Trimmed returns the term text without surrounding whitespace.
func (t WeightedTerm) Trimmed() string {
	return strings.TrimSpace(t.Text)
}

// IsEligible reports whether the term has matchable text.
func (t WeightedTerm) IsEligible() bool {
	return t.Trimmed() != ""
}

// EffectiveRelation classifies the term, falling back to the score sign
// when no explicit relation was supplied.
func (t WeightedTerm) EffectiveRelation() Relation {
	switch t.Relation {
	case RelationSynonym, RelationAntonym, RelationRelated:
		return t.Relation
	}
	if t.Score < 0 {
		return RelationAntonym
	}
	return RelationRelated
}

// TermGroup is the input to one highlighting pass.
// Term lists must not be modified while a pass is running.
type TermGroup struct {
	// Primary holds literal terms, or whole sentences in sentence mode.
	Primary []string `json:"original"`

	// Semantic holds semantically derived weighted terms.
	Semantic []WeightedTerm `json:"semanticMatches"`

	// SentenceMode marks the primary list as sentence-level spans.
	SentenceMode bool `json:"isSentence,omitempty"`
}

// PrimaryTerms returns the primary list as weighted terms at full intensity.
func (g TermGroup) PrimaryTerms() []WeightedTerm {
	terms := make([]WeightedTerm, 0, len(g.Primary))
	for _, text := range g.Primary {
		terms = append(terms, WeightedTerm{Text: text, Score: DefaultScore})
	}
	return terms
}

// PrimaryCategory returns the marker category used for the primary list.
func (g TermGroup) PrimaryCategory() MarkerCategory {
	if g.SentenceMode {
		return MarkerSentence
	}
	return MarkerOriginal
}

// IsEmpty reports whether no term in the group is eligible for matching.
func (g TermGroup) IsEmpty() bool {
	for _, text := range g.Primary {
		if strings.TrimSpace(text) != "" {
			return false
		}
	}
	for _, t := range g.Semantic {
		if t.IsEligible() {
			return false
		}
	}
	return true
}

// RelatedTerms is the response of a term-expansion service.
type RelatedTerms struct {
	// CorrectedTerm is the spell-checked form of the query.
	CorrectedTerm string `json:"correctedTerm"`

	// Matches are related words found in the page, with scores.
	Matches []WeightedTerm `json:"semanticMatches"`
}

// SentenceMatch is a sentence found to match a description.
type SentenceMatch struct {
	// Sentence is the matched sentence, verbatim from the page.
	Sentence string `json:"matchingSentence"`

	// Score is how well the sentence matches (0.0 to 1.0).
	Score float64 `json:"relevanceScore"`
}
