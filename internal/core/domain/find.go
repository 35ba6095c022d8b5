package domain

// FindRequest describes one user search against a page.
type FindRequest struct {
	// Query is the literal search term.
	Query string

	// Description switches to sentence mode: sentences matching this
	// description are highlighted instead of words.
	Description string

	// Options selects which related terms are highlighted.
	Options SearchOptions

	// Semantic enables related-term expansion for the query.
	Semantic bool
}

// IsSentenceMode reports whether the request matches sentences by description.
func (r FindRequest) IsSentenceMode() bool {
	return r.Description != ""
}

// FindResult reports the outcome of a FindRequest.
type FindResult struct {
	// RequestID is the monotonically increasing id assigned to the request.
	RequestID uint64 `json:"request_id"`

	// Stale is true when a newer request superseded this one before its
	// results arrived. Stale results are never applied to the page.
	Stale bool `json:"stale,omitempty"`

	// CorrectedTerm is the spell-checked query, when expansion ran.
	CorrectedTerm string `json:"corrected_term,omitempty"`

	// Group is the term group that was highlighted.
	Group TermGroup `json:"terms"`

	// Position is the navigation state after the pass.
	Position Position `json:"position"`

	// Degraded is true when upstream services failed and the pass fell
	// back to literal-term matching.
	Degraded bool `json:"degraded,omitempty"`

	// Images are the page images whose alt text or title contains one of
	// the highlighted words. Only filled when image search is enabled.
	Images []Image `json:"images,omitempty"`
}
