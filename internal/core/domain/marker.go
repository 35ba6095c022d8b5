package domain

// NoSelection is the cursor value when no marker is selected.
const NoSelection = -1

// MarkerCategory is the kind of marker wrapped around a match.
type MarkerCategory int

// Marker categories.
const (
	// MarkerOriginal wraps a literal query term.
	MarkerOriginal MarkerCategory = iota

	// MarkerSemantic wraps a semantically derived term.
	MarkerSemantic

	// MarkerSentence wraps a description-matched sentence.
	MarkerSentence
)

// AllMarkerCategories returns every marker category.
func AllMarkerCategories() []MarkerCategory {
	return []MarkerCategory{MarkerOriginal, MarkerSemantic, MarkerSentence}
}

// IsValid returns true if the category is recognised.
func (c MarkerCategory) IsValid() bool {
	return c >= MarkerOriginal && c <= MarkerSentence
}

// String returns the string representation.
func (c MarkerCategory) String() string {
	switch c {
	case MarkerOriginal:
		return "original"
	case MarkerSemantic:
		return "semantic"
	case MarkerSentence:
		return "sentence"
	default:
		return "unknown"
	}
}

// Position reports the navigation cursor and the number of markers.
type Position struct {
	// Current is the cursor index, or NoSelection.
	Current int `json:"current"`

	// Total is the number of live markers.
	Total int `json:"total"`
}

// EmptyPosition is the sentinel returned when no markers exist.
func EmptyPosition() Position {
	return Position{Current: NoSelection, Total: 0}
}

// HasSelection reports whether a marker is current.
func (p Position) HasSelection() bool {
	return p.Current != NoSelection && p.Total > 0
}
