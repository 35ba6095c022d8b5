package driven

import "github.com/custodia-labs/findable/internal/core/domain"

// Document is one independently highlighted document: a page or one of
// its frames. Each Document owns its own markers and cursor.
type Document interface {
	// Highlight clears previous markers and marks every occurrence of the
	// group's terms. Returns the number of markers.
	Highlight(group domain.TermGroup) (int, error)

	// Next moves the current marker forward, wrapping around.
	Next() domain.Position

	// Previous moves the current marker backward, wrapping around.
	Previous() domain.Position

	// GoTo makes the marker at index current, clamping out-of-range values.
	GoTo(index int) domain.Position

	// Deselect clears the current flag while keeping the cursor.
	Deselect()

	// Clear removes every marker and restores the original text nodes.
	Clear()

	// Position returns the cursor and marker count.
	Position() domain.Position

	// Text returns the visible text that highlighting operates on.
	Text() string
}

// ImageSource lists the images of a document.
type ImageSource interface {
	// Images returns every image outside excluded subtrees, in document order.
	Images() []domain.Image
}

// PageSource exposes the content of a loaded page for analysis.
type PageSource interface {
	// Text returns the visible text of the page.
	Text() string

	// Facts returns structural facts about the page.
	Facts() domain.PageFacts
}
