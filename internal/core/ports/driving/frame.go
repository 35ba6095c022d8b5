package driving

import "github.com/custodia-labs/findable/internal/core/domain"

// FrameService presents a page and its embedded frames as one document
// with a single global match index.
type FrameService interface {
	// Highlight runs the pass in every unit and returns the total count.
	Highlight(group domain.TermGroup) (int, error)

	// Next moves to the next match across units, wrapping around.
	Next() domain.Position

	// Previous moves to the previous match across units, wrapping around.
	Previous() domain.Position

	// GoTo selects the match with the given global index.
	GoTo(index int) domain.Position

	// Clear removes every marker in every unit.
	Clear()

	// Position returns the global navigation state.
	Position() domain.Position

	// Units returns the number of documents being coordinated.
	Units() int

	// Locate maps a global index to its unit and local index.
	Locate(index int) (unit, local int, ok bool)
}
