package driving

import (
	"context"

	"github.com/custodia-labs/findable/internal/core/domain"
)

// FindService runs searches against one page and navigates the results.
type FindService interface {
	// Find highlights the request's terms. A request superseded by a newer
	// one before its results arrive returns a result with Stale set and
	// leaves the page untouched. An empty query clears the page.
	Find(ctx context.Context, req domain.FindRequest) (domain.FindResult, error)

	// Next moves to the next match, wrapping around.
	Next() domain.Position

	// Previous moves to the previous match, wrapping around.
	Previous() domain.Position

	// GoTo jumps to a match by index.
	GoTo(index int) domain.Position

	// Clear removes all highlights.
	Clear()

	// Position returns the current navigation state.
	Position() domain.Position
}
