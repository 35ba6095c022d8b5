// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/findable/internal/core/domain"
)

// FindRequested is a command to run a highlight pass.
type FindRequested struct {
	Request domain.FindRequest
}

// FindCompleted carries the outcome of a highlight pass back to the model.
type FindCompleted struct {
	Result domain.FindResult
	Err    error
}

// PositionChanged is sent after navigating between matches.
type PositionChanged struct {
	Position domain.Position
}

// Cleared is sent when all highlights were removed.
type Cleared struct{}

// Mode is the kind of search the find bar runs.
type Mode int

const (
	// ModeLiteral highlights the query only.
	ModeLiteral Mode = iota
	// ModeSemantic highlights the query and its related terms.
	ModeSemantic
	// ModeDescribe highlights sentences matching the query as a description.
	ModeDescribe
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeLiteral:
		return "literal"
	case ModeSemantic:
		return "semantic"
	case ModeDescribe:
		return "describe"
	default:
		return "unknown"
	}
}

// Next cycles to the following mode.
func (m Mode) Next() Mode {
	return (m + 1) % (ModeDescribe + 1)
}

// ModeChanged is sent when the search mode is switched.
type ModeChanged struct {
	Mode Mode
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
