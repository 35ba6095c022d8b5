// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/findable/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/findable/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/findable/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/findable/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateSearching State = "searching"
	StateError     State = "error"
	StateResults   State = "results"
)

// Bar displays the match position, search mode and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	message  string
	position domain.Position
	mode     messages.Mode
	degraded bool
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:   s,
		keymap:   km,
		state:    StateReady,
		position: domain.EmptyPosition(),
		width:    80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is mostly passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.styles.Mode.Render("["+s.mode.String()+"]") + " " + s.renderLeft()
	right := s.renderRight()

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)
	padding := s.width - leftLen - rightLen
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state of the last search.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateSearching:
		return s.styles.Muted.Render("Searching...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateResults:
		var out string
		switch {
		case s.position.Total == 0:
			out = s.styles.Muted.Render("No matches")
		case s.position.HasSelection():
			out = s.styles.Normal.Render(fmt.Sprintf("Match %d of %d", s.position.Current+1, s.position.Total))
		default:
			out = s.styles.Normal.Render(fmt.Sprintf("%d matches", s.position.Total))
		}
		if s.degraded {
			out += " " + s.styles.Warning.Render("(literal only)")
		}
		return out
	}
	return s.styles.Muted.Render("Ready")
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding

	if s.state == StateResults && s.position.Total > 0 {
		bindings = s.keymap.ResultsHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetPosition sets the match position.
func (s *Bar) SetPosition(pos domain.Position) {
	s.position = pos
}

// Position returns the match position.
func (s *Bar) Position() domain.Position {
	return s.position
}

// SetMode sets the search mode shown in the badge.
func (s *Bar) SetMode(mode messages.Mode) {
	s.mode = mode
}

// Mode returns the displayed search mode.
func (s *Bar) Mode() messages.Mode {
	return s.mode
}

// SetDegraded marks results as literal-only.
func (s *Bar) SetDegraded(degraded bool) {
	s.degraded = degraded
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state. The mode is kept.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.position = domain.EmptyPosition()
	s.degraded = false
}
