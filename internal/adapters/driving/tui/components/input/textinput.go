// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/findable/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/findable/internal/adapters/driving/tui/styles"
)

// Placeholders shown for each search mode.
const (
	findPlaceholder     = "Find in page..."
	describePlaceholder = "Describe the sentences to find..."
)

// FindInput wraps a bubbles textinput as the find bar.
type FindInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	mode      messages.Mode
	width     int
}

// NewFindInput creates a new find bar.
func NewFindInput(s *styles.Styles) *FindInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = findPlaceholder
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return &FindInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the find bar.
func (f *FindInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (f *FindInput) Update(msg tea.Msg) (*FindInput, tea.Cmd) {
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the find bar.
func (f *FindInput) View() string {
	label := "Find: "
	if f.mode == messages.ModeDescribe {
		label = "Describe: "
	}
	input := f.styles.InputField.Render(f.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, f.styles.Title.Render(label), input)
}

// SetMode switches the label and placeholder for mode.
func (f *FindInput) SetMode(mode messages.Mode) {
	f.mode = mode
	if mode == messages.ModeDescribe {
		f.textinput.Placeholder = describePlaceholder
	} else {
		f.textinput.Placeholder = findPlaceholder
	}
}

// Value returns the current input value.
func (f *FindInput) Value() string {
	return f.textinput.Value()
}

// SetValue sets the input value.
func (f *FindInput) SetValue(value string) {
	f.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (f *FindInput) Focus() tea.Cmd {
	return f.textinput.Focus()
}

// Blur removes focus from the input.
func (f *FindInput) Blur() {
	f.textinput.Blur()
}

// Focused returns whether the input is focused.
func (f *FindInput) Focused() bool {
	return f.textinput.Focused()
}

// SetWidth sets the width of the input.
func (f *FindInput) SetWidth(width int) {
	f.width = width
	// Account for label and padding
	inputWidth := width - 14
	if inputWidth < 20 {
		inputWidth = 20
	}
	f.textinput.Width = inputWidth
}

// Width returns the current width.
func (f *FindInput) Width() int {
	return f.width
}

// Reset clears the input.
func (f *FindInput) Reset() {
	f.textinput.Reset()
}
