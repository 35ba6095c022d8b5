// Package find provides the find-in-page view for the TUI.
package find

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/findable/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/findable/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/findable/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/findable/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/findable/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/core/ports/driving"
	"github.com/custodia-labs/findable/internal/highlight"
	"github.com/custodia-labs/findable/internal/page"
)

// PageRenderer renders a page for the terminal.
type PageRenderer interface {
	RenderANSI(w io.Writer, s page.Styler) error
}

// cursorMark tags the line holding the current match. It is a private
// use rune so it never collides with page text.
const cursorMark = "\uE000"

// chromeHeight is the space taken by the title, find bar and status bar.
const chromeHeight = 5

// View is the find-in-page view.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	input  *input.FindInput
	status *status.Bar
	pager  viewport.Model

	find    driving.FindService
	page    PageRenderer
	styler  page.Styler
	options domain.SearchOptions
	ctx     context.Context

	title     string
	mode      messages.Mode
	lastQuery string
	lastMode  messages.Mode
	searching bool
	position  domain.Position
	focusLine int
	err       error

	width  int
	height int
}

// NewView creates a find view over p.
func NewView(s *styles.Styles, km *keymap.KeyMap, find driving.FindService, p PageRenderer, styler page.Styler) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if styler == nil {
		styler = page.StylerFunc(func(text string, _ highlight.Marker) string { return text })
	}

	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewFindInput(s),
		status:    status.NewBar(s, km),
		pager:     viewport.New(80, 20),
		find:      find,
		page:      p,
		styler:    styler,
		ctx:       context.Background(),
		position:  domain.EmptyPosition(),
		focusLine: -1,
		width:     80,
		height:    20 + chromeHeight,
	}
	v.refresh()
	return v
}

// WithContext sets the context used for find requests.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetOptions sets the relation filters sent with each request.
func (v *View) SetOptions(opts domain.SearchOptions) {
	v.options = opts
}

// SetTitle sets the page title shown above the find bar.
func (v *View) SetTitle(title string) {
	v.title = title
}

// SetMode switches the search mode.
func (v *View) SetMode(mode messages.Mode) {
	v.mode = mode
	v.input.SetMode(mode)
	v.status.SetMode(mode)
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the find view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.FindCompleted:
		return v.handleFindCompleted(msg)

	case messages.PositionChanged:
		v.position = msg.Position
		v.status.SetPosition(msg.Position)
		v.refresh()
		return v, nil

	case messages.Cleared:
		v.position = domain.EmptyPosition()
		v.status.Clear()
		v.refresh()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.status.SetState(status.StateError)
		v.status.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keymap.Search):
		return v, v.search()

	case key.Matches(msg, v.keymap.Next):
		return v, v.navigate(v.find.Next)

	case key.Matches(msg, v.keymap.Previous):
		return v, v.navigate(v.find.Previous)

	case key.Matches(msg, v.keymap.Clear):
		if v.position.Total == 0 && v.input.Value() == "" {
			return v, tea.Quit
		}
		v.input.Reset()
		v.lastQuery = ""
		return v, v.clear()

	case key.Matches(msg, v.keymap.Mode):
		v.SetMode(v.mode.Next())
		return v, nil

	case key.Matches(msg, v.keymap.Up, v.keymap.Down, v.keymap.PageUp, v.keymap.PageDown):
		var cmd tea.Cmd
		v.pager, cmd = v.pager.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// search runs the query, or steps to the next match when the query and
// mode are unchanged since the last search.
func (v *View) search() tea.Cmd {
	query := strings.TrimSpace(v.input.Value())
	if query != "" && query == v.lastQuery && v.mode == v.lastMode && v.position.Total > 0 {
		return v.navigate(v.find.Next)
	}

	v.lastQuery = query
	v.lastMode = v.mode
	v.searching = true
	v.err = nil
	v.status.SetState(status.StateSearching)

	req := v.Request(query)
	find, ctx := v.find, v.ctx
	return func() tea.Msg {
		res, err := find.Find(ctx, req)
		return messages.FindCompleted{Result: res, Err: err}
	}
}

// Request builds the find request for query in the current mode.
func (v *View) Request(query string) domain.FindRequest {
	req := domain.FindRequest{Options: v.options}
	switch v.mode {
	case messages.ModeDescribe:
		req.Description = query
	case messages.ModeSemantic:
		req.Query = query
		req.Semantic = true
	default:
		req.Query = query
	}
	return req
}

// navigate steps the cursor on the update loop and reports the result
// as a message.
func (v *View) navigate(step func() domain.Position) tea.Cmd {
	if v.searching || v.position.Total == 0 {
		return nil
	}
	pos := step()
	return func() tea.Msg {
		return messages.PositionChanged{Position: pos}
	}
}

func (v *View) clear() tea.Cmd {
	if v.searching {
		return nil
	}
	v.find.Clear()
	return func() tea.Msg {
		return messages.Cleared{}
	}
}

func (v *View) handleFindCompleted(msg messages.FindCompleted) (*View, tea.Cmd) {
	if msg.Result.Stale {
		return v, nil
	}
	v.searching = false
	if msg.Err != nil {
		v.err = msg.Err
		v.status.SetState(status.StateError)
		v.status.SetMessage(msg.Err.Error())
		return v, nil
	}

	v.position = msg.Result.Position
	v.status.SetState(status.StateResults)
	if msg.Result.Position.Total == 0 && v.lastQuery == "" {
		v.status.SetState(status.StateReady)
	}
	v.status.SetPosition(msg.Result.Position)
	v.status.SetDegraded(msg.Result.Degraded)
	v.refresh()
	return v, nil
}

// refresh renders the page into the pager and scrolls the current match
// into the middle of it.
func (v *View) refresh() {
	if v.searching {
		return
	}

	var buf strings.Builder
	styler := page.StylerFunc(func(text string, m highlight.Marker) string {
		out := v.styler.Marker(text, m)
		if m.IsCurrent() {
			out = cursorMark + out
		}
		return out
	})
	if err := v.page.RenderANSI(&buf, styler); err != nil {
		v.err = err
		return
	}

	content := strings.TrimRight(buf.String(), "\n")
	if v.pager.Width > 0 {
		content = lipgloss.NewStyle().Width(v.pager.Width).Render(content)
	}

	lines := strings.Split(content, "\n")
	v.focusLine = -1
	for i, line := range lines {
		if strings.Contains(line, cursorMark) {
			v.focusLine = i
			lines[i] = strings.ReplaceAll(line, cursorMark, "")
			break
		}
	}
	v.pager.SetContent(strings.Join(lines, "\n"))

	if v.focusLine >= 0 {
		v.pager.SetYOffset(max(v.focusLine-v.pager.Height/2, 0))
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
	v.status.SetWidth(width)
	v.pager.Width = width
	v.pager.Height = max(height-chromeHeight, 1)
	v.refresh()
}

// View renders the find view.
func (v *View) View() string {
	var b strings.Builder
	if v.title != "" {
		b.WriteString(v.styles.Title.Render(v.title))
	}
	b.WriteString("\n")
	b.WriteString(v.input.View())
	b.WriteString("\n")
	b.WriteString(v.pager.View())
	b.WriteString("\n")
	b.WriteString(v.status.View())
	return b.String()
}

// Position returns the current match position.
func (v *View) Position() domain.Position {
	return v.position
}

// Mode returns the search mode.
func (v *View) Mode() messages.Mode {
	return v.mode
}

// FocusLine returns the content line of the current match, or -1.
func (v *View) FocusLine() int {
	return v.focusLine
}

// YOffset returns the scroll offset of the page.
func (v *View) YOffset() int {
	return v.pager.YOffset
}

// Searching reports whether a find request is in flight.
func (v *View) Searching() bool {
	return v.searching
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Input returns the find bar.
func (v *View) Input() *input.FindInput {
	return v.input
}
