package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/findable/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/findable/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/findable/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/findable/internal/adapters/driving/tui/views/find"
	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/page"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	// findView is the find bar over the highlighted page.
	findView *find.View

	title string
	err   error

	width  int
	height int

	// ready indicates if the first window size has arrived.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	styler := ports.Styler
	if styler == nil {
		styler = page.NewLipglossStyler(os.Stdout)
	}

	s := styles.DefaultStyles()
	view := find.NewView(s, keymap.DefaultKeyMap(), ports.Find, ports.Page, styler)
	view.SetOptions(ports.Options)
	view.SetMode(ports.Mode)

	var title string
	if ports.Analyzer != nil {
		title = ports.Analyzer.Facts().Title
		view.SetTitle(title)
	}

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		styles:   s,
		findView: view,
		title:    title,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.findView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	windowTitle := "findable"
	if a.title != "" {
		windowTitle = "findable - " + a.title
	}
	return tea.Batch(
		tea.SetWindowTitle(windowTitle),
		a.findView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.findView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case messages.Quit:
		return a, tea.Quit

	case messages.ErrorOccurred:
		a.err = msg.Err
	}

	a.findView, cmd = a.findView.Update(msg)
	if err := a.findView.Err(); err != nil {
		a.err = err
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	return a.findView.View()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Position returns the current match position.
func (a *App) Position() domain.Position {
	return a.findView.Position()
}

// Mode returns the current search mode.
func (a *App) Mode() messages.Mode {
	return a.findView.Mode()
}

// Title returns the page title.
func (a *App) Title() string {
	return a.title
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.findView.SetDimensions(width, height)
}
