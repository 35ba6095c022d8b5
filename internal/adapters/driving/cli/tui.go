package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/findable/internal/adapters/driving/tui"
	"github.com/custodia-labs/findable/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/findable/internal/session"
)

var (
	tuiSemantic bool
	tuiDescribe bool
	tuiRootID   string
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui <page>",
	Short: "Find in a page interactively",
	Long: `Opens a page in an interactive find bar. Matches are highlighted as
you search and the view scrolls to the current one.

Controls:
  Enter     - Search, or next match when the query is unchanged
  Ctrl+N/P  - Next / previous match
  Tab       - Cycle literal, semantic and describe modes
  ↑/↓ PgUp/PgDn - Scroll
  Esc       - Clear highlights, or quit when nothing is highlighted
  Ctrl+C    - Quit`,
	Example: `  findable tui article.html
  findable tui https://example.com --semantic`,
	Args: cobra.ExactArgs(1),
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVarP(&tuiSemantic, "semantic", "s", false, "start in semantic mode")
	tuiCmd.Flags().BoolVarP(&tuiDescribe, "describe", "d", false, "start in describe mode")
	tuiCmd.Flags().StringVar(&tuiRootID, "root-id", "", "id of an element never scanned")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, release, err := newTUIApp(cmd, args[0])
	if err != nil {
		return err
	}
	defer release()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// newTUIApp opens src and builds the find app around it.
func newTUIApp(cmd *cobra.Command, src string) (*tui.App, func(), error) {
	settings, err := currentSettings()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if tuiRootID != "" {
		settings.Highlight.RootID = tuiRootID
	}

	cfg, release := sessionConfig(cmd, settings, true)
	sess, err := session.Open(cmd.Context(), pageLoader, src, cfg)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to load page: %w", err)
	}

	mode := messages.ModeLiteral
	switch {
	case tuiDescribe:
		mode = messages.ModeDescribe
	case tuiSemantic:
		mode = messages.ModeSemantic
	}

	app, err := tui.NewApp(&tui.Ports{
		Find:     sess.Find,
		Page:     sess.Page,
		Analyzer: sess.Analyzer,
		Options:  settings.Find.Options,
		Mode:     mode,
	})
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())
	return app, release, nil
}
