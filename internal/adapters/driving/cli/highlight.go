package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/logger"
	"github.com/custodia-labs/findable/internal/page"
	"github.com/custodia-labs/findable/internal/session"
)

// Output formats for the highlight command.
const (
	formatAuto = "auto"
	formatHTML = "html"
	formatText = "text"
)

var (
	highlightSemantic bool
	highlightDescribe string
	highlightJSON     bool
	highlightFormat   string
	highlightWatch    bool
	highlightRootID   string
	highlightGoto     int
)

var highlightCmd = &cobra.Command{
	Use:   "highlight <page> [term...]",
	Short: "Highlight a query in a page",
	Long: `Highlights every occurrence of the query in the page and prints the
result. With --semantic, synonyms, antonyms and related words suggested
by the configured LLM are highlighted as well, shaded by relevance.
With --describe, sentences matching a description are highlighted instead.

The page is written as HTML with <mark> elements, or as coloured text when
the output is a terminal. Use --format to choose explicitly.`,
	Example: `  findable highlight article.html climate
  findable highlight https://example.com "open source" --semantic
  findable highlight article.html --describe "claims about cost" --format text
  cat page.html | findable highlight - cat --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHighlight,
}

func init() {
	highlightCmd.Flags().BoolVarP(&highlightSemantic, "semantic", "s", false, "also highlight related terms")
	highlightCmd.Flags().StringVarP(&highlightDescribe, "describe", "d", "", "highlight sentences matching a description")
	highlightCmd.Flags().BoolVar(&highlightJSON, "json", false, "output the result as JSON")
	highlightCmd.Flags().StringVarP(&highlightFormat, "format", "f", formatAuto, "output format: auto, html or text")
	highlightCmd.Flags().BoolVarP(&highlightWatch, "watch", "w", false, "re-run when the page file changes")
	highlightCmd.Flags().StringVar(&highlightRootID, "root-id", "", "id of an element never scanned")
	highlightCmd.Flags().IntVar(&highlightGoto, "goto", -1, "select the match with this index")
	rootCmd.AddCommand(highlightCmd)
}

func runHighlight(cmd *cobra.Command, args []string) error {
	src := args[0]
	query := strings.Join(args[1:], " ")
	if strings.TrimSpace(query) == "" && strings.TrimSpace(highlightDescribe) == "" {
		return fmt.Errorf("%w: a search term or --describe is required", domain.ErrInvalidInput)
	}

	format, err := resolveFormat(highlightFormat, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	settings, err := currentSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if highlightRootID != "" {
		settings.Highlight.RootID = highlightRootID
	}

	cfg, release := sessionConfig(cmd, settings, highlightSemantic || highlightDescribe != "")
	defer release()

	run := func() error {
		return highlightOnce(cmd, src, query, format, cfg)
	}
	if err := run(); err != nil {
		return err
	}
	if !highlightWatch {
		return nil
	}

	if src == page.Stdin || (strings.Contains(src, "://") && !strings.HasPrefix(src, "file://")) {
		return fmt.Errorf("%w: --watch needs a local file", domain.ErrInvalidInput)
	}
	path := strings.TrimPrefix(src, "file://")
	cmd.PrintErrf("Watching %s for changes (Ctrl+C to stop)\n", path)
	return watchFile(cmd.Context(), path, func() {
		if err := run(); err != nil {
			cmd.PrintErrf("Error: %v\n", err)
		}
	})
}

func highlightOnce(cmd *cobra.Command, src, query, format string, cfg session.Config) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sess, err := session.Open(ctx, pageLoader, src, cfg)
	if err != nil {
		return fmt.Errorf("failed to load page: %w", err)
	}

	res, err := sess.Find.Find(ctx, sess.Request(query, highlightDescribe, highlightSemantic))
	if err != nil {
		return fmt.Errorf("highlight failed: %w", err)
	}
	if highlightGoto >= 0 {
		res.Position = sess.Find.GoTo(highlightGoto)
	}

	out := cmd.OutOrStdout()
	if highlightJSON {
		return outputHighlightJSON(cmd, sess, res)
	}

	switch format {
	case formatHTML:
		err = sess.Page.RenderHTML(out)
	default:
		err = sess.Page.RenderANSI(out, page.NewLipglossStyler(out))
	}
	if err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}

	printSummary(cmd, res)
	return nil
}

// highlightOutput is the JSON form of a highlight pass.
type highlightOutput struct {
	Source string `json:"source"`
	domain.FindResult
	Frames  int           `json:"frames"`
	Current *currentMatch `json:"current_match,omitempty"`
}

type currentMatch struct {
	Text      string  `json:"text"`
	Category  string  `json:"category"`
	Intensity float64 `json:"intensity"`
}

func outputHighlightJSON(cmd *cobra.Command, sess *session.Session, res domain.FindResult) error {
	output := highlightOutput{
		Source:     sess.Source,
		FindResult: res,
		Frames:     len(sess.Page.Frames()),
	}
	if m, ok := sess.Current(); ok {
		output.Current = &currentMatch{
			Text:      m.Text,
			Category:  m.Category.String(),
			Intensity: m.Intensity,
		}
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printSummary(cmd *cobra.Command, res domain.FindResult) {
	switch {
	case res.Position.Total == 0:
		cmd.PrintErrln("No matches.")
	case res.Position.HasSelection():
		cmd.PrintErrf("%d matches, showing %d of %d\n",
			res.Position.Total, res.Position.Current+1, res.Position.Total)
	default:
		cmd.PrintErrf("%d matches\n", res.Position.Total)
	}
	if res.CorrectedTerm != "" {
		cmd.PrintErrf("Searched for %q\n", res.CorrectedTerm)
	}
	if res.Degraded {
		cmd.PrintErrln("Related terms unavailable, showing literal matches only.")
	}
	if len(res.Images) > 0 {
		cmd.PrintErrf("%d matching images:\n", len(res.Images))
		for _, img := range res.Images {
			label := img.Alt
			if label == "" {
				label = img.Title
			}
			cmd.PrintErrf("  %s (%s)\n", label, img.Src)
		}
	}
}

// resolveFormat picks the output format. Auto renders text on a
// terminal and HTML otherwise.
func resolveFormat(format string, out io.Writer) (string, error) {
	switch format {
	case formatHTML, formatText:
		return format, nil
	case formatAuto, "":
		if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return formatText, nil
		}
		return formatHTML, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", domain.ErrInvalidInput, format)
	}
}

// watchDebounce coalesces the bursts of events editors emit on save.
const watchDebounce = 100 * time.Millisecond

// watchFile calls fn after each change to path until ctx is cancelled.
// The parent directory is watched so editors that replace the file on
// save are followed.
func watchFile(ctx context.Context, path string, fn func()) error {
	if ctx == nil {
		ctx = context.Background()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Debug("watch: %s", event)
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			fn()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				logger.Warn("watch: %v", err)
				continue
			}
			return fmt.Errorf("watching %s: %w", path, err)
		}
	}
}
