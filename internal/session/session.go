// Package session binds a loaded page to the services that search it.
// The CLI, the TUI and the MCP server all drive pages through a Session.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/findable/internal/adapters/driven/semantic"
	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/core/ports/driven"
	"github.com/custodia-labs/findable/internal/core/services"
	"github.com/custodia-labs/findable/internal/highlight"
	"github.com/custodia-labs/findable/internal/page"
	"github.com/custodia-labs/findable/internal/postprocessors/chunker"
)

// Loader loads a page from a source string.
type Loader interface {
	Load(ctx context.Context, src string, opts ...page.Option) (*page.Page, error)
}

// Config holds what a session needs besides the page.
type Config struct {
	// Settings are the application settings in effect.
	Settings domain.AppSettings

	// LLM enables related terms and descriptive search. Optional.
	LLM driven.LLMService

	// Prompts overrides the built-in prompts. Optional.
	Prompts driven.PromptStore

	// Cache stores related-term results. Optional.
	Cache driven.TermCache

	// Focus is called when a marker becomes current. Optional.
	Focus highlight.FocusFunc
}

// Session is one page being searched.
type Session struct {
	ID       string
	Source   string
	Opened   time.Time
	Page     *page.Page
	Frames   *services.FrameService
	Find     *services.FindService
	Analyzer *services.AnalyzerService

	options domain.SearchOptions
}

// Open loads src and starts a session over it.
func Open(ctx context.Context, loader Loader, src string, cfg Config) (*Session, error) {
	opts := []page.Option{page.WithSettings(cfg.Settings.Highlight)}
	if cfg.Focus != nil {
		opts = append(opts, page.WithFocus(cfg.Focus))
	}
	p, err := loader.Load(ctx, src, opts...)
	if err != nil {
		return nil, err
	}
	return New(p, src, cfg), nil
}

// New starts a session over an already loaded page.
func New(p *page.Page, src string, cfg Config) *Session {
	frames := services.NewFrameService(p.Units()...)
	find := services.NewFindService(frames, cfg.Settings.Find)
	find.SetChunker(chunker.New(chunker.WithChunkSize(cfg.Settings.Find.ChunkSize)))

	if cfg.LLM != nil {
		sem := semantic.New(cfg.LLM, semantic.Config{
			ContextChars:      cfg.Settings.Find.ContextChars,
			RequestsPerSecond: cfg.Settings.LLM.RequestsPerSecond,
			Cache:             cfg.Cache,
		})
		if cfg.Prompts != nil {
			sem.SetPromptStore(cfg.Prompts)
		}
		find.SetTermExpander(sem)
		find.SetSentenceMatcher(sem)
	}

	return &Session{
		ID:       uuid.NewString(),
		Source:   src,
		Opened:   time.Now(),
		Page:     p,
		Frames:   frames,
		Find:     find,
		Analyzer: services.NewAnalyzerService(p),
		options:  cfg.Settings.Find.Options,
	}
}

// Current returns a snapshot of the marker at the global cursor.
func (s *Session) Current() (highlight.MarkerState, bool) {
	pos := s.Frames.Position()
	if !pos.HasSelection() {
		return highlight.MarkerState{}, false
	}
	unit, local, ok := s.Frames.Locate(pos.Current)
	if !ok {
		return highlight.MarkerState{}, false
	}
	if unit == 0 {
		return s.Page.MarkerAt(local)
	}
	return s.Page.Frames()[unit-1].MarkerAt(local)
}

// Request builds a find request using the configured relation filters.
func (s *Session) Request(query, description string, semanticSearch bool) domain.FindRequest {
	return domain.FindRequest{
		Query:       query,
		Description: description,
		Options:     s.options,
		Semantic:    semanticSearch,
	}
}
