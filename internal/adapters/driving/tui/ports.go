// Package tui provides an interactive find-in-page terminal interface.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/findable/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/findable/internal/adapters/driving/tui/views/find"
	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/core/ports/driving"
	"github.com/custodia-labs/findable/internal/page"
)

// Ports aggregates everything the TUI needs from the core.
type Ports struct {
	// Find runs highlight passes and navigation.
	Find driving.FindService

	// Page renders the highlighted page.
	Page find.PageRenderer

	// Analyzer supplies the page title. Optional.
	Analyzer driving.AnalyzerService

	// Options are the relation filters sent with every request.
	Options domain.SearchOptions

	// Styler paints markers. Defaults to lipgloss on stdout.
	Styler page.Styler

	// Mode is the initial search mode.
	Mode messages.Mode
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Find == nil {
		return ErrMissingFindService
	}
	if p.Page == nil {
		return ErrMissingPage
	}
	return nil
}
