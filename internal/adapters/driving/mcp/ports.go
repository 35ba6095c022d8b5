package mcp

import (
	"context"

	"github.com/custodia-labs/findable/internal/session"
)

// PageOpener loads a page and starts a session over it.
type PageOpener interface {
	Open(ctx context.Context, src string) (*session.Session, error)
}

// OpenerFunc adapts a function to the PageOpener interface.
type OpenerFunc func(ctx context.Context, src string) (*session.Session, error)

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, src string) (*session.Session, error) {
	return f(ctx, src)
}

// Ports aggregates what the MCP server needs.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pages opens page sessions.
	Pages PageOpener

	// Sessions holds open pages. When nil a store holding MaxPages pages
	// is created.
	Sessions *session.Store

	// MaxPages bounds a created store. Zero means session.DefaultLimit.
	MaxPages int
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Pages == nil {
		return ErrMissingPageOpener
	}
	return nil
}
