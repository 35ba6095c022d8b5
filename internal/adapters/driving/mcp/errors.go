// Package mcp provides an MCP (Model Context Protocol) server adapter for Findable.
// It lets AI assistants open pages, highlight terms and step through matches.
package mcp

import "errors"

// ErrMissingPageOpener is returned when no page opener is provided.
var ErrMissingPageOpener = errors.New("mcp: page opener is required")
