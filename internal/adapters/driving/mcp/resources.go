package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Findable resources.
	uriScheme = "findable://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "pages",
		Name:        "pages",
		Description: "List of open pages",
		MIMEType:    "application/json",
	}, s.handlePagesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "pages/{sessionId}/html",
		Name:        "page-html",
		Description: "HTML of an open page with highlight markers",
		MIMEType:    "text/html",
	}, s.handlePageHTMLResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "pages/{sessionId}/text",
		Name:        "page-text",
		Description: "Visible text of an open page",
		MIMEType:    "text/plain",
	}, s.handlePageTextResource)
}

// handlePagesResource returns a list of all open pages.
func (s *Server) handlePagesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type pageInfo struct {
		SessionID string `json:"session_id"`
		Source    string `json:"source"`
		Matches   int    `json:"matches"`
	}

	sessions := s.ports.Sessions.List()
	infos := make([]pageInfo, len(sessions))
	for i, sess := range sessions {
		infos[i] = pageInfo{
			SessionID: sess.ID,
			Source:    sess.Source,
			Matches:   sess.Find.Position().Total,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling pages: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handlePageHTMLResource renders an open page as HTML.
func (s *Server) handlePageHTMLResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractSessionID(req.Params.URI, "/html")
	sess, err := s.ports.Sessions.Get(id)
	if id == "" || err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	var buf bytes.Buffer
	if err := sess.Page.RenderHTML(&buf); err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/html",
			Text:     buf.String(),
		}},
	}, nil
}

// handlePageTextResource returns the visible text of an open page.
func (s *Server) handlePageTextResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractSessionID(req.Params.URI, "/text")
	sess, err := s.ports.Sessions.Get(id)
	if id == "" || err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     sess.Frames.Text(),
		}},
	}, nil
}

// extractSessionID extracts the session ID from a URI like findable://pages/{sessionId}/html.
func extractSessionID(uri, suffix string) string {
	const prefix = uriScheme + "pages/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	id := strings.TrimSuffix(uri, suffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
