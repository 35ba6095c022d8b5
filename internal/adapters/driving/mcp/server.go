package mcp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/findable/internal/logger"
	"github.com/custodia-labs/findable/internal/session"
)

// Version is the MCP server version.
const Version = "0.1.0"

// instructions are sent to clients during initialisation.
const instructions = `Findable highlights text in web pages.
Call open_page with a file path or URL to get a sessionId, then highlight with a term (add
semantic=true for synonyms and related words) or a description of the sentences to find.
Step through matches with next_match, previous_match and goto_match; read the marked-up page
from findable://pages/{sessionId}/html. Pages beyond the server's limit are closed oldest first.`

// Server is the MCP server for Findable.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if ports.Sessions == nil {
		ports.Sessions = session.NewStore(ports.MaxPages)
	}

	impl := &mcp.Implementation{
		Name:    "findable",
		Title:   "Findable",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	logger.Info("MCP server on stdio, keeping up to %d pages", s.ports.Sessions.Limit())
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	logger.Info("MCP server on %s, keeping up to %d pages", addr, s.ports.Sessions.Limit())
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
