package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/findable/internal/adapters/driving/mcp"
	"github.com/custodia-labs/findable/internal/session"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server lets an assistant open pages, highlight terms and related words,
and step through the matches.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default, for Claude Desktop)
  findable mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  findable mcp serve --port 8080

  # Keep more pages open at once
  findable mcp serve --max-pages 64

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "findable": {
        "command": "/path/to/findable",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("semantic", true, "connect the LLM provider for related terms")
	mcpServeCmd.Flags().Int("max-pages", session.DefaultLimit, "open pages kept before the oldest is closed")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	withLLM, err := cmd.Flags().GetBool("semantic")
	if err != nil {
		return fmt.Errorf("getting semantic flag: %w", err)
	}
	maxPages, err := cmd.Flags().GetInt("max-pages")
	if err != nil {
		return fmt.Errorf("getting max-pages flag: %w", err)
	}

	settings, err := currentSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cfg, release := sessionConfig(cmd, settings, withLLM)
	defer release()

	ports := &mcp.Ports{
		Pages: mcp.OpenerFunc(func(ctx context.Context, src string) (*session.Session, error) {
			return session.Open(ctx, pageLoader, src, cfg)
		}),
		MaxPages: maxPages,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
