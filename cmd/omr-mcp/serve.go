package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/omr-grader-mcp/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server.

By default the server communicates over stdio. Use --port to serve
streamable HTTP instead, e.g. for the MCP Inspector.

Examples:
  # Stdio mode (default)
  omr-grader-mcp serve

  # HTTP mode
  omr-grader-mcp serve --port 8080

MCP client configuration:
  {
    "mcpServers": {
      "omr-grader": {
        "command": "/path/to/omr-grader-mcp",
        "args": ["serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	port := 0
	if cmd.Flags().Lookup("port") != nil {
		p, err := cmd.Flags().GetInt("port")
		if err != nil {
			return fmt.Errorf("getting port flag: %w", err)
		}
		port = p
	}

	proc, err := newProcessor(cmd, 0)
	if err != nil {
		return err
	}
	srv, err := server.New(proc, Version)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return srv.RunHTTP(cmd.Context(), addr)
	}
	return srv.Run(cmd.Context())
}
