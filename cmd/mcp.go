package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpSdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/pipedesk/assist/internal/app"
	"github.com/pipedesk/assist/internal/config"
	"github.com/pipedesk/assist/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Start a Model Context Protocol server exposing the tool registry on
stdio, for local model hosts like Claude Desktop.

Caller identity is fixed per server process via the ASSIST_MCP_USER_ID and
ASSIST_MCP_AUTH_TOKEN environment variables; without them the mutation
tools refuse to run and only the think tool is usable.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMCP(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// runMCP initializes the application and serves MCP on stdio.
// All logging goes to stderr; stdout is reserved for JSON-RPC.
func runMCP(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(context.Background()); closeErr != nil {
			a.Logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	mcpServer, err := mcp.NewServer(mcp.Config{
		Name:      "assist",
		Version:   Version,
		UserID:    os.Getenv("ASSIST_MCP_USER_ID"),
		AuthToken: os.Getenv("ASSIST_MCP_AUTH_TOKEN"),
	}, a.Registry, a.Logger.With("component", "mcp"))
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	a.Logger.Info("MCP server ready", "name", "assist", "version", Version, "transport", "stdio")

	if err := mcpServer.Run(ctx, &mcpSdk.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	a.Logger.Info("MCP server shut down gracefully")
	return nil
}
