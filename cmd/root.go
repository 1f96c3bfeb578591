// Package cmd provides the CLI commands for the assist service.
//
// Commands:
//   - serve: HTTP API server (tool execution and response enhancement)
//   - mcp: Model Context Protocol server on stdio
//   - migrate: apply pending database migrations
//   - version: print build information
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "assist",
	Short: "Assist backs the Pipedesk AI assistant with CRM tools",
	Long: `Assist is the tool-execution backend of the Pipedesk AI assistant.

It exposes a registry of CRM mutation tools (organizations, people, deals)
and a reasoning tool to language models, over HTTP or the Model Context
Protocol, and turns finished assistant responses into UI enhancements.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
