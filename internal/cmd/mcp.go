package cmd

import (
	"github.com/spf13/cobra"

	"github.com/helpscout/helpscout-cli/internal/mcpserver"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP tool server on stdio",
		Long: `Run a Model Context Protocol server over stdin/stdout. Tools mirror the CLI
commands and share its credentials, retry behaviour and error envelope.`,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			return mcpserver.New(getClient(), version).ServeStdio()
		}),
	}
}
