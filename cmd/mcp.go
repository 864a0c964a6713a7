package cmd

import (
	"github.com/spf13/cobra"

	"github.com/glynnsanity/tactical-tutor/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Tutor MCP server",
	Long:  `Launch an MCP server that allows AI agents to analyze stored games via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Keep setup quiet: stdio carries the protocol.
		return sharedSetup(cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
