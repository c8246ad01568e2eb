package cmd

import (
	"github.com/huangsam/ebb/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the ebb MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents read gap analysis, patterns,
suggestions and experiment results. The tools never write to the store.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
