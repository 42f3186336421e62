package cmd

import (
	"github.com/spf13/cobra"

	"tsheet/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server for assistant integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This lets an MCP client query tsheet for aggregated reports, rules,
and expected working hours. Configure with:

  {
    "mcpServers": {
      "tsheet": { "command": "tsheet", "args": ["mcp"] }
    }
  }

Available tools: tsheet_report, tsheet_expected_hours,
tsheet_list_rules, tsheet_validate_duration`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		return mcp.NewServer(s).ServeStdio(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
