package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/flashlearn/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing subject Q&A, passage search and study materials to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := openApp(cfg, true)
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Fprintf(os.Stderr, "flashlearn MCP server started on stdio (data=%s, passages=%d)\n", dataDirLabel(cfg.DataDir), a.index.Total())

		return mcpserver.NewServer(a.svc, Version).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
