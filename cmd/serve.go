package cmd

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/agentic-research/cardgraph/internal/toolsurface"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the card graph's operations as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		if err := server.ServeStdio(toolsurface.NewServer(engine)); err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	},
}
