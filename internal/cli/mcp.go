package cli

import (
	"github.com/spf13/cobra"

	"github.com/ternarybob/task/internal/app"
	"github.com/ternarybob/task/internal/mcptools"
)

func newMCPCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the task operations as MCP tools on stdio",
		Long: `Starts an MCP server on stdin/stdout exposing the context and task
operations as tools. Logs go to the log file only; stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Open(opts.root, app.Options{ConsoleLogging: false})
			if err != nil {
				return err
			}

			a.Log.Info().Str("root", a.Config.Root).Msg("MCP server starting on stdio")
			serveErr := mcptools.NewServer(a, Version).ServeStdio()
			if err := a.Close(); err != nil && serveErr == nil {
				serveErr = err
			}
			return serveErr
		},
	}
}
