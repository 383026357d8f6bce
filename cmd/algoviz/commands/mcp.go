package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/algoviz/pkg/mcp"
	"github.com/Sumatoshi-tech/algoviz/pkg/observability"
	"github.com/Sumatoshi-tech/algoviz/pkg/version"
)

// mcpCommandName selects the MCP observability mode in setup.
const mcpCommandName = "mcp"

func newMCPCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   mcpCommandName,
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The server keeps one session across calls and exposes:
  - algoviz_run: run an operation and return its narrated steps
  - algoviz_modules: list modules, operations and demos
  - algoviz_demo: run a built-in scenario in a fresh session

Logs go to stderr so stdout stays reserved for the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			red, err := observability.NewREDMetrics(a.meter)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:         a.providers.Logger,
				Metrics:        red,
				Tracer:         a.providers.Tracer,
				Version:        version.Version,
				SessionOptions: a.sessionOptions(a.cfg.Playback.Speed),
			})

			a.providers.Logger.Info("mcp server starting", "tools", srv.ListToolNames())

			return srv.Run(cmd.Context())
		},
	}
}
