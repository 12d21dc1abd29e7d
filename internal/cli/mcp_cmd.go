package cli

import (
	"github.com/claude/mapty/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the workout tools over MCP on stdio",
		Long: `Serve the workout tools over MCP on stdin/stdout.

With --server the tools call a running mapty over HTTP, so an assistant on
this machine can reach a log hosted elsewhere on the tailnet.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := mcp.New(app.source, app.Version, app.Log)
			app.Log.Info("mcp stdio server starting")
			return server.ServeStdio(s)
		},
	}
}
