package cli

import (
	"context"
	"log/slog"

	"github.com/claude/mapty/internal/mcp"
	"github.com/spf13/cobra"
)

// Opener connects to a workout log. An empty server means the local store
// from the config; otherwise server is the base URL of a running mapty.
// The returned func releases whatever was opened.
type Opener func(ctx context.Context, server string) (mcp.DataSource, func(), error)

// App holds what the CLI commands share.
type App struct {
	Open          Opener
	Version       string
	Log           *slog.Logger
	IsInteractive func() bool

	// Server is the default for --server, e.g. from MAPTY_SERVER.
	Server string

	source mcp.DataSource
	close  func()
}

// Close releases the data source opened by the last command. Callers defer
// it around Execute; cobra skips post-run hooks when a command fails.
func (a *App) Close() {
	if a.close != nil {
		a.close()
		a.close = nil
	}
	a.source = nil
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "maptyctl" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var server string

	root := &cobra.Command{
		Use:           "maptyctl",
		Short:         "Record and inspect running and cycling workouts",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ds, closeFn, err := app.Open(cmd.Context(), server)
			if err != nil {
				return err
			}
			app.source = ds
			app.close = closeFn
			return nil
		},
	}
	root.PersistentFlags().StringVar(&server, "server", app.Server, "Base URL of a running mapty server (default: local store)")

	root.AddCommand(
		newListCmd(app),
		newRecordCmd(app),
		newDeleteCmd(app),
		newResetCmd(app),
		newImportCmd(app),
		newExportCmd(app),
		newMCPCmd(app),
	)

	return root
}
