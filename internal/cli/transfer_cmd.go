package cli

import (
	"fmt"

	"github.com/claude/mapty/internal/importer"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file or dir>...",
		Short: "Import workout logs (.json or .json.gz)",
		Long: "Import workout logs exported by 'maptyctl export' or copied from the\n" +
			"browser's stored workouts. Records keep their ids and dates; ids that\n" +
			"are already listed are skipped.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := importer.New(app.source, app.Log, dryRun).Import(cmd.Context(), args...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range stats.Rejected {
				fmt.Fprintln(cmd.ErrOrStderr(), styleAlert.Render("! rejected "+r))
			}
			verb := "Imported"
			if dryRun {
				verb = "Would import"
				stats.WorkoutsInserted = stats.WorkoutsRead - stats.WorkoutsRejected - stats.WorkoutsDuplicated
			}
			fmt.Fprintf(out, "%s %d workouts from %d files (%d duplicates, %d rejected, %d unreadable files)\n",
				verb, stats.WorkoutsInserted, stats.FilesProcessed,
				stats.WorkoutsDuplicated, stats.WorkoutsRejected, stats.FilesErrored)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be imported without writing")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every workout as a JSON log",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.source.ListWorkouts(cmd.Context())
			if err != nil {
				return err
			}
			data, err := importer.Encode(ws)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
				return err
			}
			if err := importer.WriteFile(output, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d workouts to %s\n", len(ws), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file; a .gz suffix compresses it (default: stdout)")
	return cmd
}
