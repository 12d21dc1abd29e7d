package cli

import (
	"fmt"

	"github.com/claude/mapty/internal/models"
	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	var typeFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded workouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var want models.Type
			if typeFilter != "" {
				t, err := models.ParseType(typeFilter)
				if err != nil {
					return err
				}
				want = t
			}

			ws, err := app.source.ListWorkouts(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(ws))
			for _, w := range ws {
				if want == "" || w.Type == want {
					rows = append(rows, workoutRow(w))
				}
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No workouts found.")
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), renderTable(workoutHeaders, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&typeFilter, "type", "", "Only list running or cycling workouts")
	return cmd
}
