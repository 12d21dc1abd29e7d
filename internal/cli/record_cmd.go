package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/claude/mapty/internal/session"
	"github.com/spf13/cobra"
)

func newRecordCmd(app *App) *cobra.Command {
	var in session.WorkoutInput

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a workout",
		Long: `Record a workout at a map position.

Without flags on an interactive terminal a form asks for each value.
Otherwise --type, --lat, --lng, --distance and --duration are required, plus
--cadence for running or --elevation for cycling.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !anyChanged(cmd, recordFlags...) && app.interactive() {
				filled, err := runRecordForm()
				if err != nil {
					return err
				}
				in = filled
			} else if err := requireFlags(cmd, recordFlags[:5]...); err != nil {
				return err
			}

			w, err := app.source.RecordWorkout(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s (%s)\n",
				typeStyle(w.Type).Render(w.Type.Icon()+" "+w.Description), w.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Type, "type", "", "running or cycling")
	cmd.Flags().Float64Var(&in.Lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&in.Lng, "lng", 0, "Longitude")
	cmd.Flags().Float64Var(&in.Distance, "distance", 0, "Distance in km")
	cmd.Flags().Float64Var(&in.Duration, "duration", 0, "Duration in minutes")
	cmd.Flags().Float64Var(&in.Cadence, "cadence", 0, "Cadence in steps per minute (running)")
	cmd.Flags().Float64Var(&in.Elevation, "elevation", 0, "Elevation gain in metres (cycling)")

	return cmd
}

var recordFlags = []string{"type", "lat", "lng", "distance", "duration", "cadence", "elevation"}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}

func requireFlags(cmd *cobra.Command, names ...string) error {
	var missing []string
	for _, n := range names {
		if !cmd.Flags().Changed(n) {
			missing = append(missing, "--"+n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}
	return nil
}

// recordValues are the raw strings collected by the record form.
type recordValues struct {
	Type      string
	Lat       string
	Lng       string
	Distance  string
	Duration  string
	Cadence   string
	Elevation string
}

func (v recordValues) input() (session.WorkoutInput, error) {
	in := session.WorkoutInput{Type: v.Type}
	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"lat", v.Lat, &in.Lat},
		{"lng", v.Lng, &in.Lng},
		{"distance", v.Distance, &in.Distance},
		{"duration", v.Duration, &in.Duration},
		{"cadence", v.Cadence, &in.Cadence},
		{"elevation", v.Elevation, &in.Elevation},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.raw) == "" {
			continue
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(f.raw), 64)
		if err != nil {
			return session.WorkoutInput{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = n
	}
	return in, nil
}

func runRecordForm() (session.WorkoutInput, error) {
	v := recordValues{Type: "running"}
	if err := recordForm(&v).Run(); err != nil {
		return session.WorkoutInput{}, err
	}
	return v.input()
}

// recordForm asks for the type first, then shows cadence or elevation
// depending on it.
func recordForm(v *recordValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type").
				Options(huh.NewOption("Running", "running"), huh.NewOption("Cycling", "cycling")).
				Value(&v.Type),
			numberInput("Latitude", &v.Lat, validateNumber),
			numberInput("Longitude", &v.Lng, validateNumber),
			numberInput("Distance (km)", &v.Distance, validatePositive),
			numberInput("Duration (min)", &v.Duration, validatePositive),
		),
		huh.NewGroup(
			numberInput("Cadence (step/min)", &v.Cadence, validatePositive),
		).WithHideFunc(func() bool { return v.Type != "running" }),
		huh.NewGroup(
			numberInput("Elevation gain (m)", &v.Elevation, validateNumber),
		).WithHideFunc(func() bool { return v.Type != "cycling" }),
	).WithShowHelp(false)
}

func numberInput(title string, value *string, validate func(string) error) *huh.Input {
	return huh.NewInput().
		Title(title).
		Value(value).
		Validate(validate)
}

var errNotPositive = errors.New(session.InvalidInputMessage)

func validateNumber(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return errors.New("enter a number")
	}
	return nil
}

func validatePositive(s string) error {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !(n > 0) {
		return errNotPositive
	}
	return nil
}
