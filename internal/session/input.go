package session

import (
	"strconv"

	"github.com/claude/mapty/internal/models"
)

// WorkoutInput is a workout as typed numbers, for clients that have no form.
// Cadence is read for running and Elevation for cycling.
type WorkoutInput struct {
	Type      string  `json:"type"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Distance  float64 `json:"distance"`
	Duration  float64 `json:"duration"`
	Cadence   float64 `json:"cadence,omitempty"`
	Elevation float64 `json:"elevation,omitempty"`
}

func (in WorkoutInput) Coords() models.Coords {
	return models.Coords{Lat: in.Lat, Lng: in.Lng}
}

// Values renders the numbers as form input strings.
func (in WorkoutInput) Values() FormValues {
	return FormValues{
		Type:      in.Type,
		Distance:  formatNumber(in.Distance),
		Duration:  formatNumber(in.Duration),
		Cadence:   formatNumber(in.Cadence),
		Elevation: formatNumber(in.Elevation),
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
