package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Type is the workout discriminant.
type Type string

const (
	TypeRunning Type = "running"
	TypeCycling Type = "cycling"
)

// ParseType maps a form or API value onto a known workout type.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeRunning, TypeCycling:
		return t, nil
	default:
		return "", fmt.Errorf("unknown workout type %q", s)
	}
}

// Title returns the type name with its first letter upper-cased.
func (t Type) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// Icon returns the glyph shown next to a workout in the list and in popups.
func (t Type) Icon() string {
	if t == TypeRunning {
		return "🏃‍♂️"
	}
	return "🚴‍♀️"
}

// Coords is a latitude/longitude pair. It is stored as a [lat, lng] JSON array.
type Coords struct {
	Lat float64
	Lng float64
}

func (c Coords) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lng})
}

func (c *Coords) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("coords: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("coords: want 2 values, got %d", len(pair))
	}
	c.Lat, c.Lng = pair[0], pair[1]
	return nil
}

var months = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Describe builds the list label for a workout, e.g. "Running April 5".
func Describe(t Type, at time.Time) string {
	return fmt.Sprintf("%s %s %d", t.Title(), months[at.Month()-1], at.Day())
}

// NewID derives a workout id from the last ten digits of the creation
// timestamp in milliseconds. Two workouts created in the same millisecond
// share an id.
func NewID(at time.Time) string {
	ms := strconv.FormatInt(at.UnixMilli(), 10)
	if len(ms) > 10 {
		ms = ms[len(ms)-10:]
	}
	return ms
}

// Workout is the flat record for both variants. Variant fields are nil on the
// other variant so that the JSON form matches the stored shape exactly.
//
// Records read back from storage are used as-is: derived fields are never
// recomputed after construction.
type Workout struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Coords      Coords    `json:"coords"`
	Distance    float64   `json:"distance"`
	Duration    float64   `json:"duration"`
	Description string    `json:"description"`
	Type        Type      `json:"type"`

	Cadence *float64 `json:"cadence,omitempty"`
	Pace    *float64 `json:"pace,omitempty"`

	Elevation *float64 `json:"elevation,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
}

func newWorkout(t Type, at time.Time, coords Coords, distance, duration float64) Workout {
	// Stored logs carry millisecond timestamps.
	at = at.Round(0).Truncate(time.Millisecond)
	return Workout{
		ID:          NewID(at),
		Date:        at,
		Coords:      coords,
		Distance:    distance,
		Duration:    duration,
		Description: Describe(t, at),
		Type:        t,
	}
}

// NewRunning builds a running workout. Inputs are not validated.
//
// Pace is distance divided by distance, which is 1 for every positive
// distance. Stored logs carry that value, so it is kept as is.
func NewRunning(at time.Time, coords Coords, distance, duration, cadence float64) Workout {
	w := newWorkout(TypeRunning, at, coords, distance, duration)
	pace := distance / distance
	w.Cadence = &cadence
	w.Pace = &pace
	return w
}

// NewCycling builds a cycling workout. Speed is in km/h. Inputs are not validated.
func NewCycling(at time.Time, coords Coords, distance, duration, elevation float64) Workout {
	w := newWorkout(TypeCycling, at, coords, distance, duration)
	speed := distance / (duration / 60)
	w.Elevation = &elevation
	w.Speed = &speed
	return w
}

// Rate returns pace for running and speed for cycling, or 0 if the record
// carries neither.
func (w Workout) Rate() float64 {
	switch {
	case w.Type == TypeRunning && w.Pace != nil:
		return *w.Pace
	case w.Type == TypeCycling && w.Speed != nil:
		return *w.Speed
	}
	return 0
}

// Extra returns cadence for running and elevation for cycling, or 0.
func (w Workout) Extra() float64 {
	switch {
	case w.Type == TypeRunning && w.Cadence != nil:
		return *w.Cadence
	case w.Type == TypeCycling && w.Elevation != nil:
		return *w.Elevation
	}
	return 0
}
