package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var april5 = time.Date(2024, time.April, 5, 9, 30, 0, 0, time.UTC)

func TestNewRunningDerivedFields(t *testing.T) {
	w := NewRunning(april5, Coords{Lat: 51.5, Lng: -0.12}, 5, 25, 170)

	assert.Equal(t, TypeRunning, w.Type)
	assert.Equal(t, "Running April 5", w.Description)
	require.NotNil(t, w.Pace)
	assert.Equal(t, 1.0, *w.Pace)
	require.NotNil(t, w.Cadence)
	assert.Equal(t, 170.0, *w.Cadence)
	assert.Nil(t, w.Speed)
	assert.Nil(t, w.Elevation)
}

// Pace does not depend on duration or on the size of the distance.
func TestNewRunningPaceIsAlwaysOne(t *testing.T) {
	for _, tc := range []struct{ distance, duration float64 }{
		{0.5, 3}, {5, 25}, {42.195, 210}, {100, 1},
	} {
		w := NewRunning(april5, Coords{}, tc.distance, tc.duration, 160)
		assert.Equal(t, 1.0, *w.Pace, "distance=%v duration=%v", tc.distance, tc.duration)
	}
}

func TestNewRunningZeroDistancePaceIsNaN(t *testing.T) {
	w := NewRunning(april5, Coords{}, 0, 10, 160)
	assert.True(t, math.IsNaN(*w.Pace))
}

func TestNewCyclingSpeed(t *testing.T) {
	w := NewCycling(april5, Coords{Lat: 1, Lng: 2}, 10, 30, 120)

	assert.Equal(t, TypeCycling, w.Type)
	assert.Equal(t, "Cycling April 5", w.Description)
	require.NotNil(t, w.Speed)
	assert.Equal(t, 20.0, *w.Speed)
	assert.Equal(t, 120.0, *w.Elevation)
	assert.Nil(t, w.Pace)
	assert.Nil(t, w.Cadence)
}

func TestDescribeUsesMonthTable(t *testing.T) {
	tests := []struct {
		at   time.Time
		typ  Type
		want string
	}{
		{time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), TypeRunning, "Running January 1"},
		{time.Date(2023, time.December, 31, 12, 0, 0, 0, time.UTC), TypeCycling, "Cycling December 31"},
		{time.Date(2023, time.September, 15, 12, 0, 0, 0, time.UTC), TypeRunning, "Running September 15"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.typ, tt.at))
		})
	}
}

func TestNewIDTakesLastTenDigits(t *testing.T) {
	at := time.UnixMilli(1712309400123)
	assert.Equal(t, "2309400123", NewID(at))
}

func TestParseType(t *testing.T) {
	got, err := ParseType(" Running ")
	require.NoError(t, err)
	assert.Equal(t, TypeRunning, got)

	got, err = ParseType("cycling")
	require.NoError(t, err)
	assert.Equal(t, TypeCycling, got)

	_, err = ParseType("swimming")
	assert.Error(t, err)
	_, err = ParseType("")
	assert.Error(t, err)
}

func TestWorkoutJSONShape(t *testing.T) {
	w := NewCycling(april5, Coords{Lat: 51.5, Lng: -0.12}, 10, 30, 0)

	data, err := json.Marshal(w)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, []any{51.5, -0.12}, raw["coords"])
	assert.Equal(t, "cycling", raw["type"])
	assert.Equal(t, 0.0, raw["elevation"], "zero elevation is still stored")
	assert.Equal(t, 20.0, raw["speed"])
	assert.NotContains(t, raw, "pace")
	assert.NotContains(t, raw, "cadence")
	assert.Equal(t, "2024-04-05T09:30:00Z", raw["date"])
}

// Records read back keep the stored derived values instead of recomputing them.
func TestWorkoutUnmarshalKeepsStoredValues(t *testing.T) {
	raw := `{"id":"2309400123","date":"2024-04-05T09:30:00.000Z","coords":[10,20],
		"distance":5,"duration":25,"description":"Running April 5","type":"running",
		"cadence":170,"pace":7.5}`

	var w Workout
	require.NoError(t, json.Unmarshal([]byte(raw), &w))

	assert.Equal(t, Coords{Lat: 10, Lng: 20}, w.Coords)
	assert.Equal(t, 7.5, w.Rate())
	assert.Equal(t, 170.0, w.Extra())
	assert.Equal(t, "Running April 5", w.Description)
}

func TestCoordsUnmarshalRejectsWrongArity(t *testing.T) {
	var c Coords
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"lat":1}`), &c))
}

func TestTypeTitleAndIcon(t *testing.T) {
	assert.Equal(t, "Running", TypeRunning.Title())
	assert.Equal(t, "Cycling", TypeCycling.Title())
	assert.NotEqual(t, TypeRunning.Icon(), TypeCycling.Icon())
}
