package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// fakeSource is an in-memory DataSource.
type fakeSource struct {
	workouts []models.Workout
	err      error
	recorded []session.WorkoutInput
	reset    bool
}

func (f *fakeSource) ListWorkouts(context.Context) ([]models.Workout, error) {
	return f.workouts, f.err
}

func (f *fakeSource) GetWorkout(_ context.Context, id string) (models.Workout, error) {
	for _, w := range f.workouts {
		if w.ID == id {
			return w, nil
		}
	}
	return models.Workout{}, fmt.Errorf("%w: %s", session.ErrWorkoutNotFound, id)
}

func (f *fakeSource) RecordWorkout(_ context.Context, in session.WorkoutInput) (models.Workout, error) {
	if f.err != nil {
		return models.Workout{}, f.err
	}
	f.recorded = append(f.recorded, in)
	w := models.NewCycling(time.Date(2024, 4, 5, 9, 0, 0, 0, time.UTC), in.Coords(), in.Distance, in.Duration, in.Elevation)
	f.workouts = append(f.workouts, w)
	return w, nil
}

func (f *fakeSource) DeleteWorkout(_ context.Context, id string) error {
	if _, err := f.GetWorkout(context.Background(), id); err != nil {
		return err
	}
	return nil
}

func (f *fakeSource) ResetWorkouts(context.Context) error {
	f.reset = true
	return f.err
}

func (f *fakeSource) ImportWorkouts(_ context.Context, records []models.Workout) (int, error) {
	f.workouts = append(f.workouts, records...)
	return len(records), f.err
}

func newHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func callTool(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatalf("no text content in %+v", res.Content)
	return ""
}

func sampleWorkouts() []models.Workout {
	at := time.Date(2024, 4, 5, 9, 0, 0, 0, time.UTC)
	return []models.Workout{
		models.NewRunning(at, models.Coords{Lat: 1, Lng: 2}, 5, 25, 170),
		models.NewCycling(at.Add(time.Hour), models.Coords{Lat: 3, Lng: 4}, 20, 60, 300),
	}
}

// TestNew verifies the server builds with every tool registered.
func TestNew(t *testing.T) {
	if s := New(&fakeSource{}, "test", slog.Default()); s == nil {
		t.Fatal("New returned nil")
	}
}

// TestListWorkoutsFilter verifies the optional type filter.
func TestListWorkoutsFilter(t *testing.T) {
	h := newHandlers(&fakeSource{workouts: sampleWorkouts()})

	res, err := h.listWorkouts(context.Background(), callTool(map[string]any{"type": "cycling"}))
	if err != nil {
		t.Fatal(err)
	}
	var ws []models.Workout
	if err := json.Unmarshal([]byte(resultText(t, res)), &ws); err != nil {
		t.Fatal(err)
	}
	if len(ws) != 1 || ws[0].Type != models.TypeCycling {
		t.Errorf("got %+v, want the cycling workout", ws)
	}
}

// TestListWorkoutsEmpty verifies an empty log lists as an empty array.
func TestListWorkoutsEmpty(t *testing.T) {
	h := newHandlers(&fakeSource{})

	res, err := h.listWorkouts(context.Background(), callTool(nil))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(resultText(t, res)); got != "[]" {
		t.Errorf("text = %q, want []", got)
	}
}

// TestGetWorkoutNotFound verifies unknown ids are tool errors, not protocol errors.
func TestGetWorkoutNotFound(t *testing.T) {
	h := newHandlers(&fakeSource{workouts: sampleWorkouts()})

	res, err := h.getWorkout(context.Background(), callTool(map[string]any{"id": "nope"}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected a tool error")
	}

	res, err = h.getWorkout(context.Background(), callTool(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected an error for missing id")
	}
}

// TestRecordWorkoutArguments verifies numbers are passed through to the data source.
func TestRecordWorkoutArguments(t *testing.T) {
	src := &fakeSource{}
	h := newHandlers(src)

	res, err := h.recordWorkout(context.Background(), callTool(map[string]any{
		"type": "cycling", "lat": 51.5, "lng": -0.12, "distance": 10.0, "duration": 30.0, "elevation": 120.0,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	want := session.WorkoutInput{Type: "cycling", Lat: 51.5, Lng: -0.12, Distance: 10, Duration: 30, Elevation: 120}
	if len(src.recorded) != 1 || src.recorded[0] != want {
		t.Errorf("recorded = %+v, want %+v", src.recorded, want)
	}
}

// TestRecordWorkoutMissingArgument verifies required numbers are checked in order.
func TestRecordWorkoutMissingArgument(t *testing.T) {
	h := newHandlers(&fakeSource{})

	res, err := h.recordWorkout(context.Background(), callTool(map[string]any{"type": "running", "lat": 1.0, "lng": 2.0}))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(t, res); got != "distance parameter is required" {
		t.Errorf("text = %q", got)
	}
}

// TestRecordWorkoutRejected verifies validation failures are reported with the alert text.
func TestRecordWorkoutRejected(t *testing.T) {
	h := newHandlers(&fakeSource{err: session.ErrInvalidInput})

	res, err := h.recordWorkout(context.Background(), callTool(map[string]any{
		"type": "running", "lat": 1.0, "lng": 2.0, "distance": -1.0, "duration": 30.0,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError || !strings.HasPrefix(resultText(t, res), session.InvalidInputMessage) {
		t.Errorf("result = %+v", res)
	}
}

// TestResetWorkoutsNeedsConfirm verifies reset refuses to run unconfirmed.
func TestResetWorkoutsNeedsConfirm(t *testing.T) {
	src := &fakeSource{}
	h := newHandlers(src)

	res, _ := h.resetWorkouts(context.Background(), callTool(nil))
	if !res.IsError || src.reset {
		t.Error("reset ran without confirm")
	}

	res, _ = h.resetWorkouts(context.Background(), callTool(map[string]any{"confirm": true}))
	if res.IsError || !src.reset {
		t.Error("reset did not run with confirm")
	}
}

// TestDeleteWorkout verifies delete reports unknown ids.
func TestDeleteWorkout(t *testing.T) {
	ws := sampleWorkouts()
	h := newHandlers(&fakeSource{workouts: ws})

	res, _ := h.deleteWorkout(context.Background(), callTool(map[string]any{"id": ws[0].ID}))
	if res.IsError {
		t.Errorf("unexpected error: %s", resultText(t, res))
	}
	res, _ = h.deleteWorkout(context.Background(), callTool(map[string]any{"id": "nope"}))
	if !res.IsError {
		t.Error("expected error for unknown id")
	}
}

// TestTotals verifies per-type sums.
func TestTotals(t *testing.T) {
	ws := append(sampleWorkouts(), models.NewRunning(time.Now(), models.Coords{}, 3, 15, 160))

	got := totals(ws)

	want := []Total{
		{Type: models.TypeRunning, Count: 2, Distance: 8, Duration: 40},
		{Type: models.TypeCycling, Count: 1, Distance: 20, Duration: 60},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("totals[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// TestWorkoutsResource verifies the resource returns the full list as JSON.
func TestWorkoutsResource(t *testing.T) {
	h := newHandlers(&fakeSource{workouts: sampleWorkouts()})
	req := mcp.ReadResourceRequest{Params: mcp.ReadResourceParams{URI: "mapty://workouts"}}

	contents, err := h.workouts(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents = %T", contents[0])
	}
	if text.URI != "mapty://workouts" || text.MIMEType != "application/json" {
		t.Errorf("uri=%q mime=%q", text.URI, text.MIMEType)
	}
	var ws []models.Workout
	if err := json.Unmarshal([]byte(text.Text), &ws); err != nil {
		t.Fatal(err)
	}
	if len(ws) != 2 {
		t.Errorf("got %d workouts, want 2", len(ws))
	}
}
