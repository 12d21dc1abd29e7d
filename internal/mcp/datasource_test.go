package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/claude/mapty/internal/session"
	"github.com/claude/mapty/internal/storage"
)

func newLocal(t *testing.T) *Local {
	t.Helper()
	rec := session.NewRecorder()
	ctrl := session.NewController(rec, rec, storage.NewWorkoutLog(storage.NewMemory(), "workouts"), session.Options{})
	loop := session.NewLoop(ctrl, rec.Drain, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return NewLocal(loop)
}

// TestLocalRoundTrip verifies the in-process data source records, reads and deletes.
func TestLocalRoundTrip(t *testing.T) {
	l := newLocal(t)
	ctx := context.Background()

	w, err := l.RecordWorkout(ctx, session.WorkoutInput{Type: "running", Lat: 1, Lng: 2, Distance: 5, Duration: 25, Cadence: 170})
	if err != nil {
		t.Fatal(err)
	}

	got, err := l.GetWorkout(ctx, w.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != w.Description {
		t.Errorf("got %+v, want %+v", got, w)
	}

	if err := l.DeleteWorkout(ctx, w.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := l.GetWorkout(ctx, w.ID); !errors.Is(err, session.ErrWorkoutNotFound) {
		t.Errorf("err = %v, want ErrWorkoutNotFound", err)
	}
}

// TestLocalReset verifies reset empties the list.
func TestLocalReset(t *testing.T) {
	l := newLocal(t)
	ctx := context.Background()
	if _, err := l.RecordWorkout(ctx, session.WorkoutInput{Type: "cycling", Distance: 10, Duration: 30}); err != nil {
		t.Fatal(err)
	}

	if err := l.ResetWorkouts(ctx); err != nil {
		t.Fatal(err)
	}
	ws, err := l.ListWorkouts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ws) != 0 {
		t.Errorf("got %d workouts after reset", len(ws))
	}
}
