package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claude/mapty/internal/models"
)

// WorkoutLog keeps the whole workout list as one JSON array under a single key.
// Array order is display order.
type WorkoutLog struct {
	store Store
	key   string
}

func NewWorkoutLog(store Store, key string) *WorkoutLog {
	return &WorkoutLog{store: store, key: key}
}

// Load returns the stored workouts. ok is false when nothing has been saved
// yet, which callers treat as an empty log.
func (l *WorkoutLog) Load(ctx context.Context) (workouts []models.Workout, ok bool, err error) {
	raw, ok, err := l.store.Get(ctx, l.key)
	if err != nil || !ok {
		return nil, false, err
	}
	if err := json.Unmarshal([]byte(raw), &workouts); err != nil {
		return nil, false, fmt.Errorf("decoding workout log: %w", err)
	}
	if workouts == nil {
		// "null" was stored; same as an empty log.
		return nil, false, nil
	}
	return workouts, true, nil
}

// Save replaces the stored log with workouts.
func (l *WorkoutLog) Save(ctx context.Context, workouts []models.Workout) error {
	if workouts == nil {
		workouts = []models.Workout{}
	}
	data, err := json.Marshal(workouts)
	if err != nil {
		return fmt.Errorf("encoding workout log: %w", err)
	}
	return l.store.Set(ctx, l.key, string(data))
}

// Clear removes the stored log entirely.
func (l *WorkoutLog) Clear(ctx context.Context) error {
	return l.store.Remove(ctx, l.key)
}
