package mcp

import (
	"context"
	"fmt"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/session"
)

// DataSource abstracts the workout log for MCP tools. Local (in-process loop)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	GetWorkout(ctx context.Context, id string) (models.Workout, error)
	RecordWorkout(ctx context.Context, in session.WorkoutInput) (models.Workout, error)
	DeleteWorkout(ctx context.Context, id string) error
	ResetWorkouts(ctx context.Context) error
	ImportWorkouts(ctx context.Context, records []models.Workout) (int, error)
}

// Local serves tools from a session loop in the same process.
type Local struct {
	loop *session.Loop
}

// Compile-time check: Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

func NewLocal(loop *session.Loop) *Local {
	return &Local{loop: loop}
}

func (l *Local) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	return l.loop.Workouts(ctx)
}

func (l *Local) GetWorkout(ctx context.Context, id string) (models.Workout, error) {
	w, ok, err := l.loop.Workout(ctx, id)
	if err != nil {
		return models.Workout{}, err
	}
	if !ok {
		return models.Workout{}, fmt.Errorf("%w: %s", session.ErrWorkoutNotFound, id)
	}
	return w, nil
}

func (l *Local) RecordWorkout(ctx context.Context, in session.WorkoutInput) (models.Workout, error) {
	w, _, err := l.loop.Record(ctx, in)
	return w, err
}

func (l *Local) DeleteWorkout(ctx context.Context, id string) error {
	_, err := l.loop.Delete(ctx, id)
	return err
}

func (l *Local) ResetWorkouts(ctx context.Context) error {
	_, err := l.loop.Post(ctx, session.ResetRequested{})
	return err
}

func (l *Local) ImportWorkouts(ctx context.Context, records []models.Workout) (int, error) {
	n, _, err := l.loop.Import(ctx, records)
	return n, err
}
