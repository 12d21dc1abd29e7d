package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/claude/mapty/internal/models"
)

// ErrLoopStopped is returned by Post once Run has returned.
var ErrLoopStopped = errors.New("session loop stopped")

// Event is something that happened on the page or the map.
type Event interface {
	apply(ctx context.Context, c *Controller) error
}

// Boot is a page load.
type Boot struct{}

// GeolocationResolved delivers the user's position.
type GeolocationResolved struct{ Coords models.Coords }

// GeolocationFailed reports a denied or failed position request.
type GeolocationFailed struct{ Reason string }

// MapClicked is a click on the map view.
type MapClicked struct{ Coords models.Coords }

// TypeChanged is a change of the workout type selector.
type TypeChanged struct{}

// FormSubmitted carries the raw form inputs.
type FormSubmitted struct{ Values FormValues }

// RecordAt clicks the map and submits the form in one step. API and MCP
// clients use it so that no other event can land in between.
type RecordAt struct {
	Coords models.Coords
	Values FormValues
}

// ListClicked is a click on a list entry. ID is empty when the click missed
// every entry.
type ListClicked struct{ ID string }

// ListDoubleClicked is a double click on a list entry; it deletes the workout.
type ListDoubleClicked struct{ ID string }

// ResetRequested clears every workout.
type ResetRequested struct{}

func (Boot) apply(ctx context.Context, c *Controller) error { return c.Boot(ctx) }

func (e GeolocationResolved) apply(_ context.Context, c *Controller) error {
	c.LoadMap(e.Coords)
	return nil
}

func (e GeolocationFailed) apply(_ context.Context, c *Controller) error {
	c.log.Warn("geolocation failed", "reason", e.Reason)
	c.GeolocationFailed()
	return nil
}

func (e MapClicked) apply(_ context.Context, c *Controller) error {
	c.ShowForm(e.Coords)
	return nil
}

func (TypeChanged) apply(_ context.Context, c *Controller) error {
	c.ToggleField()
	return nil
}

func (e FormSubmitted) apply(ctx context.Context, c *Controller) error {
	return c.SubmitForm(ctx, e.Values)
}

func (e RecordAt) apply(ctx context.Context, c *Controller) error {
	c.ShowForm(e.Coords)
	return c.SubmitForm(ctx, e.Values)
}

func (e ListClicked) apply(_ context.Context, c *Controller) error { return c.LocateWorkout(e.ID) }

func (e ListDoubleClicked) apply(ctx context.Context, c *Controller) error {
	return c.DeleteWorkout(ctx, e.ID)
}

func (ResetRequested) apply(ctx context.Context, c *Controller) error { return c.ResetAll(ctx) }

// step runs arbitrary code on the loop goroutine.
type step func(ctx context.Context, c *Controller) error

func (s step) apply(ctx context.Context, c *Controller) error { return s(ctx, c) }

type request struct {
	ctx  context.Context
	ev   Event
	done chan result
}

type result struct {
	commands []Command
	err      error
}

// Loop owns a Controller and applies events to it one at a time, in arrival
// order, on its own goroutine.
type Loop struct {
	ctrl    *Controller
	drain   func() []Command
	log     *slog.Logger
	events  chan request
	stopped chan struct{}
}

// NewLoop wraps ctrl. drain, if not nil, is called after every event and its
// commands are handed back to the poster; pass Recorder.Drain when the
// controller draws on a Recorder.
func NewLoop(ctrl *Controller, drain func() []Command, log *slog.Logger) *Loop {
	if log == nil {
		log = slog.Default()
	}
	return &Loop{
		ctrl:    ctrl,
		drain:   drain,
		log:     log,
		events:  make(chan request),
		stopped: make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-l.events:
			err := req.ev.apply(req.ctx, l.ctrl)
			var cmds []Command
			if l.drain != nil {
				cmds = l.drain()
			}
			if err != nil {
				l.log.Debug("event rejected", "event", eventName(req.ev), "error", err)
			}
			req.done <- result{commands: cmds, err: err}
		}
	}
}

// Post applies ev and returns the UI commands it produced.
func (l *Loop) Post(ctx context.Context, ev Event) ([]Command, error) {
	req := request{ctx: ctx, ev: ev, done: make(chan result, 1)}
	select {
	case l.events <- req:
	case <-l.stopped:
		return nil, ErrLoopStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-req.done:
		return res.commands, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Workouts returns the in-memory list.
func (l *Loop) Workouts(ctx context.Context) ([]models.Workout, error) {
	var out []models.Workout
	_, err := l.Post(ctx, step(func(_ context.Context, c *Controller) error {
		out = c.Workouts()
		return nil
	}))
	return out, err
}

// Workout looks up one workout by id.
func (l *Loop) Workout(ctx context.Context, id string) (models.Workout, bool, error) {
	var (
		w  models.Workout
		ok bool
	)
	_, err := l.Post(ctx, step(func(_ context.Context, c *Controller) error {
		w, ok = c.Workout(id)
		return nil
	}))
	return w, ok, err
}

// Record clicks the map at in's position, submits in as the form and returns
// the workout that was created.
func (l *Loop) Record(ctx context.Context, in WorkoutInput) (models.Workout, []Command, error) {
	var w models.Workout
	cmds, err := l.Post(ctx, step(func(ctx context.Context, c *Controller) error {
		ev := RecordAt{Coords: in.Coords(), Values: in.Values()}
		if err := ev.apply(ctx, c); err != nil {
			return err
		}
		w = c.workouts[len(c.workouts)-1]
		return nil
	}))
	return w, cmds, err
}

// Delete removes the workout with id, failing with ErrWorkoutNotFound when
// there is none. A double click on the list ignores unknown ids instead.
func (l *Loop) Delete(ctx context.Context, id string) ([]Command, error) {
	return l.Post(ctx, step(func(ctx context.Context, c *Controller) error {
		if _, ok := c.Workout(id); !ok {
			return fmt.Errorf("%w: %s", ErrWorkoutNotFound, id)
		}
		return c.DeleteWorkout(ctx, id)
	}))
}

// Import appends records to the list, skipping ids it already holds.
func (l *Loop) Import(ctx context.Context, records []models.Workout) (int, []Command, error) {
	var n int
	cmds, err := l.Post(ctx, step(func(ctx context.Context, c *Controller) error {
		var err error
		n, err = c.ImportWorkouts(ctx, records)
		return err
	}))
	return n, cmds, err
}

func eventName(ev Event) string {
	switch ev.(type) {
	case Boot:
		return "boot"
	case GeolocationResolved:
		return "geolocation_resolved"
	case GeolocationFailed:
		return "geolocation_failed"
	case MapClicked:
		return "map_clicked"
	case TypeChanged:
		return "type_changed"
	case FormSubmitted:
		return "form_submitted"
	case RecordAt:
		return "record_at"
	case ListClicked:
		return "list_clicked"
	case ListDoubleClicked:
		return "list_double_clicked"
	case ResetRequested:
		return "reset_requested"
	default:
		return "step"
	}
}
