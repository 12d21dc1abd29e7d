package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/claude/mapty/internal/models"
)

var (
	ErrInvalidInput    = errors.New("invalid workout input")
	ErrUnknownType     = errors.New("unknown workout type")
	ErrNoLocation      = errors.New("no map location selected")
	ErrWorkoutNotFound = errors.New("workout not found")
)

const (
	// InvalidInputMessage is the alert shown for every rejected form.
	InvalidInputMessage = "Input must be a whole positive number"
	// GeolocationMessage is the alert shown when the position is unavailable.
	GeolocationMessage = "You have not provided access to your location"

	DefaultZoom = 13
)

// Options configure a Controller. Zero values fall back to defaults.
type Options struct {
	Zoom      int
	TileLayer TileLayer
	Now       func() time.Time
	Log       *slog.Logger
}

// Controller owns the in-memory workout list and keeps the map, the page and
// the persisted log in step with it. It is not safe for concurrent use; the
// Loop serialises access when several clients share one controller.
type Controller struct {
	maps  Map
	page  Page
	store Log

	zoom  int
	tiles TileLayer
	now   func() time.Time
	log   *slog.Logger

	workouts []models.Workout

	form           FormState
	showsElevation bool
	pending        *models.Coords

	view      ViewHandle
	mapLoaded bool
}

// NewController wires a controller to its collaborators. Call Boot before use.
func NewController(m Map, p Page, store Log, opts Options) *Controller {
	c := &Controller{
		maps:  m,
		page:  p,
		store: store,
		zoom:  opts.Zoom,
		tiles: opts.TileLayer,
		now:   opts.Now,
		log:   opts.Log,
	}
	if c.zoom <= 0 {
		c.zoom = DefaultZoom
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	return c
}

// Boot puts the controller in its page-load state and hydrates it from the
// store. The map stays unloaded until LoadMap.
func (c *Controller) Boot(ctx context.Context) error {
	c.workouts = nil
	c.form = FormHidden
	c.showsElevation = false
	c.pending = nil
	c.mapLoaded = false
	c.view = 0

	return c.Hydrate(ctx)
}

// Hydrate replaces the in-memory list with the stored one and renders each
// entry. Stored records are used as they are; nothing is re-derived.
func (c *Controller) Hydrate(ctx context.Context) error {
	stored, ok, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("hydrating workouts: %w", err)
	}
	if !ok {
		return nil
	}

	c.workouts = stored
	for _, w := range c.workouts {
		if err := c.renderEntry(w); err != nil {
			return err
		}
	}
	c.log.Debug("workouts hydrated", "count", len(c.workouts))
	return nil
}

// LoadMap creates the map view around the user's position and draws a marker
// for every workout already in memory.
func (c *Controller) LoadMap(at models.Coords) {
	c.view = c.maps.CreateView(at, c.zoom)
	c.maps.AddTileLayer(c.view, c.tiles)
	c.maps.ListenClicks(c.view)
	c.mapLoaded = true

	for _, w := range c.workouts {
		c.renderMarker(w)
	}
}

// GeolocationFailed reports that the map cannot be shown.
func (c *Controller) GeolocationFailed() {
	c.page.Alert(GeolocationMessage)
}

// ShowForm handles a map click: the clicked position becomes the location of
// the next workout.
func (c *Controller) ShowForm(at models.Coords) {
	c.pending = &at
	c.form = FormShown
	c.page.ShowForm()
}

// ToggleField swaps the cadence and elevation inputs.
func (c *Controller) ToggleField() {
	c.showsElevation = !c.showsElevation
	c.page.ToggleField()
}

// SubmitForm coerces the raw inputs to numbers and records the workout.
func (c *Controller) SubmitForm(ctx context.Context, v FormValues) error {
	t, err := models.ParseType(v.Type)
	if err != nil {
		c.page.Alert(InvalidInputMessage)
		return fmt.Errorf("%w: %q", ErrUnknownType, v.Type)
	}

	extra := v.Cadence
	if t == models.TypeCycling {
		extra = v.Elevation
	}
	return c.RecordWorkout(ctx, t, parseNumber(v.Distance), parseNumber(v.Duration), parseNumber(extra))
}

// RecordWorkout validates the input, builds the workout at the clicked
// location, renders it and persists the whole list. extra is the cadence for
// running and the elevation gain for cycling. Rejected input leaves every
// piece of state untouched.
func (c *Controller) RecordWorkout(ctx context.Context, t models.Type, distance, duration, extra float64) error {
	if c.pending == nil {
		return ErrNoLocation
	}

	var w models.Workout
	switch t {
	case models.TypeRunning:
		if !finite(distance, duration, extra) || !positive(distance, duration, extra) {
			c.page.Alert(InvalidInputMessage)
			return ErrInvalidInput
		}
		w = models.NewRunning(c.now(), *c.pending, distance, duration, extra)
	case models.TypeCycling:
		if !finite(distance, duration, extra) || !positive(distance, duration) {
			c.page.Alert(InvalidInputMessage)
			return ErrInvalidInput
		}
		w = models.NewCycling(c.now(), *c.pending, distance, duration, extra)
	default:
		c.page.Alert(InvalidInputMessage)
		return fmt.Errorf("%w: %q", ErrUnknownType, t)
	}

	c.workouts = append(c.workouts, w)
	c.renderMarker(w)
	if err := c.renderEntry(w); err != nil {
		return err
	}
	c.hideForm()

	if err := c.store.Save(ctx, c.workouts); err != nil {
		return fmt.Errorf("persisting workouts: %w", err)
	}
	c.log.Info("workout recorded", "id", w.ID, "type", w.Type, "description", w.Description)
	return nil
}

// ImportWorkouts appends stored records as they are, skipping ids that are
// already listed, and persists the list once. It returns how many were added.
func (c *Controller) ImportWorkouts(ctx context.Context, records []models.Workout) (int, error) {
	seen := make(map[string]bool, len(c.workouts)+len(records))
	for _, w := range c.workouts {
		seen[w.ID] = true
	}

	var added []models.Workout
	for _, w := range records {
		if seen[w.ID] {
			continue
		}
		seen[w.ID] = true
		added = append(added, w)
	}
	if len(added) == 0 {
		return 0, nil
	}

	c.workouts = append(c.workouts, added...)
	for _, w := range added {
		c.renderMarker(w)
		if err := c.renderEntry(w); err != nil {
			return 0, err
		}
	}
	if err := c.store.Save(ctx, c.workouts); err != nil {
		return 0, fmt.Errorf("persisting workouts: %w", err)
	}
	c.log.Info("workouts imported", "added", len(added), "skipped", len(records)-len(added))
	return len(added), nil
}

// LocateWorkout pans the map to a listed workout. An empty id means the click
// hit no list entry and is ignored.
func (c *Controller) LocateWorkout(id string) error {
	if id == "" {
		return nil
	}
	c.hideForm()

	w, ok := c.Workout(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrWorkoutNotFound, id)
	}
	if c.mapLoaded {
		c.maps.SetView(c.view, w.Coords, c.zoom, PanOptions{Animate: true, PanDuration: 1})
	}
	return nil
}

// DeleteWorkout writes the list without id to the store and reloads. The
// in-memory list is rebuilt from the store rather than edited in place.
func (c *Controller) DeleteWorkout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	remaining := slices.DeleteFunc(slices.Clone(c.workouts), func(w models.Workout) bool {
		return w.ID == id
	})
	if err := c.store.Save(ctx, remaining); err != nil {
		return fmt.Errorf("persisting workouts: %w", err)
	}
	c.log.Info("workout deleted", "id", id, "remaining", len(remaining))
	return c.reload(ctx)
}

// ResetAll drops the stored log and reloads.
func (c *Controller) ResetAll(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing workouts: %w", err)
	}
	c.log.Info("workouts reset")
	return c.reload(ctx)
}

// Workouts returns a copy of the in-memory list in display order.
func (c *Controller) Workouts() []models.Workout {
	return slices.Clone(c.workouts)
}

// Workout looks a workout up by id.
func (c *Controller) Workout(id string) (models.Workout, bool) {
	i := slices.IndexFunc(c.workouts, func(w models.Workout) bool { return w.ID == id })
	if i < 0 {
		return models.Workout{}, false
	}
	return c.workouts[i], true
}

func (c *Controller) FormState() FormState { return c.form }

// ShowsElevation reports whether the elevation row replaces the cadence row.
func (c *Controller) ShowsElevation() bool { return c.showsElevation }

func (c *Controller) MapLoaded() bool { return c.mapLoaded }

func (c *Controller) hideForm() {
	c.page.ClearForm()
	c.page.HideForm()
	c.form = FormHidden
	c.pending = nil
}

func (c *Controller) reload(ctx context.Context) error {
	c.page.Reload()
	return c.Boot(ctx)
}

func (c *Controller) renderMarker(w models.Workout) {
	if !c.mapLoaded {
		return
	}
	marker := c.maps.PlaceMarker(c.view, w.Coords)
	c.maps.BindPopup(marker, popupContent(w), popupOptions)
}

func (c *Controller) renderEntry(w models.Workout) error {
	html, err := renderEntry(w)
	if err != nil {
		return err
	}
	c.page.InsertWorkout(html)
	return nil
}
