package session

import (
	"context"

	"github.com/claude/mapty/internal/models"
)

// ViewHandle identifies a map view created by Map.CreateView.
type ViewHandle int

// MarkerHandle identifies a marker placed by Map.PlaceMarker.
type MarkerHandle int

// TileLayer describes the base layer added to a fresh view.
type TileLayer struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

// PopupOptions mirror the options of the marker popups.
type PopupOptions struct {
	MaxWidth     int    `json:"maxWidth"`
	MinWidth     int    `json:"minWidth"`
	AutoClose    bool   `json:"autoClose"`
	CloseOnClick bool   `json:"closeOnClick"`
	ClassName    string `json:"className"`
}

// PanOptions control the animated move to a workout.
type PanOptions struct {
	Animate     bool    `json:"animate"`
	PanDuration float64 `json:"panDuration"` // seconds
}

// Map is the mapping capability the controller draws on. Clicks on a view
// that is listening arrive back as MapClicked events.
type Map interface {
	CreateView(center models.Coords, zoom int) ViewHandle
	AddTileLayer(view ViewHandle, layer TileLayer)
	ListenClicks(view ViewHandle)
	PlaceMarker(view ViewHandle, at models.Coords) MarkerHandle
	BindPopup(marker MarkerHandle, html string, opts PopupOptions)
	SetView(view ViewHandle, center models.Coords, zoom int, opts PanOptions)
}

// Page is the document around the map: the workout form, the workout list
// and the browser chrome.
type Page interface {
	// ShowForm reveals the form and focuses the distance input.
	ShowForm()
	HideForm()
	// ClearForm empties all five inputs.
	ClearForm()
	// ToggleField swaps the visible cadence/elevation row.
	ToggleField()
	InsertWorkout(html string)
	Alert(message string)
	Reload()
}

// Log is where the workout list is persisted.
type Log interface {
	Load(ctx context.Context) ([]models.Workout, bool, error)
	Save(ctx context.Context, workouts []models.Workout) error
	Clear(ctx context.Context) error
}
