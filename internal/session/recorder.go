package session

import (
	"sync"

	"github.com/claude/mapty/internal/models"
)

// Command is one UI instruction for a remote front-end to apply.
type Command struct {
	Op      string         `json:"op"`
	View    ViewHandle     `json:"view,omitempty"`
	Marker  MarkerHandle   `json:"marker,omitempty"`
	Coords  *models.Coords `json:"coords,omitempty"`
	Zoom    int            `json:"zoom,omitempty"`
	HTML    string         `json:"html,omitempty"`
	Message string         `json:"message,omitempty"`
	Tiles   *TileLayer     `json:"tiles,omitempty"`
	Popup   *PopupOptions  `json:"popup,omitempty"`
	Pan     *PanOptions    `json:"pan,omitempty"`
}

// Command ops.
const (
	OpCreateView    = "createView"
	OpAddTileLayer  = "addTileLayer"
	OpListenClicks  = "listenClicks"
	OpPlaceMarker   = "placeMarker"
	OpBindPopup     = "bindPopup"
	OpSetView       = "setView"
	OpShowForm      = "showForm"
	OpHideForm      = "hideForm"
	OpClearForm     = "clearForm"
	OpToggleField   = "toggleField"
	OpInsertWorkout = "insertWorkout"
	OpAlert         = "alert"
	OpReload        = "reload"
)

// Recorder implements Map and Page by queueing Commands until Drain.
type Recorder struct {
	mu       sync.Mutex
	commands []Command
	views    ViewHandle
	markers  MarkerHandle
}

var (
	_ Map  = (*Recorder)(nil)
	_ Page = (*Recorder)(nil)
)

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Drain returns the queued commands in order and empties the queue.
func (r *Recorder) Drain() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.commands
	r.commands = nil
	return out
}

func (r *Recorder) push(c Command) {
	r.mu.Lock()
	r.commands = append(r.commands, c)
	r.mu.Unlock()
}

func (r *Recorder) CreateView(center models.Coords, zoom int) ViewHandle {
	r.mu.Lock()
	r.views++
	v := r.views
	r.mu.Unlock()
	r.push(Command{Op: OpCreateView, View: v, Coords: &center, Zoom: zoom})
	return v
}

func (r *Recorder) AddTileLayer(view ViewHandle, layer TileLayer) {
	r.push(Command{Op: OpAddTileLayer, View: view, Tiles: &layer})
}

func (r *Recorder) ListenClicks(view ViewHandle) {
	r.push(Command{Op: OpListenClicks, View: view})
}

func (r *Recorder) PlaceMarker(view ViewHandle, at models.Coords) MarkerHandle {
	r.mu.Lock()
	r.markers++
	m := r.markers
	r.mu.Unlock()
	r.push(Command{Op: OpPlaceMarker, View: view, Marker: m, Coords: &at})
	return m
}

func (r *Recorder) BindPopup(marker MarkerHandle, html string, opts PopupOptions) {
	r.push(Command{Op: OpBindPopup, Marker: marker, HTML: html, Popup: &opts})
}

func (r *Recorder) SetView(view ViewHandle, center models.Coords, zoom int, opts PanOptions) {
	r.push(Command{Op: OpSetView, View: view, Coords: &center, Zoom: zoom, Pan: &opts})
}

func (r *Recorder) ShowForm()                 { r.push(Command{Op: OpShowForm}) }
func (r *Recorder) HideForm()                 { r.push(Command{Op: OpHideForm}) }
func (r *Recorder) ClearForm()                { r.push(Command{Op: OpClearForm}) }
func (r *Recorder) ToggleField()              { r.push(Command{Op: OpToggleField}) }
func (r *Recorder) InsertWorkout(html string) { r.push(Command{Op: OpInsertWorkout, HTML: html}) }
func (r *Recorder) Alert(message string)      { r.push(Command{Op: OpAlert, Message: message}) }
func (r *Recorder) Reload()                   { r.push(Command{Op: OpReload}) }
