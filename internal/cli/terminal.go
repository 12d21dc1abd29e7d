package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/session"
)

// Terminal is the Map and Page of a command-line session. There is nothing
// to draw, so only alerts reach the user.
type Terminal struct {
	mu      sync.Mutex
	w       io.Writer
	views   session.ViewHandle
	markers session.MarkerHandle
}

var (
	_ session.Map  = (*Terminal)(nil)
	_ session.Page = (*Terminal)(nil)
)

// NewTerminal writes alerts to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) CreateView(models.Coords, int) session.ViewHandle {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.views++
	return t.views
}

func (t *Terminal) AddTileLayer(session.ViewHandle, session.TileLayer) {}
func (t *Terminal) ListenClicks(session.ViewHandle)                    {}

func (t *Terminal) PlaceMarker(session.ViewHandle, models.Coords) session.MarkerHandle {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.markers++
	return t.markers
}

func (t *Terminal) BindPopup(session.MarkerHandle, string, session.PopupOptions)       {}
func (t *Terminal) SetView(session.ViewHandle, models.Coords, int, session.PanOptions) {}

func (t *Terminal) ShowForm()            {}
func (t *Terminal) HideForm()            {}
func (t *Terminal) ClearForm()           {}
func (t *Terminal) ToggleField()         {}
func (t *Terminal) InsertWorkout(string) {}
func (t *Terminal) Reload()              {}

func (t *Terminal) Alert(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, styleAlert.Render("! "+message))
}
