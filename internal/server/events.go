package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// sseEvent is an SSE message to send to subscribers.
type sseEvent struct {
	Event string
	Data  string
}

// hub fans change notifications out to every open event stream, so that
// other tabs and clients can re-boot after a write they did not make.
type hub struct {
	mu   sync.Mutex
	subs map[chan sseEvent]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[chan sseEvent]struct{})}
}

func (h *hub) broadcast(event sseEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- event:
		default:
			// slow subscriber, skip
		}
	}
}

func (h *hub) subscribe() chan sseEvent {
	ch := make(chan sseEvent, 32)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *hub) unsubscribe(ch chan sseEvent) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

// changeEvent is the payload of a "changed" event. RequestID lets the client
// that caused the change recognise and skip it.
type changeEvent struct {
	Reason    string `json:"reason"`
	RequestID string `json:"request_id"`
	Count     int    `json:"count"`
}

func (s *Server) notifyChanged(r *http.Request, reason string) {
	ws, err := s.loop.Workouts(r.Context())
	if err != nil {
		s.log.Warn("change notification skipped", "reason", reason, "error", err)
		return
	}
	s.hub.broadcast(sseEvent{Event: "changed", Data: mustJSON(changeEvent{
		Reason:    reason,
		RequestID: requestIDFromContext(r.Context()),
		Count:     len(ws),
	})})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming not supported"})
		return
	}

	ws, err := s.loop.Workouts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.hub.subscribe()
	defer s.hub.unsubscribe(ch)

	// Send current status immediately
	fmt.Fprintf(w, "event: status\ndata: %s\n\n", mustJSON(map[string]int{"count": len(ws)}))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-ch:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Event, evt.Data)
			flusher.Flush()
		}
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `{}`
	}
	return string(b)
}
