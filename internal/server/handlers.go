package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/claude/mapty/internal/importer"
	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/session"
	"github.com/go-chi/chi/v5"
)

// commandsResponse carries the UI commands an event produced, and the reason
// it was rejected if it was.
type commandsResponse struct {
	Commands []session.Command `json:"commands"`
	Error    string            `json:"error,omitempty"`
}

type recordResponse struct {
	Workout  models.Workout    `json:"workout"`
	Commands []session.Command `json:"commands"`
}

type importResponse struct {
	Imported int               `json:"imported"`
	Commands []session.Command `json:"commands"`
}

// rejectedRecord names an import record that failed validation by its
// position in the request.
type rejectedRecord struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Error string `json:"error"`
}

type importRejectedResponse struct {
	Error    string           `json:"error"`
	Rejected []rejectedRecord `json:"rejected"`
}

type pointRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type listRequest struct {
	ID string `json:"id"`
}

type geolocationRequest struct {
	OK     bool    `json:"ok"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Reason string  `json:"reason"`
}

func (s *Server) handleBoot(w http.ResponseWriter, r *http.Request) {
	s.post(w, r, session.Boot{})
}

func (s *Server) handleGeolocation(w http.ResponseWriter, r *http.Request) {
	var req geolocationRequest
	if !decode(w, r, &req) {
		return
	}
	if !req.OK {
		s.post(w, r, session.GeolocationFailed{Reason: req.Reason})
		return
	}
	s.post(w, r, session.GeolocationResolved{Coords: models.Coords{Lat: req.Lat, Lng: req.Lng}})
}

func (s *Server) handleMapClick(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if !decode(w, r, &req) {
		return
	}
	s.post(w, r, session.MapClicked{Coords: models.Coords{Lat: req.Lat, Lng: req.Lng}})
}

func (s *Server) handleTypeChange(w http.ResponseWriter, r *http.Request) {
	s.post(w, r, session.TypeChanged{})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var values session.FormValues
	if !decode(w, r, &values) {
		return
	}
	if s.post(w, r, session.FormSubmitted{Values: values}) {
		s.notifyChanged(r, "recorded")
	}
}

func (s *Server) handleListClick(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if !decode(w, r, &req) {
		return
	}
	s.post(w, r, session.ListClicked{ID: req.ID})
}

// handleListDoubleClick deletes the clicked entry. Unlike DELETE on a
// workout, an unknown id is not an error: the list is written back and the
// page reloads.
func (s *Server) handleListDoubleClick(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if !decode(w, r, &req) {
		return
	}
	if s.post(w, r, session.ListDoubleClicked{ID: req.ID}) && req.ID != "" {
		s.notifyChanged(r, "deleted")
	}
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	ws, err := s.loop.Workouts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if ws == nil {
		ws = []models.Workout{}
	}
	writeJSON(w, http.StatusOK, ws)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	workout, ok, err := s.loop.Workout(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleRecordWorkout(w http.ResponseWriter, r *http.Request) {
	var in session.WorkoutInput
	if !decode(w, r, &in) {
		return
	}
	workout, cmds, err := s.loop.Record(r.Context(), in)
	if err != nil {
		writeJSON(w, statusFor(err), commandsResponse{Commands: nonNil(cmds), Error: err.Error()})
		return
	}
	s.notifyChanged(r, "recorded")
	writeJSON(w, http.StatusCreated, recordResponse{Workout: workout, Commands: nonNil(cmds)})
}

// handleImportWorkouts appends stored-shape records, skipping ids already held.
// Nothing is imported when any record fails validation.
func (s *Server) handleImportWorkouts(w http.ResponseWriter, r *http.Request) {
	var records []models.Workout
	if !decode(w, r, &records) {
		return
	}

	var rejected []rejectedRecord
	for i, rec := range records {
		if err := importer.Validate(rec); err != nil {
			rejected = append(rejected, rejectedRecord{Index: i, ID: rec.ID, Error: err.Error()})
		}
	}
	if len(rejected) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, importRejectedResponse{
			Error:    fmt.Sprintf("%d of %d records rejected", len(rejected), len(records)),
			Rejected: rejected,
		})
		return
	}
	n, cmds, err := s.loop.Import(r.Context(), records)
	if err != nil {
		s.respond(w, cmds, err)
		return
	}
	if n > 0 {
		s.notifyChanged(r, "imported")
	}
	writeJSON(w, http.StatusOK, importResponse{Imported: n, Commands: nonNil(cmds)})
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	cmds, err := s.loop.Delete(r.Context(), chi.URLParam(r, "id"))
	if s.respond(w, cmds, err) {
		s.notifyChanged(r, "deleted")
	}
}

func (s *Server) handleLocateWorkout(w http.ResponseWriter, r *http.Request) {
	s.post(w, r, session.ListClicked{ID: chi.URLParam(r, "id")})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if s.post(w, r, session.ResetRequested{}) {
		s.notifyChanged(r, "reset")
	}
}

// post applies ev and writes its commands. It reports whether ev was accepted.
func (s *Server) post(w http.ResponseWriter, r *http.Request, ev session.Event) bool {
	cmds, err := s.loop.Post(r.Context(), ev)
	return s.respond(w, cmds, err)
}

func (s *Server) respond(w http.ResponseWriter, cmds []session.Command, err error) bool {
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.log.Error("event failed", "error", err)
		}
		writeJSON(w, status, commandsResponse{Commands: nonNil(cmds), Error: err.Error()})
		return false
	}
	writeJSON(w, http.StatusOK, commandsResponse{Commands: nonNil(cmds)})
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrInvalidInput),
		errors.Is(err, session.ErrUnknownType),
		errors.Is(err, session.ErrNoLocation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrWorkoutNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrLoopStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func nonNil(cmds []session.Command) []session.Command {
	if cmds == nil {
		return []session.Command{}
	}
	return cmds
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
