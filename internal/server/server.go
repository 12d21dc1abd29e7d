package server

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/claude/mapty/internal/session"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	loop   *session.Loop
	log    *slog.Logger
	hub    *hub
	whois  WhoIser
	router chi.Router
}

// New creates a new Server with all routes configured. Every request that
// touches the session goes through loop.
func New(loop *session.Loop, log *slog.Logger) *Server {
	s := &Server{
		loop:   loop,
		log:    log,
		hub:    newHub(),
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestID)
	s.router.Use(s.identity)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)
		r.Get("/events", s.handleEvents)

		r.Post("/session/boot", s.handleBoot)
		r.Post("/session/geolocation", s.handleGeolocation)
		r.Post("/map/click", s.handleMapClick)
		r.Post("/form/type", s.handleTypeChange)
		r.Post("/form/submit", s.handleSubmit)
		r.Post("/list/click", s.handleListClick)
		r.Post("/list/dblclick", s.handleListDoubleClick)

		r.Get("/workouts", s.handleListWorkouts)
		r.Post("/workouts", s.handleRecordWorkout)
		r.Post("/workouts/import", s.handleImportWorkouts)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Delete("/workouts/{id}", s.handleDeleteWorkout)
		r.Post("/workouts/{id}/locate", s.handleLocateWorkout)
		r.Post("/reset", s.handleReset)
	})
}

// SetMCP mounts a streamable-HTTP MCP handler at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}

// SetFrontend mounts the embedded SPA filesystem.
// Unmatched routes serve index.html for client-side routing.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file first
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		// Fallback to index.html for SPA routing
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
