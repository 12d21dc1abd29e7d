package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Mapty", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Mapty workout log. List, record and delete running and cycling workouts pinned to map coordinates. Distances are km, durations minutes, elevation gain metres."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolRecordWorkout, Handler: h.recordWorkout},
		server.ServerTool{Tool: toolDeleteWorkout, Handler: h.deleteWorkout},
		server.ServerTool{Tool: toolResetWorkouts, Handler: h.resetWorkouts},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resWorkouts, Handler: h.workouts},
		server.ServerResource{Resource: resTotals, Handler: h.totals},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resWorkouts = mcp.NewResource(
	"mapty://workouts",
	"Workouts",
	mcp.WithResourceDescription("Every recorded workout in display order"),
	mcp.WithMIMEType("application/json"),
)

var resTotals = mcp.NewResource(
	"mapty://totals",
	"Totals",
	mcp.WithResourceDescription("Workout count, distance and time per workout type"),
	mcp.WithMIMEType("application/json"),
)
