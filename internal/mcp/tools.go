package mcp

import (
	"context"
	"errors"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List recorded workouts in the order they were recorded. Running workouts carry cadence and pace, cycling workouts elevation gain and speed."),
	mcp.WithString("type", mcp.Description("Only return workouts of this type"), mcp.Enum("running", "cycling")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get one workout by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id as returned by list_workouts")),
)

var toolRecordWorkout = mcp.NewTool("record_workout",
	mcp.WithDescription("Record a workout at a map position. Distance, duration and, for running, cadence must be positive; cycling elevation gain may be zero or negative."),
	mcp.WithString("type", mcp.Required(), mcp.Description("Workout type"), mcp.Enum("running", "cycling")),
	mcp.WithNumber("lat", mcp.Required(), mcp.Description("Latitude of the workout")),
	mcp.WithNumber("lng", mcp.Required(), mcp.Description("Longitude of the workout")),
	mcp.WithNumber("distance", mcp.Required(), mcp.Description("Distance in km")),
	mcp.WithNumber("duration", mcp.Required(), mcp.Description("Duration in minutes")),
	mcp.WithNumber("cadence", mcp.Description("Steps per minute (running)")),
	mcp.WithNumber("elevation", mcp.Description("Elevation gain in metres (cycling)")),
)

var toolDeleteWorkout = mcp.NewTool("delete_workout",
	mcp.WithDescription("Delete one workout by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id")),
)

var toolResetWorkouts = mcp.NewTool("reset_workouts",
	mcp.WithDescription("Delete every workout. This cannot be undone."),
	mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Must be true")),
)

// --- Tool handlers ---

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ws, err := h.ds.ListWorkouts(ctx)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	filtered := []models.Workout{}
	typ := req.GetString("type", "")
	for _, w := range ws {
		if typ == "" || string(w.Type) == typ {
			filtered = append(filtered, w)
		}
	}

	result, err := mcp.NewToolResultJSON(filtered)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	w, err := h.ds.GetWorkout(ctx, id)
	if errors.Is(err, session.ErrWorkoutNotFound) {
		return mcp.NewToolResultError("workout not found: " + id), nil
	}
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(w)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) recordWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typ, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type parameter is required"), nil
	}

	in := session.WorkoutInput{
		Type:      typ,
		Cadence:   req.GetFloat("cadence", 0),
		Elevation: req.GetFloat("elevation", 0),
	}
	required := []struct {
		name string
		dst  *float64
	}{
		{"lat", &in.Lat}, {"lng", &in.Lng}, {"distance", &in.Distance}, {"duration", &in.Duration},
	}
	for _, p := range required {
		v, err := req.RequireFloat(p.name)
		if err != nil {
			return mcp.NewToolResultError(p.name + " parameter is required"), nil
		}
		*p.dst = v
	}

	w, err := h.ds.RecordWorkout(ctx, in)
	if errors.Is(err, session.ErrInvalidInput) || errors.Is(err, session.ErrUnknownType) {
		return mcp.NewToolResultError(session.InvalidInputMessage + ": " + err.Error()), nil
	}
	if err != nil {
		h.log.Error("record_workout failed", "error", err)
		return mcp.NewToolResultError("record failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(w)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) deleteWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	err = h.ds.DeleteWorkout(ctx, id)
	if errors.Is(err, session.ErrWorkoutNotFound) {
		return mcp.NewToolResultError("workout not found: " + id), nil
	}
	if err != nil {
		return mcp.NewToolResultError("delete failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText("deleted workout " + id), nil
}

func (h *handlers) resetWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !req.GetBool("confirm", false) {
		return mcp.NewToolResultError("confirm must be true to delete every workout"), nil
	}

	if err := h.ds.ResetWorkouts(ctx); err != nil {
		return mcp.NewToolResultError("reset failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText("all workouts deleted"), nil
}
