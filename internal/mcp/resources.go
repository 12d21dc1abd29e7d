package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/mapty/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// Total sums the workouts of one type.
type Total struct {
	Type     models.Type `json:"type"`
	Count    int         `json:"count"`
	Distance float64     `json:"distance_km"`
	Duration float64     `json:"duration_min"`
}

// totals groups ws by type, running first.
func totals(ws []models.Workout) []Total {
	out := []Total{{Type: models.TypeRunning}, {Type: models.TypeCycling}}
	for _, w := range ws {
		for i := range out {
			if out[i].Type == w.Type {
				out[i].Count++
				out[i].Distance += w.Distance
				out[i].Duration += w.Duration
			}
		}
	}
	return out
}

func (h *handlers) workouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ws, err := h.ds.ListWorkouts(ctx)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		ws = []models.Workout{}
	}
	return jsonResource(req.Params.URI, ws)
}

func (h *handlers) totals(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ws, err := h.ds.ListWorkouts(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, totals(ws))
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
