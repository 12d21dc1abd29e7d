package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/session"
)

// HTTPClient implements DataSource by calling the Mapty REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the workout log lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	switch {
	case resp.StatusCode < 300:
		return out, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("httpclient: %s: %w", path, session.ErrWorkoutNotFound)
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: %s", session.ErrInvalidInput, errorMessage(out))
	default:
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, out)
	}
}

// errorMessage pulls the "error" field out of a JSON error body.
func errorMessage(body []byte) string {
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Error == "" {
		return strings.TrimSpace(string(body))
	}
	return resp.Error
}

func workoutPath(id string) string {
	return "/api/v1/workouts/" + url.PathEscape(id)
}

func (c *HTTPClient) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/workouts", nil)
	if err != nil {
		return nil, err
	}

	var ws []models.Workout
	if err := json.Unmarshal(body, &ws); err != nil {
		return nil, fmt.Errorf("httpclient: decode workouts: %w", err)
	}
	return ws, nil
}

func (c *HTTPClient) GetWorkout(ctx context.Context, id string) (models.Workout, error) {
	body, err := c.do(ctx, http.MethodGet, workoutPath(id), nil)
	if err != nil {
		return models.Workout{}, err
	}

	var w models.Workout
	if err := json.Unmarshal(body, &w); err != nil {
		return models.Workout{}, fmt.Errorf("httpclient: decode workout: %w", err)
	}
	return w, nil
}

func (c *HTTPClient) RecordWorkout(ctx context.Context, in session.WorkoutInput) (models.Workout, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/v1/workouts", in)
	if err != nil {
		return models.Workout{}, err
	}

	var resp struct {
		Workout models.Workout `json:"workout"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.Workout{}, fmt.Errorf("httpclient: decode recorded workout: %w", err)
	}
	return resp.Workout, nil
}

func (c *HTTPClient) DeleteWorkout(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, workoutPath(id), nil)
	return err
}

func (c *HTTPClient) ResetWorkouts(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/v1/reset", nil)
	return err
}

func (c *HTTPClient) ImportWorkouts(ctx context.Context, records []models.Workout) (int, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/v1/workouts/import", records)
	if err != nil {
		return 0, err
	}

	var resp struct {
		Imported int `json:"imported"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("httpclient: decode import result: %w", err)
	}
	return resp.Imported, nil
}
