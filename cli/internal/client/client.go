// ABOUTME: HTTP client for the capacity planner API
// ABOUTME: Wraps API calls with proper error handling for CLI usage

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/planwise/capacity-planner/models"
	"github.com/planwise/capacity-planner/store"
)

// Client is the API client for the capacity planner backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client with the given base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// HealthResponse represents the /api/health endpoint response
type HealthResponse struct {
	Status  string `json:"status"`
	History string `json:"history"`
}

// Health checks backend connectivity.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.get(ctx, "/api/health", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Plan submits a plan request and returns the computed plan.
func (c *Client) Plan(ctx context.Context, req models.PlanRequest) (*models.PlanResponse, error) {
	var plan models.PlanResponse
	if err := c.post(ctx, "/api/plan", req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// History returns the most recent recorded plan runs.
func (c *Client) History(ctx context.Context) ([]store.Run, error) {
	var runs []store.Run
	if err := c.get(ctx, "/api/history", &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if req.Context().Err() == context.Canceled {
			return fmt.Errorf("request canceled")
		}
		if req.Context().Err() == context.DeadlineExceeded {
			return fmt.Errorf("request timed out")
		}
		return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp models.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return fmt.Errorf("backend returned status %d", resp.StatusCode)
		}
		if errResp.Details != "" {
			return fmt.Errorf("backend error: %s: %s", errResp.Error, errResp.Details)
		}
		return fmt.Errorf("backend error: %s", errResp.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}
