package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kurihiro0119/ops-task-report/internal/domain"
)

// Client is the API client for the ops task report server
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListNetworks retrieves the supported networks
func (c *Client) ListNetworks(ctx context.Context) ([]domain.NetworkConfig, error) {
	var response struct {
		Data []domain.NetworkConfig `json:"data"`
	}
	if err := c.get(ctx, "/api/v1/networks", nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// ListRuns retrieves the most recent runs
func (c *Client) ListRuns(ctx context.Context, limit int) ([]*domain.Run, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var response struct {
		Data []*domain.Run `json:"data"`
	}
	if err := c.get(ctx, "/api/v1/runs", params, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// GetRun retrieves a single run
func (c *Client) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	var response struct {
		Data *domain.Run `json:"data"`
	}
	if err := c.get(ctx, "/api/v1/runs/"+url.PathEscape(runID), nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// GetRecords retrieves the rows collected by a run
func (c *Client) GetRecords(ctx context.Context, runID string) ([]domain.EnrichedRecord, error) {
	var response struct {
		Data []domain.EnrichedRecord `json:"data"`
	}
	if err := c.get(ctx, "/api/v1/runs/"+url.PathEscape(runID)+"/records", nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// GetRunSummary retrieves per-network counts for a run
func (c *Client) GetRunSummary(ctx context.Context, runID string) ([]domain.NetworkSummary, error) {
	var response struct {
		Data []domain.NetworkSummary `json:"data"`
	}
	if err := c.get(ctx, "/api/v1/runs/"+url.PathEscape(runID)+"/summary", nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// HealthCheck checks if the API is healthy
func (c *Client) HealthCheck(ctx context.Context) error {
	var response struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/health", nil, &response); err != nil {
		return err
	}
	if response.Status != "ok" {
		return fmt.Errorf("unhealthy status: %s", response.Status)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: %s - %s", resp.Status, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}
