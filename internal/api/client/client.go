// Package client is a thin HTTP client for the mock server's health and
// admin endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"syscall"

	"github.com/donaldgifford/partsearch/internal/api/handlers"
)

// Client talks to a running mock server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client targeting the given server URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Health returns the /healthz status.
func (c *Client) Health(ctx context.Context) (string, error) {
	var out handlers.StatusResponse
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

// Ready returns the /readyz status. A server in maintenance answers 503,
// which is reported as an error.
func (c *Client) Ready(ctx context.Context) (string, error) {
	var out handlers.StatusResponse
	if err := c.do(ctx, http.MethodGet, "/readyz", nil, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

// Maintenance reports whether the server is in maintenance mode.
func (c *Client) Maintenance(ctx context.Context) (bool, error) {
	var out handlers.MaintenanceState
	if err := c.do(ctx, http.MethodGet, "/admin/maintenance", nil, &out); err != nil {
		return false, err
	}
	return out.Unavailable, nil
}

// SetMaintenance switches maintenance mode.
func (c *Client) SetMaintenance(ctx context.Context, down bool) (bool, error) {
	var out handlers.MaintenanceState
	body := handlers.MaintenanceState{Unavailable: down}
	if err := c.do(ctx, http.MethodPut, "/admin/maintenance", body, &out); err != nil {
		return false, err
	}
	return out.Unavailable, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dst any) error {
	url := c.baseURL + path

	bodyReader := io.Reader(http.NoBody)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return fmt.Errorf("mock server not running at %s", c.baseURL)
		}
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("mock server error (HTTP %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if dst != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, dst); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
