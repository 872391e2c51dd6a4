package node

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is an HTTP client for the Waves node REST API. Public nodes rate
// limit aggressively, so 429 responses are retried with exponential backoff.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
}

// NewClient creates a node API client.
func NewClient(baseURL string, maxRetries int, baseDelay time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

// getJSON performs a GET request against the node and unmarshals the JSON
// response, retrying on 429.
func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	url := c.baseURL + path

	for attempt := range c.maxRetries + 1 {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("requesting node: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("reading node response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.Unmarshal(body, dest); err != nil {
				return fmt.Errorf("parsing JSON from %s: %w", path, err)
			}
			return nil
		case resp.StatusCode == http.StatusTooManyRequests && attempt < c.maxRetries:
			delay := c.baseDelay * time.Duration(1<<uint(attempt))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		default:
			return fmt.Errorf("node HTTP %d at %s: %s", resp.StatusCode, url, string(body))
		}
	}

	return fmt.Errorf("node HTTP 429 at %s after %d attempts", url, c.maxRetries+1)
}
