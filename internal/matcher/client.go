// Package matcher talks to the matcher HTTP API for order-related
// balance state.
package matcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client fetches reserved balances from the matcher API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a matcher API client. The API key is sent with
// every request when non-empty.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ReservedBalances returns the amounts locked by the address's open
// orders, keyed by asset id. An address with no open orders yields an
// empty map.
func (c *Client) ReservedBalances(ctx context.Context, address string) (map[string]int64, error) {
	url := fmt.Sprintf("%s/matcher/balance/reserved/%s", c.baseURL, address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating matcher request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("matcher request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading matcher response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("matcher HTTP %d: %s", resp.StatusCode, string(body))
	}

	reserved := make(map[string]int64)
	if err := json.Unmarshal(body, &reserved); err != nil {
		return nil, fmt.Errorf("parsing matcher response: %w", err)
	}
	return reserved, nil
}
