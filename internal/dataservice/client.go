// Package dataservice resolves asset metadata through the public data
// service API, with a short-lived in-process cache on top.
package dataservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/samber/lo"

	"github.com/mebelplatform/wavesbalance/internal/domain"
)

// Client fetches asset descriptions from the data service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	generalIDs map[string]bool
	cache      *metadataCache
}

// NewClient creates a data service client for the given environment. The
// environment's general asset list drives the IsGeneral flag on resolved
// metadata.
func NewClient(baseURL string, env domain.Environment) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		generalIDs: lo.SliceToMap(env.GeneralAssetIDs(), func(id string) (string, bool) {
			return id, true
		}),
		cache: newMetadataCache(),
	}
}

// assetsResponse mirrors GET /v0/assets. Unknown ids come back with a
// null inner data object.
type assetsResponse struct {
	Data []struct {
		Data *struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			Precision int32  `json:"precision"`
		} `json:"data"`
	} `json:"data"`
}

// Resolve returns metadata for the given asset ids, keyed by id. Ids the
// data service does not know are simply absent from the result. The
// native asset never hits the network; its metadata is a protocol
// constant. The address is unused here: the public data service serves
// the same asset descriptions to everyone.
func (c *Client) Resolve(ctx context.Context, assetIDs []string, _ string) (map[string]domain.AssetMetadata, error) {
	resolved := make(map[string]domain.AssetMetadata, len(assetIDs))

	var missing []string
	for _, id := range lo.Uniq(assetIDs) {
		if id == domain.NativeAssetID {
			resolved[id] = c.nativeMetadata()
			continue
		}
		if metadata, ok := c.cache.get(id); ok {
			resolved[id] = metadata
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return resolved, nil
	}

	fetched, err := c.fetchAssets(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, metadata := range fetched {
		c.cache.set(metadata)
		resolved[metadata.AssetID] = metadata
	}
	return resolved, nil
}

func (c *Client) nativeMetadata() domain.AssetMetadata {
	return domain.AssetMetadata{
		AssetID:   domain.NativeAssetID,
		Name:      domain.NativeAssetName,
		Decimals:  domain.NativeAssetDecimals,
		IsGeneral: c.generalIDs[domain.NativeAssetID],
	}
}

func (c *Client) fetchAssets(ctx context.Context, assetIDs []string) ([]domain.AssetMetadata, error) {
	query := url.Values{"ids": assetIDs}
	reqURL := fmt.Sprintf("%s/v0/assets?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating data service request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("data service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading data service response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("data service HTTP %d: %s", resp.StatusCode, string(body))
	}

	var parsed assetsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing data service response: %w", err)
	}

	var metadata []domain.AssetMetadata
	for _, entry := range parsed.Data {
		if entry.Data == nil {
			continue
		}
		metadata = append(metadata, domain.AssetMetadata{
			AssetID:   entry.Data.ID,
			Name:      entry.Data.Name,
			Decimals:  entry.Data.Precision,
			IsGeneral: c.generalIDs[entry.Data.ID],
		})
	}
	return metadata, nil
}
