package dataservice

import (
	"sync"
	"time"

	"github.com/mebelplatform/wavesbalance/internal/domain"
)

const cacheTTL = 5 * time.Minute

type cacheEntry struct {
	metadata  domain.AssetMetadata
	expiresAt time.Time
}

type metadataCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func newMetadataCache() *metadataCache {
	return &metadataCache{
		entries: make(map[string]cacheEntry),
	}
}

func (c *metadataCache) get(assetID string) (domain.AssetMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[assetID]
	if !ok || time.Now().After(entry.expiresAt) {
		return domain.AssetMetadata{}, false
	}
	return entry.metadata, true
}

func (c *metadataCache) set(metadata domain.AssetMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[metadata.AssetID] = cacheEntry{
		metadata:  metadata,
		expiresAt: time.Now().Add(cacheTTL),
	}
}
