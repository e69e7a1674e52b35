package finance

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Chart image cache entry
type chartCacheEntry struct {
	createdAt time.Time
	image     []byte
}

// ChartCache holds rendered chart PNGs for a short time so a page can
// reference them by id. It stores images only, never market data.
type ChartCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]chartCacheEntry
	now     func() time.Time
}

func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{ttl: ttl, entries: map[string]chartCacheEntry{}, now: time.Now}
}

// Put stores img under a fresh id and drops expired entries.
func (c *ChartCache) Put(img []byte) string {
	id := uuid.NewString()
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.entries {
		if now.After(e.createdAt.Add(c.ttl)) {
			delete(c.entries, k)
		}
	}
	c.entries[id] = chartCacheEntry{createdAt: now, image: img}
	return id
}

// Get returns a copy of the image stored under id if it has not expired.
func (c *ChartCache) Get(id string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[id]
	if !ok || c.now().After(entry.createdAt.Add(c.ttl)) {
		return nil, false
	}
	img := make([]byte, len(entry.image))
	copy(img, entry.image)
	return img, true
}
