package comps

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pembroke-collections/acquisition-engine/internal/model"
)

// Cache stores raw comparables keyed on source tag and query string. It is
// injected rather than ambient so concurrent evaluations stay independently
// testable. Entries are bounded evidence with a TTL, never durable state.
type Cache interface {
	Get(tag model.SourceTag, query string) ([]model.RawComparable, bool)
	Put(tag model.SourceTag, query string, comps []model.RawComparable)
}

// MemoryCache is a concurrent-safe LRU cache with TTL expiration.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	order      []string // LRU order: front=oldest, back=newest
	maxEntries int
	ttl        time.Duration
	hits       atomic.Int64
	misses     atomic.Int64
}

type cacheEntry struct {
	comps     []model.RawComparable
	createdAt time.Time
}

// CacheStats contains cache performance statistics.
type CacheStats struct {
	Entries    int     `json:"entries"`
	MaxEntries int     `json:"max_entries"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
}

// NewMemoryCache creates a MemoryCache with the given capacity and TTL.
func NewMemoryCache(maxEntries int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]*cacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

func cacheKey(tag model.SourceTag, query string) string {
	return string(tag) + "/" + query
}

// Get retrieves cached comparables. Returns false on miss or expiration.
func (c *MemoryCache) Get(tag model.SourceTag, query string) ([]model.RawComparable, bool) {
	key := cacheKey(tag, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}

	if time.Since(entry.createdAt) > c.ttl {
		delete(c.entries, key)
		c.removeFromOrder(key)
		c.misses.Add(1)
		return nil, false
	}

	c.removeFromOrder(key)
	c.order = append(c.order, key)
	c.hits.Add(1)
	return entry.comps, true
}

// Put stores comparables, evicting the oldest entry when at capacity.
func (c *MemoryCache) Put(tag model.SourceTag, query string, comps []model.RawComparable) {
	key := cacheKey(tag, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = &cacheEntry{comps: comps, createdAt: time.Now()}
		c.removeFromOrder(key)
		c.order = append(c.order, key)
		return
	}

	for len(c.entries) >= c.maxEntries && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = &cacheEntry{comps: comps, createdAt: time.Now()}
	c.order = append(c.order, key)
}

// Stats returns cache performance statistics.
func (c *MemoryCache) Stats() CacheStats {
	c.mu.Lock()
	entries := len(c.entries)
	maxEntries := c.maxEntries
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return CacheStats{
		Entries:    entries,
		MaxEntries: maxEntries,
		Hits:       hits,
		Misses:     misses,
		HitRate:    hitRate,
	}
}

func (c *MemoryCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
