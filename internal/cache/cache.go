// Package cache provides in-memory caching of resolved F1 responses.
package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pranjalekhande/paddock-ai/internal/metrics"
)

// ResponseCache provides TTL-bound in-memory caching for fetched F1 data.
// Every entry carries its own lifetime because the freshness requirement of a
// payload depends on the race weekend phase it was fetched in.
type ResponseCache struct {
	cache     *gocache.Cache
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewResponseCache creates a new response cache. The cleanup interval sweeps
// expired entries so ItemCount stays honest between reads.
func NewResponseCache(maxSize int) *ResponseCache {
	return &ResponseCache{
		cache:   gocache.New(gocache.NoExpiration, 5*time.Minute),
		maxSize: maxSize,
	}
}

// Get retrieves a cached value along with its expiry time. The expiry lets
// callers surface how stale an answer may be.
func (rc *ResponseCache) Get(key string) (interface{}, time.Time, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	value, expiry, found := rc.cache.GetWithExpiration(key)
	if found {
		rc.hitCount++
		rc.updateMetrics()
		return value, expiry, true
	}

	rc.missCount++
	rc.updateMetrics()
	return nil, time.Time{}, false
}

// Put stores a value under the given key for the given lifetime. A zero or
// negative TTL stores nothing, since the entry would be expired on arrival.
func (rc *ResponseCache) Put(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.cache.ItemCount() >= rc.maxSize {
		rc.cache.DeleteExpired()
	}

	rc.cache.Set(key, value, ttl)
}

// Delete removes a single entry.
func (rc *ResponseCache) Delete(key string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cache.Delete(key)
}

// Clear flushes the entire cache and resets counters.
func (rc *ResponseCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cache.Flush()
	rc.hitCount = 0
	rc.missCount = 0
}

// Stats returns cache statistics.
func (rc *ResponseCache) Stats() (hits, misses uint64, ratio float64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return rc.statsLocked()
}

func (rc *ResponseCache) statsLocked() (hits, misses uint64, ratio float64) {
	hits = rc.hitCount
	misses = rc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache, including expired items
// not yet swept.
func (rc *ResponseCache) ItemCount() int {
	return rc.cache.ItemCount()
}

// updateMetrics pushes cache gauges. Caller must hold mu.
func (rc *ResponseCache) updateMetrics() {
	_, _, ratio := rc.statsLocked()
	metrics.UpdateCacheStats(ratio, rc.cache.ItemCount())
}
