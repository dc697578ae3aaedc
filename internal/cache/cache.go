// Package cache provides a content-hash-keyed TTL cache that makes repeated
// identical analysis requests return identical results despite the
// non-determinism of the underlying providers.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// Default TTLs per analysis kind.
const (
	// FullAnalysisTTL covers complete blended match results.
	FullAnalysisTTL = 24 * time.Hour
	// IntermediateTTL covers raw provider calls and extraction steps.
	IntermediateTTL = time.Hour
)

// Key derives a stable cache key from the normalized input tuple. Inputs are
// lower-cased and trimmed before hashing so formatting differences do not
// defeat the cache.
func Key(resumeText, jobText, kind string) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(resumeText))))
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(strings.TrimSpace(jobText))))
	h.Write([]byte{0})
	h.Write([]byte(kind))
	return hex.EncodeToString(h.Sum(nil))
}

// Stats reports cache effectiveness for operational monitoring.
type Stats struct {
	Size    int     `json:"size"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

type entry struct {
	value     any
	createdAt time.Time
	ttl       time.Duration
}

// Cache is a process-local TTL cache safe for concurrent use. Entries are
// evicted lazily on the first lookup past their expiry. Last write wins on
// racing sets; results for identical inputs are expected to be equivalent.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	hits    int64
	misses  int64

	now func() time.Time // injectable clock for tests
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key if it has not expired. Expired
// entries are evicted and reported as misses.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if c.now().Sub(e.createdAt) >= e.ttl {
		delete(c.entries, key)
		c.misses++
		return nil, false
	}
	c.hits++
	return e.value, true
}

// Set stores value under key with the given TTL, overwriting any existing
// entry. Identical recomputation is idempotent.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, createdAt: c.now(), ttl: ttl}
}

// Stats returns a snapshot of cache size and hit rate.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	rate := 0.0
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return Stats{
		Size:    len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: rate,
	}
}
