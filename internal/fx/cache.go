package fx

import (
	"sync"
	"time"

	"github.com/tellimer/indicator-normalizer/internal/econ"
)

// Cache is the interface the FX provider's cache layer implements.
// Implementations must be safe for concurrent use. TTLCache serializes
// reads and writes through one mutex (Get updates the entry's access
// time), so its reads are not wait-free.
type Cache interface {
	Get(key string) (econ.FXTable, bool)
	Set(key string, table econ.FXTable, ttl time.Duration)
}

// TTLCache is the default in-process cache, grounded on the teacher's
// internal/data/cache.TTLCache: a mutex-guarded map of time-bounded
// entries with an LRU-ish eviction when full.
type TTLCache struct {
	mu         sync.RWMutex
	entries    map[string]ttlEntry
	maxEntries int
}

type ttlEntry struct {
	table    econ.FXTable
	expires  time.Time
	accessed time.Time
}

// NewTTLCache creates an in-process TTL cache bounded to maxEntries
// distinct base currencies (practically always small; default 64 is
// generous headroom).
func NewTTLCache(maxEntries int) *TTLCache {
	if maxEntries <= 0 {
		maxEntries = 64
	}
	return &TTLCache{entries: make(map[string]ttlEntry), maxEntries: maxEntries}
}

// Get returns the cached table for key if present and unexpired, bumping
// its last-accessed time so it isn't the next LRU eviction candidate.
func (c *TTLCache) Get(key string) (econ.FXTable, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expires) {
		return econ.FXTable{}, false
	}
	e.accessed = time.Now()
	c.entries[key] = e
	return e.table, true
}

// Set stores table under key with the given TTL, evicting the least
// recently accessed entry first if the cache is full.
func (c *TTLCache) Set(key string, table econ.FXTable, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLRULocked()
	}
	now := time.Now()
	c.entries[key] = ttlEntry{table: table, expires: now.Add(ttl), accessed: now}
}

func (c *TTLCache) evictLRULocked() {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if oldest.IsZero() || e.accessed.Before(oldest) {
			oldest = e.accessed
			oldestKey = k
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
