package cache

import (
	"sync"
	"time"
)

// record is one cached translation with the time it was stored, used for
// TTL checks.
type record struct {
	translated string
	storedAt   time.Time
}

func (r record) stale(ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(r.storedAt) > ttl
}

// InMemoryCache holds translated strings keyed by source-text hash and
// target language. It is safe for concurrent use by the batch translator's
// workers. Stale records are dropped lazily on read.
type InMemoryCache struct {
	mu      sync.RWMutex
	records map[string]record
	ttl     time.Duration
}

// NewInMemoryCache creates a cache whose records expire after ttlSeconds.
// Zero or negative means records never expire.
func NewInMemoryCache(ttlSeconds int) *InMemoryCache {
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return &InMemoryCache{
		records: make(map[string]record),
		ttl:     ttl,
	}
}

// Get returns the cached translation for key, or false if the key is
// absent or its record has expired.
func (c *InMemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	rec, ok := c.records[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}

	if rec.stale(c.ttl, time.Now()) {
		c.mu.Lock()
		delete(c.records, key)
		c.mu.Unlock()
		return "", false
	}

	return rec.translated, true
}

// Set stores a translation under key. Always succeeds.
func (c *InMemoryCache) Set(key string, value string) error {
	c.mu.Lock()
	c.records[key] = record{translated: value, storedAt: time.Now()}
	c.mu.Unlock()
	return nil
}

// Len returns the number of records, counting expired ones that have not
// been read since they went stale.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Clear drops every record.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	c.records = make(map[string]record)
	c.mu.Unlock()
}

// Entries returns a copy of all live records as key-value pairs, for
// snapshotting the cache to a file.
func (c *InMemoryCache) Entries() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	out := make(map[string]string, len(c.records))
	for key, rec := range c.records {
		if rec.stale(c.ttl, now) {
			continue
		}
		out[key] = rec.translated
	}
	return out
}
