package client

import (
	"strings"
	"sync"
	"time"
)

// memCache is the in-memory response cache. Keys are resource paths
// ("expenses", "expenses/42", "dashboard"); entries older than their TTL
// are served as stale fallbacks, not dropped.
type memCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	payload   []byte
	fetchedAt time.Time
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]cacheEntry)}
}

// get returns the cached payload and whether it is still fresh under ttl.
func (c *memCache) get(key string, ttl time.Duration, now time.Time) (payload []byte, fresh, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, false
	}
	return e.payload, now.Sub(e.fetchedAt) < ttl, true
}

func (c *memCache) put(key string, payload []byte, fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{payload: payload, fetchedAt: fetchedAt}
}

// invalidatePrefix drops every entry whose key is prefix or prefix/...
// and returns the dropped keys so the persisted copy can follow.
func (c *memCache) invalidatePrefix(prefix string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var dropped []string
	for key := range c.entries {
		if key == prefix || strings.HasPrefix(key, prefix+"/") {
			delete(c.entries, key)
			dropped = append(dropped, key)
		}
	}
	return dropped
}

// invalidationTargets maps a mutated resource to every cached resource
// that derives from it. The dashboard aggregates almost everything;
// category spend totals follow expenses.
var invalidationTargets = map[string][]string{
	"expenses":           {"expenses", "dashboard", "daily-spending", "expense-categories", "calendar-days"},
	"expense-categories": {"expense-categories", "dashboard", "daily-spending"},
	"settings":           {"settings", "dashboard", "daily-spending"},
	"calendar-days":      {"calendar-days", "dashboard", "events"},
	"events":             {"events", "calendar-days", "dashboard"},
	"flights":            {"flights", "dashboard"},
	"hotels":             {"hotels", "dashboard"},
}

// dependentsOf returns the cache prefixes to drop after mutating resource.
func dependentsOf(resource string) []string {
	if targets, ok := invalidationTargets[resource]; ok {
		return targets
	}
	return []string{resource}
}
