package cache

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryCache keeps recently styled results in process memory for the
// lifetime of a server. Once MaxEntries is reached the oldest entry is
// evicted. A cache with no room stores nothing, which is how caching is
// disabled.
type MemoryCache struct {
	mu      sync.Mutex
	max     int
	entries map[string]memoryEntry
	order   []string // keys by insertion, oldest first
	now     func() time.Time
}

type memoryEntry struct {
	data    []byte
	expires time.Time // zero never expires
}

// NewMemoryCache creates a cache holding at most maxEntries results.
// maxEntries <= 0 gives a cache that never stores anything.
func NewMemoryCache(maxEntries int) *MemoryCache {
	return &MemoryCache{
		max:     max(maxEntries, 0),
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Disabled returns a cache that never stores anything.
func Disabled() Cache {
	return NewMemoryCache(0)
}

// Get returns a copy of the stored value. Expired entries are dropped.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.remove(key)
		return nil, false, nil
	}
	return slices.Clone(e.data), true, nil
}

// Set stores a copy of data, evicting the oldest entries when full.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if c.max == 0 {
		return nil
	}
	e := memoryEntry{data: slices.Clone(data)}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.remove(key)
	for len(c.order) >= c.max {
		c.remove(c.order[0])
	}
	c.entries[key] = e
	c.order = append(c.order, key)
	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close drops every entry.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.order = nil
	return nil
}

// remove deletes key; c.mu must be held.
func (c *MemoryCache) remove(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	if i := slices.Index(c.order, key); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
}

var _ Cache = (*MemoryCache)(nil)
