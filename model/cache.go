package model

import "sync"

// Cache is a concurrency-safe snowflake-keyed store for hydrated models.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[Snowflake]T
}

// NewCache returns an empty cache.
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{entries: make(map[Snowflake]T)}
}

// Get returns the cached entry for id.
func (c *Cache[T]) Get(id Snowflake) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[id]

	return v, ok
}

// Put stores an entry, replacing any previous one under the same id.
func (c *Cache[T]) Put(id Snowflake, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[id] = v
}

// Delete removes the entry for id, if present.
func (c *Cache[T]) Delete(id Snowflake) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, id)
}

// Len returns the number of cached entries.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Values returns a snapshot of all cached entries in unspecified order.
func (c *Cache[T]) Values() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.entries))
	for _, v := range c.entries {
		out = append(out, v)
	}

	return out
}
