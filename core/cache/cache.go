// Package cache provides a small concurrency-safe memoization cache.
//
// The codec uses it to intern derived strings (attribute keys) so repeated
// names across a document share one allocation. A Cache may be handed to
// several parser instances; first insertion of a key is serialized by the
// internal mutex.
package cache

import "sync"

// Cache is a grow-only memoization cache. The zero value is not usable;
// create instances with New.
type Cache[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

// New creates an empty cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		m: make(map[K]V),
	}
}

// Get retrieves a value from the cache.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok
}

// Put stores a value in the cache.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
}

// GetOrCompute returns the cached value for key, computing and storing it on
// first use. compute may run more than once under contention; exactly one
// result is kept.
func (c *Cache[K, V]) GetOrCompute(key K, compute func(K) V) V {
	c.mu.RLock()
	v, ok := c.m[key]
	c.mu.RUnlock()
	if ok {
		return v
	}

	computed := compute(key)

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.m[key]; ok {
		return v
	}
	c.m[key] = computed
	return computed
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Clear removes all entries from the cache.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.m)
}
