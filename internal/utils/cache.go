package utils

import (
	"sync"
	"sync/atomic"
)

// Cache memoizes values by key for the workers of one generation run
type Cache[K comparable, V any] struct {
	mu     sync.RWMutex
	items  map[K]V
	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats is a snapshot of a cache's size and counters
type CacheStats struct {
	Size   int
	Hits   int64
	Misses int64
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{items: map[K]V{}}
}

func (c *Cache[K, V]) lookup(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	return v, ok
}

// Get returns the value stored for key and counts a hit or a miss
func (c *Cache[K, V]) Get(key K) (V, bool) {
	v, ok := c.lookup(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	c.items[key] = value
	c.mu.Unlock()
}

// GetOrCompute returns the value for key, running compute once on a miss.
// Concurrent callers for the same key wait for the first computation. A
// failed computation is not stored. compute must not use c.
func (c *Cache[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.items[key]; ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return v, err
	}
	c.items[key] = v
	return v, nil
}

func (c *Cache[K, V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache[K, V]) Stats() CacheStats {
	return CacheStats{Size: c.Size(), Hits: c.hits.Load(), Misses: c.misses.Load()}
}
