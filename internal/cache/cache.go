// Package cache provides a volatile, time-expiring memoization map. It is
// a latency optimization only: callers must behave identically with the
// cache disabled.
package cache

import (
	"time"

	"github.com/puzpuzpuz/xsync/v4"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache memoizes values under string keys for a fixed lifetime. Lookups
// lazily evict expired entries; there is no background sweep. A zero or
// negative TTL disables the cache entirely.
type TTLCache[V any] struct {
	ttl     time.Duration
	entries *xsync.Map[string, entry[V]]

	now func() time.Time
}

// New constructs a cache with the given entry lifetime.
func New[V any](ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		ttl:     ttl,
		entries: xsync.NewMap[string, entry[V]](),
		now:     time.Now,
	}
}

// Get returns the value stored under key if it is still fresh. An expired
// entry is dropped on the spot.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	var zero V
	if c.ttl <= 0 {
		return zero, false
	}
	e, ok := c.entries.Load(key)
	if !ok {
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		c.entries.Delete(key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key for the cache lifetime, replacing any
// previous entry.
func (c *TTLCache[V]) Set(key string, value V) {
	if c.ttl <= 0 {
		return
	}
	c.entries.Store(key, entry[V]{value: value, expiresAt: c.now().Add(c.ttl)})
}
