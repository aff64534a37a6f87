// Package cache provides thread-safe caching utilities with time-based expiration.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// entry is a cached value and the time it was stored.
type entry[K comparable, V any] struct {
	key    K
	value  V
	stored time.Time
}

// TTLCache is a thread-safe cache with per-entry time-based expiration and
// an optional bound on the number of entries. When the bound is reached the
// least recently used entry is evicted.
type TTLCache[K comparable, V any] struct {
	mu         sync.Mutex
	items      map[K]*list.Element
	order      *list.List // front is most recently used
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	onEvict    func(key K, expired bool)
}

// New creates a new TTLCache with the given TTL duration. A maxEntries of
// zero or less means the cache is unbounded.
func New[K comparable, V any](ttl time.Duration, maxEntries int) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		items:      make(map[K]*list.Element),
		order:      list.New(),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// OnEvict registers a callback run, with the lock held, whenever an entry
// leaves the cache because it expired or because the cache was full.
func (c *TTLCache[K, V]) OnEvict(fn func(key K, expired bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get retrieves a value from the cache.
// Returns the value and ok=true if the key exists and has not expired.
// An expired entry is removed.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[K, V])
	if c.expiredLocked(e) {
		c.removeLocked(el, true)
		return zero, false
	}
	c.order.MoveToFront(el)
	return e.value, true
}

// Set stores a value in the cache, resetting its TTL.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[K, V])
		e.value = value
		e.stored = now
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value, stored: now})
	for c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		c.removeLocked(c.order.Back(), false)
	}
}

// Delete removes key from the cache if present.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.order.Remove(el)
		delete(c.items, key)
	}
}

// Purge removes every expired entry and returns how many were removed.
func (c *TTLCache[K, V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if c.expiredLocked(el.Value.(*entry[K, V])) {
			c.removeLocked(el, true)
			removed++
		}
		el = prev
	}
	return removed
}

// Invalidate clears all cached data.
func (c *TTLCache[K, V]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*list.Element)
	c.order.Init()
}

// Len returns the number of items currently in the cache.
// This does not check expiration - it returns the count including expired
// entries that have not been purged yet.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// expiredLocked reports whether e has outlived the TTL. MUST be called with
// the lock held.
func (c *TTLCache[K, V]) expiredLocked(e *entry[K, V]) bool {
	return c.ttl > 0 && c.now().Sub(e.stored) >= c.ttl
}

func (c *TTLCache[K, V]) removeLocked(el *list.Element, expired bool) {
	e := el.Value.(*entry[K, V])
	c.order.Remove(el)
	delete(c.items, e.key)
	if c.onEvict != nil {
		c.onEvict(e.key, expired)
	}
}
