// Package cache memoizes per-vessel values keyed by entity handle.
package cache

import (
	"sync"

	"github.com/san-kum/hydrodrag/internal/entity"
)

// Factory builds the value for a handle on a cache miss.
type Factory[T any] func(h entity.Handle) T

// Cache is a handle-keyed store with a one-slot shortcut for the handle
// that was looked up last. Entries are dropped when the registry it
// watches destroys their handle.
type Cache[T any] struct {
	mu      sync.Mutex
	factory Factory[T]
	entries map[entity.Handle]T
	reg     *entity.Registry

	lastKey   entity.Handle
	lastValue T
	hasLast   bool
}

func New[T any](factory Factory[T]) *Cache[T] {
	return &Cache[T]{
		factory: factory,
		entries: make(map[entity.Handle]T),
	}
}

// Watch subscribes the cache to destroy notifications of reg. Handles that
// reg reports as dead are never stored.
func (c *Cache[T]) Watch(reg *entity.Registry) *Cache[T] {
	c.mu.Lock()
	c.reg = reg
	c.mu.Unlock()
	reg.Subscribe(c)
	return c
}

// Get returns the cached value for h, building it with the constructor
// factory on a miss.
func (c *Cache[T]) Get(h entity.Handle) T {
	return c.GetFunc(h, c.factory)
}

// GetFunc is Get with an explicit factory.
func (c *Cache[T]) GetFunc(h entity.Handle, factory Factory[T]) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hasLast && c.lastKey == h {
		return c.lastValue
	}
	if v, ok := c.entries[h]; ok {
		c.remember(h, v)
		return v
	}

	var v T
	if factory != nil {
		v = factory(h)
	}
	if c.reg != nil && !c.reg.Alive(h) {
		return v
	}
	c.entries[h] = v
	c.remember(h, v)
	return v
}

// Peek returns the stored value without invoking any factory.
func (c *Cache[T]) Peek(h entity.Handle) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[h]
	return v, ok
}

func (c *Cache[T]) Set(h entity.Handle, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reg != nil && !c.reg.Alive(h) {
		return
	}
	c.entries[h] = v
	c.remember(h, v)
}

// Forget drops the entry for h. It satisfies entity.Listener.
func (c *Cache[T]) Forget(h entity.Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, h)
	if c.hasLast && c.lastKey == h {
		var zero T
		c.lastKey, c.lastValue, c.hasLast = entity.Handle{}, zero, false
	}
}

// Clear drops every entry.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	var zero T
	c.lastKey, c.lastValue, c.hasLast = entity.Handle{}, zero, false
}

func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[T]) remember(h entity.Handle, v T) {
	c.lastKey, c.lastValue, c.hasLast = h, v, true
}
