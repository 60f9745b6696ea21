package client

import (
	"context"
	"sync"
)

// Entity is anything with a stable identity the cache and the transition
// executor can address.
type Entity interface {
	EntityID() string
}

// ListCache holds one entity type's list. Reads go through the fetch
// function when the cache is empty or has been invalidated; writes replace
// the list wholesale and wake subscribers. The mutex serializes individual
// steps; overlapping transitions on the same id are not coordinated, the
// last network response to arrive wins.
type ListCache[E Entity] struct {
	mu     sync.Mutex
	items  []E
	loaded bool
	stale  bool
	subs   []chan struct{}
	fetch  func(ctx context.Context) ([]E, error)
}

func NewListCache[E Entity](fetch func(ctx context.Context) ([]E, error)) *ListCache[E] {
	return &ListCache[E]{fetch: fetch}
}

// Get returns the cached list, refetching from the authority when nothing
// is loaded yet or the entry has gone stale.
func (c *ListCache[E]) Get(ctx context.Context) ([]E, error) {
	c.mu.Lock()
	if c.loaded && !c.stale {
		out := cloneList(c.items)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	items, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.items = cloneList(items)
	c.loaded = true
	c.stale = false
	c.notifyLocked()
	c.mu.Unlock()

	return items, nil
}

// Snapshot returns a copy of the current list without fetching; ok is false
// when nothing has been loaded yet.
func (c *ListCache[E]) Snapshot() ([]E, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return nil, false
	}
	return cloneList(c.items), true
}

// Set replaces the cached list and notifies subscribers.
func (c *ListCache[E]) Set(items []E) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = cloneList(items)
	c.loaded = true
	c.stale = false
	c.notifyLocked()
}

// Invalidate marks the entry stale so the next Get refetches authoritative
// state, and notifies subscribers.
func (c *ListCache[E]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stale = true
	c.notifyLocked()
}

// Subscribe returns a channel that receives a coalesced signal on every
// cache write or invalidation.
func (c *ListCache[E]) Subscribe() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan struct{}, 1)
	c.subs = append(c.subs, ch)
	return ch
}

func (c *ListCache[E]) notifyLocked() {
	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func cloneList[E any](items []E) []E {
	out := make([]E, len(items))
	copy(out, items)
	return out
}
