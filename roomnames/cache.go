package roomnames

import (
	"context"
	"sync"
)

// Cache holds words that have not been handed out yet, and remembers those that have
type Cache interface {
	// Add stores words that are neither cached nor used
	Add(ctx context.Context, words ...string) error
	// Pop removes and returns an arbitrary cached word. ok is false when the cache is empty.
	Pop(ctx context.Context) (word string, ok bool, err error)
	// MarkUsed records that a word was handed out
	MarkUsed(ctx context.Context, word string) error
	// Len returns the number of cached words
	Len(ctx context.Context) (int64, error)
}

// MemoryCache is a process-local Cache
type MemoryCache struct {
	mu        sync.Mutex
	available map[string]struct{}
	used      map[string]struct{}
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		available: make(map[string]struct{}),
		used:      make(map[string]struct{}),
	}
}

func (c *MemoryCache) Add(ctx context.Context, words ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, w := range words {
		if _, ok := c.used[w]; ok {
			continue
		}
		c.available[w] = struct{}{}
	}
	return nil
}

func (c *MemoryCache) Pop(ctx context.Context) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for w := range c.available {
		delete(c.available, w)
		return w, true, nil
	}
	return "", false, nil
}

func (c *MemoryCache) MarkUsed(ctx context.Context, word string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.used[word] = struct{}{}
	delete(c.available, word)
	return nil
}

func (c *MemoryCache) Len(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int64(len(c.available)), nil
}
