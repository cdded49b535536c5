// Package adapters provides the constituent cache implementations.
package adapters

import (
	"context"
	"sync"

	"marketcolor/internal/feature/constituents/domain/entity"
	"marketcolor/internal/feature/constituents/usecase"
)

// MemoryCache keeps the snapshot in process memory.
type MemoryCache struct {
	mu   sync.RWMutex
	snap entity.Snapshot
	ok   bool
}

var _ usecase.Cache = (*MemoryCache)(nil)

// NewMemoryCache returns an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

// Get returns the stored snapshot.
func (c *MemoryCache) Get(context.Context) (entity.Snapshot, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap, c.ok, nil
}

// Set replaces the stored snapshot.
func (c *MemoryCache) Set(_ context.Context, snap entity.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap, c.ok = snap, true
	return nil
}
