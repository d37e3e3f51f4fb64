// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a process-local card cache with per-entry expiry. Expired
// entries are dropped lazily on read.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[int64]memoryEntry
	now     func() time.Time
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[int64]memoryEntry),
		now:     time.Now,
	}
}

// WithClock replaces the cache's time source.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

// Get returns a copy of the cached value if it has not expired.
func (c *MemoryCache) Get(_ context.Context, categoryID int64) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[categoryID]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.entries[categoryID]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, categoryID)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

// Set stores a copy of value until now+ttl.
func (c *MemoryCache) Set(_ context.Context, categoryID int64, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultCardTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[categoryID] = memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Delete drops a single entry.
func (c *MemoryCache) Delete(_ context.Context, categoryID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, categoryID)
	return nil
}

// Flush drops every entry.
func (c *MemoryCache) Flush(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int64]memoryEntry)
	return nil
}

// Len returns the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
