// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package picon

import "sync"

// Cache remembers URLs whose existence probe succeeded.
// Absence means unknown, never known bad.
type Cache interface {
	Contains(url string) bool
	Add(url string)
}

// URLCache is an insert-only, concurrency-safe set of verified URLs.
// The zero value is ready to use.
type URLCache struct {
	mu    sync.RWMutex
	set   map[string]struct{}
	order []string
}

// NewURLCache returns an empty cache.
func NewURLCache() *URLCache {
	return &URLCache{}
}

// Contains reports whether url was previously confirmed.
func (c *URLCache) Contains(url string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.set[url]
	return ok
}

// Add records url as confirmed. Adding a known URL is a no-op.
func (c *URLCache) Add(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.set == nil {
		c.set = make(map[string]struct{})
	}
	if _, ok := c.set[url]; ok {
		return
	}
	c.set[url] = struct{}{}
	c.order = append(c.order, url)
}

// Len returns the number of confirmed URLs.
func (c *URLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// URLs returns the confirmed URLs in insertion order.
func (c *URLCache) URLs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
