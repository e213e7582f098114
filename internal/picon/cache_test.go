// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package picon

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLCache_AddContains(t *testing.T) {
	var c URLCache
	assert.False(t, c.Contains("http://box/picon/itv2.png"))

	c.Add("http://box/picon/itv2.png")
	c.Add("http://box/picon/itv2.png")
	c.Add("http://box/picon/bbcone.png")

	assert.True(t, c.Contains("http://box/picon/itv2.png"))
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"http://box/picon/itv2.png", "http://box/picon/bbcone.png"}, c.URLs())
}

func TestURLCache_ConcurrentAdd(t *testing.T) {
	c := NewURLCache()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				u := fmt.Sprintf("http://box/picon/%d.png", i)
				c.Add(u)
				_ = c.Contains(u)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
	seen := make(map[string]bool)
	for _, u := range c.URLs() {
		assert.False(t, seen[u], "duplicate entry %s", u)
		seen[u] = true
	}
}
