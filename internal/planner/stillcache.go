// Package planner implements the render driver's still-item result
// cache: a frozen graphic's
// resolved polygon does not need re-resolving on every render tick while
// its transform chain and geometry are unchanged, mirroring the source
// CPU image mixer's per-still cache between ticks.
package planner

import "github.com/fieldcast/mixer/internal/geom"

// StillCache holds the last resolved polygon for each still item, keyed
// by a fingerprint of its transform chain and geometry. A cache hit lets
// the accelerator skip the resolver entirely for that item this render.
type StillCache struct {
	entries   map[string]entry
	softLimit int
}

type entry struct {
	verts   []geom.Vertex
	touched bool
}

// NewStillCache creates a cache retaining at most softLimit fingerprints
// between sweeps; 0 means unlimited.
func NewStillCache(softLimit int) *StillCache {
	return &StillCache{entries: make(map[string]entry), softLimit: softLimit}
}

// Get returns the cached polygon for key, marking it touched so Sweep
// keeps it.
func (c *StillCache) Get(key string) ([]geom.Vertex, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	e.touched = true
	c.entries[key] = e
	return e.verts, true
}

// Put stores the resolved polygon for key, marked touched for this render.
func (c *StillCache) Put(key string, verts []geom.Vertex) {
	c.entries[key] = entry{verts: verts, touched: true}
}

// Sweep drops every fingerprint that was not touched since the previous
// Sweep (its still stopped being visited) and clears the touched mark on
// the rest. Call once per completed render.
func (c *StillCache) Sweep() {
	for k, e := range c.entries {
		if !e.touched {
			delete(c.entries, k)
			continue
		}
		e.touched = false
		c.entries[k] = e
	}
	if c.softLimit > 0 && len(c.entries) > c.softLimit {
		for k := range c.entries {
			if len(c.entries) <= c.softLimit {
				break
			}
			delete(c.entries, k)
		}
	}
}
