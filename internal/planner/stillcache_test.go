package planner

import (
	"testing"

	"github.com/fieldcast/mixer/internal/geom"
)

func TestGetMissOnEmptyCache(t *testing.T) {
	c := NewStillCache(0)
	if _, ok := c.Get("x"); ok {
		t.Fatalf("empty cache should miss")
	}
}

func TestPutThenGetHits(t *testing.T) {
	c := NewStillCache(0)
	verts := []geom.Vertex{{VX: 1, VY: 2}}
	c.Put("a", verts)
	got, ok := c.Get("a")
	if !ok {
		t.Fatalf("expected a hit after Put")
	}
	if len(got) != 1 || got[0] != verts[0] {
		t.Fatalf("got %+v, want %+v", got, verts)
	}
}

func TestSweepDropsUntouchedEntries(t *testing.T) {
	c := NewStillCache(0)
	c.Put("stale", []geom.Vertex{{VX: 1}})
	c.Put("fresh", []geom.Vertex{{VX: 2}})

	// Simulate one render tick where only "fresh" was visited again.
	c.Sweep()
	if _, ok := c.Get("fresh"); !ok {
		t.Fatalf("fresh entry should survive its own Sweep cycle")
	}
	c.Sweep()
	if _, ok := c.Get("stale"); ok {
		t.Fatalf("stale entry untouched across a Sweep should be evicted")
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Fatalf("fresh entry touched every cycle should survive")
	}
}

func TestSweepEnforcesSoftLimit(t *testing.T) {
	c := NewStillCache(2)
	c.Put("a", []geom.Vertex{{VX: 1}})
	c.Put("b", []geom.Vertex{{VX: 2}})
	c.Put("c", []geom.Vertex{{VX: 3}})
	c.Sweep()

	count := 0
	for _, k := range []string{"a", "b", "c"} {
		if _, ok := c.Get(k); ok {
			count++
		}
	}
	if count > 2 {
		t.Fatalf("soft limit of 2 should leave at most 2 entries, got %d", count)
	}
}
