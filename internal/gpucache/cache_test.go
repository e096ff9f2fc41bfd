package gpucache

import "testing"

func TestGetOrCreateCallsCreateOnceForRepeatKey(t *testing.T) {
	c := New[string, int](0)
	calls := 0
	create := func() (int, error) {
		calls++
		return 7, nil
	}
	v1, err := c.GetOrCreate("a", create)
	if err != nil || v1 != 7 {
		t.Fatalf("unexpected (%v,%v)", v1, err)
	}
	v2, err := c.GetOrCreate("a", create)
	if err != nil || v2 != 7 {
		t.Fatalf("unexpected (%v,%v)", v2, err)
	}
	if calls != 1 {
		t.Fatalf("create called %d times, want 1", calls)
	}
}

func TestGetMissOnEmptyCache(t *testing.T) {
	c := New[string, int](0)
	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected a miss on an empty cache")
	}
}

func TestDeleteRemovesEntry(t *testing.T) {
	c := New[string, int](0)
	c.GetOrCreate("a", func() (int, error) { return 1, nil })
	if !c.Delete("a") {
		t.Fatalf("Delete should report true for a present key")
	}
	if c.Delete("a") {
		t.Fatalf("Delete should report false for an already-removed key")
	}
	if _, ok := c.Get("a"); ok {
		t.Fatalf("deleted key should no longer be present")
	}
}

func TestDrainCallsOnEvictForEverySurvivor(t *testing.T) {
	c := New[string, int](0)
	c.GetOrCreate("a", func() (int, error) { return 1, nil })
	c.GetOrCreate("b", func() (int, error) { return 2, nil })
	var evicted []int
	c.Drain(func(v int) { evicted = append(evicted, v) })
	if len(evicted) != 2 {
		t.Fatalf("Drain should evict both entries, got %v", evicted)
	}
	if c.Len() != 0 {
		t.Fatalf("cache should be empty after Drain, len=%d", c.Len())
	}
}

func TestSoftLimitEvictsDownTowardsTarget(t *testing.T) {
	c := New[int, int](4)
	for i := 0; i < 8; i++ {
		i := i
		c.GetOrCreate(i, func() (int, error) { return i, nil })
	}
	if c.Len() > 4 {
		t.Fatalf("soft limit of 4 should bound cache size, got len=%d", c.Len())
	}
}

func TestCreateErrorIsNotCached(t *testing.T) {
	c := New[string, int](0)
	wantErr := errTest
	_, err := c.GetOrCreate("a", func() (int, error) { return 0, wantErr })
	if err != wantErr {
		t.Fatalf("got err %v, want %v", err, wantErr)
	}
	if c.Len() != 0 {
		t.Fatalf("a failed create should not add an entry, len=%d", c.Len())
	}
}

type testErr struct{}

func (testErr) Error() string { return "boom" }

var errTest error = testErr{}
