package parallel

import (
	"sync/atomic"
	"testing"
)

func TestExecuteAllRunsEveryTask(t *testing.T) {
	p := New(4)
	defer p.Close()

	const n = 200
	var count atomic.Int64
	tasks := make([]func(), n)
	for i := range tasks {
		tasks[i] = func() { count.Add(1) }
	}
	p.ExecuteAll(tasks)
	if got := count.Load(); got != n {
		t.Fatalf("ran %d tasks, want %d", got, n)
	}
}

func TestWorkersReportsConfiguredCount(t *testing.T) {
	p := New(3)
	defer p.Close()
	if p.Workers() != 3 {
		t.Fatalf("Workers() = %d, want 3", p.Workers())
	}
}

func TestNewWithZeroUsesGOMAXPROCS(t *testing.T) {
	p := New(0)
	defer p.Close()
	if p.Workers() <= 0 {
		t.Fatalf("Workers() = %d, want > 0", p.Workers())
	}
}

func TestExecuteAllOnEmptyWorkIsNoop(t *testing.T) {
	p := New(2)
	defer p.Close()
	p.ExecuteAll(nil)
}

func TestCloseStopsAcceptingNewWork(t *testing.T) {
	p := New(2)
	p.Close()

	var ran atomic.Bool
	p.ExecuteAll([]func(){func() { ran.Store(true) }})
	if ran.Load() {
		t.Fatalf("ExecuteAll after Close should not run the task")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	p := New(2)
	p.Close()
	p.Close()
}
