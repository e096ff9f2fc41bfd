// Package async implements the render thread's task dispatch model of
// spec.md §5: a single dedicated goroutine drains a bounded FIFO queue of
// tasks, each returning a future/promise pair resolved on completion.
//
// This replaces the source renderer's stackful-fiber coroutines (Design
// Notes: "Coroutine-style async") with an explicit channel-based queue,
// in the spirit of the teacher's own sync.Pool/worker-queue idioms
// (internal/parallel.WorkerPool, scene.EncodingPool).
package async

import (
	"context"
	"sync"
)

// Future resolves to a value of type T once the producing task
// completes. The zero Future is not usable; construct one with
// NewPromise.
type Future[T any] struct {
	done chan struct{}
	mu   sync.Mutex
	val  T
	err  error
}

// Promise is the write side of a Future, held by the task that will
// eventually resolve it.
type Promise[T any] struct {
	f *Future[T]
}

// NewPromise creates a linked (Promise, Future) pair.
func NewPromise[T any]() (Promise[T], *Future[T]) {
	f := &Future[T]{done: make(chan struct{})}
	return Promise[T]{f: f}, f
}

// Resolve completes the future with a value and nil error. Resolve must
// be called at most once; subsequent calls are no-ops.
func (p Promise[T]) Resolve(v T) {
	p.f.mu.Lock()
	select {
	case <-p.f.done:
		p.f.mu.Unlock()
		return
	default:
	}
	p.f.val = v
	p.f.mu.Unlock()
	close(p.f.done)
}

// Reject completes the future with an error. A fence-wait timeout or a
// device_lost failure reaches the consumer this way: the render thread
// continues processing subsequent frames regardless (spec.md §7).
func (p Promise[T]) Reject(err error) {
	p.f.mu.Lock()
	select {
	case <-p.f.done:
		p.f.mu.Unlock()
		return
	default:
	}
	p.f.err = err
	p.f.mu.Unlock()
	close(p.f.done)
}

// Get blocks until the future resolves or ctx is done. The deferred
// host-visible map of spec.md §5 happens lazily: Get is the first point
// at which a consumer asks for data, so resolving a Future needn't
// perform the map itself.
//
// Cancellation: a canceled ctx makes Get return ctx.Err() immediately,
// but — per spec.md §5's cancellation model — does not stop the task
// that will eventually resolve this Future; the GPU work still completes
// so its resources can be reclaimed.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done reports whether the future has already resolved, without
// blocking.
func (f *Future[T]) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
