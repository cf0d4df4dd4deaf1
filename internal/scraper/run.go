package scraper

import (
	"context"
	"sync"
)

// RunFunc is anything that crawls until ctx is cancelled or stop is closed.
// Runner.Run satisfies it.
type RunFunc func(ctx context.Context, stop <-chan struct{}) (Stats, error)

// Run is the handle of a crawl executing on its own goroutine.
type Run struct {
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	stats    Stats
	err      error
}

// Start launches fn in the background.
func Start(ctx context.Context, fn RunFunc) *Run {
	r := &Run{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go func() {
		defer close(r.done)
		r.stats, r.err = fn(ctx, r.stop)
	}()
	return r
}

// Stop asks the crawl to finish after the page it is working on. Safe to
// call more than once.
func (r *Run) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// Done is closed once the crawl has terminated.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the crawl terminates and returns its result.
func (r *Run) Wait() (Stats, error) {
	<-r.done
	return r.stats, r.err
}
