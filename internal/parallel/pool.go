package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of goroutines that execute range-partitioned work.
//
// Shader stages are data-parallel: every invocation depends only on its own
// input and shared read-only state. Pool exploits that by splitting an index
// range into contiguous chunks and handing each chunk to a worker. No ordering
// between chunks is guaranteed.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	// workers is the number of worker goroutines.
	workers int

	// jobs is the shared work queue.
	jobs chan func()

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool
}

// NewPool creates a pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		workers: workers,
		jobs:    make(chan func(), workers*4),
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

var (
	defaultOnce sync.Once
	defaultPool *Pool
)

// Default returns a process-wide pool sized to GOMAXPROCS. It is created
// on first use and never closed.
func Default() *Pool {
	defaultOnce.Do(func() {
		defaultPool = NewPool(0)
	})
	return defaultPool
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case job := <-p.jobs:
			job()
		}
	}
}

// Run calls fn over [0, n) split into chunks of at most grain indices and
// waits for every chunk to complete. fn receives a half-open range [lo, hi).
//
// Small ranges, a single-worker pool, and a closed pool run inline on the
// calling goroutine.
func (p *Pool) Run(n, grain int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if grain <= 0 {
		grain = (n + p.workers - 1) / p.workers
	}
	if n <= grain || p.workers == 1 || !p.running.Load() {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += grain {
		hi := min(lo+grain, n)
		wg.Add(1)
		job := func() {
			defer wg.Done()
			fn(lo, hi)
		}
		select {
		case p.jobs <- job:
		case <-p.done:
			// Pool is closing; finish the remainder here.
			job()
		}
	}
	wg.Wait()
}

// Close stops all workers. Work already queued is abandoned only if no
// worker picks it up before shutdown, so callers must not Close a pool
// while Run is in progress. Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning returns true if the pool is still accepting work.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}
