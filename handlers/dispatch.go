package handlers

import (
	"sync"

	"github.com/gammazero/workerpool"
)

// channelDispatcher hands each channel its own single-worker pool so events
// for one conversation are processed in the order the platform delivered
// them, while unrelated conversations run fully in parallel. A pool only
// lives while its channel has events in flight: once its queue drains it is
// stopped and evicted, so the dispatcher's footprint tracks currently active
// conversations rather than every channel ever seen.
type channelDispatcher struct {
	mu    sync.Mutex
	pools map[string]*channelWorker
}

// channelWorker pairs a channel's pool with its in-flight task count.
// pending is guarded by the dispatcher mutex.
type channelWorker struct {
	pool    *workerpool.WorkerPool
	pending int
}

func newChannelDispatcher() *channelDispatcher {
	return &channelDispatcher{
		pools: make(map[string]*channelWorker),
	}
}

func (d *channelDispatcher) Submit(channelID string, task func()) {
	d.mu.Lock()
	worker, ok := d.pools[channelID]
	if !ok {
		worker = &channelWorker{pool: workerpool.New(1)} // Sequential processing per channel
		d.pools[channelID] = worker
	}
	worker.pending++
	d.mu.Unlock()

	worker.pool.Submit(func() {
		task()
		d.release(channelID, worker)
	})
}

// release retires the channel's pool once its last queued task has finished.
// The pool is stopped from a fresh goroutine because StopWait called from the
// pool's own worker would wait on itself. Eviction happens before the stop,
// so a new event for the same channel simply gets a fresh pool; the finished
// task already ran to completion, keeping the per-channel ordering intact.
func (d *channelDispatcher) release(channelID string, worker *channelWorker) {
	d.mu.Lock()
	worker.pending--
	idle := worker.pending == 0
	if idle && d.pools[channelID] == worker {
		delete(d.pools, channelID)
	}
	d.mu.Unlock()

	if idle {
		go worker.pool.StopWait()
	}
}

// StopWait drains every pool, blocking until all queued events are handled.
func (d *channelDispatcher) StopWait() {
	d.mu.Lock()
	workers := make([]*channelWorker, 0, len(d.pools))
	for _, worker := range d.pools {
		workers = append(workers, worker)
	}
	d.pools = make(map[string]*channelWorker)
	d.mu.Unlock()

	for _, worker := range workers {
		worker.pool.StopWait()
	}
}
