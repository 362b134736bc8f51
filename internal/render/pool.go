package render

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Pool is the render worker pool, sized to approximately the host CPU
// count. Adapted from the teacher's WorkerPool
// (internal/parallel/pool.go): the per-worker queue plus work-stealing
// goroutine shape is kept verbatim; ExecuteAll's completion tracking
// is replaced with an explicit tiles-waiting/tiles-done semaphore
// (golang.org/x/sync/semaphore.Weighted) instead of a generic
// sync.WaitGroup, since PrepareRender/RenderEverything/
// RenderTileBounds each reset that count explicitly per call.
type Pool struct {
	workers    int
	workQueues []chan func(execID int)
	done       chan struct{}
	wg         sync.WaitGroup
	running    atomic.Bool
	tilesDone  *semaphore.Weighted
}

// NewPool creates a pool of the given size. If workers <= 0,
// runtime.GOMAXPROCS(0) is used, approximating the host CPU count.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &Pool{
		workers:    workers,
		workQueues: make([]chan func(execID int), workers),
		done:       make(chan struct{}),
		tilesDone:  semaphore.NewWeighted(1 << 30),
	}
	// A Weighted starts with its whole size available; claim all of it
	// so each finished job's Release(1) makes exactly one permit free.
	p.tilesDone.TryAcquire(1 << 30)
	for i := 0; i < workers; i++ {
		p.workQueues[i] = make(chan func(execID int), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	myQueue := p.workQueues[id]

	for {
		select {
		case <-p.done:
			p.drainQueue(id, myQueue)
			return
		case work := <-myQueue:
			if work != nil {
				work(id)
			}
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen(id)
			} else {
				select {
				case <-p.done:
					p.drainQueue(id, myQueue)
					return
				case work := <-myQueue:
					if work != nil {
						work(id)
					}
				}
			}
		}
	}
}

// drainQueue runs every remaining job in q with the calling worker's
// own id, since whichever goroutine drains a queue at shutdown is the
// one that actually executes the job, same as the steal path below.
func (p *Pool) drainQueue(id int, q chan func(execID int)) {
	for {
		select {
		case work := <-q:
			if work != nil {
				work(id)
			}
		default:
			return
		}
	}
}

// steal dequeues one job from another worker's queue without running
// it, so the caller can execute it with its own id rather than the
// id the job was originally enqueued under.
func (p *Pool) steal(myID int) func(execID int) {
	for i := 0; i < p.workers; i++ {
		if i == myID {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// Dispatch enqueues one render job per position in positions, each
// wrapped to post the tiles-done semaphore on completion, then blocks
// until every job has posted ("enqueue... increment a tiles-waiting
// counter... wait on the tiles-done semaphore exactly tiles_waiting
// times, then reset the counter"). job is called with the id of the
// goroutine that actually executes it (0..Workers()-1) — which, once
// work-stealing is in play, may differ from the queue it was
// originally enqueued on — the scratch index the caller uses to avoid
// cross-worker buffer aliasing.
func (p *Pool) Dispatch(positions [][2]int, job func(workerID, tx, ty int)) {
	n := len(positions)
	if n == 0 || !p.running.Load() {
		return
	}

	for i, pos := range positions {
		enqueueID := i % p.workers
		tx, ty := pos[0], pos[1]
		wrapped := func(execID int) {
			defer p.tilesDone.Release(1)
			job(execID, tx, ty)
		}
		select {
		case p.workQueues[enqueueID] <- wrapped:
		case <-p.done:
			p.tilesDone.Release(1)
		}
	}

	ctx := context.Background()
	for i := 0; i < n; i++ {
		_ = p.tilesDone.Acquire(ctx, 1)
	}
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

// Close shuts the pool down, draining and executing any queued work
// before the worker goroutines exit. Safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}
