// Package paintthread implements the single-consumer paint thread: it
// drains [queue.Queue], applies the multidab batching heuristic, and
// dispatches resulting batches to either the internal-message handler
// or [history.History].
//
// The consumer-loop shape is grounded on the render worker pool's
// goroutine (internal/render, adapted from gogpu-gg's
// internal/parallel pool worker: block on a wake signal, drain work
// under a lock, exit on a closed/done signal), reduced here from N
// workers to a single paint-thread consumer.
package paintthread

import (
	"context"
	"log/slog"

	"github.com/csnover/drawdance/internal/history"
	"github.com/csnover/drawdance/internal/queue"
)

// InternalHandler dispatches the five internal control message kinds.
// Implemented by the root engine type, which owns the history
// reset/soft-reset/snapshot operations, the catch-up atomic, and the
// preview pending-slot.
type InternalHandler interface {
	HandleInternal(msg *queue.Message)
}

// Thread runs the single-consumer paint thread loop until the queue
// is closed.
type Thread struct {
	q        *queue.Queue
	history  *history.History
	internal InternalHandler
	logger   *slog.Logger

	done chan struct{}
}

// New creates a paint thread wired to q, h, and internal. Run must be
// called (typically in its own goroutine) to start the loop.
func New(q *queue.Queue, h *history.History, internal InternalHandler, logger *slog.Logger) *Thread {
	if logger == nil {
		logger = slog.Default()
	}
	return &Thread{q: q, history: h, internal: internal, logger: logger, done: make(chan struct{})}
}

// Run executes the consumer loop until the queue is closed. It is
// intended to be the entire body of the paint thread's goroutine;
// Run returns once the thread has exited cleanly.
func (t *Thread) Run() {
	defer close(t.done)
	ctx := context.Background()
	for {
		if err := t.q.AcquireWait(ctx); err != nil {
			t.logger.Warn("paint thread: queue wait failed", "error", err)
			return
		}

		t.q.Lock()
		if !t.q.Running() {
			t.q.Unlock()
			return
		}
		batch, stream := t.takeBatch()
		t.q.Unlock()

		if len(batch) == 0 {
			continue
		}
		t.dispatch(stream, batch)
	}
}

// Done returns a channel closed once Run has returned, for callers
// (engine teardown) that need to join the thread.
func (t *Thread) Done() <-chan struct{} {
	return t.done
}

// takeBatch pops the front message of the highest-priority ready
// stream, then greedily grows the batch with further same-stream
// dabs while the running area stays under the multidab cap. Must be
// called while holding the queue lock; it releases no lock itself.
func (t *Thread) takeBatch() ([]*queue.Message, queue.Stream) {
	stream, ok := t.q.PickStream()
	if !ok {
		return nil, 0
	}

	first := t.q.PopFront(stream)
	batch := []*queue.Message{first}

	if first.Area() > queue.BatchAreaThreshold {
		return batch, stream
	}

	total := first.Area()
	for len(batch) < queue.MaxMultidabMessages {
		next := t.q.PeekFront(stream)
		if next == nil {
			break
		}
		area := next.Area()
		if total+area >= queue.MaxMultidabArea {
			break
		}
		if !t.q.TryDecrement() {
			break
		}
		t.q.PopFront(stream)
		batch = append(batch, next)
		total += area
	}
	return batch, stream
}

// dispatch routes a taken batch to the internal-message handler, a
// single-message apply, or a multidab apply, by stream and batch size.
func (t *Thread) dispatch(stream queue.Stream, batch []*queue.Message) {
	if len(batch) == 1 && batch[0].IsInternal() {
		t.internal.HandleInternal(batch[0])
		return
	}

	var err error
	switch {
	case len(batch) == 1 && stream == queue.StreamLocal:
		err = t.history.HandleLocal(batch[0])
	case len(batch) == 1:
		err = t.history.Handle(batch[0])
	case stream == queue.StreamLocal:
		err = t.history.HandleLocalMultidab(batch)
	default:
		err = t.history.HandleMultidab(batch)
	}
	if err != nil {
		t.logger.Warn("paint thread: history apply failed", "error", err)
	}
}
