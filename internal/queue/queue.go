package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Stream identifies which FIFO a message came from or belongs to.
type Stream int

const (
	StreamLocal Stream = iota
	StreamRemote
)

// Queue is the dual local/remote FIFO: one shared mutex guards both
// slices, one shared counting semaphore's value equals
// len(local)+len(remote) at rest.
//
// golang.org/x/sync/semaphore.Weighted is used as the counting
// semaphore: Release(1) is "post", Acquire(ctx, 1) is a blocking wait,
// TryAcquire(1) is the non-blocking "decrement, already known
// available" operation used when consuming peeked-ahead messages
// under the held lock, since the producer already posted for that
// item.
type Queue struct {
	mu      sync.Mutex
	local   []*Message
	remote  []*Message
	sem     *semaphore.Weighted
	running atomic.Bool
}

// New creates an empty, running queue.
func New() *Queue {
	q := &Queue{sem: semaphore.NewWeighted(1 << 30)}
	// A Weighted starts with its whole size available; claim all of it
	// so the available count starts at zero and tracks pushed messages.
	q.sem.TryAcquire(1 << 30)
	q.running.Store(true)
	return q
}

// Push appends msgs to the local or remote FIFO and posts the
// semaphore once per message. Callers (intake.go) are responsible for
// only passing messages that must be queued: folded or dropped
// messages never touch the queue mutex.
func (q *Queue) Push(stream Stream, msgs []*Message) int {
	if len(msgs) == 0 {
		return 0
	}
	q.mu.Lock()
	if stream == StreamLocal {
		q.local = append(q.local, msgs...)
	} else {
		q.remote = append(q.remote, msgs...)
	}
	q.mu.Unlock()

	q.sem.Release(int64(len(msgs)))
	return len(msgs)
}

// Close marks the queue as shut down and posts the semaphore once, so
// that a paint thread blocked in AcquireWait wakes and observes
// Running() == false.
func (q *Queue) Close() {
	q.running.Store(false)
	q.sem.Release(1)
}

// Running reports whether the queue is still accepting consumption.
// Must be checked only while holding the lock acquired via
// Lock/Unlock, immediately after AcquireWait returns, to avoid a
// race between the shutdown post and a producer's post.
func (q *Queue) Running() bool {
	return q.running.Load()
}

// AcquireWait blocks until a message has been posted (or the context
// is cancelled). It does not itself take the queue lock.
func (q *Queue) AcquireWait(ctx context.Context) error {
	return q.sem.Acquire(ctx, 1)
}

// Lock acquires the queue mutex for a batching critical section.
// Callers must call Unlock when done.
func (q *Queue) Lock()   { q.mu.Lock() }
func (q *Queue) Unlock() { q.mu.Unlock() }

// PickStream returns the stream the next shift should consume from:
// local is preferred over remote whenever both have messages, since
// the local stream preempts the remote one at each paint-thread wake.
// Must be called while holding the lock.
func (q *Queue) PickStream() (Stream, bool) {
	if len(q.local) > 0 {
		return StreamLocal, true
	}
	if len(q.remote) > 0 {
		return StreamRemote, true
	}
	return 0, false
}

// PopFront removes and returns the front message of stream. Must be
// called while holding the lock. Returns nil if the stream is empty.
func (q *Queue) PopFront(stream Stream) *Message {
	slice := q.sliceFor(stream)
	if len(*slice) == 0 {
		return nil
	}
	m := (*slice)[0]
	*slice = (*slice)[1:]
	return m
}

// PeekFront returns (without removing) the front message of stream,
// or nil if empty. Must be called while holding the lock.
func (q *Queue) PeekFront(stream Stream) *Message {
	slice := q.sliceFor(stream)
	if len(*slice) == 0 {
		return nil
	}
	return (*slice)[0]
}

// TryDecrement performs the non-blocking "already posted" semaphore
// decrement for an extra batched item. Must be called while holding
// the lock, after confirming via PeekFront that an item is actually
// present.
func (q *Queue) TryDecrement() bool {
	return q.sem.TryAcquire(1)
}

func (q *Queue) sliceFor(stream Stream) *[]*Message {
	if stream == StreamLocal {
		return &q.local
	}
	return &q.remote
}

// Len returns the combined length of both FIFOs. Intended for tests
// verifying that the semaphore value equals combined queue length at
// rest.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.local) + len(q.remote)
}

// Drain removes and returns every remaining message from both FIFOs,
// local first. Used by engine teardown to dispose any pending preview
// install messages during cancellation.
func (q *Queue) Drain() []*Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	all := make([]*Message, 0, len(q.local)+len(q.remote))
	all = append(all, q.local...)
	all = append(all, q.remote...)
	q.local = nil
	q.remote = nil
	return all
}
