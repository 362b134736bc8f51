// Package history implements canvas history: the sole mutator of
// committed canvas state, exposing compare_and_get, reset,
// soft_reset, snapshot, cleanup, and the
// handle/handle_local/handle_multidab/handle_local_multidab entry
// points the paint thread dispatches into.
//
// The committed state is published via an atomic pointer swap, the
// same idiom logger.go uses for its swappable *slog.Logger: writers
// (exclusively the paint thread) build a new immutable
// [canvas.State] and swap it in; readers (the tick thread, via
// [History.CompareAndGet]) only ever observe a fully-formed snapshot,
// never a half-mutated tree.
package history

import (
	"fmt"
	"sync/atomic"

	"github.com/csnover/drawdance/internal/canvas"
	"github.com/csnover/drawdance/internal/queue"
)

// UserCursor is one context's pointer position as surfaced by
// CompareAndGet's user_cursors output (distinct from the meta-buffer
// cursor aggregation in internal/meta, which feeds handle_inc
// callbacks instead).
type UserCursor struct {
	ContextID int32
	LayerID   int
	X, Y      int32
}

// SavePointFunc is invoked synchronously from within history mutation
// whenever a stable state is committed.
type SavePointFunc func(user any, cs *canvas.State, snapshotRequested bool)

// Applier applies one decoded command to a transient canvas state,
// returning an error if the command is malformed for the current
// history state. The actual command interpretation is an external
// collaborator; History only owns sequencing, publication, and error
// handling around it.
type Applier interface {
	Apply(cs *canvas.State, msg *queue.Message) (*canvas.State, []UserCursor, error)
}

// commit bundles a published canvas state with the user cursors
// gathered while producing it, so both fields are published together
// by one atomic pointer swap. Every commit advances the committed
// pointer, and CompareAndGet returns a commit's cursors only together
// with its new state — publishing them alongside the state they were
// gathered for keeps CompareAndGet race-free without a separate lock.
type commit struct {
	cs      *canvas.State
	cursors []UserCursor
}

// History owns the chain of committed canvas states plus the
// local-drawing-in-progress flag.
type History struct {
	committed atomic.Pointer[commit]

	apply Applier

	savePoint     SavePointFunc
	savePointUser any

	localDrawing atomic.Bool
}

// New creates a History whose initial committed state is initial (the
// caller transfers ownership of one reference). If initial is nil, an
// empty zero-sized published state is used.
func New(apply Applier, initial *canvas.State, savePoint SavePointFunc, savePointUser any) *History {
	h := &History{apply: apply, savePoint: savePoint, savePointUser: savePointUser}
	if initial == nil {
		initial = canvas.Freeze(canvas.New(0, 0))
	}
	h.committed.Store(&commit{cs: initial})
	return h
}

// CompareAndGet returns the current committed state and its user
// cursors if it differs from prev (by pointer identity), or (nil,
// nil) if committed state is pointer-equal to prev. The returned
// state carries a reference the caller owns.
func (h *History) CompareAndGet(prev *canvas.State) (*canvas.State, []UserCursor) {
	cur := h.committed.Load()
	if cur.cs == prev {
		return nil, nil
	}
	return cur.cs.Ref(), cur.cursors
}

// Reset discards history and returns to an empty committed state.
func (h *History) Reset() {
	prev := h.committed.Swap(&commit{cs: canvas.Freeze(canvas.New(0, 0))})
	prev.cs.Release()
}

// SoftReset truncates history to the current committed snapshot
// without discarding canvas content. Since this package keeps only
// the latest committed snapshot rather than a
// full undo chain, soft reset is a no-op on the committed pointer
// itself; it exists as a named operation so callers (and future undo
// history extensions) have a stable hook.
func (h *History) SoftReset() {}

// Snapshot requests a save-point callback for the current committed
// state. A failure to produce a snapshot is logged by the caller at
// warning, with no retry.
func (h *History) Snapshot() error {
	if h.savePoint == nil {
		return fmt.Errorf("history: snapshot requested but no save-point callback is configured")
	}
	h.savePoint(h.savePointUser, h.committed.Load().cs, true)
	return nil
}

// Cleanup releases history's own reference to its currently committed
// canvas state. It is intended to be called once during engine
// teardown, after the paint thread has stopped and no further history
// operations will run; calling any other method on h afterward is not
// supported.
func (h *History) Cleanup() {
	cur := h.committed.Load()
	if cur != nil && cur.cs != nil {
		cur.cs.Release()
	}
}

// SetLocalDrawingInProgress records whether the local user currently
// has an in-progress stroke, surfaced to hosts via
// local_drawing_in_progress_set.
func (h *History) SetLocalDrawingInProgress(v bool) {
	h.localDrawing.Store(v)
}

// LocalDrawingInProgress reports the most recently set value.
func (h *History) LocalDrawingInProgress() bool {
	return h.localDrawing.Load()
}

// Handle applies a single remote-stream message.
func (h *History) Handle(msg *queue.Message) error {
	return h.apply1(msg)
}

// HandleLocal applies a single local-stream message.
func (h *History) HandleLocal(msg *queue.Message) error {
	return h.apply1(msg)
}

// HandleMultidab applies a batch of remote-stream messages as one
// history mutation; ownership of every message's references transfers
// to history.
func (h *History) HandleMultidab(msgs []*queue.Message) error {
	return h.applyN(msgs)
}

// HandleLocalMultidab applies a batch of local-stream messages as one
// history mutation.
func (h *History) HandleLocalMultidab(msgs []*queue.Message) error {
	return h.applyN(msgs)
}

func (h *History) apply1(msg *queue.Message) error {
	return h.applyN([]*queue.Message{msg})
}

func (h *History) applyN(msgs []*queue.Message) error {
	cur := h.committed.Load()
	view := canvas.GetOrMakeTransient(cur.cs.Ref())

	var cursors []UserCursor
	for _, msg := range msgs {
		next, cs, err := h.apply.Apply(view, msg)
		if err != nil {
			return fmt.Errorf("history: apply command: %w", err)
		}
		view = next
		cursors = append(cursors, cs...)
	}

	published := canvas.Freeze(view)
	prev := h.committed.Swap(&commit{cs: published, cursors: cursors})
	prev.cs.Release()

	if h.savePoint != nil {
		h.savePoint(h.savePointUser, published, false)
	}
	return nil
}
