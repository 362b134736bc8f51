// Package canvas implements the immutable, reference-counted canvas
// state tree at the core of the paint engine.
//
// A [State] published by the canvas history (internal/history) is observed as fully immutable by
// any number of concurrent readers. A state forked via
// [GetOrMakeTransient] is known to have exactly one owner and may be
// mutated in place until it is frozen back into a published state.
package canvas

import "sync/atomic"

// State is an immutable-once-published snapshot of the canvas: its
// dimensions, offset, layer tree, layer-props tree, and the opaque
// annotation/metadata/timeline roots.
//
// The structure reachable from a published State must never be
// mutated. Mutation is only valid on a State for which
// [State.IsTransient] is true, which by construction has exactly one
// owner.
type State struct {
	Width, Height int
	OffsetX       int32
	OffsetY       int32

	Layers     *LayerNode
	LayerProps *LayerPropsNode
	Annotations *Annotations
	Metadata    *Metadata
	Timeline    *Timeline

	refs      atomic.Int32
	transient bool
}

// Annotations, Metadata, and Timeline are opaque collaborator data:
// their internal structure is out of scope for this engine. They exist
// here only so that their root pointers can be compared for identity,
// which is an acceptable proxy for change given the tree's immutability
// contract.
type Annotations struct{ _ byte }
type Metadata struct{ _ byte }
type Timeline struct{ _ byte }

// New creates a fresh, transient canvas state with a single owner.
// The caller owns the returned reference and must eventually call
// [State.Release].
func New(width, height int) *State {
	s := &State{
		Width:     width,
		Height:    height,
		transient: true,
	}
	s.refs.Store(1)
	return s
}

// Ref increments the reference count and returns s, for use when
// handing out an additional shared reference to a published
// (non-transient) state. Ref panics if called on a transient state:
// transient states must never be shared.
func (s *State) Ref() *State {
	if s.transient {
		panic("canvas: Ref called on a transient state")
	}
	s.refs.Add(1)
	return s
}

// Release drops one reference. Once the count reaches zero the state
// is eligible for garbage collection; Release itself does not free
// anything explicitly, since Go's GC owns actual memory reclamation.
//
// Release panics if the reference count would go negative, which
// indicates a double-release bug.
func (s *State) Release() {
	if s.refs.Add(-1) < 0 {
		panic("canvas: Release called more times than Ref")
	}
}

// RefCount returns the current reference count. Intended for tests
// verifying the ownership discipline, not for production control flow.
func (s *State) RefCount() int32 {
	return s.refs.Load()
}

// IsTransient reports whether s is known to have a single owner and
// may therefore be mutated in place.
func (s *State) IsTransient() bool {
	return s.transient
}

// GetOrMakeTransient returns a transient state equivalent to s: either
// s itself (if it is already uniquely owned) or a shallow fork with
// its own reference count of 1. When s is forked, the caller's
// reference to s is consumed (released) as part of the call — the
// Go counterpart of the usual get-or-make-transient contract for
// copy-on-write state trees, adapted to explicit Release instead of
// implicit drop-on-scope-exit.
func GetOrMakeTransient(s *State) *State {
	if s.transient {
		return s
	}
	if s.refs.Load() == 1 {
		// Sole remaining reference: reuse in place and flip the bit.
		s.transient = true
		return s
	}
	fork := &State{
		Width:       s.Width,
		Height:      s.Height,
		OffsetX:     s.OffsetX,
		OffsetY:     s.OffsetY,
		Layers:      s.Layers,
		LayerProps:  s.LayerProps,
		Annotations: s.Annotations,
		Metadata:    s.Metadata,
		Timeline:    s.Timeline,
		transient:   true,
	}
	fork.refs.Store(1)
	s.Release()
	return fork
}

// Freeze publishes a transient state: it becomes shareable and must
// not be mutated again by its former unique owner. The returned value
// is s, now safe to [State.Ref] from multiple goroutines.
func Freeze(s *State) *State {
	s.transient = false
	return s
}
