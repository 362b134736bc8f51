// Package meta implements the per-tick aggregation buffers for
// non-drawing user-presence traffic: ACL change flags, laser trails,
// cursor moves, and default-layer sets, folded during intake and
// delivered once per tick.
//
// The bitmap-plus-dense-list idiom mirrors the teacher's tile dirty
// bitmap (internal/render, adapted from gogpu-gg's internal/parallel
// DirtyRegion): a fixed-capacity "active" presence bitmap plus a dense
// arrival-ordered list, so that each (user, kind) is reported at most
// once per tick while preserving first-seen order.
package meta

// MaxContexts bounds the number of distinct context ids trackable in
// one batch.
const MaxContexts = 256

// Color is a laser-trail's carried color, stored b/g/r/a to match the
// wire order.
type Color struct {
	B, G, R, A uint8
}

// LaserEntry is one context's most recently folded laser-trail state.
type LaserEntry struct {
	ContextID   int
	Persistence uint8
	Color       Color
}

// CursorEntry is one context's most recently folded pointer position.
type CursorEntry struct {
	ContextID int
	X, Y      int32
}

// Buffers holds the scratch aggregation state for one engine's
// lifetime, reused across calls to handle_inc. It is not safe for
// concurrent folding from multiple goroutines at once — intake being
// safe to call from multiple threads refers to the overall engine API,
// not concurrent mutation of one shared Buffers from two goroutines
// simultaneously; the engine type serializes folding with its own
// lock, see engine.go.
type Buffers struct {
	aclFlags uint32

	laserActive [MaxContexts]bool
	laserByCtx  map[int]int // ContextID -> index into laserUsers
	laserUsers  []LaserEntry

	cursorActive [MaxContexts]bool
	cursorByCtx  map[int]int
	cursorUsers  []CursorEntry

	hasDefaultLayer bool
	defaultLayer    int
}

// NewBuffers creates an empty aggregation scratch.
func NewBuffers() *Buffers {
	return &Buffers{
		laserByCtx:  make(map[int]int),
		cursorByCtx: make(map[int]int),
	}
}

// FoldACL ORs the ACL policy's returned change flags into the
// accumulator.
func (b *Buffers) FoldACL(flags uint32) {
	b.aclFlags |= flags
}

// FoldLaser records a laser-trail update for ctx. The first occurrence
// within a batch appends a dense entry; subsequent occurrences for the
// same ctx overwrite the stored value in place, so a tick reports at
// most one laser_trail callback per context.
func (b *Buffers) FoldLaser(ctx int, persistence uint8, c Color) {
	if ctx < 0 || ctx >= MaxContexts {
		return
	}
	entry := LaserEntry{ContextID: ctx, Persistence: persistence, Color: c}
	if idx, ok := b.laserByCtx[ctx]; ok {
		b.laserUsers[idx] = entry
		return
	}
	b.laserActive[ctx] = true
	b.laserByCtx[ctx] = len(b.laserUsers)
	b.laserUsers = append(b.laserUsers, entry)
}

// FoldCursor records a pointer-move update for ctx, with the same
// first-seen-append/overwrite-in-place semantics as FoldLaser.
func (b *Buffers) FoldCursor(ctx int, x, y int32) {
	if ctx < 0 || ctx >= MaxContexts {
		return
	}
	entry := CursorEntry{ContextID: ctx, X: x, Y: y}
	if idx, ok := b.cursorByCtx[ctx]; ok {
		b.cursorUsers[idx] = entry
		return
	}
	b.cursorActive[ctx] = true
	b.cursorByCtx[ctx] = len(b.cursorUsers)
	b.cursorUsers = append(b.cursorUsers, entry)
}

// SetDefaultLayer records a default-layer change; last-write-wins
// within a batch.
func (b *Buffers) SetDefaultLayer(id int) {
	b.hasDefaultLayer = true
	b.defaultLayer = id
}

// Deliver invokes the provided callbacks once per accumulated change:
// after the push phase, accumulated meta state is delivered
// synchronously to the caller, then all accumulation state is reset
// for the next batch.
func (b *Buffers) Deliver(cb Callbacks) {
	if b.aclFlags != 0 && cb.ACLsChanged != nil {
		cb.ACLsChanged(b.aclFlags)
	}
	if cb.LaserTrail != nil {
		for _, e := range b.laserUsers {
			cb.LaserTrail(e.ContextID, e.Persistence, e.Color)
		}
	}
	if cb.MovePointer != nil {
		for _, e := range b.cursorUsers {
			cb.MovePointer(e.ContextID, e.X, e.Y)
		}
	}
	if b.hasDefaultLayer && cb.DefaultLayerSet != nil {
		cb.DefaultLayerSet(b.defaultLayer)
	}
	b.reset()
}

func (b *Buffers) reset() {
	b.aclFlags = 0

	for _, e := range b.laserUsers {
		b.laserActive[e.ContextID] = false
	}
	b.laserUsers = b.laserUsers[:0]
	clearMap(b.laserByCtx)

	for _, e := range b.cursorUsers {
		b.cursorActive[e.ContextID] = false
	}
	b.cursorUsers = b.cursorUsers[:0]
	clearMap(b.cursorByCtx)

	b.hasDefaultLayer = false
	b.defaultLayer = 0
}

func clearMap(m map[int]int) {
	for k := range m {
		delete(m, k)
	}
}

// Callbacks is the set of per-change notifications Deliver invokes.
type Callbacks struct {
	ACLsChanged     func(flags uint32)
	LaserTrail      func(ctx int, persistence uint8, c Color)
	MovePointer     func(ctx int, x, y int32)
	DefaultLayerSet func(id int)
}
