package drawdance

import (
	"testing"

	"github.com/csnover/drawdance/internal/meta"
	"github.com/csnover/drawdance/internal/queue"
)

func resetMsg() *queue.Message {
	return &queue.Message{Internal: &queue.Internal{Kind: queue.InternalReset}}
}

func laserMsg(ctx int32) *queue.Message {
	return &queue.Message{Type: queue.TypeLaserTrail, ContextID: ctx, Laser: &queue.LaserTrail{Persistence: 5, R: 255}}
}

func moveMsg(ctx int32, x, y int32) *queue.Message {
	return &queue.Message{Type: queue.TypeMovePointer, ContextID: ctx, Move: &queue.MovePointer{X: x, Y: y}}
}

func TestHandleIncLocalPushesOnlyDrawingAndInternal(t *testing.T) {
	e := newTestEngine(t)
	n := e.HandleInc(true, []*queue.Message{drawMsg(1), laserMsg(1), resetMsg()}, meta.Callbacks{})
	if n != 2 {
		t.Fatalf("HandleInc(local) pushed %d messages, want 2 (drawing + internal)", n)
	}
	waitForQueueDrain(t, e)
}

func TestHandleIncRemoteFoldsLaserTrailIntoMetaCallback(t *testing.T) {
	e := newTestEngine(t)

	var got []int
	cb := meta.Callbacks{
		LaserTrail: func(ctx int, _ uint8, _ meta.Color) { got = append(got, ctx) },
	}
	n := e.HandleInc(false, []*queue.Message{laserMsg(5), laserMsg(7), laserMsg(5)}, cb)
	if n != 0 {
		t.Fatalf("HandleInc pushed %d messages for laser-trail-only input, want 0", n)
	}
	if len(got) != 2 || got[0] != 5 || got[1] != 7 {
		t.Fatalf("laser callback fired for %v, want [5 7] in first-seen order", got)
	}
}

func TestHandleIncRemoteFoldsMovePointer(t *testing.T) {
	e := newTestEngine(t)

	var gotX, gotY int32
	var calls int
	cb := meta.Callbacks{
		MovePointer: func(_ int, x, y int32) { gotX, gotY = x, y; calls++ },
	}
	e.HandleInc(false, []*queue.Message{moveMsg(1, 10, 20), moveMsg(1, 30, 40)}, cb)
	if calls != 1 {
		t.Fatalf("move-pointer callback fired %d times, want 1 (last value wins)", calls)
	}
	if gotX != 30 || gotY != 40 {
		t.Fatalf("move-pointer callback reported (%d,%d), want (30,40)", gotX, gotY)
	}
}

func TestHandleIncRemotePushesAllowedDrawingMessage(t *testing.T) {
	e := newTestEngine(t)
	var flags uint32
	cb := meta.Callbacks{ACLsChanged: func(f uint32) { flags = f }}

	n := e.HandleInc(false, []*queue.Message{
		{Type: queue.DrawingTypeMin, ContextID: 99}, // allowed through allowAllACLs
	}, cb)
	if n != 1 {
		t.Fatalf("HandleInc pushed %d messages, want 1", n)
	}
	if flags != 0 {
		t.Fatalf("ACLsChanged fired with flags=%d under an allow-all policy, want 0", flags)
	}
	waitForQueueDrain(t, e)
}

// mixedRejectACLs filters odd context ids and ORs in a change flag for
// every message it evaluates, regardless of verdict.
type mixedRejectACLs struct{}

func (mixedRejectACLs) Evaluate(m *queue.Message) ACLFlags {
	if m.ContextID%2 != 0 {
		return ACLFiltered | 1<<4
	}
	return 1 << 4
}

func TestHandleIncRemoteACLRejectionDropsMessageSurfacesFlags(t *testing.T) {
	e := New(passthroughApplier{}, nil, mixedRejectACLs{}, nil, nil, nil)
	defer FreeJoin(e)

	var flags uint32
	cb := meta.Callbacks{ACLsChanged: func(f uint32) { flags = f }}

	n := e.HandleInc(false, []*queue.Message{drawMsg(1), drawMsg(2)}, cb)
	if n != 1 {
		t.Fatalf("HandleInc pushed %d messages, want 1 (only the even-context one)", n)
	}
	if flags&(1<<4) == 0 {
		t.Fatal("expected ACL change flags to be surfaced even though one message was filtered")
	}
	waitForQueueDrain(t, e)
}
