package drawdance

import (
	"testing"

	"github.com/csnover/drawdance/internal/canvas"
	"github.com/csnover/drawdance/internal/history"
	"github.com/csnover/drawdance/internal/render"
)

func TestMarkLayerDiffMarksOnlyChangedContentBounds(t *testing.T) {
	diff := render.NewTileDiff(4, 4)
	diff.Clear()

	unchanged := &fakeContent{0, 0, 64, 64}
	prev := canvas.NewGroupLayer(0,
		canvas.NewContentLayer(1, unchanged),
		canvas.NewContentLayer(2, &fakeContent{128, 128, 64, 64}),
	)
	cur := canvas.NewGroupLayer(0,
		canvas.NewContentLayer(1, unchanged),
		canvas.NewContentLayer(2, &fakeContent{128, 128, 64, 64}),
	)

	markLayerDiff(diff, prev, cur)
	if diff.Count() != 1 || !diff.IsChanged(2, 2) {
		t.Fatalf("only layer 2's re-created content tile (2,2) should be marked, got %d tiles", diff.Count())
	}
}

func TestMarkLayerDiffMarksChangedLeafBounds(t *testing.T) {
	diff := render.NewTileDiff(4, 4)
	diff.Clear()

	prev := canvas.NewGroupLayer(0, canvas.NewContentLayer(1, &fakeContent{0, 0, 64, 64}))
	cur := canvas.NewGroupLayer(0, canvas.NewContentLayer(1, &fakeContent{0, 0, 64, 64})) // different pointer, same bounds

	markLayerDiff(diff, prev, cur)
	if !diff.IsChanged(0, 0) {
		t.Fatal("a changed content pointer should mark the tile its bounds intersect")
	}
}

func TestMarkLayerDiffMarksEverythingOnShapeChange(t *testing.T) {
	diff := render.NewTileDiff(4, 4)
	diff.Clear()

	prev := canvas.NewGroupLayer(0, canvas.NewContentLayer(1, &fakeContent{0, 0, 64, 64}))
	cur := canvas.NewGroupLayer(0,
		canvas.NewContentLayer(1, &fakeContent{0, 0, 64, 64}),
		canvas.NewContentLayer(2, &fakeContent{128, 128, 64, 64}),
	)

	markLayerDiff(diff, prev, cur)
	if diff.Count() != 16 {
		t.Fatalf("an added child should conservatively mark the whole grid, got %d/16 tiles", diff.Count())
	}
}

func TestEmitDiffFiresResizedOnDimensionChange(t *testing.T) {
	e := newTestEngine(t)
	e.renderer.PrepareRender(func() (int, int) { return 64, 64 })

	prev := canvas.Freeze(canvas.New(64, 64))
	cur := canvas.Freeze(canvas.New(128, 64))
	cur.OffsetX = 0

	var gotPrevW int
	cb := TickCallbacks{Resized: func(_, _ int32, prevW, _ int) { gotPrevW = prevW }}
	e.emitDiff(prev, cur, nil, cb)
	if gotPrevW != 64 {
		t.Fatalf("Resized callback reported prevW=%d, want 64", gotPrevW)
	}
}

func TestEmitDiffFiresCursorMovedInOrder(t *testing.T) {
	e := newTestEngine(t)
	cs := canvas.Freeze(canvas.New(32, 32))

	var gotCtx []int32
	cb := TickCallbacks{CursorMoved: func(ctx int32, _ int, _, _ int32) { gotCtx = append(gotCtx, ctx) }}
	cursors := []history.UserCursor{{ContextID: 3, X: 1, Y: 1}, {ContextID: 7, X: 2, Y: 2}}
	e.emitDiff(cs, cs, cursors, cb)
	if len(gotCtx) != 2 || gotCtx[0] != 3 || gotCtx[1] != 7 {
		t.Fatalf("cursor_moved fired for %v, want [3 7] in buffer order", gotCtx)
	}
}
