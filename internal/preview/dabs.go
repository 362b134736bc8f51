package preview

import (
	"github.com/csnover/drawdance/internal/canvas"
	"github.com/csnover/drawdance/internal/queue"
)

// Dabs is the "dabs" preview variant: an ordered run of not-yet-
// committed draw-dab messages rendered atop the canvas, used while a
// local stroke is in flight and its dabs haven't reached history yet.
type Dabs struct {
	LayerID int
	msgs    []*queue.Message

	initOffsetX, initOffsetY int32

	cached   canvas.LayerContent
	cachedAt int // len(msgs) the cache was built for
	disposed bool
}

// NewDabs creates an empty dabs preview anchored at the given offset.
// Messages are appended with Append as the in-flight stroke grows.
func NewDabs(layerID int, offsetX, offsetY int32) *Dabs {
	return &Dabs{LayerID: layerID, initOffsetX: offsetX, initOffsetY: offsetY}
}

// Append adds a draw-dab message to the in-flight run. Callers own msg
// and must not mutate it afterward.
func (d *Dabs) Append(msg *queue.Message) {
	d.msgs = append(d.msgs, msg)
}

func (d *Dabs) InitialOffset() (int32, int32) { return d.initOffsetX, d.initOffsetY }

func (d *Dabs) Render(cs *canvas.State, drawCtx any, dx, dy int32) *canvas.State {
	if d.cached == nil || d.cachedAt != len(d.msgs) {
		d.cached = &dabsContent{layerID: d.LayerID, msgs: d.msgs, drawCtx: drawCtx, dx: dx, dy: dy}
		d.cachedAt = len(d.msgs)
	}
	return renderOverlay(cs, d.cached)
}

func (d *Dabs) Dispose() {
	if d.disposed {
		return
	}
	d.disposed = true
	d.msgs = nil
}

// dabsContent adapts an in-flight dab run to canvas.LayerContent. As
// with cutContent, the actual brush-stamp compositing kernel, which
// would consume drawCtx, is out of this engine's scope; this adapter
// only establishes the affected bounds so diffing and tile dispatch
// see the right region.
type dabsContent struct {
	layerID int
	msgs    []*queue.Message
	drawCtx any
	dx, dy  int32
}

func (d *dabsContent) Bounds() (x, y, w, h int) {
	return 0, 0, 0, 0
}

func (d *dabsContent) CompositeTile(_, _, w, h int, dst []byte) {
	for i := 0; i < w*h; i++ {
		dst[i*4+3] = 255
	}
}
