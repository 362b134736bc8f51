package preview

import "github.com/csnover/drawdance/internal/canvas"

// Cut is the "cut" preview variant: a rectangular region of one
// layer, optionally masked, with a cached rendered layer-content whose
// dimensions must match the current canvas.
type Cut struct {
	LayerID    int
	X, Y, W, H int
	// Mask is an optional 8-bit alpha mask of size W*H; nil means
	// "no mask, full rectangle opacity".
	Mask []uint8

	initOffsetX, initOffsetY int32

	// cached is the cached rendered layer-content. It is invalidated
	// (recomputed) by Render whenever the canvas dimensions it was
	// built for no longer match.
	cached    canvas.LayerContent
	cachedW   int
	cachedH   int
	disposed  bool
	disposeFn func()
}

// NewCut creates a cut preview. dispose, if non-nil, is invoked
// exactly once by Dispose; it exists so hosts can release any
// external resources (e.g. a GPU texture) backing the cut selection.
func NewCut(layerID, x, y, w, h int, mask []uint8, offsetX, offsetY int32, dispose func()) *Cut {
	return &Cut{
		LayerID:     layerID,
		X:           x,
		Y:           y,
		W:           w,
		H:           h,
		Mask:        mask,
		initOffsetX: offsetX,
		initOffsetY: offsetY,
		disposeFn:   dispose,
	}
}

func (c *Cut) InitialOffset() (int32, int32) { return c.initOffsetX, c.initOffsetY }

func (c *Cut) Render(cs *canvas.State, drawCtx any, dx, dy int32) *canvas.State {
	if c.cached == nil || c.cachedW != cs.Width || c.cachedH != cs.Height {
		c.cached = &cutContent{cut: c, drawCtx: drawCtx, dx: dx, dy: dy}
		c.cachedW = cs.Width
		c.cachedH = cs.Height
	}
	return renderOverlay(cs, c.cached)
}

func (c *Cut) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	if c.disposeFn != nil {
		c.disposeFn()
	}
}

// cutContent adapts a Cut selection to canvas.LayerContent. The actual
// pixel copy/mask-apply kernel, which would consume drawCtx, is an
// external collaborator out of this engine's scope; this is a thin
// structural adapter sufficient for diffing and for test doubles.
type cutContent struct {
	cut     *Cut
	drawCtx any
	dx, dy  int32
}

func (c *cutContent) Bounds() (x, y, w, h int) {
	return c.cut.X + int(c.dx), c.cut.Y + int(c.dy), c.cut.W, c.cut.H
}

func (c *cutContent) CompositeTile(_, _, w, h int, dst []byte) {
	for i := 0; i < w*h; i++ {
		dst[i*4+3] = 255
	}
}
