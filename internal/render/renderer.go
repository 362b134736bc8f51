package render

import "github.com/csnover/drawdance/internal/canvas"

// checkerCell is the side length, in pixels, of one checker-pattern
// square shown behind transparent canvas regions, blended in with
// "behind" blend mode.
const checkerCell = 8

var (
	checkerLight = [4]byte{204, 204, 204, 255}
	checkerDark  = [4]byte{153, 153, 153, 255}
)

// TileCallback receives one rendered tile: its canvas-space origin,
// its 8-bit RGBA pixels (owned by a per-worker scratch buffer indexed
// by workerID), and the worker id that produced it.
type TileCallback func(x, y int, pixels []byte, workerID int)

// Renderer implements the tile renderer: prepare_render,
// render_everything, and render_tile_bounds.
type Renderer struct {
	pool     *Pool
	tilePool *TilePool
	scratch  [][]byte

	grid          *TileGrid
	diff          *TileDiff
	width, height int
}

// NewRenderer creates a renderer with a worker pool of the given
// size (<=0 uses GOMAXPROCS).
func NewRenderer(workers int) *Renderer {
	pool := NewPool(workers)
	return &Renderer{
		pool:     pool,
		tilePool: NewTilePool(),
		scratch:  make([][]byte, pool.Workers()),
	}
}

// PrepareRender resizes the renderer's transient state to match the
// current view: sizeCB reports the current view width/height; if they
// differ from the cached dimensions, the transient layer-content
// (tile grid, diff accumulator, per-worker scratch) is replaced with a
// fresh one sized for the new dimensions.
func (r *Renderer) PrepareRender(sizeCB func() (w, h int)) {
	w, h := sizeCB()
	if r.grid != nil && w == r.width && h == r.height {
		return
	}
	r.width, r.height = w, h
	r.grid = NewTileGrid(w, h)
	r.diff = NewTileDiff(r.grid.TilesX(), r.grid.TilesY())
	for i := range r.scratch {
		r.scratch[i] = make([]byte, TileBytes)
	}
}

// Diff returns the renderer's persistent tile-diff accumulator. Root
// diff emission (diff.go) marks tiles touched by a layer-content
// change here; rendering consumes those marks as the host asks to
// render. Rendering has no backpressure on diff emission and is
// pull-driven by the host frame loop, so accumulated marks may span
// more than one tick before a render call actually composites them.
func (r *Renderer) Diff() *TileDiff { return r.diff }

// Workers reports the render worker pool's goroutine count.
func (r *Renderer) Workers() int { return r.pool.Workers() }

// RenderEverything composites every tile position currently flagged
// changed and hands each to cb, then clears the consumed positions
// from the diff.
func (r *Renderer) RenderEverything(layers *canvas.LayerNode, cb TileCallback) {
	if r.grid == nil || r.diff == nil {
		return
	}
	r.renderPositions(layers, r.diff.GetAndClear(), cb)
}

// RenderTileBounds is RenderEverything restricted to the pixel
// rectangle (l, t, rr, b).
func (r *Renderer) RenderTileBounds(layers *canvas.LayerNode, l, t, rr, b int, cb TileCallback) {
	if r.grid == nil || r.diff == nil {
		return
	}
	candidates := r.grid.PositionsInRect(l, t, rr-l, b-t)
	positions := make([][2]int, 0, len(candidates))
	for _, p := range candidates {
		if r.diff.IsChanged(p[0], p[1]) {
			positions = append(positions, p)
			r.diff.ClearOne(p[0], p[1])
		}
	}
	r.renderPositions(layers, positions, cb)
}

// Close shuts down the worker pool.
func (r *Renderer) Close() { r.pool.Close() }

func (r *Renderer) renderPositions(layers *canvas.LayerNode, positions [][2]int, cb TileCallback) {
	if len(positions) == 0 {
		return
	}
	r.pool.Dispatch(positions, func(workerID, tx, ty int) {
		w, h := r.grid.Dims(tx, ty)
		x, y := tx*TileWidth, ty*TileHeight

		tile := r.tilePool.Get(w, h)
		defer r.tilePool.Put(tile)

		compositeTree(layers, x, y, w, h, tile.Data)
		blendChecker(tile.Data, x, y, w, h)

		scratch := r.scratch[workerID][:w*h*4]
		copy(scratch, tile.Data)
		cb(x, y, scratch, workerID)
	})
}

// compositeTree walks the layer tree bottom-to-top (children in
// tree order), compositing each content layer's tile-sized rectangle
// over dst with premultiplied alpha-over blending. The actual brush/blend
// kernel a content layer implements is an external collaborator; this
// is the engine's side of the contract — deciding which layers touch
// the tile and in what order, not how a touch is painted.
func compositeTree(n *canvas.LayerNode, x, y, w, h int, dst []byte) {
	if n == nil {
		return
	}
	if n.Group {
		for _, c := range n.Children {
			compositeTree(c, x, y, w, h, dst)
		}
		return
	}
	if n.Content == nil {
		return
	}
	bx, by, bw, bh := n.Content.Bounds()
	if bx+bw <= x || by+bh <= y || bx >= x+w || by >= y+h {
		return
	}
	src := make([]byte, w*h*4)
	n.Content.CompositeTile(x, y, w, h, src)
	blendOver(dst, src, w*h)
}

func blendOver(dst, src []byte, pixelCount int) {
	for i := 0; i < pixelCount; i++ {
		o := i * 4
		sa := int(src[o+3])
		if sa == 0 {
			continue
		}
		inv := 255 - sa
		for c := 0; c < 4; c++ {
			dst[o+c] = byte((int(src[o+c])*255 + int(dst[o+c])*inv) / 255)
		}
	}
}

// blendChecker composites the shared checker pattern behind whatever
// alpha remains in dst, so fully or partially transparent regions
// display the familiar transparency-grid background instead of black.
func blendChecker(dst []byte, originX, originY, w, h int) {
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			o := (py*w + px) * 4
			da := int(dst[o+3])
			inv := 255 - da
			if inv == 0 {
				continue
			}
			col := checkerLight
			if ((originX+px)/checkerCell+(originY+py)/checkerCell)%2 == 1 {
				col = checkerDark
			}
			for c := 0; c < 4; c++ {
				dst[o+c] = byte((int(dst[o+c])*255 + int(col[c])*inv) / 255)
			}
		}
	}
}
