// Package render implements the tile renderer: a worker pool that
// composites view-state tiles into 8-bit RGBA and the tile-level
// diffing the tick loop's diff emission step drives off of.
//
// The tile/grid/pool machinery is adapted from the teacher's
// rasterizer work-division package: 64x64 tiles sized for L1 cache,
// a sync.Pool-backed tile allocator, and a work-stealing goroutine
// pool, repurposed here from rasterizer output tiles to view-state
// composite tiles, and from a WaitGroup-joined completion to an
// explicit tiles-waiting/tiles-done semaphore (see pool.go).
package render

// Tile size constants, carried from the teacher unchanged: 64x64
// keeps one tile's RGBA buffer at 16KB, sized for L1 cache residency.
const (
	TileWidth  = 64
	TileHeight = 64
	TilePixels = TileWidth * TileHeight
	TileBytes  = TilePixels * 4
)

// Tile is one tile-sized destination buffer: the engine's transient
// layer-content scratch for a single (x, y) tile position. Edge tiles
// may have actual dimensions smaller than TileWidth/TileHeight when
// the canvas isn't evenly divisible.
type Tile struct {
	X, Y          int
	Width, Height int
	Data          []byte // premultiplied 8-bit RGBA, Width*Height*4 bytes
}

// Reset zeros the tile's pixel data for reuse.
func (t *Tile) Reset() {
	clear(t.Data)
}

// Bounds returns the tile's pixel-space rectangle in canvas coordinates.
func (t *Tile) Bounds() (x, y, w, h int) {
	return t.X * TileWidth, t.Y * TileHeight, t.Width, t.Height
}

// Stride returns the row stride in bytes.
func (t *Tile) Stride() int { return t.Width * 4 }
