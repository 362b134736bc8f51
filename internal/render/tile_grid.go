package render

// TileGrid divides a canvas into a row-major grid of TileWidth x
// TileHeight positions. Adapted from the teacher's rasterizer
// work-division grid: here it enumerates tile *positions* for
// prepare_render/render_everything/render_tile_bounds rather than
// owning per-tile rasterizer output.
type TileGrid struct {
	tilesX, tilesY int
	width, height  int
}

// NewTileGrid creates a grid covering width x height canvas pixels.
// Edge tiles (right/bottom borders) may be smaller than a full tile.
func NewTileGrid(width, height int) *TileGrid {
	if width <= 0 || height <= 0 {
		return &TileGrid{}
	}
	return &TileGrid{
		tilesX: (width + TileWidth - 1) / TileWidth,
		tilesY: (height + TileHeight - 1) / TileHeight,
		width:  width,
		height: height,
	}
}

// TilesX returns the number of tile columns.
func (g *TileGrid) TilesX() int { return g.tilesX }

// TilesY returns the number of tile rows.
func (g *TileGrid) TilesY() int { return g.tilesY }

// Width returns the canvas width in pixels.
func (g *TileGrid) Width() int { return g.width }

// Height returns the canvas height in pixels.
func (g *TileGrid) Height() int { return g.height }

// TileCount returns the total number of tile positions in the grid.
func (g *TileGrid) TileCount() int { return g.tilesX * g.tilesY }

// Dims returns the pixel width/height of the tile at position (tx,
// ty), accounting for right/bottom edge clipping. Returns (0, 0) for
// an out-of-range position.
func (g *TileGrid) Dims(tx, ty int) (w, h int) {
	if tx < 0 || tx >= g.tilesX || ty < 0 || ty >= g.tilesY {
		return 0, 0
	}
	w, h = TileWidth, TileHeight
	if (tx+1)*TileWidth > g.width {
		w = g.width - tx*TileWidth
	}
	if (ty+1)*TileHeight > g.height {
		h = g.height - ty*TileHeight
	}
	return w, h
}

// PositionsInRect returns every tile position (tx, ty) intersecting
// the pixel rectangle (x, y, w, h), clamped to the canvas. Used by
// render_tile_bounds to restrict rendering to a sub-rectangle.
func (g *TileGrid) PositionsInRect(x, y, w, h int) [][2]int {
	if w <= 0 || h <= 0 || g.tilesX == 0 || g.tilesY == 0 {
		return nil
	}
	x1, y1 := max(x, 0), max(y, 0)
	x2, y2 := min(x+w, g.width), min(y+h, g.height)
	if x1 >= x2 || y1 >= y2 {
		return nil
	}
	tx1, ty1 := x1/TileWidth, y1/TileHeight
	tx2, ty2 := (x2-1)/TileWidth, (y2-1)/TileHeight

	out := make([][2]int, 0, (tx2-tx1+1)*(ty2-ty1+1))
	for ty := ty1; ty <= ty2; ty++ {
		for tx := tx1; tx <= tx2; tx++ {
			out = append(out, [2]int{tx, ty})
		}
	}
	return out
}

// AllPositions returns every tile position in the grid, row-major.
func (g *TileGrid) AllPositions() [][2]int {
	out := make([][2]int, 0, g.TileCount())
	for ty := 0; ty < g.tilesY; ty++ {
		for tx := 0; tx < g.tilesX; tx++ {
			out = append(out, [2]int{tx, ty})
		}
	}
	return out
}
