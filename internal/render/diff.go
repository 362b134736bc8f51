package render

import (
	"math/bits"
	"sync/atomic"
)

// TileDiff is the engine's reusable canvas diff object: a bitmap of
// which tile positions differ between prev_view_cs and new_view_cs,
// one bit per tile packed into uint64 words. Adapted from the
// teacher's DirtyRegion (internal/parallel, there tracking "needs
// re-rasterizing"); here a marked bit means "this view-state tile
// differs from the previous tick's view-state", which
// render_everything/render_tile_bounds walk to decide which tiles to
// composite and the tick loop's diff emission step walks to invoke
// tile_changed(x, y).
type TileDiff struct {
	words  []atomic.Uint64
	tilesX int
	tilesY int
}

// NewTileDiff creates a diff tracker sized for a tilesX x tilesY grid,
// with every tile initially marked changed (a freshly created view
// has no "previous" to compare against). Returns nil for invalid
// dimensions.
func NewTileDiff(tilesX, tilesY int) *TileDiff {
	if tilesX <= 0 || tilesY <= 0 {
		return nil
	}
	total := tilesX * tilesY
	d := &TileDiff{
		words:  make([]atomic.Uint64, (total+63)/64),
		tilesX: tilesX,
		tilesY: tilesY,
	}
	d.MarkAll()
	return d
}

// Mark flags the tile at (tx, ty) as changed.
func (d *TileDiff) Mark(tx, ty int) {
	if tx < 0 || tx >= d.tilesX || ty < 0 || ty >= d.tilesY {
		return
	}
	idx := ty*d.tilesX + tx
	d.words[idx/64].Or(1 << uint(idx&63))
}

// MarkRect flags every tile intersecting the pixel rectangle as changed.
func (d *TileDiff) MarkRect(x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	tx1, ty1 := x/TileWidth, y/TileHeight
	tx2, ty2 := (x+w-1)/TileWidth, (y+h-1)/TileHeight
	if tx1 < 0 {
		tx1 = 0
	}
	if ty1 < 0 {
		ty1 = 0
	}
	if tx2 >= d.tilesX {
		tx2 = d.tilesX - 1
	}
	if ty2 >= d.tilesY {
		ty2 = d.tilesY - 1
	}
	if tx1 > tx2 || ty1 > ty2 {
		return
	}
	for ty := ty1; ty <= ty2; ty++ {
		for tx := tx1; tx <= tx2; tx++ {
			d.Mark(tx, ty)
		}
	}
}

// MarkAll flags every tile in the grid as changed.
func (d *TileDiff) MarkAll() {
	total := d.tilesX * d.tilesY
	full := total / 64
	for i := 0; i < full; i++ {
		d.words[i].Store(^uint64(0))
	}
	if rem := total % 64; rem > 0 {
		d.words[full].Store((uint64(1) << rem) - 1)
	}
}

// Clear resets every tile to unchanged.
func (d *TileDiff) Clear() {
	for i := range d.words {
		d.words[i].Store(0)
	}
}

// IsChanged reports whether the tile at (tx, ty) is flagged changed.
func (d *TileDiff) IsChanged(tx, ty int) bool {
	if tx < 0 || tx >= d.tilesX || ty < 0 || ty >= d.tilesY {
		return false
	}
	idx := ty*d.tilesX + tx
	return d.words[idx/64].Load()&(1<<uint(idx&63)) != 0
}

// ClearOne clears a single tile's changed flag, used by
// render_tile_bounds (§4.8) to consume only the positions it actually
// rendered within the requested rectangle.
func (d *TileDiff) ClearOne(tx, ty int) {
	if tx < 0 || tx >= d.tilesX || ty < 0 || ty >= d.tilesY {
		return
	}
	idx := ty*d.tilesX + tx
	d.words[idx/64].And(^(uint64(1) << uint(idx&63)))
}

// Count returns the number of tiles currently flagged changed.
func (d *TileDiff) Count() int {
	count := 0
	total := d.tilesX * d.tilesY
	full := total / 64
	for i := 0; i < full; i++ {
		count += bits.OnesCount64(d.words[i].Load())
	}
	if full < len(d.words) {
		rem := total % 64
		mask := (uint64(1) << rem) - 1
		count += bits.OnesCount64(d.words[full].Load() & mask)
	}
	return count
}

// GetAndClear atomically returns every changed tile position and
// clears the diff, the operation render_everything uses to take the
// tiles it composites exactly once each.
func (d *TileDiff) GetAndClear() [][2]int {
	var changed [][2]int
	total := d.tilesX * d.tilesY
	for wordIdx := range d.words {
		word := d.words[wordIdx].Swap(0)
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			idx := wordIdx*64 + bit
			if idx >= total {
				break
			}
			changed = append(changed, [2]int{idx % d.tilesX, idx / d.tilesX})
			word &^= 1 << uint(bit)
		}
	}
	return changed
}

// ForEachChanged calls fn for every changed tile position without
// clearing the diff, the operation tick's diff emission (diff.go) uses
// to invoke tile_changed(x, y), leaving the marks for rendering.
func (d *TileDiff) ForEachChanged(fn func(tx, ty int)) {
	total := d.tilesX * d.tilesY
	for wordIdx := range d.words {
		word := d.words[wordIdx].Load()
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			idx := wordIdx*64 + bit
			if idx >= total {
				break
			}
			fn(idx%d.tilesX, idx/d.tilesX)
			word &^= 1 << uint(bit)
		}
	}
}
