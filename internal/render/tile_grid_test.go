package render

import "testing"

func TestNewTileGridComputesTileCounts(t *testing.T) {
	g := NewTileGrid(130, 65)
	if g.TilesX() != 3 { // 130/64 -> 3 columns (64,64,2)
		t.Errorf("TilesX() = %d, want 3", g.TilesX())
	}
	if g.TilesY() != 2 { // 65/64 -> 2 rows (64,1)
		t.Errorf("TilesY() = %d, want 2", g.TilesY())
	}
}

func TestDimsClipsEdgeTiles(t *testing.T) {
	g := NewTileGrid(130, 65)
	w, h := g.Dims(2, 0)
	if w != 2 || h != 64 {
		t.Errorf("Dims(2,0) = (%d,%d), want (2,64)", w, h)
	}
	w, h = g.Dims(0, 1)
	if w != 64 || h != 1 {
		t.Errorf("Dims(0,1) = (%d,%d), want (64,1)", w, h)
	}
}

func TestPositionsInRectClampsToCanvas(t *testing.T) {
	g := NewTileGrid(128, 128)
	positions := g.PositionsInRect(-10, -10, 20, 20)
	if len(positions) != 1 || positions[0] != [2]int{0, 0} {
		t.Fatalf("PositionsInRect out-of-bounds rect = %v, want [[0 0]]", positions)
	}
}

func TestAllPositionsCoversWholeGrid(t *testing.T) {
	g := NewTileGrid(128, 128)
	positions := g.AllPositions()
	if len(positions) != g.TileCount() {
		t.Fatalf("AllPositions len = %d, want %d", len(positions), g.TileCount())
	}
}

func TestNewTileGridZeroDimensionsIsEmpty(t *testing.T) {
	g := NewTileGrid(0, 0)
	if g.TileCount() != 0 {
		t.Fatalf("TileCount() = %d, want 0", g.TileCount())
	}
}
