package render

import "testing"

func TestNewTileDiffStartsFullyMarked(t *testing.T) {
	d := NewTileDiff(4, 4)
	if d.Count() != 16 {
		t.Fatalf("Count() = %d, want 16 (fresh diff starts fully changed)", d.Count())
	}
}

func TestMarkRectMarksIntersectingTiles(t *testing.T) {
	d := NewTileDiff(4, 4)
	d.Clear()
	d.MarkRect(0, 0, 10, 10)
	if !d.IsChanged(0, 0) {
		t.Error("expected tile (0,0) to be changed")
	}
	if d.IsChanged(2, 2) {
		t.Error("tile (2,2) should not be changed by a small top-left rect")
	}
}

func TestGetAndClearDrainsAndResets(t *testing.T) {
	d := NewTileDiff(2, 2)
	changed := d.GetAndClear()
	if len(changed) != 4 {
		t.Fatalf("GetAndClear len = %d, want 4", len(changed))
	}
	if d.Count() != 0 {
		t.Fatal("diff should be empty after GetAndClear")
	}
}

func TestClearOneClearsOnlyThatTile(t *testing.T) {
	d := NewTileDiff(2, 2)
	d.ClearOne(0, 0)
	if d.IsChanged(0, 0) {
		t.Error("tile (0,0) should be cleared")
	}
	if !d.IsChanged(1, 0) {
		t.Error("tile (1,0) should remain changed")
	}
}

func TestForEachChangedDoesNotClear(t *testing.T) {
	d := NewTileDiff(2, 2)
	var visited int
	d.ForEachChanged(func(tx, ty int) { visited++ })
	if visited != 4 {
		t.Fatalf("visited = %d, want 4", visited)
	}
	if d.Count() != 4 {
		t.Fatal("ForEachChanged must not clear the diff")
	}
}

func TestNewTileDiffInvalidDimensionsReturnsNil(t *testing.T) {
	if NewTileDiff(0, 5) != nil {
		t.Fatal("expected nil for zero tilesX")
	}
}
