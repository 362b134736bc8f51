package canvas

import (
	"fmt"
	"testing"
)

type solidContent struct {
	x, y, w, h int
	color      [4]byte
}

func (s *solidContent) Bounds() (int, int, int, int) { return s.x, s.y, s.w, s.h }

func (s *solidContent) CompositeTile(_, _, w, h int, dst []byte) {
	for i := 0; i < w*h; i++ {
		dst[i*4+0] = s.color[0]
		dst[i*4+1] = s.color[1]
		dst[i*4+2] = s.color[2]
		dst[i*4+3] = s.color[3]
	}
}

func buildTestTree() *LayerNode {
	return NewGroupLayer(0,
		NewContentLayer(1, &solidContent{w: 4, h: 4}),
		NewGroupLayer(2,
			NewContentLayer(3, &solidContent{w: 4, h: 4}),
		),
	)
}

func TestWalkVisitsPreOrderWithPaths(t *testing.T) {
	root := buildTestTree()

	var ids []int
	var paths [][]int
	Walk(root, func(path *Path, node *LayerNode) bool {
		ids = append(ids, node.ID)
		paths = append(paths, append([]int(nil), path.Indices()...))
		return true
	})

	wantIDs := []int{0, 1, 2, 3}
	if len(ids) != len(wantIDs) {
		t.Fatalf("visited %d nodes, want %d", len(ids), len(wantIDs))
	}
	for i, id := range wantIDs {
		if ids[i] != id {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], id)
		}
	}

	wantPaths := [][]int{{}, {0}, {1}, {1, 0}}
	for i, want := range wantPaths {
		if fmt.Sprint(paths[i]) != fmt.Sprint(want) {
			t.Errorf("paths[%d] = %v, want %v", i, paths[i], want)
		}
	}
}

func TestFindByID(t *testing.T) {
	root := buildTestTree()

	n := FindByID(root, 3)
	if n == nil || n.ID != 3 {
		t.Fatal("FindByID(3) did not find the nested content layer")
	}

	if FindByID(root, 999) != nil {
		t.Fatal("FindByID should return nil for an absent id")
	}
}

func TestPathPushPop(t *testing.T) {
	var p Path
	p.Push(1)
	p.Push(2)
	if got := p.Indices(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("Indices() = %v, want [1 2]", got)
	}
	p.Pop()
	if got := p.Indices(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("Indices() after Pop = %v, want [1]", got)
	}
}
