package localview

import (
	"testing"

	"github.com/csnover/drawdance/internal/canvas"
)

type fakeContent struct{ x, y, w, h int }

func (f *fakeContent) Bounds() (int, int, int, int)         { return f.x, f.y, f.w, f.h }
func (f *fakeContent) CompositeTile(int, int, int, int, []byte) {}

func buildCanvas() *canvas.State {
	cs := canvas.New(100, 100)
	cs.Layers = canvas.NewGroupLayer(0,
		canvas.NewContentLayer(1, &fakeContent{0, 0, 10, 10}),
		canvas.NewContentLayer(2, &fakeContent{10, 10, 10, 10}),
		canvas.NewContentLayer(3, &fakeContent{20, 20, 10, 10}),
	)
	cs.LayerProps = canvas.NewLayerProps(0, false,
		canvas.NewLayerProps(1, false),
		canvas.NewLayerProps(2, false),
		canvas.NewLayerProps(3, false),
	)
	return canvas.Freeze(cs)
}

func propsByID(root *canvas.LayerPropsNode, id int) *canvas.LayerPropsNode {
	return canvas.FindPropsByID(root, id)
}

func TestSoloModeHidesNonActiveLayers(t *testing.T) {
	// S5 View-mode solo scenario.
	cs := buildCanvas()
	s := New()
	s.SetActiveLayerID(2)
	s.SetMode(ModeSolo)

	proj := s.Apply(cs)

	if !propsByID(proj, 1).HiddenByViewMode {
		t.Error("layer 1 should be hidden by view mode")
	}
	if propsByID(proj, 2).HiddenByViewMode {
		t.Error("layer 2 (active) should not be hidden")
	}
	if !propsByID(proj, 3).HiddenByViewMode {
		t.Error("layer 3 should be hidden by view mode")
	}
}

func TestFastPathReusesProjectionWhenNothingChanged(t *testing.T) {
	cs := buildCanvas()
	s := New()

	first := s.Apply(cs)
	second := s.Apply(cs)

	if first != second {
		t.Fatal("Apply with an unchanged root and settings should return the cached projection")
	}
}

func TestLayerVisibilityToggleRoundTripRestoresCachedProjection(t *testing.T) {
	// Invariant 8: toggling a layer hidden then un-hidden restores a
	// pointer-equal projection.
	cs := buildCanvas()
	s := New()

	base := s.Apply(cs)

	s.SetLayerHidden(1, true)
	s.Apply(cs)

	s.SetLayerHidden(1, false)
	restored := s.Apply(cs)

	if restored != base {
		t.Fatal("restoring prior hidden-set membership should reproduce the original cached projection")
	}
}

func TestDirtyReflectsSettingMutations(t *testing.T) {
	cs := buildCanvas()
	s := New()
	s.Apply(cs)

	if s.Dirty() {
		t.Fatal("Dirty should be false immediately after a successful Apply")
	}
	s.SetMode(ModeSolo)
	if !s.Dirty() {
		t.Fatal("Dirty should be true after a setting mutation")
	}
}

func TestStaleHiddenIDsArePruned(t *testing.T) {
	cs := buildCanvas()
	s := New()
	s.SetLayerHidden(999, true) // does not resolve to any layer

	s.Apply(cs)

	if s.IsLayerHidden(999) {
		t.Fatal("a hidden id that never resolved should be pruned after projection")
	}
}

func TestApplyInspectWrapsMatchingContextLayer(t *testing.T) {
	cs := canvas.New(50, 50)
	content := canvas.NewContentLayer(1, &fakeContent{0, 0, 10, 10})
	content.OriginContextID = 7
	cs.Layers = canvas.NewGroupLayer(0, content)
	cs = canvas.Freeze(cs)

	view := ApplyInspect(cs, 7)
	defer view.Release()

	wrapped := view.Layers.Children[0]
	if !wrapped.Group || len(wrapped.Children) != 2 {
		t.Fatalf("matching content layer should be wrapped in a 2-child group, got %+v", wrapped)
	}
	if wrapped.Children[1].ID != canvas.InspectOverlayLayerID {
		t.Fatalf("overlay sibling id = %d, want %d", wrapped.Children[1].ID, canvas.InspectOverlayLayerID)
	}
}

func TestApplyInspectZeroContextIsPassthrough(t *testing.T) {
	cs := buildCanvas()
	view := ApplyInspect(cs, 0)
	defer view.Release()

	if view != cs {
		t.Fatal("contextID 0 should pass through the same state")
	}
}
