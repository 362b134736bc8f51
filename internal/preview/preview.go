// Package preview implements the ephemeral overlay: a cut or dabs
// variant rendered atop committed canvas state for display only,
// never committed to history.
package preview

import "github.com/csnover/drawdance/internal/canvas"

// Preview is the polymorphic overlay value: its initial canvas offset,
// a render step, and a dispose step. Cut and Dabs are its two
// variants.
type Preview interface {
	// InitialOffset returns the canvas offset captured when the
	// preview was created, from which the engine computes the (dx, dy)
	// translation passed to Render so the preview survives canvas
	// resizes correctly.
	InitialOffset() (x, y int32)

	// Render applies the preview atop cs, translated by (dx, dy),
	// returning the resulting view-only state. drawCtx is the opaque
	// preview context the engine was constructed with, threaded through
	// for variants whose compositing kernel needs it. Render must not mutate any published
	// (non-transient) state reachable from cs.
	Render(cs *canvas.State, drawCtx any, dx, dy int32) *canvas.State

	// Dispose releases any resources the preview owns. It must be
	// idempotent-safe to call at most once; callers guarantee exactly
	// one call across handoff/teardown races.
	Dispose()
}

// overlayLayerID is the synthetic layer id a preview's rendered
// content is inserted under. It does not collide with the inspect
// overlay's canvas.InspectOverlayLayerID.
const overlayLayerID = -100

// renderOverlay is the shared tail of Render for both variants: fork a
// transient view atop cs and append an overlay content layer as the
// last (topmost) child of the root group, creating a root group with
// ID 0 when cs has no layer tree.
func renderOverlay(cs *canvas.State, content canvas.LayerContent) *canvas.State {
	view := canvas.GetOrMakeTransient(cs.Ref())
	overlay := canvas.NewContentLayer(overlayLayerID, content)

	rootID := 0
	var children []*canvas.LayerNode
	if root := view.Layers; root != nil {
		rootID = root.ID
		children = append(children, root.Children...)
	}
	children = append(children, overlay)

	view.Layers = &canvas.LayerNode{
		ID:       rootID,
		Group:    true,
		Children: children,
	}
	return canvas.Freeze(view)
}
