package drawdance

import (
	"github.com/csnover/drawdance/internal/canvas"
	"github.com/csnover/drawdance/internal/history"
	"github.com/csnover/drawdance/internal/render"
)

// emitDiff compares the previous and new view states field by field,
// invoking the appropriate callbacks for whatever actually changed,
// then advances the engine's own latched comparison state (layer-props
// root).
func (e *Engine) emitDiff(prevView, newView *canvas.State, cursors []history.UserCursor, cb TickCallbacks) {
	if prevView.Width != newView.Width || prevView.Height != newView.Height {
		if cb.Resized != nil {
			cb.Resized(prevView.OffsetX-newView.OffsetX, prevView.OffsetY-newView.OffsetY, prevView.Width, prevView.Height)
		}
	}

	if diff := e.renderer.Diff(); diff != nil {
		markLayerDiff(diff, prevView.Layers, newView.Layers)
		if cb.TileChanged != nil {
			diff.ForEachChanged(func(x, y int) { cb.TileChanged(x, y) })
		}
	}

	if newView.LayerProps != e.diffState.prevLayerProps {
		e.diffState.prevLayerProps = newView.LayerProps
		if cb.LayerPropsChanged != nil {
			cb.LayerPropsChanged(newView.LayerProps)
		}
	}

	if prevView.Annotations != newView.Annotations && cb.AnnotationsChanged != nil {
		cb.AnnotationsChanged()
	}
	if prevView.Metadata != newView.Metadata && cb.MetadataChanged != nil {
		cb.MetadataChanged()
	}
	if prevView.Timeline != newView.Timeline && cb.TimelineChanged != nil {
		cb.TimelineChanged()
	}

	if cb.CursorMoved != nil {
		for _, c := range cursors {
			cb.CursorMoved(c.ContextID, c.LayerID, c.X, c.Y)
		}
	}
}

// markLayerDiff walks prev and cur in tandem, marking the renderer's
// tile-diff accumulator wherever a content layer's identity changed.
// Pointer equality on LayerContent is an acceptable proxy for "did not
// change" given that published canvas state is immutable; a changed
// group shape (added, removed, or reordered children) conservatively
// marks the whole canvas rather than guessing at a partial
// correspondence.
func markLayerDiff(diff *render.TileDiff, prev, cur *canvas.LayerNode) {
	if prev == cur {
		return
	}
	if cur == nil {
		markNodeBounds(diff, prev)
		return
	}
	if prev == nil {
		markNodeBounds(diff, cur)
		return
	}
	if cur.Group || prev.Group {
		if cur.Group != prev.Group || len(cur.Children) != len(prev.Children) {
			diff.MarkAll()
			return
		}
		for i := range cur.Children {
			markLayerDiff(diff, prev.Children[i], cur.Children[i])
		}
		return
	}
	if prev.Content != cur.Content {
		markNodeBounds(diff, cur)
		markNodeBounds(diff, prev)
	}
}

func markNodeBounds(diff *render.TileDiff, n *canvas.LayerNode) {
	if n == nil {
		return
	}
	if n.Group {
		for _, c := range n.Children {
			markNodeBounds(diff, c)
		}
		return
	}
	if n.Content == nil {
		return
	}
	x, y, w, h := n.Content.Bounds()
	diff.MarkRect(x, y, w, h)
}
