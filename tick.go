package drawdance

import (
	"github.com/csnover/drawdance/internal/canvas"
	"github.com/csnover/drawdance/internal/localview"
)

// TickCallbacks are the per-frame change notifications Tick delivers,
// one field per distinct kind of observable change.
type TickCallbacks struct {
	Catchup            func(progress int)
	Resized            func(dxOffset, dyOffset int32, prevW, prevH int)
	TileChanged        func(x, y int)
	LayerPropsChanged  func(root *canvas.LayerPropsNode)
	AnnotationsChanged func()
	MetadataChanged    func()
	TimelineChanged    func()
	CursorMoved        func(ctx int32, layer int, x, y int32)
}

// Tick is called once per host display frame. It is the sole mutator
// of view_cs, history_cs, local_view.*, and the diff object, and runs
// its six steps in a fixed order so that a change detected at one step
// can never be masked by a later step's short-circuit.
func (e *Engine) Tick(cb TickCallbacks) {
	if e.closed.Load() {
		return
	}

	// 1. Catch-up.
	if p := e.catchup.Swap(-1); p >= 0 && cb.Catchup != nil {
		cb.Catchup(int(p))
	}

	// 2. History compare-and-get.
	prevHistory := e.historyCS.Load()
	newHistory, cursors := e.hist.CompareAndGet(prevHistory)
	historyChanged := newHistory != nil
	if historyChanged {
		e.historyCS.Store(newHistory)
		prevHistory.Release()
	} else {
		newHistory = prevHistory
	}

	// 3. Preview swap.
	previewSwapped := false
	if h, ok := e.previewSlot.Take(); ok {
		if e.activePreview != nil {
			e.activePreview.Dispose()
		}
		e.activePreview = h.Preview
		previewSwapped = true
	}

	// 4. Local view changed.
	localViewChanged := e.lv.Dirty()

	if !historyChanged && !previewSwapped && !localViewChanged {
		return
	}

	// 5. Rebuild the view state: apply_preview -> apply_inspect ->
	// apply_local_layer_props.
	previewed := e.applyPreview(newHistory)
	inspected := localview.ApplyInspect(previewed, e.lv.InspectContextID)
	previewed.Release()

	proj := e.lv.Apply(newHistory)
	view := canvas.GetOrMakeTransient(inspected)
	view.LayerProps = proj
	newView := canvas.Freeze(view)

	prevView := e.viewCS.Swap(newView)
	e.emitDiff(prevView, newView, cursors, cb)
	prevView.Release()
}

// applyPreview, if a preview is installed, renders it atop cs
// translated by the delta between its captured initial offset and
// cs's current offset, so the preview survives canvas resizes.
// Otherwise it returns an additional reference to cs. Either way the
// caller retains its own reference to cs and owns the returned one.
func (e *Engine) applyPreview(cs *canvas.State) *canvas.State {
	if e.activePreview == nil {
		return cs.Ref()
	}
	ix, iy := e.activePreview.InitialOffset()
	dx := ix - cs.OffsetX
	dy := iy - cs.OffsetY
	return e.activePreview.Render(cs, e.previewCtx, dx, dy)
}
