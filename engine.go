package drawdance

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/csnover/drawdance/internal/canvas"
	"github.com/csnover/drawdance/internal/history"
	"github.com/csnover/drawdance/internal/localview"
	"github.com/csnover/drawdance/internal/meta"
	"github.com/csnover/drawdance/internal/paintthread"
	"github.com/csnover/drawdance/internal/preview"
	"github.com/csnover/drawdance/internal/queue"
	"github.com/csnover/drawdance/internal/render"
)

// Engine is the root façade wiring together the queue, history,
// paint thread, preview, local-view, meta, and render components,
// the way gg.Context wires together a layer stack, accelerator
// registry, and logger in the teacher package.
type Engine struct {
	logger *slog.Logger

	q      *queue.Queue
	hist   *history.History
	thread *paintthread.Thread
	acls   ACLPolicy

	// previewCtx is the opaque draw-context collaborator a preview's
	// render step may need. Its structure belongs to the external
	// painting-engine collaborator; the engine only holds and threads
	// it through to [preview.Preview.Render].
	previewCtx any

	previewSlot   preview.Slot
	activePreview preview.Preview

	// previewMu guards the in-flight dabs run a host builds up across
	// successive PreviewDabsInc calls. Each call constructs a fresh
	// *preview.Dabs covering every message seen so far and installs it,
	// rather than mutating a shared object the paint thread might
	// already be rendering.
	previewMu   sync.Mutex
	dabsActive  bool
	dabsLayerID int
	dabsOffsetX int32
	dabsOffsetY int32
	dabsMsgs    []*queue.Message

	metaMu sync.Mutex
	meta   *meta.Buffers

	lv *localview.State

	renderer *render.Renderer

	historyCS atomic.Pointer[canvas.State]
	viewCS    atomic.Pointer[canvas.State]
	diffState diffState

	catchup atomic.Int64 // -1 means none pending

	closed atomic.Bool
}

// New constructs an Engine and starts its paint thread. paintCtx
// supplies command interpretation (applying a decoded message to
// canvas state); previewCtx is threaded opaquely through to preview
// rendering. initial, if non-nil, transfers ownership of one
// reference as the starting committed canvas state.
func New(paintCtx history.Applier, previewCtx any, acls ACLPolicy, initial *canvas.State, savePointCB history.SavePointFunc, savePointUser any, opts ...EngineOption) *Engine {
	assert(paintCtx != nil, "paint context must not be nil")

	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = Logger()
	}

	e := &Engine{
		logger:     logger,
		q:          queue.New(),
		hist:       history.New(paintCtx, initial, savePointCB, savePointUser),
		acls:       acls,
		previewCtx: previewCtx,
		meta:       meta.NewBuffers(),
		lv:         localview.New(),
		renderer:   render.NewRenderer(cfg.workers),
	}
	e.catchup.Store(-1)

	initCS, _ := e.hist.CompareAndGet(nil)
	e.historyCS.Store(initCS)
	e.viewCS.Store(initCS.Ref())

	e.thread = paintthread.New(e.q, e.hist, e, e.logger)
	go e.thread.Run()

	return e
}

// FreeJoin tears the engine down: it blocks until the paint thread
// exits and the render worker pool's goroutines are joined. Pending
// local messages still queued at teardown, including any undelivered
// preview install, are drained and their previews disposed so no
// resource outlives the engine.
func FreeJoin(e *Engine) {
	if !e.closed.CompareAndSwap(false, true) {
		return
	}
	e.q.Close()
	<-e.thread.Done()

	for _, msg := range e.q.Drain() {
		if msg.IsInternal() && msg.Internal.Kind == queue.InternalPreview {
			if p, ok := msg.Internal.Preview.(preview.Preview); ok && p != nil {
				p.Dispose()
			}
		}
	}
	if e.activePreview != nil {
		e.activePreview.Dispose()
		e.activePreview = nil
	}
	if h, ok := e.previewSlot.Take(); ok && h.Preview != nil {
		h.Preview.Dispose()
	}

	e.renderer.Close()

	if cs := e.historyCS.Load(); cs != nil {
		cs.Release()
	}
	if cs := e.viewCS.Load(); cs != nil {
		cs.Release()
	}
	e.hist.Cleanup()
}

// RenderThreadCount reports the render worker pool's goroutine count.
func (e *Engine) RenderThreadCount() int {
	return e.renderer.Workers()
}

// LocalDrawingInProgressSet reports, to the engine's history, whether
// the local user currently has an in-progress stroke.
func (e *Engine) LocalDrawingInProgressSet(v bool) {
	e.hist.SetLocalDrawingInProgress(v)
}

// ActiveLayerIDSet sets the layer solo mode keys off of.
func (e *Engine) ActiveLayerIDSet(id int) { e.lv.SetActiveLayerID(id) }

// ActiveFrameIndexSet sets the active animation frame.
func (e *Engine) ActiveFrameIndexSet(i int) { e.lv.SetActiveFrameIndex(i) }

// ViewModeSet sets the active local-view mode.
func (e *Engine) ViewModeSet(m localview.Mode) { e.lv.SetMode(m) }

// RevealCensoredSet toggles whether censored layers render uncensored.
func (e *Engine) RevealCensoredSet(reveal bool) { e.lv.SetRevealCensored(reveal) }

// RevealCensored reports the current reveal-censored setting.
func (e *Engine) RevealCensored() bool { return e.lv.RevealCensored }

// LayerVisibilitySet adds or removes id from the explicit user-hidden
// layer set.
func (e *Engine) LayerVisibilitySet(id int, hidden bool) { e.lv.SetLayerHidden(id, hidden) }

// InspectContextIDSet sets which context's authored tiles the inspect
// overlay highlights (0 disables it).
func (e *Engine) InspectContextIDSet(id int) { e.lv.SetInspectContextID(id) }

// CanvasStateInc returns an additional reference to the current view
// canvas state, for hosts that need direct read access between ticks.
func (e *Engine) CanvasStateInc() *canvas.State {
	return e.viewCS.Load().Ref()
}

// PreviewCut installs a rectangular cut-selection preview, replacing
// whatever preview (cut or in-flight dabs run) was previously active.
func (e *Engine) PreviewCut(layerID, x, y, w, h int, mask []uint8) {
	if e.closed.Load() {
		return
	}
	ox, oy := e.currentOffset()

	e.previewMu.Lock()
	e.dabsActive = false
	e.previewMu.Unlock()

	e.installPreview(preview.NewCut(layerID, x, y, w, h, mask, ox, oy, nil))
}

// PreviewDabsInc appends msgs to the in-flight dabs preview for
// layerID, starting a new run if none is active or the layer changed,
// then installs the accumulated run.
func (e *Engine) PreviewDabsInc(layerID int, msgs []*queue.Message) {
	if e.closed.Load() || len(msgs) == 0 {
		return
	}

	e.previewMu.Lock()
	if !e.dabsActive || e.dabsLayerID != layerID {
		e.dabsOffsetX, e.dabsOffsetY = e.currentOffset()
		e.dabsLayerID = layerID
		e.dabsMsgs = nil
		e.dabsActive = true
	}
	e.dabsMsgs = append(e.dabsMsgs, msgs...)

	d := preview.NewDabs(e.dabsLayerID, e.dabsOffsetX, e.dabsOffsetY)
	for _, m := range e.dabsMsgs {
		d.Append(m)
	}
	e.previewMu.Unlock()

	e.installPreview(d)
}

// PreviewClear ends any in-flight dabs run and installs the
// null-preview sentinel that clears whatever preview is active.
func (e *Engine) PreviewClear() {
	if e.closed.Load() {
		return
	}
	e.previewMu.Lock()
	e.dabsActive = false
	e.dabsMsgs = nil
	e.previewMu.Unlock()

	e.q.Push(queue.StreamLocal, []*queue.Message{{
		Internal: &queue.Internal{Kind: queue.InternalPreview, Preview: nil},
	}})
}

// installPreview queues an internal PREVIEW message on the local
// stream so that any preceding local drawing commands are guaranteed
// to have taken effect before the preview is installed, eliminating
// visible rubber-band flicker.
func (e *Engine) installPreview(p preview.Preview) {
	e.q.Push(queue.StreamLocal, []*queue.Message{{
		Internal: &queue.Internal{Kind: queue.InternalPreview, Preview: p},
	}})
}

func (e *Engine) currentOffset() (x, y int32) {
	cs := e.historyCS.Load()
	return cs.OffsetX, cs.OffsetY
}

// RenderContentNoinc returns the current view canvas state's layer
// tree without incrementing any reference count: valid only for the
// duration of the caller's current tick-to-tick window (the "noinc"
// variants are a borrow, not a transfer of ownership, matching
// [canvas.State.Ref]'s panic-on-misuse discipline for transient
// states).
func (e *Engine) RenderContentNoinc() *canvas.LayerNode {
	return e.viewCS.Load().Layers
}

// PrepareRender resizes the renderer's tile grid, diff accumulator,
// and per-worker scratch buffers to match sizeCB's reported
// dimensions, replacing them only when the dimensions actually change.
func (e *Engine) PrepareRender(sizeCB func() (w, h int)) {
	e.renderer.PrepareRender(sizeCB)
}

// RenderEverything composites and delivers every tile currently
// flagged as changed.
func (e *Engine) RenderEverything(cb render.TileCallback) {
	e.renderer.RenderEverything(e.RenderContentNoinc(), cb)
}

// RenderTileBounds is RenderEverything restricted to the tiles
// intersecting the pixel rectangle (l, t, r, b).
func (e *Engine) RenderTileBounds(l, t, r, b int, cb render.TileCallback) {
	e.renderer.RenderTileBounds(e.RenderContentNoinc(), l, t, r, b, cb)
}

// diffState latches the previous tick's layer-props root, the one
// diff emission (diff.go) input that isn't already carried by
// prevView itself.
type diffState struct {
	prevLayerProps *canvas.LayerPropsNode
}
