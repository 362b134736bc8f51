package drawdance

import (
	"fmt"

	"github.com/csnover/drawdance/internal/preview"
	"github.com/csnover/drawdance/internal/queue"
)

// HandleInternal implements [paintthread.InternalHandler], dispatching
// each of the five internal control message kinds to its component.
// It runs on the paint thread, never concurrently with itself.
func (e *Engine) HandleInternal(msg *queue.Message) {
	in := msg.Internal
	switch in.Kind {
	case queue.InternalReset:
		e.hist.Reset()

	case queue.InternalSoftReset:
		e.hist.SoftReset()

	case queue.InternalSnapshot:
		if err := e.hist.Snapshot(); err != nil {
			e.logger.Warn("snapshot request failed", "error", fmt.Errorf("%w: %v", ErrSnapshotFailed, err))
		}

	case queue.InternalCatchup:
		e.catchup.Store(int64(in.CatchupProgress))

	case queue.InternalPreview:
		p, _ := in.Preview.(preview.Preview)
		e.previewSlot.Install(&preview.Handoff{Preview: p})
	}
}
