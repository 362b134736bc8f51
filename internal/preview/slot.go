package preview

import "sync/atomic"

// Handoff carries one pending preview swap from the paint thread to
// the tick thread. A Handoff whose Preview is nil is the "clear the
// active preview" sentinel, distinct from Take finding no handoff
// pending at all — either a new preview or an explicit clear may be
// pending at once, never both.
type Handoff struct {
	Preview Preview
}

// Slot is the single-slot atomic mailbox for the next pending preview:
// the latest-wins handoff point between the paint thread, which
// installs a preview when it handles an internal PREVIEW message, and
// the tick thread, which takes it at most once per tick. It
// mirrors logger.go's atomic.Pointer[slog.Logger] swap: last writer
// wins, and Install disposes whatever handoff it displaces so a
// superseded preview is never leaked.
type Slot struct {
	pending atomic.Pointer[Handoff]
}

// Install publishes h as the new pending handoff, disposing the
// previous pending handoff's preview (if any and if it was never
// taken). Passing a Handoff with a nil Preview requests a clear.
func (s *Slot) Install(h *Handoff) {
	prev := s.pending.Swap(h)
	if prev != nil && prev.Preview != nil {
		prev.Preview.Dispose()
	}
}

// Take atomically claims the pending handoff, if any, leaving the slot
// empty. ok is false when nothing was pending since the last Take.
func (s *Slot) Take() (h *Handoff, ok bool) {
	h = s.pending.Swap(nil)
	return h, h != nil
}
