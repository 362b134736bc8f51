package drawdance

import (
	"github.com/csnover/drawdance/internal/meta"
	"github.com/csnover/drawdance/internal/queue"
)

// ACLFlags is the bitset an [ACLPolicy] returns for one message.
type ACLFlags uint32

// ACLFiltered, when set, means the message must be dropped entirely
// rather than queued or folded.
const ACLFiltered ACLFlags = 1 << 0

// ACLPolicy is the opaque ACL policy evaluator, invoked as a predicate
// returning filter/change bitflags. It is consulted once per remote
// message.
type ACLPolicy interface {
	Evaluate(msg *queue.Message) ACLFlags
}

// HandleInc ingests msgs from either the local user or a remote
// session: local messages push straight to the queue when they are
// drawing or internal commands; remote messages are first filtered
// through acls, then either pushed, folded into the per-tick meta
// buffer, or dropped. Returns the number of messages actually pushed
// to the queue.
func (e *Engine) HandleInc(local bool, msgs []*queue.Message, cb meta.Callbacks) int {
	if e.closed.Load() {
		return 0
	}

	stream := queue.StreamRemote
	if local {
		stream = queue.StreamLocal
	}

	e.metaMu.Lock()

	qualifying := make([]*queue.Message, 0, len(msgs))
	for _, m := range msgs {
		if local {
			if m.IsDrawing() || m.IsInternal() {
				qualifying = append(qualifying, m)
			}
			continue
		}

		flags := e.acls.Evaluate(m)
		e.meta.FoldACL(uint32(flags))
		if flags&ACLFiltered != 0 {
			continue
		}
		switch {
		case m.IsDrawing() || m.IsInternal():
			qualifying = append(qualifying, m)
		case m.Type == queue.TypeLaserTrail && m.Laser != nil:
			e.meta.FoldLaser(int(m.ContextID), m.Laser.Persistence, meta.Color{
				B: m.Laser.B, G: m.Laser.G, R: m.Laser.R, A: m.Laser.A,
			})
		case m.Type == queue.TypeMovePointer && m.Move != nil:
			e.meta.FoldCursor(int(m.ContextID), m.Move.X, m.Move.Y)
		case m.Type == queue.TypeDefaultLayer:
			e.meta.SetDefaultLayer(int(m.DefaultLayerID))
		}
		// Anything else is silently dropped.
	}

	var pushed int
	if len(qualifying) > 0 {
		pushed = e.q.Push(stream, qualifying)
	}

	e.meta.Deliver(cb)
	e.metaMu.Unlock()
	return pushed
}
