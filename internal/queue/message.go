// Package queue implements the dual local/remote FIFO: one shared
// mutex, one shared counting semaphore whose value equals the total
// number of messages enqueued across both FIFOs.
package queue

// Type is the wire message type. Values >= DrawingTypeMin are drawing
// commands.
type Type uint8

// DrawingTypeMin is the lowest Type value considered a drawing command.
const DrawingTypeMin Type = 128

// Non-drawing wire types meta folding recognizes; any other Type below
// DrawingTypeMin that isn't internal is dropped on the remote path.
const (
	typeUnknown Type = iota
	TypeLaserTrail
	TypeMovePointer
	TypeDefaultLayer
)

// LaserTrail carries a laser-pointer trail update, valid when
// Message.Type == TypeLaserTrail.
type LaserTrail struct {
	Persistence uint8
	B, G, R, A  uint8
}

// MovePointer carries a remote cursor position update, valid when
// Message.Type == TypeMovePointer.
type MovePointer struct {
	X, Y int32
}

// DabSizeKind selects how a dab's Size field is interpreted when
// estimating its painted area.
type DabSizeKind uint8

const (
	// DabSizeClassic divides Size by 256 to obtain the diameter.
	DabSizeClassic DabSizeKind = iota
	// DabSizeMyPaint also divides Size by 256. This reproduces the
	// painting engine's own half-vs-diameter quirk: the value is
	// actually closer to a radius, but the estimator intentionally
	// keeps treating it as a diameter so batching heuristics don't
	// drift out of sync with the brush kernel's real interpretation.
	DabSizeMyPaint
	// DabSizePixel uses Size directly as the diameter, no division.
	DabSizePixel
)

// Dab is one brush touch carried by a draw-dab message, reduced to the
// fields needed for the paint-thread batching heuristic.
type Dab struct {
	SizeKind DabSizeKind
	Size     uint32
}

// Diameter returns the dab's estimated diameter in pixels, applying
// the size-kind-specific interpretation.
func (d Dab) Diameter() uint32 {
	switch d.SizeKind {
	case DabSizePixel:
		return d.Size
	default: // DabSizeClassic, DabSizeMyPaint
		return d.Size / 256
	}
}

// Area returns max(1, diameter^2), the per-dab cost unit.
func (d Dab) Area() uint64 {
	dia := uint64(d.Diameter())
	area := dia * dia
	if area < 1 {
		return 1
	}
	return area
}

// Internal identifies which of the five internal control messages a
// Message carries, when Message.Internal != nil.
type Internal struct {
	Kind InternalKind

	// CatchupProgress is set when Kind == InternalCatchup.
	CatchupProgress int

	// Preview is set when Kind == InternalPreview; nil means "clear
	// preview" (the null_preview sentinel).
	Preview any
}

// InternalKind enumerates the five internal control message kinds.
type InternalKind uint8

const (
	InternalReset InternalKind = iota
	InternalSoftReset
	InternalSnapshot
	InternalCatchup
	InternalPreview
)

// Message is one reference-counted (in spirit; Go's GC owns the
// actual memory) drawing or control message flowing through the
// engine's intake, queue, and paint thread.
type Message struct {
	Type      Type
	ContextID int32

	// Dabs is non-empty for draw-dab messages; used for the area
	// estimate driving multidab batching.
	Dabs []Dab

	Internal *Internal

	// Laser is set when Type == TypeLaserTrail.
	Laser *LaserTrail
	// Move is set when Type == TypeMovePointer.
	Move *MovePointer
	// DefaultLayerID is valid when Type == TypeDefaultLayer.
	DefaultLayerID int32

	// Payload is the opaque wire-decoded command body handed to
	// [github.com/csnover/drawdance/internal/history] verbatim. Its
	// structure is owned by the external message codec.
	Payload any
}

// IsDrawing reports whether m is a drawing command.
func (m *Message) IsDrawing() bool {
	return m.Type >= DrawingTypeMin
}

// IsInternal reports whether m is an internal control message.
func (m *Message) IsInternal() bool {
	return m.Internal != nil
}

// Area returns the message's estimated dab area for batching purposes.
// Non-dab messages return a sentinel area above any realistic
// threshold so they are never folded into a multidab batch.
func (m *Message) Area() uint64 {
	if len(m.Dabs) == 0 {
		return nonDabSentinelArea
	}
	var total uint64
	for _, d := range m.Dabs {
		total += d.Area()
	}
	return total
}

// nonDabSentinelArea exceeds MaxMultidabArea so that any non-dab
// message is always dispatched as a single-message batch.
const nonDabSentinelArea = MaxMultidabArea + 1
