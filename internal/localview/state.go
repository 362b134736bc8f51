// Package localview implements the per-frame-thread view projection:
// view-mode visibility, hidden-layer overrides, censor reveal, and the
// inspect overlay, applied to a committed canvas state to produce the
// *view* state the tile renderer composites.
//
// State here is exclusive to the frame thread: nothing in this package
// is safe for concurrent use from multiple goroutines, mirroring the
// single-writer discipline the teacher applies to its rasterizer
// work-division state.
package localview

import "github.com/csnover/drawdance/internal/canvas"

// Mode is the active view mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSolo
	ModeFrame
	ModeOnionSkin
)

// State holds the mutable local-view settings plus the cached
// previous/projected layer-props pair that lets repeated ticks with
// an unchanged committed root and unchanged settings skip
// recomputation entirely: the cached pair lets subsequent ticks detect
// that nothing changed at the root of committed state and reuse the
// projected list without recomputing.
type State struct {
	ActiveLayerID     int
	ActiveFrameIndex  int
	Mode              Mode
	RevealCensored    bool
	InspectContextID  int // 0 disables the inspect overlay

	hiddenLayerIDs map[int]struct{}

	cacheValid     bool
	cachedRoot     *canvas.LayerPropsNode
	cachedSettings snapshot
	cachedProj     *canvas.LayerPropsNode
}

// snapshot is the comparable projection of every setting that affects
// the layer-props projection's output, used to detect "nothing
// changed" even when a setter was called but restored the prior value
// before the next Apply.
type snapshot struct {
	mode           Mode
	activeLayerID  int
	revealCensored bool
	hiddenKey      string
}

// New creates a local-view state with all settings at their
// zero/normal defaults.
func New() *State {
	return &State{hiddenLayerIDs: make(map[int]struct{})}
}

// SetActiveLayerID sets the layer solo mode keys off of.
func (s *State) SetActiveLayerID(id int) {
	if s.ActiveLayerID == id {
		return
	}
	s.ActiveLayerID = id
	s.invalidate()
}

// SetActiveFrameIndex sets the active animation frame. It does not by
// itself invalidate the layer-props cache: frame/onion-skin are
// reserved view modes and are treated as normal until a future
// extension gives this value projection effect.
func (s *State) SetActiveFrameIndex(i int) {
	s.ActiveFrameIndex = i
}

// SetMode changes the active view mode.
func (s *State) SetMode(m Mode) {
	if s.Mode == m {
		return
	}
	s.Mode = m
	s.invalidate()
}

// SetRevealCensored toggles whether censored layers are shown
// uncensored in the current projection.
func (s *State) SetRevealCensored(reveal bool) {
	if s.RevealCensored == reveal {
		return
	}
	s.RevealCensored = reveal
	s.invalidate()
}

// SetInspectContextID sets which context's authored tiles the inspect
// overlay highlights; 0 disables it. Inspect is applied separately
// from layer-props projection (apply_inspect operates on the layer
// tree, not layer-props), so this does not invalidate the layer-props
// cache.
func (s *State) SetInspectContextID(id int) {
	s.InspectContextID = id
}

// SetLayerHidden adds or removes id from the explicit user-hidden set.
func (s *State) SetLayerHidden(id int, hidden bool) {
	_, already := s.hiddenLayerIDs[id]
	if hidden == already {
		return
	}
	if hidden {
		s.hiddenLayerIDs[id] = struct{}{}
	} else {
		delete(s.hiddenLayerIDs, id)
	}
	s.invalidate()
}

// IsLayerHidden reports whether id is in the explicit hidden set.
func (s *State) IsLayerHidden(id int) bool {
	_, ok := s.hiddenLayerIDs[id]
	return ok
}

// invalidate marks the projection cache stale, forcing Dirty to report
// true and the next Apply call to rebuild.
func (s *State) invalidate() {
	s.cacheValid = false
}

// Dirty reports whether a local-view mutation has occurred since the
// cache was last populated — the tick loop's local_view_changed
// condition.
func (s *State) Dirty() bool {
	return !s.cacheValid
}

func (s *State) snapshot() snapshot {
	return snapshot{
		mode:           s.Mode,
		activeLayerID:  s.ActiveLayerID,
		revealCensored: s.RevealCensored,
		hiddenKey:      s.hiddenKey(),
	}
}

// hiddenKey produces a canonical, order-independent key for the
// hidden-id set so that two sets with the same membership compare
// equal regardless of insertion order.
func (s *State) hiddenKey() string {
	if len(s.hiddenLayerIDs) == 0 {
		return ""
	}
	ids := make([]int, 0, len(s.hiddenLayerIDs))
	for id := range s.hiddenLayerIDs {
		ids = append(ids, id)
	}
	sortInts(ids)
	key := make([]byte, 0, len(ids)*8)
	for _, id := range ids {
		key = appendInt(key, id)
		key = append(key, ',')
	}
	return string(key)
}

func sortInts(a []int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j-1] > a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}

func appendInt(dst []byte, v int) []byte {
	if v == 0 {
		return append(dst, '0')
	}
	neg := v < 0
	if neg {
		v = -v
	}
	start := len(dst)
	for v > 0 {
		dst = append(dst, byte('0'+v%10))
		v /= 10
	}
	if neg {
		dst = append(dst, '-')
	}
	for i, j := start, len(dst)-1; i < j; i, j = i+1, j-1 {
		dst[i], dst[j] = dst[j], dst[i]
	}
	return dst
}
