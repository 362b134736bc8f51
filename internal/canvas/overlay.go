package canvas

// InspectRecolorOpacity is the opacity applied by the inspect overlay:
// 15-bit full scale minus one quarter.
const InspectRecolorOpacity = (1 << 15) - (1 << 15 / 4)

// InspectOverlayLayerID is the synthetic layer ID the inspect overlay
// is inserted under.
const InspectOverlayLayerID = -200

// RecolorOverlay is the translucent recolor content inserted by the
// inspect overlay over tiles attributed to a specific context id. The
// actual recolor/blend kernel is an external collaborator; this type
// only carries the bounds the overlay covers so the renderer knows
// which tiles it touches.
type RecolorOverlay struct {
	X, Y, W, H int
	Opacity    int // 15-bit fixed point, see InspectRecolorOpacity
}

func (r *RecolorOverlay) Bounds() (x, y, w, h int) { return r.X, r.Y, r.W, r.H }

// CompositeTile fills the overlay's recolor tint into dst. Blend mode
// "recolor" itself is a brush/paint-pixel kernel concern outside this
// engine's scope; this implementation is a stand-in translucent
// magenta tint suitable for tests and for hosts that have not yet
// wired a real recolor kernel.
func (r *RecolorOverlay) CompositeTile(x, y, w, h int, dst []byte) {
	alpha := byte(r.Opacity >> 7) // scale 15-bit to 8-bit
	for i := 0; i < w*h; i++ {
		dst[i*4+0] = 255
		dst[i*4+1] = 0
		dst[i*4+2] = 255
		dst[i*4+3] = alpha
	}
}
