package localview

import "github.com/csnover/drawdance/internal/canvas"

// Apply projects cs's layer-props tree according to the current view
// settings. The fast path returns the cached projection unchanged when
// cs.LayerProps is pointer-equal to the root last observed and the
// settings compare equal to those the cache was built for, including
// when a setting was changed and then restored before this call. Only
// the most recent projection is cached: once Apply has run with other
// settings, returning to earlier settings builds a new projection, not
// the earlier pointer.
func (s *State) Apply(cs *canvas.State) *canvas.LayerPropsNode {
	snap := s.snapshot()
	if s.cachedRoot == cs.LayerProps && s.cachedSettings == snap {
		s.cacheValid = true
		return s.cachedProj
	}

	proj := canvas.CloneTree(cs.LayerProps)
	matched := make(map[int]bool, len(s.hiddenLayerIDs))
	s.projectNode(cs.Layers, proj, matched)
	for id := range s.hiddenLayerIDs {
		if !matched[id] {
			delete(s.hiddenLayerIDs, id)
		}
	}

	s.cacheValid = true
	s.cachedRoot = cs.LayerProps
	s.cachedSettings = s.snapshot() // hiddenKey may have changed after pruning
	s.cachedProj = proj
	return proj
}

func (s *State) projectNode(layer *canvas.LayerNode, props *canvas.LayerPropsNode, matched map[int]bool) {
	if props == nil {
		return
	}

	switch s.Mode {
	case ModeSolo:
		if layer == nil || !layer.Group {
			props.HiddenByViewMode = props.ID != s.ActiveLayerID
		} else {
			props.HiddenByViewMode = false
		}
	default:
		props.HiddenByViewMode = false
	}

	if _, hidden := s.hiddenLayerIDs[props.ID]; hidden {
		props.HiddenByViewMode = true
		matched[props.ID] = true
	}

	if s.RevealCensored {
		props.Censored = false
	}

	for i, child := range props.Children {
		var layerChild *canvas.LayerNode
		if layer != nil && i < len(layer.Children) {
			layerChild = layer.Children[i]
		}
		s.projectNode(layerChild, child, matched)
	}
}

// ApplyInspect projects the inspect overlay onto cs: when
// contextID is nonzero, every content layer whose OriginContextID
// matches gets wrapped in a synthetic group carrying a translucent
// recolor overlay sibling at [canvas.InspectOverlayLayerID]. contextID
// == 0 is a pass-through (returns an additional reference to cs).
func ApplyInspect(cs *canvas.State, contextID int) *canvas.State {
	if contextID == 0 {
		return cs.Ref()
	}
	view := canvas.GetOrMakeTransient(cs.Ref())
	view.Layers = inspectNode(view.Layers, contextID)
	return canvas.Freeze(view)
}

func inspectNode(n *canvas.LayerNode, contextID int) *canvas.LayerNode {
	if n == nil {
		return nil
	}
	if n.Group {
		children := make([]*canvas.LayerNode, len(n.Children))
		for i, c := range n.Children {
			children[i] = inspectNode(c, contextID)
		}
		return &canvas.LayerNode{ID: n.ID, Group: true, Children: children, OriginContextID: n.OriginContextID}
	}
	if n.OriginContextID != contextID {
		return n
	}
	x, y, w, h := n.Content.Bounds()
	overlay := canvas.NewContentLayer(canvas.InspectOverlayLayerID, &canvas.RecolorOverlay{
		X: x, Y: y, W: w, H: h,
		Opacity: canvas.InspectRecolorOpacity,
	})
	return &canvas.LayerNode{
		ID:       n.ID,
		Group:    true,
		Children: []*canvas.LayerNode{n, overlay},
	}
}
