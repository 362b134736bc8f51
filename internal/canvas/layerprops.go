package canvas

// LayerPropsNode is one node of the layer-props tree: presentation
// attributes shadowing the layer tree 1:1 by ID and tree shape. It is
// a separate tree so that the local-view projection (internal/localview)
// can rewrite visibility/censorship without touching the content layer
// tree at all.
type LayerPropsNode struct {
	ID int

	// UserHidden is the committed, user-authored hidden flag (distinct
	// from view-mode-derived hiding).
	UserHidden bool

	// HiddenByViewMode is set by the local-view projection's slow path
	// according to the active view mode (solo/frame/onion-skin).
	HiddenByViewMode bool

	// Censored marks a layer as requiring the censor overlay. Reveal
	// clears it for the current tick's projection only; the underlying
	// committed value is restored next projection unless the reveal
	// flag is still set.
	Censored bool

	Children []*LayerPropsNode
}

// NewLayerProps creates a layer-props node.
func NewLayerProps(id int, censored bool, children ...*LayerPropsNode) *LayerPropsNode {
	return &LayerPropsNode{ID: id, Censored: censored, Children: children}
}

// CloneTree performs a deep copy of the layer-props tree, used by the
// local-view projection's slow path before mutating the hidden/censored
// bits so the committed tree it was copied from is left untouched.
func CloneTree(n *LayerPropsNode) *LayerPropsNode {
	if n == nil {
		return nil
	}
	clone := &LayerPropsNode{
		ID:               n.ID,
		UserHidden:       n.UserHidden,
		HiddenByViewMode: n.HiddenByViewMode,
		Censored:         n.Censored,
	}
	if len(n.Children) > 0 {
		clone.Children = make([]*LayerPropsNode, len(n.Children))
		for i, c := range n.Children {
			clone.Children[i] = CloneTree(c)
		}
	}
	return clone
}

// WalkProps visits every node of the layer-props tree in pre-order
// using an explicit index-path stack (no parent pointers), mirroring
// [Walk] for the layer tree.
func WalkProps(n *LayerPropsNode, visit func(path *Path, node *LayerPropsNode)) {
	if n == nil {
		return
	}
	var path Path
	var rec func(node *LayerPropsNode)
	rec = func(node *LayerPropsNode) {
		visit(&path, node)
		for i, child := range node.Children {
			path.Push(i)
			rec(child)
			path.Pop()
		}
	}
	rec(n)
}

// FindPropsByID returns the first node with the given ID, or nil.
func FindPropsByID(n *LayerPropsNode, id int) *LayerPropsNode {
	var found *LayerPropsNode
	WalkProps(n, func(_ *Path, node *LayerPropsNode) {
		if found == nil && node.ID == id {
			found = node
		}
	})
	return found
}
