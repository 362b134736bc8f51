package canvas

// LayerContent is the opaque per-layer pixel content. Its internal
// representation (brush/dab compositing, blend modes, pixel formats)
// is an external collaborator and is never implemented by this
// package — only referenced and compared by identity.
type LayerContent interface {
	// Bounds returns the layer content's bounding rectangle in canvas
	// pixel space. Used by the tile-diff pass (internal/render) to
	// determine which tiles a changed layer touches.
	Bounds() (x, y, w, h int)

	// CompositeTile writes the 8-bit premultiplied RGBA pixels for the
	// tile-sized rectangle at canvas coordinates (x, y) of size
	// (w, h) into dst, which must be at least w*h*4 bytes. The
	// compositing kernel itself (blend modes, brush shape) is outside
	// this engine's scope; test doubles implement this trivially.
	CompositeTile(x, y, w, h int, dst []byte)
}

// LayerNode is one node of the canvas layer tree: either a group
// (Children non-empty, Content nil) or a content layer (Content
// non-nil, Children empty).
//
// There are no parent back-pointers: callers that need to know a
// node's ancestry recurse with an explicit index-path stack, see
// [Path].
type LayerNode struct {
	ID       int
	Group    bool
	Children []*LayerNode
	Content  LayerContent

	// OriginContextID identifies which user/context authored this
	// content layer's most recent paint, used by the inspect overlay
	// to find tiles to highlight. Zero means unknown/unattributed.
	OriginContextID int
}

// NewGroupLayer creates a group layer node with the given children.
func NewGroupLayer(id int, children ...*LayerNode) *LayerNode {
	return &LayerNode{ID: id, Group: true, Children: children}
}

// NewContentLayer creates a content (leaf) layer node.
func NewContentLayer(id int, content LayerContent) *LayerNode {
	return &LayerNode{ID: id, Content: content}
}

// Path is a reusable index-path stack used while recursing through the
// layer or layer-props tree, so that traversal code never needs
// parent back-pointers to know where it is.
type Path struct {
	indices []int
}

// Push records descending into the child at index i.
func (p *Path) Push(i int) { p.indices = append(p.indices, i) }

// Pop undoes the most recent Push.
func (p *Path) Pop() { p.indices = p.indices[:len(p.indices)-1] }

// Indices returns the current path from the root, read-only.
func (p *Path) Indices() []int { return p.indices }

// Walk visits every node in the tree rooted at n in pre-order,
// threading an explicit index-path stack rather than parent pointers.
// visit may return false to stop descending into a node's children.
func Walk(n *LayerNode, visit func(path *Path, node *LayerNode) bool) {
	if n == nil {
		return
	}
	var path Path
	var rec func(node *LayerNode)
	rec = func(node *LayerNode) {
		if !visit(&path, node) {
			return
		}
		for i, child := range node.Children {
			path.Push(i)
			rec(child)
			path.Pop()
		}
	}
	rec(n)
}

// FindByID returns the first node with the given ID, found via
// pre-order traversal, or nil if absent.
func FindByID(n *LayerNode, id int) *LayerNode {
	var found *LayerNode
	Walk(n, func(_ *Path, node *LayerNode) bool {
		if found != nil {
			return false
		}
		if node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}
