package stage

// NodeKind distinguishes the roles a Node plays in the display list.
type NodeKind uint8

const (
	NodeContainer NodeKind = iota // grouping node with no visual output
	NodeObject                    // projection of a scene object
	NodeHandle                    // gizmo handle
)

// nodeIDCounter is not atomic; the stage runs on one goroutine.
// IDs double as insertion order for picking ties.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is a render-side display element. Object nodes are keyed to their
// scene object through the DisplayList table; the node never owns the
// object and the object never owns the node.
type Node struct {
	// Identity
	ID       uint32
	Kind     NodeKind
	ObjectID string
	Handle   Handle // valid for NodeHandle

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local, render space)
	X, Y     float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64 // radians, clockwise

	// Computed
	worldTransform [6]float64
	worldAlpha     float64
	transformDirty bool

	// Visibility & interaction
	Alpha   float64
	Visible bool
	Active  bool

	// Depth orders object nodes; higher draws on top.
	Depth int

	// Graphic. Width and Height are the unscaled display size, centred on
	// the node origin. Texture is nil for placeholder graphics.
	Width, Height float64
	Texture       *Texture
	Placeholder   Color

	// HitRect is the local-space hit rectangle. Nil means the full graphic.
	HitRect *Rect

	// costumeKey is the asset id the node currently wants displayed.
	costumeKey string

	disposed bool
}

func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Visible = true
	n.Active = true
	n.transformDirty = true
}

// NewContainer creates a grouping node with no visual representation.
func NewContainer() *Node {
	n := &Node{Kind: NodeContainer}
	nodeDefaults(n)
	return n
}

// NewObjectNode creates the visual node for a scene object.
func NewObjectNode(objectID string, w, h float64) *Node {
	n := &Node{Kind: NodeObject, ObjectID: objectID, Width: w, Height: h}
	nodeDefaults(n)
	return n
}

// newHandleNode creates a gizmo handle of the given screen size.
func newHandleNode(h Handle, size float64) *Node {
	n := &Node{Kind: NodeHandle, Handle: h, Width: size, Height: size}
	nodeDefaults(n)
	return n
}

// HitBounds returns the local-space hit rectangle.
func (n *Node) HitBounds() Rect {
	if n.HitRect != nil {
		return *n.HitRect
	}
	return Rect{X: -n.Width / 2, Y: -n.Height / 2, Width: n.Width, Height: n.Height}
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("stage: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("stage: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("stage: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// Dispose removes this node from its parent, marks it and its descendants
// as disposed.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Texture = nil
	n.HitRect = nil
	n.costumeKey = ""
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}

// effectivelyVisible reports whether the node and all its ancestors are
// visible, active and not fully transparent.
func (n *Node) effectivelyVisible() bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Visible || !p.Active || p.Alpha <= 0 {
			return false
		}
	}
	return true
}
