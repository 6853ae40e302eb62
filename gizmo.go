package stage

import "math"

// Handle identifies one of the nine gizmo handles.
type Handle uint8

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
	HandleRotate
)

var allHandles = [...]Handle{
	HandleTopLeft, HandleTop, HandleTopRight, HandleRight,
	HandleBottomRight, HandleBottom, HandleBottomLeft, HandleLeft,
	HandleRotate,
}

// dir returns the handle's position on the unit box, each component in
// {-1, 0, 1}.
func (h Handle) dir() Vec2 {
	switch h {
	case HandleTopLeft:
		return Vec2{-1, -1}
	case HandleTop, HandleRotate:
		return Vec2{0, -1}
	case HandleTopRight:
		return Vec2{1, -1}
	case HandleRight:
		return Vec2{1, 0}
	case HandleBottomRight:
		return Vec2{1, 1}
	case HandleBottom:
		return Vec2{0, 1}
	case HandleBottomLeft:
		return Vec2{-1, 1}
	case HandleLeft:
		return Vec2{-1, 0}
	}
	return Vec2{}
}

// IsCorner reports whether the handle scales uniformly.
func (h Handle) IsCorner() bool {
	switch h {
	case HandleTopLeft, HandleTopRight, HandleBottomRight, HandleBottomLeft:
		return true
	}
	return false
}

// IsEdge reports whether the handle scales a single axis.
func (h Handle) IsEdge() bool {
	switch h {
	case HandleTop, HandleRight, HandleBottom, HandleLeft:
		return true
	}
	return false
}

// Gizmo lays out transform handles for the current selection. With one
// object selected the handles are children of its node; with several they
// sit on a world-space group container sized to the union of the members'
// hit rectangles.
type Gizmo struct {
	cfg Config

	handles []*Node // single-mode handles
	target  *Node   // node the single-mode handles are attached to

	overlay      *Node // root of the group container
	group        *Node
	groupHandles []*Node
	groupBox     Rect // render space, at layout time
}

// NewGizmo creates the handle nodes.
func NewGizmo(cfg Config) *Gizmo {
	g := &Gizmo{cfg: cfg, overlay: NewContainer(), group: NewContainer()}
	g.overlay.AddChild(g.group)
	g.group.Visible = false
	for _, h := range allHandles {
		g.handles = append(g.handles, newHandleNode(h, cfg.HandleSize))
		gh := newHandleNode(h, cfg.HandleSize)
		g.groupHandles = append(g.groupHandles, gh)
		g.group.AddChild(gh)
	}
	return g
}

// detach unparents the single-mode handles, so that disposing the object
// node does not dispose them.
func (g *Gizmo) detach() {
	for _, h := range g.handles {
		h.RemoveFromParent()
	}
	g.target = nil
}

// hide hides every handle.
func (g *Gizmo) hide() {
	g.detach()
	g.group.Visible = false
}

// Layout positions the handles for sel. zoom is the camera zoom; handles keep
// a constant screen size. showGroup is false while a session other than a
// group handle drag is in flight.
func (g *Gizmo) Layout(display *DisplayList, sel Selection, zoom float64, showGroup bool) {
	switch {
	case sel.Len() == 1:
		g.group.Visible = false
		n, ok := display.Node(sel.Primary())
		if !ok || !n.effectivelyVisible() {
			g.detach()
			return
		}
		g.layoutSingle(n, zoom)
	case sel.Len() > 1 && showGroup:
		g.detach()
		box, ok := selectionBounds(display, sel.IDs())
		if !ok {
			g.group.Visible = false
			return
		}
		g.layoutGroup(box, zoom)
	default:
		g.hide()
	}
	updateWorldTransform(g.overlay, identityTransform, 1, false)
}

func (g *Gizmo) layoutSingle(n *Node, zoom float64) {
	if g.target != n {
		g.detach()
		for _, h := range g.handles {
			n.AddChild(h)
		}
		g.target = n
	}
	box := n.HitBounds()
	sx := 1 / (nonZero(math.Abs(n.ScaleX)) * zoom)
	sy := 1 / (nonZero(math.Abs(n.ScaleY)) * zoom)
	offset := g.cfg.RotateHandleOffset / (nonZero(math.Abs(n.ScaleY)) * zoom)
	placeHandles(g.handles, box, sx, sy, offset)
}

func (g *Gizmo) layoutGroup(box Rect, zoom float64) {
	g.groupBox = box
	c := box.Center()
	g.group.Visible = true
	g.group.SetPosition(c.X, c.Y)
	local := Rect{X: -box.Width / 2, Y: -box.Height / 2, Width: box.Width, Height: box.Height}
	placeHandles(g.groupHandles, local, 1/zoom, 1/zoom, g.cfg.RotateHandleOffset/zoom)
}

// placeHandles positions handles around a local box. The rotate handle
// sits offset above the top edge.
func placeHandles(handles []*Node, box Rect, sx, sy, rotateOffset float64) {
	c := box.Center()
	for _, h := range handles {
		d := h.Handle.dir()
		x := c.X + d.X*box.Width/2
		y := c.Y + d.Y*box.Height/2
		if h.Handle == HandleRotate {
			y -= rotateOffset
		}
		h.SetPosition(x, y)
		h.SetScale(sx, sy)
	}
}

// visibleHandles returns the handles currently laid out.
func (g *Gizmo) visibleHandles() []*Node {
	if g.target != nil {
		return g.handles
	}
	if g.group.Visible {
		return g.groupHandles
	}
	return nil
}

// Active reports whether any handle is shown.
func (g *Gizmo) Active() bool { return len(g.visibleHandles()) > 0 }

// Grouped reports whether the group container is shown.
func (g *Gizmo) Grouped() bool { return g.group.Visible }

// HandleAt returns the handle under the render-space point, or HandleNone.
// Handle nodes are counter-scaled so their local size is the configured
// screen size.
func (g *Gizmo) HandleAt(wx, wy float64) Handle {
	hs := g.visibleHandles()
	for i := len(hs) - 1; i >= 0; i-- {
		h := hs[i]
		lx, ly := h.WorldToLocal(wx, wy)
		half := h.Width / 2
		if lx >= -half && lx <= half && ly >= -half && ly <= half {
			return h.Handle
		}
	}
	return HandleNone
}

// handleWorld returns the render-space position of a visible handle.
func (g *Gizmo) handleWorld(handle Handle) (Vec2, bool) {
	for _, h := range g.visibleHandles() {
		if h.Handle == handle {
			x, y := h.LocalToWorld(0, 0)
			return Vec2{x, y}, true
		}
	}
	return Vec2{}, false
}

// selectionBounds returns the render-space union of the members' hit-rect
// AABBs.
func selectionBounds(display *DisplayList, ids []string) (Rect, bool) {
	var box Rect
	found := false
	for _, id := range ids {
		n, ok := display.Node(id)
		if !ok {
			continue
		}
		b := n.WorldBounds()
		if !found {
			box = b
			found = true
		} else {
			box = box.Union(b)
		}
	}
	return box, found
}

func nonZero(v float64) float64 {
	if v < 1e-9 {
		return 1e-9
	}
	return v
}

// --- Sessions ---

// memberStart is one object's render-space transform captured at session
// start. Rotation is in radians.
type memberStart struct {
	id             string
	node           *Node
	x, y           float64
	scaleX, scaleY float64
	rotation       float64
}

func captureMember(n *Node) memberStart {
	return memberStart{
		id: n.ObjectID, node: n,
		x: n.X, y: n.Y,
		scaleX: n.ScaleX, scaleY: n.ScaleY,
		rotation: n.Rotation,
	}
}

// memberTransform is a member's live render-space transform.
type memberTransform struct {
	id             string
	node           *Node
	x, y           float64
	scaleX, scaleY float64
	rotation       float64
}

func (m memberTransform) apply() {
	m.node.SetPosition(m.x, m.y)
	m.node.SetScale(m.scaleX, m.scaleY)
	m.node.SetRotation(m.rotation)
}

// gizmoSession captures everything a handle drag needs at pointer-down.
type gizmoSession struct {
	handle Handle
	centre Vec2 // render space
	// axisU and axisV are the box axes in render space: the object's local
	// axes in single mode, the world axes in group mode.
	axisU, axisV Vec2
	// handleOffset is the handle position minus centre at start.
	handleOffset Vec2
	startPointer Vec2
	minFactor    float64
	members      []memberStart
}

// beginSession starts a handle drag. pointer is in render space.
func (g *Gizmo) beginSession(handle Handle, display *DisplayList, sel Selection, pointer Vec2) (*gizmoSession, bool) {
	hp, ok := g.handleWorld(handle)
	if !ok {
		return nil, false
	}
	s := &gizmoSession{
		handle:       handle,
		startPointer: pointer,
		minFactor:    g.cfg.MinScaleFactor,
		axisU:        Vec2{1, 0},
		axisV:        Vec2{0, 1},
	}
	if g.target != nil {
		n := g.target
		box := n.HitBounds().Center()
		cx, cy := n.LocalToWorld(box.X, box.Y)
		s.centre = Vec2{cx, cy}
		s.axisU = rotateVec(Vec2{1, 0}, n.Rotation)
		s.axisV = rotateVec(Vec2{0, 1}, n.Rotation)
		s.members = []memberStart{captureMember(n)}
	} else {
		s.centre = g.groupBox.Center()
		for _, id := range sel.IDs() {
			if n, ok := display.Node(id); ok {
				s.members = append(s.members, captureMember(n))
			}
		}
	}
	if handle == HandleRotate {
		s.handleOffset = pointer.Sub(s.centre)
	} else {
		// The corner/edge position on the box, ignoring handle scale.
		s.handleOffset = hp.Sub(s.centre)
	}
	return s, len(s.members) > 0
}

// scaleFactors returns the factors along the box axes for pointer p.
// Corners scale uniformly; edges scale only their own axis.
func (s *gizmoSession) scaleFactors(p Vec2) (fx, fy float64) {
	half := math.Hypot(s.handleOffset.X, s.handleOffset.Y)
	if half < 1e-9 {
		return 1, 1
	}
	dir := s.handleOffset.Scale(1 / half)
	f := 1 + p.Sub(s.startPointer).Dot(dir)/half
	if f < s.minFactor {
		f = s.minFactor
	}
	switch s.handle {
	case HandleLeft, HandleRight:
		return f, 1
	case HandleTop, HandleBottom:
		return 1, f
	}
	return f, f
}

// scaled returns every member's transform for pointer p: the offset from
// the centre is scaled along the box axes and the member's own scale is
// multiplied by the same factors.
func (s *gizmoSession) scaled(p Vec2) []memberTransform {
	fx, fy := s.scaleFactors(p)
	out := make([]memberTransform, len(s.members))
	for i, m := range s.members {
		off := Vec2{m.x, m.y}.Sub(s.centre)
		u := off.Dot(s.axisU) * fx
		v := off.Dot(s.axisV) * fy
		pos := s.centre.Add(s.axisU.Scale(u)).Add(s.axisV.Scale(v))
		out[i] = memberTransform{
			id: m.id, node: m.node,
			x: pos.X, y: pos.Y,
			scaleX: m.scaleX * fx, scaleY: m.scaleY * fy,
			rotation: m.rotation,
		}
	}
	return out
}

// rotationDelta returns the angle swept around the centre since start, in
// radians (clockwise on screen), wrapped into (-π, π].
func (s *gizmoSession) rotationDelta(p Vec2) float64 {
	start := math.Atan2(s.handleOffset.Y, s.handleOffset.X)
	now := p.Sub(s.centre)
	d := math.Atan2(now.Y, now.X) - start
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	return d
}

// rotated returns every member's transform for pointer p: offsets rotate
// about the centre and each rotation advances by the same delta.
func (s *gizmoSession) rotated(p Vec2) []memberTransform {
	delta := s.rotationDelta(p)
	out := make([]memberTransform, len(s.members))
	for i, m := range s.members {
		off := rotateVec(Vec2{m.x, m.y}.Sub(s.centre), delta)
		pos := s.centre.Add(off)
		out[i] = memberTransform{
			id: m.id, node: m.node,
			x: pos.X, y: pos.Y,
			scaleX: m.scaleX, scaleY: m.scaleY,
			rotation: m.rotation + delta,
		}
	}
	return out
}

// update computes and applies live transforms for pointer p.
func (s *gizmoSession) update(p Vec2) []memberTransform {
	var ts []memberTransform
	if s.handle == HandleRotate {
		ts = s.rotated(p)
	} else {
		ts = s.scaled(p)
	}
	for _, t := range ts {
		if !t.node.disposed {
			t.apply()
		}
	}
	return ts
}
