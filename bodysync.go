package stage

import (
	"math"

	"github.com/jakecoffman/cp"
)

// minBodyDimension is the smallest width, height or radius a body is built
// with. Smaller collider dimensions are clamped up to it.
const minBodyDimension = 1.0

// syncedBody ties one object's simulation body to its visual node.
type syncedBody struct {
	objectID      string
	body          *cp.Body
	shape         *cp.Shape
	node          *Node
	offset        cp.Vector // render space, body position minus node position
	static        bool
	allowRotation bool
}

// BodySync owns the simulation bodies of one world and writes their
// positions back to the display nodes after every step.
type BodySync struct {
	world  *World
	bodies map[string]*syncedBody
	hook   CallbackHandle
}

// NewBodySync creates a synchronizer over world and hooks it into the
// world's step.
func NewBodySync(world *World) *BodySync {
	b := &BodySync{world: world, bodies: make(map[string]*syncedBody)}
	b.hook = world.OnStep(b.sync)
	return b
}

// Body returns the body built for objectID.
func (b *BodySync) Body(objectID string) (*cp.Body, bool) {
	sb, ok := b.bodies[objectID]
	if !ok {
		return nil, false
	}
	return sb.body, true
}

// Offset returns the render-space offset between objectID's body and node.
func (b *BodySync) Offset(objectID string) (Vec2, bool) {
	sb, ok := b.bodies[objectID]
	if !ok {
		return Vec2{}, false
	}
	return Vec2{sb.offset.X, sb.offset.Y}, true
}

// Len returns the number of live bodies.
func (b *BodySync) Len() int { return len(b.bodies) }

// Apply makes the world match obj: a body exists if and only if physics is
// enabled. An existing body is rebuilt from the current configuration.
func (b *BodySync) Apply(obj *GameObject, node *Node) {
	b.Remove(obj.ID)
	if obj.PhysicsEnabled() && node != nil {
		b.Create(obj, node)
	}
}

// Remove deletes objectID's body and stops syncing its node.
func (b *BodySync) Remove(objectID string) {
	sb, ok := b.bodies[objectID]
	if !ok {
		return
	}
	delete(b.bodies, objectID)
	b.world.removeBody(sb.body)
}

// Close removes every body and detaches from the world's step.
func (b *BodySync) Close() {
	for id := range b.bodies {
		b.Remove(id)
	}
	b.hook.Remove()
}

// Refit rebuilds objectID's body for the node's current graphic, keeping
// the body's velocities. It does nothing when the object has no body.
func (b *BodySync) Refit(obj *GameObject, node *Node) {
	if b == nil || node == nil {
		return
	}
	old, ok := b.bodies[obj.ID]
	if !ok {
		return
	}
	v, w := old.body.Velocity(), old.body.AngularVelocity()
	b.Remove(obj.ID)
	body := b.Create(obj, node)
	if !old.static && body.GetType() != cp.BODY_STATIC {
		body.SetVelocityVector(v)
		body.SetAngularVelocity(w)
	}
}

// bodyBounds is the local rectangle a body is sized from: the current
// costume's authored visible bounds, else the node's hit rectangle.
func bodyBounds(obj *GameObject, node *Node) Rect {
	if c, ok := obj.CurrentCostume(); ok && c.Bounds != nil {
		return *visibleRect(node.Width, node.Height, *c.Bounds)
	}
	return node.HitBounds()
}

// Create builds the body for obj from its collider and physics config and
// the node's current size and transform.
func (b *BodySync) Create(obj *GameObject, node *Node) *cp.Body {
	cfg := obj.Physics
	collider := ColliderConfig{Shape: ColliderBox}
	if obj.Collider != nil {
		collider = *obj.Collider
	}

	sx, sy := math.Abs(node.ScaleX), math.Abs(node.ScaleY)
	vis := bodyBounds(obj, node)
	w := max(vis.Width*sx, minBodyDimension)
	h := max(vis.Height*sy, minBodyDimension)

	// The body sits on the visible content's centre, shifted by the collider
	// offset. Author offsets are +Y up.
	c := vis.Center()
	offset := cp.Vector{
		X: (c.X + collider.OffsetX) * node.ScaleX,
		Y: (c.Y - collider.OffsetY) * node.ScaleY,
	}

	mass := cfg.Mass
	if mass <= 0 {
		mass = 1
	}

	var body *cp.Body
	if cfg.Static {
		body = cp.NewStaticBody()
	} else {
		body = cp.NewBody(mass, 1)
	}

	var shape *cp.Shape
	var moment float64
	switch collider.Shape {
	case ColliderCircle:
		r := collider.Radius
		if r <= 0 {
			r = max(vis.Width, vis.Height) / 2
		}
		r = max(r*max(sx, sy), minBodyDimension)
		shape = cp.NewCircle(body, r, cp.Vector{})
		moment = cp.MomentForCircle(mass, 0, r, cp.Vector{})
	case ColliderCapsule:
		// Rounded box: the core is inset by the corner radius so the outer
		// extent stays w by h.
		r := max(min(w, h)/2-minBodyDimension/2, 0)
		shape = cp.NewBox(body, w-2*r, h-2*r, r)
		moment = cp.MomentForBox(mass, w, h)
	case ColliderNone:
		shape = cp.NewBox(body, w, h, 0)
		shape.SetSensor(true)
		moment = cp.MomentForBox(mass, w, h)
	default:
		shape = cp.NewBox(body, w, h, 0)
		moment = cp.MomentForBox(mass, w, h)
	}
	shape.SetElasticity(cfg.Bounce)
	shape.SetFriction(cfg.Friction)

	body.SetPosition(cp.Vector{X: node.X + offset.X, Y: node.Y + offset.Y})
	body.SetAngle(node.Rotation)
	if !cfg.Static {
		if cfg.AllowRotation {
			body.SetMoment(moment)
		} else {
			body.SetMoment(math.Inf(1))
		}
		vx, vy := Canvas{}.AuthorVecToRender(cfg.VelocityX, cfg.VelocityY)
		body.SetVelocity(vx, vy)
		if gs := cfg.GravityScale; gs != nil && *gs != 1 {
			scale := *gs
			body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping, dt float64) {
				cp.BodyUpdateVelocity(body, gravity.Mult(scale), damping, dt)
			})
		}
	} else {
		body.SetVelocity(0, 0)
		body.SetAngularVelocity(0)
	}

	b.world.space.AddBody(body)
	b.world.space.AddShape(shape)
	b.bodies[obj.ID] = &syncedBody{
		objectID:      obj.ID,
		body:          body,
		shape:         shape,
		node:          node,
		offset:        offset,
		static:        cfg.Static,
		allowRotation: cfg.AllowRotation,
	}
	return body
}

// sync writes body positions to their nodes. Static bodies never move;
// rotation is written only when the object allows it.
func (b *BodySync) sync(float64) {
	for _, sb := range b.bodies {
		if sb.static || sb.node.disposed {
			continue
		}
		p := sb.body.Position().Sub(sb.offset)
		sb.node.SetPosition(p.X, p.Y)
		if sb.allowRotation {
			sb.node.SetRotation(sb.body.Angle())
		}
	}
}
