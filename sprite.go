package stage

import (
	"github.com/jakecoffman/cp"
)

// Sprite is a script's handle to one object of a running scene. All values
// are author space: origin at the canvas centre, +Y up, degrees clockwise.
// A sprite from a destroyed or restarted runtime is inert: setters do
// nothing and getters return zero values.
type Sprite struct {
	rt  *Runtime
	gen uint64
	id  string
}

// ID returns the object id.
func (s *Sprite) ID() string { return s.id }

// Alive reports whether the sprite still belongs to a live runtime.
func (s *Sprite) Alive() bool {
	_, ok := s.node()
	return ok
}

func (s *Sprite) node() (*Node, bool) {
	if s == nil || s.rt == nil || s.rt.generation != s.gen || s.rt.state == RuntimeDestroyed {
		return nil, false
	}
	return s.rt.display.Node(s.id)
}

func (s *Sprite) body() (*cp.Body, bool) {
	if _, ok := s.node(); !ok {
		return nil, false
	}
	return s.rt.bodies.Body(s.id)
}

// Position returns the object's position.
func (s *Sprite) Position() (x, y float64) {
	n, ok := s.node()
	if !ok {
		return 0, 0
	}
	return s.rt.display.Canvas().RenderToAuthor(n.X, n.Y)
}

// SetPosition moves the object and its body.
func (s *Sprite) SetPosition(x, y float64) {
	n, ok := s.node()
	if !ok {
		return
	}
	rx, ry := s.rt.display.Canvas().AuthorToRender(x, y)
	n.SetPosition(rx, ry)
	if b, ok := s.body(); ok {
		off, _ := s.rt.bodies.Offset(s.id)
		b.SetPosition(cp.Vector{X: rx + off.X, Y: ry + off.Y})
	}
}

// Rotation returns the object's rotation in degrees.
func (s *Sprite) Rotation() float64 {
	n, ok := s.node()
	if !ok {
		return 0
	}
	return radToDeg(n.Rotation)
}

// SetRotation sets the object's rotation in degrees.
func (s *Sprite) SetRotation(deg float64) {
	n, ok := s.node()
	if !ok {
		return
	}
	n.SetRotation(degToRad(deg))
	if b, ok := s.body(); ok {
		b.SetAngle(degToRad(deg))
	}
}

// Velocity returns the body's velocity, or zero without a body.
func (s *Sprite) Velocity() (vx, vy float64) {
	b, ok := s.body()
	if !ok {
		return 0, 0
	}
	v := b.Velocity()
	return v.X, -v.Y
}

// SetVelocity sets the body's velocity. It does nothing without a body or
// on a static body.
func (s *Sprite) SetVelocity(vx, vy float64) {
	b, ok := s.body()
	if !ok || b.GetType() == cp.BODY_STATIC {
		return
	}
	b.SetVelocity(vx, -vy)
}

// Visible reports whether the object is shown.
func (s *Sprite) Visible() bool {
	n, ok := s.node()
	return ok && n.Visible
}

// SetVisible shows or hides the object.
func (s *Sprite) SetVisible(v bool) {
	if n, ok := s.node(); ok {
		n.Visible = v
	}
}

// Costume returns the current costume index.
func (s *Sprite) Costume() int {
	if _, ok := s.node(); !ok {
		return 0
	}
	obj, _ := s.rt.object(s.id)
	return obj.CostumeIndex
}

// SetCostume switches to the costume at index. Out-of-range indices are
// ignored.
func (s *Sprite) SetCostume(index int) {
	n, ok := s.node()
	if !ok {
		return
	}
	obj, ok := s.rt.object(s.id)
	if !ok || index < 0 || index >= len(obj.Costumes) {
		return
	}
	obj.CostumeIndex = index
	s.rt.display.setCostume(n, obj)
	s.rt.bodies.Refit(obj, n)
}
