package stage

import "github.com/jakecoffman/cp"

// defaultGroundHeight is used when a scene's ground has no height.
const defaultGroundHeight = 40

// World is one scene's physics simulation. Positions are render space
// (+Y down), so gravity is positive.
type World struct {
	space  *cp.Space
	canvas Canvas
	ground *cp.Body
	onStep handlerList[float64]
	steps  int
}

// NewWorld creates an empty world with the configured gravity.
func NewWorld(cfg Config) *World {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: 0, Y: cfg.Gravity})
	return &World{space: space, canvas: cfg.Canvas()}
}

// Space exposes the underlying Chipmunk space.
func (w *World) Space() *cp.Space { return w.space }

// Steps returns how many times the world has been stepped.
func (w *World) Steps() int { return w.steps }

// OnStep registers a callback run after every step.
func (w *World) OnStep(fn func(dt float64)) CallbackHandle {
	return w.onStep.add(fn)
}

// Step advances the simulation by dt seconds, then runs the step hooks.
func (w *World) Step(dt float64) {
	w.space.Step(dt)
	w.steps++
	w.onStep.fire(dt)
}

// SetGround adds a static floor spanning well past the canvas. g.Y is the
// author-space top edge. A nil ground removes the floor.
func (w *World) SetGround(g *Ground) {
	if w.ground != nil {
		w.removeBody(w.ground)
		w.ground = nil
	}
	if g == nil {
		return
	}
	h := g.Height
	if h <= 0 {
		h = defaultGroundHeight
	}
	width := w.canvas.Width * 3
	_, top := w.canvas.AuthorToRender(0, g.Y)
	body := cp.NewStaticBody()
	body.SetPosition(cp.Vector{X: w.canvas.Width / 2, Y: top + h/2})
	shape := cp.NewBox(body, width, h, 0)
	shape.SetFriction(g.Friction)
	w.space.AddBody(body)
	w.space.AddShape(shape)
	w.ground = body
}

// removeBody removes a body and all its shapes from the space.
func (w *World) removeBody(body *cp.Body) {
	var shapes []*cp.Shape
	body.EachShape(func(s *cp.Shape) { shapes = append(shapes, s) })
	for _, s := range shapes {
		w.space.RemoveShape(s)
	}
	w.space.RemoveBody(body)
}
