package stage

// Canvas describes the authored game frame. Author space has its origin at
// the canvas centre with +Y up; render space has its origin at the top-left
// with +Y down. Rotation values are the same in both spaces.
type Canvas struct {
	Width, Height float64
}

// AuthorToRender converts an author-space point to render space.
func (c Canvas) AuthorToRender(x, y float64) (float64, float64) {
	return x + c.Width/2, c.Height/2 - y
}

// RenderToAuthor converts a render-space point to author space. It is the
// exact inverse of AuthorToRender.
func (c Canvas) RenderToAuthor(x, y float64) (float64, float64) {
	return x - c.Width/2, c.Height/2 - y
}

// AuthorVecToRender converts a direction or velocity (no translation).
func (c Canvas) AuthorVecToRender(x, y float64) (float64, float64) {
	return x, -y
}

// Center returns the render-space centre of the canvas.
func (c Canvas) Center() Vec2 {
	return Vec2{c.Width / 2, c.Height / 2}
}

// Bounds returns the render-space rectangle of the canvas.
func (c Canvas) Bounds() Rect {
	return Rect{Width: c.Width, Height: c.Height}
}
