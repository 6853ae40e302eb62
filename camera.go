package stage

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X, Y and zoom.
type scrollAnim struct {
	tweenX, tweenY, tweenZoom *gween.Tween
	doneX, doneY, doneZoom    bool
}

// Camera maps render space onto the screen: position, zoom and viewport.
type Camera struct {
	// X and Y are the render-space position shown at the viewport centre.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	MinZoom, MaxZoom float64

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool

	scrollTween *scrollAnim
}

// NewCamera creates a camera centred on (x, y) at zoom 1.
func NewCamera(viewport Rect, x, y float64) *Camera {
	return &Camera{
		X:        x,
		Y:        y,
		Zoom:     1.0,
		Viewport: viewport,
		MinZoom:  0.1,
		MaxZoom:  8,
		dirty:    true,
	}
}

// ScrollTo animates the camera to the given render position and zoom over
// duration seconds.
func (c *Camera) ScrollTo(x, y, zoom float64, duration float32, easeFn ease.TweenFunc) {
	zoom = c.clampZoom(zoom)
	c.scrollTween = &scrollAnim{
		tweenX:    gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY:    gween.New(float32(c.Y), float32(y), duration, easeFn),
		tweenZoom: gween.New(float32(c.Zoom), float32(zoom), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool { return c.scrollTween != nil }

// StopScroll cancels any running scroll animation.
func (c *Camera) StopScroll() { c.scrollTween = nil }

// Pan moves the camera by a screen-space delta. Dragging the content right
// moves the camera left, so the delta is subtracted.
func (c *Camera) Pan(dxScreen, dyScreen float64) {
	c.StopScroll()
	c.X -= dxScreen / c.Zoom
	c.Y -= dyScreen / c.Zoom
	c.dirty = true
}

// ZoomAt multiplies the zoom by factor, keeping the render-space point under
// screen position (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float64) {
	c.StopScroll()
	wx, wy := c.ScreenToWorld(sx, sy)
	c.Zoom = c.clampZoom(c.Zoom * factor)
	c.dirty = true
	nx, ny := c.ScreenToWorld(sx, sy)
	c.X += wx - nx
	c.Y += wy - ny
	c.dirty = true
}

func (c *Camera) clampZoom(z float64) float64 {
	if c.MinZoom > 0 && z < c.MinZoom {
		return c.MinZoom
	}
	if c.MaxZoom > 0 && z > c.MaxZoom {
		return c.MaxZoom
	}
	return z
}

// update advances the scroll animation.
func (c *Camera) update(dt float32) {
	if c.scrollTween == nil {
		return
	}
	st := c.scrollTween
	if !st.doneX {
		val, done := st.tweenX.Update(dt)
		c.X = float64(val)
		st.doneX = done
	}
	if !st.doneY {
		val, done := st.tweenY.Update(dt)
		c.Y = float64(val)
		st.doneY = done
	}
	if !st.doneZoom {
		val, done := st.tweenZoom.Update(dt)
		c.Zoom = float64(val)
		st.doneZoom = done
	}
	if st.doneX && st.doneY && st.doneZoom {
		c.scrollTween = nil
	}
	c.dirty = true
}

// computeViewMatrix recomputes the cached view matrix if dirty.
//
// viewMatrix = Translate(cx, cy) * Scale(zoom) * Translate(-X, -Y)
// where cx, cy = viewport center.
func (c *Camera) computeViewMatrix() [6]float64 {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	z := c.Zoom

	c.viewMatrix = [6]float64{z, 0, 0, z, cx - z*c.X, cy - z*c.Y}
	c.invViewMatrix = invertAffine(c.viewMatrix)
	return c.viewMatrix
}

// WorldToScreen converts render-space coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	c.computeViewMatrix()
	return transformPoint(c.viewMatrix, wx, wy)
}

// ScreenToWorld converts screen coordinates to render-space coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.computeViewMatrix()
	return transformPoint(c.invViewMatrix, sx, sy)
}

// VisibleBounds returns the render-space rectangle visible through the
// viewport.
func (c *Camera) VisibleBounds() Rect {
	x0, y0 := c.ScreenToWorld(c.Viewport.X, c.Viewport.Y)
	x1, y1 := c.ScreenToWorld(c.Viewport.X+c.Viewport.Width, c.Viewport.Y+c.Viewport.Height)
	return RectFromPoints(x0, y0, x1, y1)
}

// MarkDirty forces a recomputation of the view matrix.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// fitZoom returns the zoom that fits r inside the viewport with margin
// screen pixels on each side.
func (c *Camera) fitZoom(r Rect, margin float64) float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return c.Zoom
	}
	zx := (c.Viewport.Width - 2*margin) / r.Width
	zy := (c.Viewport.Height - 2*margin) / r.Height
	return c.clampZoom(min(zx, zy))
}
