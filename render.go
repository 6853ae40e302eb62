package stage

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// whitePixel is a 1x1 white image used for solid fills.
var whitePixel *ebiten.Image

// placeholderImages caches rasterized placeholder masks by size.
var placeholderImages = map[[2]int]*ebiten.Image{}

var (
	colorOutline  = color.RGBA{R: 0x3d, G: 0x8b, B: 0xfd, A: 0xff}
	colorMarquee  = color.RGBA{R: 0x3d, G: 0x8b, B: 0xfd, A: 0x40}
	colorHandle   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorFrame    = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	colorOffFrame = color.RGBA{R: 0x1e, G: 0x1e, B: 0x24, A: 0xff}
)

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(ColorWhite.toRGBA())
	}
	return whitePixel
}

// renderer draws display nodes through a camera.
type renderer struct {
	camera *Camera
}

// affineGeoM converts a 6-float affine matrix to an ebiten.GeoM.
func affineGeoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// drawCanvas fills the canvas with the scene background. In editor view the
// area outside the canvas is dimmed and the frame is outlined.
func (r renderer) drawCanvas(dst *ebiten.Image, canvas Canvas, bg Color, editorView bool) {
	if editorView {
		dst.Fill(colorOffFrame)
	}
	view := r.camera.computeViewMatrix()
	m := multiplyAffine(view, [6]float64{canvas.Width, 0, 0, canvas.Height, 0, 0})
	var op ebiten.DrawImageOptions
	op.GeoM = affineGeoM(m)
	a := float32(bg.A)
	op.ColorScale.Scale(float32(bg.R)*a, float32(bg.G)*a, float32(bg.B)*a, a)
	dst.DrawImage(ensureWhitePixel(), &op)
	if editorView {
		x0, y0 := r.camera.WorldToScreen(0, 0)
		x1, y1 := r.camera.WorldToScreen(canvas.Width, canvas.Height)
		vector.StrokeRect(dst, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), 1, colorFrame, false)
	}
}

// drawNodes draws object nodes by ascending depth.
func (r renderer) drawNodes(dst *ebiten.Image, nodes []*Node) {
	sorted := append([]*Node(nil), nodes...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Depth < sorted[j].Depth })
	view := r.camera.computeViewMatrix()
	var op ebiten.DrawImageOptions
	for _, n := range sorted {
		if !n.effectivelyVisible() {
			continue
		}
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.GeoM.Translate(-n.Width/2, -n.Height/2)
		var img *ebiten.Image
		if n.Texture != nil && n.Texture.Source != nil {
			img = n.Texture.ebitenImage()
			w, h := n.Texture.Size()
			op.GeoM.Scale(n.Width/w, n.Height/h)
			op.ColorScale.ScaleAlpha(float32(n.worldAlpha))
		} else {
			img = placeholderImage(int(n.Width), int(n.Height))
			c := n.Placeholder
			a := float32(c.A * n.worldAlpha)
			op.ColorScale.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
		}
		geo := affineGeoM(multiplyAffine(view, n.worldTransform))
		op.GeoM.Concat(geo)
		dst.DrawImage(img, &op)
	}
}

func placeholderImage(w, h int) *ebiten.Image {
	w, h = max(w, 1), max(h, 1)
	key := [2]int{w, h}
	if img, ok := placeholderImages[key]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(roundedRectMask(w, h, float32(min(w, h))/6))
	placeholderImages[key] = img
	return img
}

// drawMarquee draws a selection rectangle given in render space.
func (r renderer) drawMarquee(dst *ebiten.Image, rect Rect) {
	x0, y0 := r.camera.WorldToScreen(rect.X, rect.Y)
	x1, y1 := r.camera.WorldToScreen(rect.X+rect.Width, rect.Y+rect.Height)
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(x1-x0, y1-y0)
	op.GeoM.Translate(x0, y0)
	op.ColorScale.ScaleWithColor(colorMarquee)
	dst.DrawImage(ensureWhitePixel(), &op)
	vector.StrokeRect(dst, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), 1, colorOutline, false)
}

// drawGizmo outlines the gizmo box and draws its handles.
func (r renderer) drawGizmo(dst *ebiten.Image, g *Gizmo) {
	handles := g.visibleHandles()
	if len(handles) == 0 {
		return
	}
	var corners [4]Vec2
	if g.target != nil {
		b := g.target.HitBounds()
		pts := [4]Vec2{{b.X, b.Y}, {b.X + b.Width, b.Y}, {b.X + b.Width, b.Y + b.Height}, {b.X, b.Y + b.Height}}
		for i, p := range pts {
			wx, wy := g.target.LocalToWorld(p.X, p.Y)
			corners[i] = Vec2{wx, wy}
		}
	} else {
		b := g.groupBox
		corners = [4]Vec2{{b.X, b.Y}, {b.X + b.Width, b.Y}, {b.X + b.Width, b.Y + b.Height}, {b.X, b.Y + b.Height}}
	}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%4]
		ax, ay := r.camera.WorldToScreen(a.X, a.Y)
		bx, by := r.camera.WorldToScreen(b.X, b.Y)
		vector.StrokeLine(dst, float32(ax), float32(ay), float32(bx), float32(by), 1, colorOutline, true)
	}
	var op ebiten.DrawImageOptions
	for _, h := range handles {
		wx, wy := h.LocalToWorld(0, 0)
		sx, sy := r.camera.WorldToScreen(wx, wy)
		size := h.Width
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.GeoM.Scale(size, size)
		op.GeoM.Translate(sx-size/2, sy-size/2)
		op.ColorScale.ScaleWithColor(colorHandle)
		dst.DrawImage(ensureWhitePixel(), &op)
		vector.StrokeRect(dst, float32(sx-size/2), float32(sy-size/2), float32(size), float32(size), 1, colorOutline, false)
	}
}
