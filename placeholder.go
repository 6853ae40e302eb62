package stage

import (
	"hash/fnv"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// placeholderColor returns the deterministic colour used for an object whose
// costume is missing, pending or failed to decode.
func placeholderColor(objectID string) Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(objectID))
	hue := float64(h.Sum32()%360) / 60
	// Fixed saturation 0.55, value 0.85.
	const s, v = 0.55, 0.85
	c := v * s
	x := c * (1 - math.Abs(math.Mod(hue, 2)-1))
	var r, g, b float64
	switch int(hue) {
	case 0:
		r, g, b = c, x, 0
	case 1:
		r, g, b = x, c, 0
	case 2:
		r, g, b = 0, c, x
	case 3:
		r, g, b = 0, x, c
	case 4:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := v - c
	return Color{R: r + m, G: g + m, B: b + m, A: 1}
}

// roundedRectMask rasterizes a white rounded rectangle of the given size with
// corner radius r. The result is tinted at draw time.
func roundedRectMask(w, h int, r float32) *image.RGBA {
	fw, fh := float32(w), float32(h)
	r = min(r, fw/2, fh/2)
	z := vector.NewRasterizer(w, h)
	z.MoveTo(r, 0)
	z.LineTo(fw-r, 0)
	z.QuadTo(fw, 0, fw, r)
	z.LineTo(fw, fh-r)
	z.QuadTo(fw, fh, fw-r, fh)
	z.LineTo(r, fh)
	z.QuadTo(0, fh, 0, fh-r)
	z.LineTo(0, r)
	z.QuadTo(0, 0, r, 0)
	z.ClosePath()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	z.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{})
	return dst
}
