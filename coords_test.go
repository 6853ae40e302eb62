package stage

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestAuthorToRender(t *testing.T) {
	c := Canvas{Width: 800, Height: 600}
	tests := []struct {
		name   string
		ax, ay float64
		rx, ry float64
	}{
		{"origin is centre", 0, 0, 400, 300},
		{"up is negative render y", 0, 100, 400, 200},
		{"top-left corner", -400, 300, 0, 0},
		{"bottom-right corner", 400, -300, 800, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rx, ry := c.AuthorToRender(tt.ax, tt.ay)
			if rx != tt.rx || ry != tt.ry {
				t.Errorf("AuthorToRender(%v,%v) = (%v,%v), want (%v,%v)", tt.ax, tt.ay, rx, ry, tt.rx, tt.ry)
			}
		})
	}
}

func TestCoordinateRoundTrip(t *testing.T) {
	canvases := []Canvas{{800, 600}, {960, 720}, {1, 1}, {1920, 1080}, {333, 777}}
	points := [][2]float64{{0, 0}, {12, -7}, {-480, 360}, {0.5, 0.25}, {1e6, -1e6}, {-3.75, 1024}}
	for _, c := range canvases {
		for _, p := range points {
			rx, ry := c.AuthorToRender(p[0], p[1])
			ax, ay := c.RenderToAuthor(rx, ry)
			if ax != p[0] || ay != p[1] {
				t.Errorf("canvas %v: round trip of %v = (%v,%v)", c, p, ax, ay)
			}
		}
	}
}

func TestAuthorVecToRenderFlipsY(t *testing.T) {
	c := Canvas{Width: 800, Height: 600}
	x, y := c.AuthorVecToRender(10, 20)
	if x != 10 || y != -20 {
		t.Errorf("AuthorVecToRender = (%v,%v), want (10,-20)", x, y)
	}
}

func TestCanvasBounds(t *testing.T) {
	c := Canvas{Width: 800, Height: 600}
	if got := c.Center(); got != (Vec2{400, 300}) {
		t.Errorf("Center = %v", got)
	}
	if got := c.Bounds(); got != (Rect{Width: 800, Height: 600}) {
		t.Errorf("Bounds = %v", got)
	}
}
