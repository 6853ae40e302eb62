package stage

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func newTestCamera() *Camera {
	return NewCamera(Rect{Width: 800, Height: 600}, 400, 300)
}

func TestCameraDefaults(t *testing.T) {
	cam := newTestCamera()
	if cam.Zoom != 1.0 {
		t.Errorf("Zoom = %f, want 1.0", cam.Zoom)
	}
	// Centred on the viewport centre, screen and render coincide.
	sx, sy := cam.WorldToScreen(123, 45)
	if !approxEqual(sx, 123, epsilon) || !approxEqual(sy, 45, epsilon) {
		t.Errorf("WorldToScreen(123,45) = (%f,%f), want identity", sx, sy)
	}
}

func TestCameraZoom(t *testing.T) {
	cam := newTestCamera()
	cam.Zoom = 2.0
	cam.MarkDirty()

	// At zoom 2, one render unit spans two screen pixels.
	sx1, _ := cam.WorldToScreen(1, 0)
	sx0, _ := cam.WorldToScreen(0, 0)
	if !approxEqual(sx1-sx0, 2.0, epsilon) {
		t.Errorf("zoom 2x: 1 unit = %f screen pixels, want 2.0", sx1-sx0)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := newTestCamera()
	cam.X, cam.Y, cam.Zoom = 37, -12, 1.7
	cam.MarkDirty()
	for _, p := range [][2]float64{{0, 0}, {400, 300}, {799, 1}, {-50, 900}} {
		wx, wy := cam.ScreenToWorld(p[0], p[1])
		sx, sy := cam.WorldToScreen(wx, wy)
		if !approxEqual(sx, p[0], 1e-9) || !approxEqual(sy, p[1], 1e-9) {
			t.Errorf("round trip %v = (%f,%f)", p, sx, sy)
		}
	}
}

func TestCameraPanScalesByZoom(t *testing.T) {
	cam := newTestCamera()
	cam.Zoom = 2
	cam.Pan(20, -10)
	if !approxEqual(cam.X, 390, epsilon) || !approxEqual(cam.Y, 305, epsilon) {
		t.Errorf("after Pan camera = (%f,%f), want (390,305)", cam.X, cam.Y)
	}
}

func TestCameraZoomAtKeepsPivot(t *testing.T) {
	tests := []struct {
		name   string
		sx, sy float64
		factor float64
	}{
		{"zoom in at corner", 100, 100, 2},
		{"zoom out off centre", 650, 420, 0.5},
		{"zoom at centre", 400, 300, 1.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := newTestCamera()
			wx, wy := cam.ScreenToWorld(tt.sx, tt.sy)
			cam.ZoomAt(tt.sx, tt.sy, tt.factor)
			nx, ny := cam.ScreenToWorld(tt.sx, tt.sy)
			if !approxEqual(wx, nx, 1e-9) || !approxEqual(wy, ny, 1e-9) {
				t.Errorf("pivot moved from (%f,%f) to (%f,%f)", wx, wy, nx, ny)
			}
			if !approxEqual(cam.Zoom, tt.factor, epsilon) {
				t.Errorf("Zoom = %f, want %f", cam.Zoom, tt.factor)
			}
		})
	}
}

func TestCameraZoomClamp(t *testing.T) {
	cam := newTestCamera()
	cam.MinZoom, cam.MaxZoom = 0.5, 4
	cam.ZoomAt(400, 300, 100)
	if cam.Zoom != 4 {
		t.Errorf("Zoom = %f, want clamped to 4", cam.Zoom)
	}
	cam.ZoomAt(400, 300, 0.0001)
	if cam.Zoom != 0.5 {
		t.Errorf("Zoom = %f, want clamped to 0.5", cam.Zoom)
	}
}

func TestCameraScrollTo(t *testing.T) {
	cam := newTestCamera()
	cam.ScrollTo(100, 200, 2, 1.0, ease.Linear)
	if !cam.Scrolling() {
		t.Fatal("Scrolling = false after ScrollTo")
	}
	cam.update(0.5)
	if !approxEqual(cam.X, 250, 1e-3) || !approxEqual(cam.Zoom, 1.5, 1e-3) {
		t.Errorf("midway = (%f, zoom %f), want (250, zoom 1.5)", cam.X, cam.Zoom)
	}
	cam.update(0.6)
	if cam.Scrolling() {
		t.Error("scroll should have finished")
	}
	if !approxEqual(cam.X, 100, 1e-3) || !approxEqual(cam.Y, 200, 1e-3) || !approxEqual(cam.Zoom, 2, 1e-3) {
		t.Errorf("end = (%f,%f) zoom %f", cam.X, cam.Y, cam.Zoom)
	}
}

func TestCameraPanStopsScroll(t *testing.T) {
	cam := newTestCamera()
	cam.ScrollTo(0, 0, 1, 1, ease.Linear)
	cam.Pan(1, 1)
	if cam.Scrolling() {
		t.Error("Pan should cancel the scroll animation")
	}
}

func TestCameraVisibleBoundsAndFit(t *testing.T) {
	cam := newTestCamera()
	cam.Zoom = 2
	cam.MarkDirty()
	vb := cam.VisibleBounds()
	if want := (Rect{X: 200, Y: 150, Width: 400, Height: 300}); vb != want {
		t.Errorf("VisibleBounds = %v, want %v", vb, want)
	}
	if z := cam.fitZoom(Rect{Width: 200, Height: 100}, 0); !approxEqual(z, 4, epsilon) {
		t.Errorf("fitZoom = %f, want 4", z)
	}
	if z := cam.fitZoom(Rect{Width: 360, Height: 100}, 20); !approxEqual(z, 2, epsilon) {
		t.Errorf("fitZoom with margin = %f, want 2", z)
	}
}
