package stage

import (
	"image"
	"image/color"
	"testing"
)

// placedNode creates an object node at render (x, y) and refreshes it under
// a root container.
func placedNode(id string, x, y, w, h float64, depth int) *Node {
	n := NewObjectNode(id, w, h)
	n.SetPosition(x, y)
	n.Depth = depth
	return n
}

func refreshAll(nodes ...*Node) {
	root := NewContainer()
	for _, n := range nodes {
		root.AddChild(n)
	}
	updateWorldTransform(root, identityTransform, 1, false)
}

// halfOpaque returns a w×h image whose left half is opaque and right half
// fully transparent.
func halfOpaque(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	return img
}

func TestPickTopmostDepth(t *testing.T) {
	low := placedNode("low", 100, 100, 80, 80, 1)
	high := placedNode("high", 120, 120, 80, 80, 2)
	refreshAll(low, high)

	var p Picker
	id, ok := p.Pick([]*Node{high, low}, 110, 110)
	if !ok || id != "high" {
		t.Errorf("Pick in overlap = %q, %v; want high", id, ok)
	}
	id, ok = p.Pick([]*Node{high, low}, 65, 65)
	if !ok || id != "low" {
		t.Errorf("Pick outside overlap = %q, %v; want low", id, ok)
	}
	if _, ok := p.Pick([]*Node{high, low}, 400, 400); ok {
		t.Error("Pick on empty space should miss")
	}
}

func TestPickEqualDepthPrefersLaterNode(t *testing.T) {
	first := placedNode("first", 50, 50, 40, 40, 3)
	second := placedNode("second", 50, 50, 40, 40, 3)
	refreshAll(first, second)

	id, _ := Picker{}.Pick([]*Node{first, second}, 50, 50)
	if id != "second" {
		t.Errorf("Pick = %q, want second", id)
	}
}

func TestPickSkipsHiddenAndInactive(t *testing.T) {
	top := placedNode("top", 50, 50, 40, 40, 2)
	under := placedNode("under", 50, 50, 40, 40, 1)
	refreshAll(top, under)

	tests := []struct {
		name string
		mod  func()
	}{
		{"invisible", func() { top.Visible = false }},
		{"inactive", func() { top.Active = false }},
		{"transparent", func() { top.Alpha = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top.Visible, top.Active, top.Alpha = true, true, 1
			tt.mod()
			id, _ := Picker{}.Pick([]*Node{top, under}, 50, 50)
			if id != "under" {
				t.Errorf("Pick = %q, want under", id)
			}
		})
	}
}

func TestPickAlpha(t *testing.T) {
	n := placedNode("sprite", 100, 100, 40, 20, 1)
	n.Texture = NewTexture("half", halfOpaque(40, 20))
	refreshAll(n)

	var p Picker
	// Local x in [-20, 0) is opaque, [0, 20) transparent.
	if _, ok := p.Pick([]*Node{n}, 90, 100); !ok {
		t.Error("opaque pixel should hit")
	}
	if _, ok := p.Pick([]*Node{n}, 110, 100); ok {
		t.Error("transparent pixel inside bounds should miss")
	}
	if _, ok := p.Pick([]*Node{n}, 130, 100); ok {
		t.Error("point outside the bitmap should miss")
	}
}

func TestPickAlphaThreshold(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y, color.NRGBA{A: 100})
		}
	}
	n := placedNode("ghost", 50, 50, 10, 10, 1)
	n.Texture = NewTexture("ghost", img)
	refreshAll(n)

	if _, ok := (Picker{AlphaThreshold: 1}).Pick([]*Node{n}, 50, 50); !ok {
		t.Error("threshold 1 should hit alpha 100")
	}
	if _, ok := (Picker{AlphaThreshold: 200}).Pick([]*Node{n}, 50, 50); ok {
		t.Error("threshold 200 should miss alpha 100")
	}
}

func TestPickFailsOpenWithoutSource(t *testing.T) {
	n := placedNode("pending", 50, 50, 10, 10, 1)
	n.Texture = &Texture{AssetID: "pending"}
	refreshAll(n)

	if _, ok := (Picker{}).Pick([]*Node{n}, 52, 52); !ok {
		t.Error("unsampleable bitmap should count as a hit")
	}
}

func TestPickRotatedNode(t *testing.T) {
	// A 100×10 bar rotated 90° becomes a 10×100 vertical bar.
	n := placedNode("bar", 200, 200, 100, 10, 1)
	n.SetRotation(degToRad(90))
	refreshAll(n)

	if _, ok := (Picker{}).Pick([]*Node{n}, 200, 240); !ok {
		t.Error("point along the rotated bar should hit")
	}
	if _, ok := (Picker{}).Pick([]*Node{n}, 240, 200); ok {
		t.Error("point along the unrotated axis should miss")
	}
}

func TestPickUsesHitRect(t *testing.T) {
	n := placedNode("trimmed", 100, 100, 100, 100, 1)
	n.HitRect = &Rect{X: -10, Y: -10, Width: 20, Height: 20}
	refreshAll(n)

	if _, ok := (Picker{}).Pick([]*Node{n}, 105, 105); !ok {
		t.Error("inside hit rect should hit")
	}
	if _, ok := (Picker{}).Pick([]*Node{n}, 140, 140); ok {
		t.Error("outside hit rect should miss")
	}
}

func TestNodesInRect(t *testing.T) {
	a := placedNode("a", 0, 0, 10, 10, 0)
	b := placedNode("b", 50, 50, 10, 10, 1)
	c := placedNode("c", 200, 200, 10, 10, 2)
	hidden := placedNode("hidden", 20, 20, 10, 10, 3)
	hidden.Visible = false
	refreshAll(a, b, c, hidden)

	got := nodesInRect([]*Node{a, b, c, hidden}, RectFromPoints(-10, -10, 60, 60))
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("nodesInRect = %v, want [a b]", got)
	}
}
