package stage

import (
	"math"
	"testing"
)

func TestNodeDefaults(t *testing.T) {
	n := NewObjectNode("obj", 10, 20)
	if n.ScaleX != 1 || n.ScaleY != 1 || n.Alpha != 1 || !n.Visible || !n.Active {
		t.Errorf("defaults: %+v", n)
	}
	if n.Kind != NodeObject || n.ObjectID != "obj" {
		t.Errorf("kind/id: %v %q", n.Kind, n.ObjectID)
	}
	if a, b := NewContainer(), NewContainer(); b.ID <= a.ID {
		t.Errorf("ids not increasing: %d then %d", a.ID, b.ID)
	}
}

func TestAddChildReparents(t *testing.T) {
	p1, p2 := NewContainer(), NewContainer()
	c := NewObjectNode("c", 1, 1)
	p1.AddChild(c)
	p2.AddChild(c)
	if len(p1.Children()) != 0 || len(p2.Children()) != 1 || c.Parent != p2 {
		t.Errorf("reparent failed: p1=%d p2=%d", len(p1.Children()), len(p2.Children()))
	}
}

func TestAddChildCyclePanics(t *testing.T) {
	a, b := NewContainer(), NewContainer()
	a.AddChild(b)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on cycle")
		}
	}()
	b.AddChild(a)
}

func TestDisposeDetachesSubtree(t *testing.T) {
	root := NewContainer()
	mid := NewContainer()
	leaf := NewObjectNode("leaf", 1, 1)
	root.AddChild(mid)
	mid.AddChild(leaf)
	mid.Dispose()
	if !mid.IsDisposed() || !leaf.IsDisposed() {
		t.Error("subtree should be disposed")
	}
	if len(root.Children()) != 0 {
		t.Error("disposed node still attached")
	}
	mid.Dispose() // idempotent
}

func TestWorldTransformComposition(t *testing.T) {
	root := NewContainer()
	parent := NewContainer()
	parent.SetPosition(100, 50)
	parent.SetScale(2, 2)
	child := NewObjectNode("c", 10, 10)
	child.SetPosition(5, 0)
	root.AddChild(parent)
	parent.AddChild(child)
	updateWorldTransform(root, identityTransform, 1, false)

	wx, wy := child.LocalToWorld(0, 0)
	if !approxEqual(wx, 110, epsilon) || !approxEqual(wy, 50, epsilon) {
		t.Errorf("child origin = (%v,%v), want (110,50)", wx, wy)
	}
	lx, ly := child.WorldToLocal(wx, wy)
	if !approxEqual(lx, 0, epsilon) || !approxEqual(ly, 0, epsilon) {
		t.Errorf("WorldToLocal round trip = (%v,%v)", lx, ly)
	}

	// Moving the parent must propagate to a clean child.
	parent.SetPosition(0, 0)
	updateWorldTransform(root, identityTransform, 1, false)
	if wx, _ := child.LocalToWorld(0, 0); !approxEqual(wx, 10, epsilon) {
		t.Errorf("after parent move, child x = %v, want 10", wx)
	}
}

func TestWorldAlphaMultiplies(t *testing.T) {
	root := NewContainer()
	root.SetAlpha(0.5)
	child := NewObjectNode("c", 1, 1)
	child.SetAlpha(0.5)
	root.AddChild(child)
	updateWorldTransform(root, identityTransform, 1, false)
	if !approxEqual(child.worldAlpha, 0.25, epsilon) {
		t.Errorf("worldAlpha = %v, want 0.25", child.worldAlpha)
	}
}

func TestWorldBoundsRotated(t *testing.T) {
	n := NewObjectNode("sq", 10, 10)
	n.SetPosition(50, 50)
	n.SetRotation(math.Pi / 4)
	refreshAll(n)
	b := n.WorldBounds()
	half := 5 * math.Sqrt2
	if !approxEqual(b.Width, 2*half, 1e-9) || !approxEqual(b.X, 50-half, 1e-9) {
		t.Errorf("WorldBounds = %+v", b)
	}
}

func TestInvertAffineSingular(t *testing.T) {
	if got := invertAffine([6]float64{0, 0, 0, 0, 5, 5}); got != identityTransform {
		t.Errorf("singular inverse = %v, want identity", got)
	}
}

func TestRotateVec(t *testing.T) {
	v := rotateVec(Vec2{1, 0}, math.Pi/2)
	if !approxEqual(v.X, 0, epsilon) || !approxEqual(v.Y, 1, epsilon) {
		t.Errorf("rotateVec = %v, want (0,1)", v)
	}
}

func TestRectHelpers(t *testing.T) {
	r := RectFromPoints(10, 20, 0, 0)
	if r != (Rect{0, 0, 10, 20}) {
		t.Errorf("RectFromPoints = %v", r)
	}
	if !r.Contains(10, 20) || r.Contains(11, 0) {
		t.Error("Contains edge handling")
	}
	u := r.Union(Rect{X: 20, Y: 20, Width: 5, Height: 5})
	if u != (Rect{0, 0, 25, 25}) {
		t.Errorf("Union = %v", u)
	}
	if !r.Intersects(Rect{X: 10, Y: 0, Width: 5, Height: 5}) {
		t.Error("adjacent rects should intersect")
	}
	if !ModShift.Has(ModShift) || (ModShift | ModCtrl).Has(ModMeta) {
		t.Error("KeyModifiers.Has")
	}
}
