package stage

import (
	"math"
	"sort"
)

// Picker resolves a render-space point to the topmost object under it.
type Picker struct {
	// AlphaThreshold is the minimum pixel alpha that counts as a hit.
	AlphaThreshold uint8
}

// Pick returns the id of the topmost object node containing (x, y).
// Nodes are tested by descending depth, then descending insertion order.
// Bitmap nodes hit only on sufficiently opaque pixels; a bitmap whose
// pixels cannot be sampled counts as a hit. Other nodes hit on their hit
// rectangle.
func (p Picker) Pick(nodes []*Node, x, y float64) (string, bool) {
	n := p.PickNode(nodes, x, y)
	if n == nil {
		return "", false
	}
	return n.ObjectID, true
}

// PickNode is Pick returning the node itself.
func (p Picker) PickNode(nodes []*Node, x, y float64) *Node {
	candidates := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind == NodeObject && !n.disposed && n.effectivelyVisible() {
			candidates = append(candidates, n)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Depth != candidates[j].Depth {
			return candidates[i].Depth > candidates[j].Depth
		}
		return candidates[i].ID > candidates[j].ID
	})
	for _, n := range candidates {
		if p.hit(n, x, y) {
			return n
		}
	}
	return nil
}

func (p Picker) hit(n *Node, x, y float64) bool {
	lx, ly := n.WorldToLocal(x, y)
	if n.Texture == nil {
		return n.HitBounds().Contains(lx, ly)
	}
	px := lx + n.Width/2
	py := ly + n.Height/2
	if px < 0 || py < 0 || px >= n.Width || py >= n.Height {
		return false
	}
	alpha, ok := n.Texture.AlphaAt(int(math.Floor(px)), int(math.Floor(py)))
	if !ok {
		return true
	}
	threshold := p.AlphaThreshold
	if threshold == 0 {
		threshold = 1
	}
	return alpha >= threshold
}

// nodesInRect returns the ids of visible object nodes whose hit-rect world
// AABB overlaps r, in the order given.
func nodesInRect(nodes []*Node, r Rect) []string {
	var ids []string
	for _, n := range nodes {
		if n.Kind != NodeObject || n.disposed || !n.effectivelyVisible() {
			continue
		}
		if n.WorldBounds().Intersects(r) {
			ids = append(ids, n.ObjectID)
		}
	}
	return ids
}
