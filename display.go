package stage

import "image"

// DisplayList is the render-side projection of one scene. It keeps an
// explicit id-to-node table so lookups run in constant time in both
// directions (node to id through Node.ObjectID).
type DisplayList struct {
	root  *Node
	nodes map[string]*Node
	order []string

	canvas          Canvas
	textures        *TextureCache
	placeholderSize float64
}

// NewDisplayList creates an empty display list. textures may be nil, in
// which case every object shows its placeholder.
func NewDisplayList(canvas Canvas, textures *TextureCache, placeholderSize float64) *DisplayList {
	return &DisplayList{
		root:            NewContainer(),
		nodes:           make(map[string]*Node),
		canvas:          canvas,
		textures:        textures,
		placeholderSize: placeholderSize,
	}
}

// Root returns the container holding all object nodes.
func (d *DisplayList) Root() *Node { return d.root }

// Canvas returns the canvas used to place nodes.
func (d *DisplayList) Canvas() Canvas { return d.canvas }

// Node returns the node for objectID.
func (d *DisplayList) Node(objectID string) (*Node, bool) {
	n, ok := d.nodes[objectID]
	return n, ok
}

// Owns reports whether n is the live node registered for its object.
func (d *DisplayList) Owns(n *Node) bool {
	if n == nil || n.disposed {
		return false
	}
	cur, ok := d.nodes[n.ObjectID]
	return ok && cur == n
}

// Nodes returns the object nodes in scene order.
func (d *DisplayList) Nodes() []*Node {
	out := make([]*Node, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.nodes[id])
	}
	return out
}

// ObjectIDs returns the projected object ids in scene order.
func (d *DisplayList) ObjectIDs() []string {
	return append([]string(nil), d.order...)
}

// Sync diffs the node table against objects: nodes are created for new
// objects, disposed for removed ones, and every node's transform, depth,
// visibility and costume are rewritten from the object's author-space
// values.
func (d *DisplayList) Sync(objects []*GameObject) {
	seen := make(map[string]bool, len(objects))
	d.order = d.order[:0]
	for i, obj := range objects {
		seen[obj.ID] = true
		d.order = append(d.order, obj.ID)
		n, ok := d.nodes[obj.ID]
		if !ok {
			n = NewObjectNode(obj.ID, 0, 0)
			d.nodes[obj.ID] = n
			d.root.AddChild(n)
		}
		n.Depth = i
		d.place(n, obj)
		d.setCostume(n, obj)
	}
	for id, n := range d.nodes {
		if !seen[id] {
			n.Dispose()
			delete(d.nodes, id)
		}
	}
}

// place writes the author-space transform onto the node.
func (d *DisplayList) place(n *Node, obj *GameObject) {
	rx, ry := d.canvas.AuthorToRender(obj.X, obj.Y)
	n.SetPosition(rx, ry)
	n.SetScale(obj.ScaleX, obj.ScaleY)
	n.SetRotation(degToRad(obj.Rotation))
	n.Visible = obj.Visible
}

// setCostume points the node at the object's current costume, falling back
// to a placeholder while the asset is pending or when it failed.
func (d *DisplayList) setCostume(n *Node, obj *GameObject) {
	costume, ok := obj.CurrentCostume()
	if !ok {
		n.costumeKey = ""
		d.showPlaceholder(n, obj.ID, Costume{})
		return
	}
	n.costumeKey = costume.AssetID
	if d.textures != nil && costume.AssetID != "" {
		if tex, state := d.textures.Get(costume.AssetID); state == textureReady {
			d.showTexture(n, tex, costume.Bounds)
			return
		}
	}
	d.showPlaceholder(n, obj.ID, costume)
}

func (d *DisplayList) showPlaceholder(n *Node, objectID string, c Costume) {
	w, h := c.Width, c.Height
	if w <= 0 {
		w = d.placeholderSize
	}
	if h <= 0 {
		h = d.placeholderSize
	}
	n.Texture = nil
	n.Width, n.Height = w, h
	n.Placeholder = placeholderColor(objectID)
	n.HitRect = nil
	if c.Bounds != nil {
		n.HitRect = visibleRect(w, h, *c.Bounds)
	}
}

func (d *DisplayList) showTexture(n *Node, tex *Texture, bounds *image.Rectangle) {
	w, h := tex.Size()
	vis := tex.Visible
	if bounds != nil {
		vis = *bounds
	}
	n.Texture = tex
	n.Width, n.Height = w, h
	n.HitRect = visibleRect(w, h, vis)
}

// visibleRect maps a source-pixel rectangle of a w by h graphic into the
// node's centred local space.
func visibleRect(w, h float64, vis image.Rectangle) *Rect {
	return &Rect{
		X:      float64(vis.Min.X) - w/2,
		Y:      float64(vis.Min.Y) - h/2,
		Width:  float64(vis.Dx()),
		Height: float64(vis.Dy()),
	}
}

// ApplyTextures swaps in textures that finished decoding and returns the
// ids of the objects whose nodes changed. A completion is applied only to
// nodes that are still registered and still want that asset; anything else
// is dropped.
func (d *DisplayList) ApplyTextures(ready []string, objects func(id string) (*GameObject, bool)) []string {
	var changed []string
	for _, assetID := range ready {
		tex, state := d.textures.Get(assetID)
		if state != textureReady {
			continue
		}
		for id, n := range d.nodes {
			if !d.Owns(n) || n.costumeKey != assetID {
				continue
			}
			var bounds *image.Rectangle
			if obj, ok := objects(id); ok {
				if c, ok := obj.CurrentCostume(); ok && c.AssetID == assetID {
					bounds = c.Bounds
				}
			}
			d.showTexture(n, tex, bounds)
			changed = append(changed, id)
		}
	}
	return changed
}

// Refresh recomputes world transforms for every dirty node.
func (d *DisplayList) Refresh() {
	updateWorldTransform(d.root, identityTransform, 1, false)
}

// Clear disposes every object node.
func (d *DisplayList) Clear() {
	for id, n := range d.nodes {
		n.Dispose()
		delete(d.nodes, id)
	}
	d.order = d.order[:0]
}
