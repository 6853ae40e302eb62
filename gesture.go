package stage

import "math"

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// SessionKind names the gesture a pointer is performing.
type SessionKind uint8

const (
	SessionNone SessionKind = iota
	SessionTranslate
	SessionRotate
	SessionScale
	SessionMarquee
	SessionPan
)

func (k SessionKind) String() string {
	switch k {
	case SessionTranslate:
		return "translate"
	case SessionRotate:
		return "rotate"
	case SessionScale:
		return "scale"
	case SessionMarquee:
		return "marquee"
	case SessionPan:
		return "pan"
	}
	return "none"
}

// pointerFrame is one pointer sample, in both screen and render space.
type pointerFrame struct {
	id     int
	screen Vec2
	world  Vec2
	button MouseButton
	mods   KeyModifiers
}

// session is a gesture in flight. Each variant carries only its own state.
type session interface {
	kind() SessionKind
	move(g *Gestures, p pointerFrame)
	end(g *Gestures, p pointerFrame)
}

type pointerState struct {
	down   bool
	button MouseButton
	last   Vec2 // screen
}

// Gestures is the pointer state machine of the editor canvas. Each pointer
// id owns at most one session, created on press and discarded on release.
type Gestures struct {
	cfg     Config
	store   ProjectStore
	state   *EditorState
	display *DisplayList
	camera  *Camera
	gizmo   *Gizmo
	picker  Picker

	pointers [maxPointers]pointerState
	sessions map[int]session

	onPointerDown     handlerList[ObjectPointerEvent]
	onTransformEnd    handlerList[TransformEndEvent]
	onSelectionChange handlerList[Selection]
	sink              EventSink

	logger logger
}

func newGestures(cfg Config, store ProjectStore, state *EditorState, display *DisplayList, camera *Camera, gizmo *Gizmo) *Gestures {
	return &Gestures{
		cfg:      cfg,
		store:    store,
		state:    state,
		display:  display,
		camera:   camera,
		gizmo:    gizmo,
		picker:   Picker{AlphaThreshold: cfg.AlphaThreshold},
		sessions: make(map[int]session),
		logger:   newLogger(cfg.Debug),
	}
}

// Session returns the kind of gesture pointerID is performing.
func (g *Gestures) Session(pointerID int) SessionKind {
	if s, ok := g.sessions[pointerID]; ok {
		return s.kind()
	}
	return SessionNone
}

// groupGizmoAllowed reports whether no session other than a handle drag is
// in flight.
func (g *Gestures) groupGizmoAllowed() bool {
	for _, s := range g.sessions {
		switch s.kind() {
		case SessionRotate, SessionScale:
		default:
			return false
		}
	}
	return true
}

// cancel drops every session without committing, restoring nothing. Used
// when the scene changes under the pointer.
func (g *Gestures) cancel() {
	clear(g.sessions)
	for i := range g.pointers {
		g.pointers[i].down = false
	}
}

// processPointer runs the state machine for one pointer sample given in
// screen coordinates.
func (g *Gestures) processPointer(id int, sx, sy float64, pressed bool, button MouseButton, mods KeyModifiers) {
	if id < 0 || id >= maxPointers {
		return
	}
	ps := &g.pointers[id]
	wx, wy := g.camera.ScreenToWorld(sx, sy)
	p := pointerFrame{id: id, screen: Vec2{sx, sy}, world: Vec2{wx, wy}, button: button, mods: mods}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.last = p.screen
		g.pointerDown(p)
	case !pressed && ps.down:
		p.button = ps.button
		if s, ok := g.sessions[id]; ok {
			delete(g.sessions, id)
			s.end(g, p)
		}
		ps.down = false
	case pressed && ps.down:
		p.button = ps.button
		if p.screen != ps.last {
			if s, ok := g.sessions[id]; ok {
				s.move(g, p)
			}
		}
		ps.last = p.screen
	}
}

// pointerDown picks the session for a press: gizmo handle, then object,
// then empty space (marquee), with middle and right buttons panning.
func (g *Gestures) pointerDown(p pointerFrame) {
	editorView := g.state.ViewMode() == ViewEditor
	if p.button != MouseButtonLeft {
		if editorView {
			g.sessions[p.id] = &panSession{last: p.screen}
		}
		return
	}

	if h := g.gizmo.HandleAt(p.world.X, p.world.Y); h != HandleNone {
		gs, ok := g.gizmo.beginSession(h, g.display, g.state.Selection(), p.world)
		if ok {
			if h == HandleRotate {
				g.sessions[p.id] = &rotateSession{gizmo: gs}
			} else {
				g.sessions[p.id] = &scaleSession{gizmo: gs}
			}
			return
		}
	}

	if id, ok := g.picker.Pick(g.display.Nodes(), p.world.X, p.world.Y); ok {
		g.firePointerDown(id, p)
		sel := g.state.Selection()
		if p.mods&(ModShift|ModCtrl|ModMeta) != 0 {
			g.setSelection(sel.Click(id, p.mods))
			return
		}
		if !(sel.IsGroup() && sel.Contains(id)) {
			sel = NewSelection(id)
			g.setSelection(sel)
		}
		g.sessions[p.id] = g.beginTranslate(sel, p)
		return
	}

	if editorView {
		g.sessions[p.id] = &marqueeSession{
			startScreen: p.screen,
			startWorld:  p.world,
			mode:        selectModeFor(p.mods),
		}
	}
}

// beginTranslate records the start position of every selected object that
// has a node. Members without a node are left out of the drag and the
// commit.
func (g *Gestures) beginTranslate(sel Selection, p pointerFrame) *translateSession {
	s := &translateSession{startScreen: p.screen, startWorld: p.world}
	for _, id := range sel.IDs() {
		n, ok := g.display.Node(id)
		if !ok {
			g.logger.debugf("translate: object %s has no node, skipped", id)
			continue
		}
		s.members = append(s.members, captureMember(n))
	}
	return s
}

// wheel handles a wheel or trackpad scroll at screen position (sx, sy).
// With ctrl or cmd held it zooms about the pointer; otherwise it pans.
func (g *Gestures) wheel(sx, sy, dx, dy float64, mods KeyModifiers) {
	if g.state.ViewMode() != ViewEditor {
		return
	}
	if mods.zoomModifier() {
		g.camera.ZoomAt(sx, sy, math.Exp(dy*g.cfg.WheelZoomSpeed))
		return
	}
	g.camera.Pan(dx*g.cfg.WheelPanSpeed, dy*g.cfg.WheelPanSpeed)
}

// setSelection validates sel against the active scene and notifies when it
// changed.
func (g *Gestures) setSelection(sel Selection) {
	sel = sel.Validate(g.display.ObjectIDs())
	if sel.Equal(g.state.Selection()) {
		return
	}
	g.state.SetSelection(sel)
	g.onSelectionChange.fire(sel)
	if g.sink != nil {
		g.sink.EmitEvent(Event{
			Type:      EventSelectionChange,
			SceneID:   g.state.ActiveScene(),
			ObjectID:  sel.Primary(),
			ObjectIDs: sel.IDs(),
		})
	}
}

func (g *Gestures) firePointerDown(id string, p pointerFrame) {
	ax, ay := g.display.Canvas().RenderToAuthor(p.world.X, p.world.Y)
	evt := ObjectPointerEvent{
		SceneID:   g.state.ActiveScene(),
		ObjectID:  id,
		X:         ax,
		Y:         ay,
		PointerID: p.id,
		Button:    p.button,
		Modifiers: p.mods,
	}
	g.onPointerDown.fire(evt)
	if g.sink != nil {
		g.sink.EmitEvent(Event{
			Type: EventObjectPointerDown, SceneID: evt.SceneID, ObjectID: id,
			X: ax, Y: ay, Button: p.button, Modifiers: p.mods,
		})
	}
}

// commit writes the final transforms to the store, then fires
// TransformEnd. Members whose node disappeared during the session are
// skipped.
func (g *Gestures) commit(kind SessionKind, ts []memberTransform) {
	sceneID := g.state.ActiveScene()
	canvas := g.display.Canvas()
	evt := TransformEndEvent{SceneID: sceneID, Session: kind}
	for _, t := range ts {
		if !g.display.Owns(t.node) {
			continue
		}
		c := TransformCommit{ObjectID: t.id}
		c.X, c.Y = canvas.RenderToAuthor(t.x, t.y)
		switch kind {
		case SessionScale:
			sx, sy := t.scaleX, t.scaleY
			c.ScaleX, c.ScaleY = &sx, &sy
		case SessionRotate:
			r := radToDeg(t.rotation)
			c.Rotation = &r
		}
		if err := g.store.UpdateObject(sceneID, t.id, c.patch()); err != nil {
			g.logger.warnf("commit %s: %v", t.id, err)
			continue
		}
		evt.Commits = append(evt.Commits, c)
	}
	if len(evt.Commits) == 0 {
		return
	}
	g.onTransformEnd.fire(evt)
	if g.sink != nil {
		ids := make([]string, len(evt.Commits))
		for i, c := range evt.Commits {
			ids[i] = c.ObjectID
		}
		g.sink.EmitEvent(Event{
			Type: EventTransformEnd, SceneID: sceneID, ObjectIDs: ids,
			ObjectID: ids[0], Session: kind,
		})
	}
}

// --- Session variants ---

type translateSession struct {
	startScreen Vec2
	startWorld  Vec2
	members     []memberStart
	dragging    bool
	last        []memberTransform
}

func (s *translateSession) kind() SessionKind { return SessionTranslate }

func (s *translateSession) move(g *Gestures, p pointerFrame) {
	if !s.dragging {
		d := p.screen.Sub(s.startScreen)
		if math.Hypot(d.X, d.Y) <= g.cfg.DragThreshold {
			return
		}
		s.dragging = true
	}
	delta := p.world.Sub(s.startWorld)
	s.last = s.last[:0]
	for _, m := range s.members {
		t := memberTransform{
			id: m.id, node: m.node,
			x: m.x + delta.X, y: m.y + delta.Y,
			scaleX: m.scaleX, scaleY: m.scaleY, rotation: m.rotation,
		}
		if !t.node.disposed {
			t.node.SetPosition(t.x, t.y)
		}
		s.last = append(s.last, t)
	}
}

func (s *translateSession) end(g *Gestures, p pointerFrame) {
	s.move(g, p)
	if !s.dragging || p.world == s.startWorld {
		return
	}
	g.commit(SessionTranslate, s.last)
}

type rotateSession struct {
	gizmo *gizmoSession
	last  []memberTransform
}

func (s *rotateSession) kind() SessionKind { return SessionRotate }

func (s *rotateSession) move(_ *Gestures, p pointerFrame) {
	s.last = s.gizmo.update(p.world)
}

func (s *rotateSession) end(g *Gestures, p pointerFrame) {
	s.move(g, p)
	g.commit(SessionRotate, s.last)
}

type scaleSession struct {
	gizmo *gizmoSession
	last  []memberTransform
}

func (s *scaleSession) kind() SessionKind { return SessionScale }

func (s *scaleSession) move(_ *Gestures, p pointerFrame) {
	s.last = s.gizmo.update(p.world)
}

func (s *scaleSession) end(g *Gestures, p pointerFrame) {
	s.move(g, p)
	g.commit(SessionScale, s.last)
}

type marqueeSession struct {
	startScreen Vec2
	startWorld  Vec2
	mode        SelectMode
	dragging    bool
	rect        Rect // render space
}

func (s *marqueeSession) kind() SessionKind { return SessionMarquee }

func (s *marqueeSession) move(g *Gestures, p pointerFrame) {
	if !s.dragging {
		d := p.screen.Sub(s.startScreen)
		if math.Hypot(d.X, d.Y) <= g.cfg.DragThreshold {
			return
		}
		s.dragging = true
	}
	s.rect = RectFromPoints(s.startWorld.X, s.startWorld.Y, p.world.X, p.world.Y)
}

func (s *marqueeSession) end(g *Gestures, p pointerFrame) {
	s.move(g, p)
	sel := g.state.Selection()
	if !s.dragging {
		// A click on empty space clears a single selection.
		if s.mode == SelectReplace && !sel.IsGroup() {
			g.setSelection(Selection{})
		}
		return
	}
	hits := nodesInRect(g.display.Nodes(), s.rect)
	g.setSelection(sel.Combine(hits, s.mode, g.display.ObjectIDs()))
}

type panSession struct {
	last Vec2 // screen
}

func (s *panSession) kind() SessionKind { return SessionPan }

func (s *panSession) move(g *Gestures, p pointerFrame) {
	d := p.screen.Sub(s.last)
	g.camera.Pan(d.X, d.Y)
	s.last = p.screen
}

func (s *panSession) end(g *Gestures, p pointerFrame) {
	s.move(g, p)
}
