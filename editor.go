package stage

import (
	"io"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// focusMargin is the screen padding kept around a focused selection.
const focusMargin = 48

// Editor is the authoring canvas. It projects the active scene of a
// ProjectStore into a display list, runs the gesture machine over it and
// writes committed transforms back to the store. Editor implements
// ebiten.Game.
type Editor struct {
	cfg    Config
	store  ProjectStore
	state  *EditorState
	canvas Canvas

	textures *TextureCache
	display  *DisplayList
	camera   *Camera
	gizmo    *Gizmo
	gestures *Gestures

	input       InputSource
	injectQueue []syntheticEvent
	pointerBuf  []PointerSample

	sceneID  string
	revision uint64
	synced   bool
	objects  map[string]*GameObject
	scene    *Scene

	showFPS bool
	logger  logger
}

// NewEditor creates an editor over store. Assets are not loaded until an
// AssetSource is set; until then every object shows its placeholder.
func NewEditor(store ProjectStore, state *EditorState, cfg Config) *Editor {
	canvas := cfg.Canvas()
	textures := NewTextureCache(nil)
	display := NewDisplayList(canvas, textures, cfg.PlaceholderSize)
	cam := NewCamera(canvas.Bounds(), canvas.Width/2, canvas.Height/2)
	cam.MinZoom, cam.MaxZoom = cfg.ZoomMin, cfg.ZoomMax
	gizmo := NewGizmo(cfg)
	e := &Editor{
		cfg:      cfg,
		store:    store,
		state:    state,
		canvas:   canvas,
		textures: textures,
		display:  display,
		camera:   cam,
		gizmo:    gizmo,
		gestures: newGestures(cfg, store, state, display, cam, gizmo),
		objects:  make(map[string]*GameObject),
		logger:   newLogger(cfg.Debug),
	}
	textures.logger = e.logger
	return e
}

// SetAssets sets where costume images are loaded from. Call it before the
// first Update; assets requested without a source stay on placeholders.
func (e *Editor) SetAssets(src AssetSource) {
	e.textures.source = src
}

// Textures returns the editor's texture cache.
func (e *Editor) Textures() *TextureCache { return e.textures }

// SetInput sets the real input source. Nil disables real input; injected
// input still works.
func (e *Editor) SetInput(src InputSource) { e.input = src }

// SetLogOutput redirects diagnostics. Nil silences them.
func (e *Editor) SetLogOutput(w io.Writer) {
	e.logger.out = w
	e.gestures.logger.out = w
	e.textures.logger.out = w
}

// SetEventSink sets an optional consumer that receives every editor event.
func (e *Editor) SetEventSink(sink EventSink) { e.gestures.sink = sink }

// ShowFPS toggles the FPS overlay.
func (e *Editor) ShowFPS(on bool) { e.showFPS = on }

// OnObjectPointerDown registers a callback fired when a pointer is pressed
// on an object.
func (e *Editor) OnObjectPointerDown(fn func(ObjectPointerEvent)) CallbackHandle {
	return e.gestures.onPointerDown.add(fn)
}

// OnTransformEnd registers a callback fired after a drag or gizmo session
// committed.
func (e *Editor) OnTransformEnd(fn func(TransformEndEvent)) CallbackHandle {
	return e.gestures.onTransformEnd.add(fn)
}

// OnSelectionChange registers a callback fired when the selection changes.
func (e *Editor) OnSelectionChange(fn func(Selection)) CallbackHandle {
	return e.gestures.onSelectionChange.add(fn)
}

// State returns the shared editor state.
func (e *Editor) State() *EditorState { return e.state }

// Camera returns the editor camera.
func (e *Editor) Camera() *Camera { return e.camera }

// Display returns the display list of the active scene.
func (e *Editor) Display() *DisplayList { return e.display }

// Gizmo returns the transform gizmo.
func (e *Editor) Gizmo() *Gizmo { return e.gizmo }

// Session returns the gesture pointerID is performing.
func (e *Editor) Session(pointerID int) SessionKind { return e.gestures.Session(pointerID) }

// Select replaces the selection with ids, validated against the active
// scene. The first id becomes primary.
func (e *Editor) Select(ids ...string) {
	e.sync()
	e.gestures.setSelection(NewSelection(ids...))
}

// SetViewMode switches between the free editor camera and the game frame.
func (e *Editor) SetViewMode(v ViewMode) {
	if v == e.state.ViewMode() {
		return
	}
	e.state.SetViewMode(v)
	e.gestures.cancel()
	if v == ViewGame {
		e.lockToGameFrame()
	}
}

func (e *Editor) lockToGameFrame() {
	e.camera.StopScroll()
	c := e.canvas.Center()
	e.camera.X, e.camera.Y = c.X, c.Y
	e.camera.Zoom = e.camera.fitZoom(e.canvas.Bounds(), 0)
	e.camera.MarkDirty()
}

// FocusSelection animates the camera to frame the selection. With nothing
// selected it resets the view.
func (e *Editor) FocusSelection() {
	if e.state.ViewMode() != ViewEditor {
		return
	}
	box, ok := selectionBounds(e.display, e.state.Selection().IDs())
	if !ok {
		e.ResetView()
		return
	}
	c := box.Center()
	zoom := min(e.camera.fitZoom(box, focusMargin), 2)
	e.camera.ScrollTo(c.X, c.Y, zoom, float32(e.cfg.FocusDuration), ease.OutCubic)
}

// ResetView animates the camera back to the canvas centre at zoom 1.
func (e *Editor) ResetView() {
	if e.state.ViewMode() != ViewEditor {
		return
	}
	c := e.canvas.Center()
	e.camera.ScrollTo(c.X, c.Y, 1, float32(e.cfg.FocusDuration), ease.OutCubic)
}

// Update runs one frame: texture completions, store resync, input, gizmo
// layout.
func (e *Editor) Update() error {
	dt := float32(e.cfg.PhysicsStep)
	e.camera.update(dt)
	if e.state.ViewMode() == ViewGame {
		e.lockToGameFrame()
	}
	e.sync()
	if ready := e.textures.Poll(); len(ready) > 0 {
		e.display.ApplyTextures(ready, e.object)
	}
	e.layout()
	e.processInput()
	e.layout()
	return nil
}

func (e *Editor) object(id string) (*GameObject, bool) {
	o, ok := e.objects[id]
	return o, ok
}

// layout refreshes world transforms and positions the gizmo.
func (e *Editor) layout() {
	e.display.Refresh()
	e.gizmo.Layout(e.display, e.state.Selection(), e.camera.Zoom, e.gestures.groupGizmoAllowed())
	e.display.Refresh()
}

// sync re-projects the active scene when it changed or the store was
// written, then revalidates the selection.
func (e *Editor) sync() {
	sceneID := e.state.ActiveScene()
	rev := e.store.Revision()
	if e.synced && sceneID == e.sceneID && rev == e.revision {
		return
	}
	if sceneID != e.sceneID {
		e.gestures.cancel()
		e.display.Clear()
	}
	e.sceneID, e.revision, e.synced = sceneID, rev, true
	e.gizmo.detach()

	scene, ok := e.store.Scene(sceneID)
	if !ok {
		e.logger.warnf("scene %q not found", sceneID)
		e.scene = nil
		clear(e.objects)
		e.display.Clear()
		e.gestures.setSelection(Selection{})
		return
	}
	objs := effectiveObjects(e.store, scene, e.logger)
	clear(e.objects)
	for _, o := range objs {
		e.objects[o.ID] = o
	}
	e.scene = scene
	e.display.Sync(objs)
	e.gestures.setSelection(e.state.Selection())
}

// processInput feeds one injected event, or this frame's real input, to the
// gesture machine.
func (e *Editor) processInput() {
	if e.processInjectedInput() {
		return
	}
	if e.input == nil {
		return
	}
	mods := e.input.Modifiers()
	e.pointerBuf = e.input.Pointers(e.pointerBuf[:0])
	for _, p := range e.pointerBuf {
		e.gestures.processPointer(p.ID, p.X, p.Y, p.Pressed, p.Button, mods)
	}
	if x, y, dx, dy := e.input.Wheel(); dx != 0 || dy != 0 {
		e.gestures.wheel(x, y, dx, dy, mods)
	}
}

// Layout implements ebiten.Game. The camera viewport follows the window.
func (e *Editor) Layout(outsideWidth, outsideHeight int) (int, int) {
	vp := Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)}
	if vp != e.camera.Viewport {
		e.camera.Viewport = vp
		e.camera.MarkDirty()
	}
	return outsideWidth, outsideHeight
}

// Draw implements ebiten.Game.
func (e *Editor) Draw(screen *ebiten.Image) {
	var bg Color
	if e.scene != nil {
		bg = e.scene.Background
	}
	r := renderer{camera: e.camera}
	r.drawCanvas(screen, e.canvas, bg, e.state.ViewMode() == ViewEditor)
	r.drawNodes(screen, e.display.Nodes())
	for _, s := range e.gestures.sessions {
		if m, ok := s.(*marqueeSession); ok && m.dragging {
			r.drawMarquee(screen, m.rect)
		}
	}
	r.drawGizmo(screen, e.gizmo)
	if e.showFPS {
		drawFPS(screen)
	}
}
