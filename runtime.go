package stage

import "fmt"

// RuntimeState is the lifecycle state of a scene runtime.
type RuntimeState uint8

const (
	RuntimeUninitialized RuntimeState = iota
	RuntimeRunning
	RuntimePaused
	RuntimeDestroyed
)

func (s RuntimeState) String() string {
	switch s {
	case RuntimeUninitialized:
		return "uninitialized"
	case RuntimeRunning:
		return "running"
	case RuntimePaused:
		return "paused"
	case RuntimeDestroyed:
		return "destroyed"
	}
	return fmt.Sprintf("RuntimeState(%d)", s)
}

// SwitchRequest asks the multiplexer to make another scene active.
type SwitchRequest struct {
	Target  string // scene name
	Restart bool
}

// Runtime is the live play context of one scene: its display projection,
// its physics world and the behaviour registered by object scripts.
type Runtime struct {
	sceneID    string
	sceneName  string
	generation uint64

	cfg     Config
	scene   *Scene
	objects map[string]*GameObject
	display *DisplayList
	world   *World
	bodies  *BodySync
	sprites map[string]*Sprite

	state   RuntimeState
	asleep  bool
	pending *SwitchRequest
	elapsed float64

	onTick    handlerList[float64]
	onDestroy []func()

	logger logger
}

func newRuntime(sceneID string, generation uint64, cfg Config, l logger) *Runtime {
	return &Runtime{
		sceneID:    sceneID,
		generation: generation,
		cfg:        cfg,
		objects:    make(map[string]*GameObject),
		sprites:    make(map[string]*Sprite),
		logger:     l,
	}
}

// SceneID returns the id of the scene this runtime plays.
func (r *Runtime) SceneID() string { return r.sceneID }

// SceneName returns the scene's name.
func (r *Runtime) SceneName() string { return r.sceneName }

// Generation returns the creation counter value this runtime was built with.
func (r *Runtime) Generation() uint64 { return r.generation }

// State returns the lifecycle state.
func (r *Runtime) State() RuntimeState { return r.state }

// Asleep reports whether the runtime's presentation is asleep.
func (r *Runtime) Asleep() bool { return r.asleep }

// Elapsed returns the seconds of logic time the runtime has advanced.
func (r *Runtime) Elapsed() float64 { return r.elapsed }

// Display returns the runtime's display list.
func (r *Runtime) Display() *DisplayList { return r.display }

// World returns the runtime's physics world.
func (r *Runtime) World() *World { return r.world }

// Bodies returns the runtime's body synchronizer.
func (r *Runtime) Bodies() *BodySync { return r.bodies }

// Background returns the scene's background colour.
func (r *Runtime) Background() Color {
	if r.scene == nil {
		return Color{}
	}
	return r.scene.Background
}

// Printf writes a script message to the runtime's log output.
func (r *Runtime) Printf(format string, args ...any) {
	r.logger.write("scene "+r.sceneName+": ", format, args...)
}

// Sprite returns the handle for objectID.
func (r *Runtime) Sprite(objectID string) (*Sprite, bool) {
	s, ok := r.sprites[objectID]
	return s, ok
}

// OnTick registers a callback run on every logic step while the runtime is
// running and awake.
func (r *Runtime) OnTick(fn func(dt float64)) CallbackHandle {
	return r.onTick.add(fn)
}

// OnDestroy registers a callback run when the runtime is destroyed.
func (r *Runtime) OnDestroy(fn func()) {
	r.onDestroy = append(r.onDestroy, fn)
}

// SwitchScene requests a switch to the scene named target. The request is
// serviced by the multiplexer within the same frame. The last request
// raised during a frame wins.
func (r *Runtime) SwitchScene(target string, restart bool) {
	if r.state == RuntimeDestroyed {
		return
	}
	r.pending = &SwitchRequest{Target: target, Restart: restart}
}

// takePending returns and clears the pending switch request.
func (r *Runtime) takePending() (SwitchRequest, bool) {
	if r.pending == nil {
		return SwitchRequest{}, false
	}
	req := *r.pending
	r.pending = nil
	return req, true
}

// start builds the display, the physics bodies and the sprite handles for
// scene, then runs every object script. Script errors and panics are logged
// per object and do not stop the remaining objects.
func (r *Runtime) start(scene *Scene, objects []*GameObject, compiler ScriptCompiler, textures *TextureCache) {
	gen := r.generation
	r.scene = scene
	r.sceneName = scene.Name
	r.display = NewDisplayList(r.cfg.Canvas(), textures, r.cfg.PlaceholderSize)
	r.display.Sync(objects)
	r.display.Refresh()
	r.world = NewWorld(r.cfg)
	r.world.SetGround(scene.Ground)
	r.bodies = NewBodySync(r.world)

	for _, obj := range objects {
		r.objects[obj.ID] = obj
		r.sprites[obj.ID] = &Sprite{rt: r, gen: gen, id: obj.ID}
		if n, ok := r.display.Node(obj.ID); ok && obj.PhysicsEnabled() {
			r.bodies.Create(obj, n)
		}
	}
	r.state = RuntimeRunning

	if compiler == nil {
		return
	}
	for _, obj := range objects {
		if obj.Script == nil {
			continue
		}
		fn, err := compiler.Compile(*obj.Script)
		if err != nil {
			r.logger.warnf("scene %s: compile script of %s: %v", r.sceneName, obj.ID, err)
			continue
		}
		if err := runScript(fn, r, obj.ID, r.sprites[obj.ID]); err != nil {
			r.logger.warnf("scene %s: script of %s: %v", r.sceneName, obj.ID, err)
		}
		if r.generation != gen || r.state == RuntimeDestroyed {
			// Superseded while scripts were registering.
			return
		}
	}
}

// applyTextures swaps decoded costumes into the display and refits the
// bodies of the objects whose graphics changed.
func (r *Runtime) applyTextures(ready []string) {
	if r.display == nil {
		return
	}
	for _, id := range r.display.ApplyTextures(ready, r.object) {
		obj, ok := r.object(id)
		n, found := r.display.Node(id)
		if ok && found && r.bodies != nil && obj.PhysicsEnabled() {
			r.bodies.Refit(obj, n)
		}
	}
}

// pause stops logic and physics. The runtime keeps its state.
func (r *Runtime) pause() {
	if r.state == RuntimeRunning {
		r.state = RuntimePaused
	}
}

// resume continues a paused runtime.
func (r *Runtime) resume() {
	if r.state == RuntimePaused {
		r.state = RuntimeRunning
	}
}

func (r *Runtime) sleep() { r.asleep = true }

func (r *Runtime) wake() { r.asleep = false }

// advancing reports whether logic and physics may run.
func (r *Runtime) advancing() bool {
	return r.state == RuntimeRunning && !r.asleep
}

// update runs one logic step: every tick callback, each guarded against
// panics.
func (r *Runtime) update(dt float64) {
	if !r.advancing() {
		return
	}
	gen := r.generation
	r.elapsed += dt
	for _, h := range append([]handlerEntry[float64](nil), r.onTick.entries...) {
		r.tick(h.fn, dt)
		if r.generation != gen || r.state == RuntimeDestroyed {
			return
		}
	}
}

func (r *Runtime) tick(fn func(float64), dt float64) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.warnf("scene %s: tick: %v", r.sceneName, p)
		}
	}()
	fn(dt)
}

// step advances physics and syncs the visuals.
func (r *Runtime) step(dt float64) {
	if !r.advancing() {
		return
	}
	r.world.Step(dt)
	r.display.Refresh()
}

// teardown releases everything start built and runs the destroy
// callbacks.
func (r *Runtime) teardown() {
	for _, fn := range r.onDestroy {
		fn()
	}
	r.onDestroy = nil
	r.onTick = handlerList[float64]{}
	if r.bodies != nil {
		r.bodies.Close()
		r.bodies = nil
	}
	if r.display != nil {
		r.display.Clear()
	}
	clear(r.sprites)
	clear(r.objects)
	r.pending = nil
	r.elapsed = 0
	r.asleep = false
}

// destroy tears the runtime down for good.
func (r *Runtime) destroy() {
	if r.state == RuntimeDestroyed {
		return
	}
	r.teardown()
	r.state = RuntimeDestroyed
}

func (r *Runtime) object(id string) (*GameObject, bool) {
	o, ok := r.objects[id]
	return o, ok
}

// Registry owns the runtimes of a multiplexer, keyed by scene id. Every
// creation takes the next value of a monotonically increasing counter.
type Registry struct {
	runtimes map[string]*Runtime
	counter  uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{runtimes: make(map[string]*Runtime)}
}

// Get returns the runtime registered for sceneID.
func (g *Registry) Get(sceneID string) (*Runtime, bool) {
	rt, ok := g.runtimes[sceneID]
	return rt, ok
}

// Len returns the number of registered runtimes.
func (g *Registry) Len() int { return len(g.runtimes) }

// Counter returns the last creation counter value handed out.
func (g *Registry) Counter() uint64 { return g.counter }

// Create registers a fresh, uninitialized runtime for sceneID, destroying
// any runtime registered before it.
func (g *Registry) Create(sceneID string, cfg Config, l logger) *Runtime {
	g.Destroy(sceneID)
	g.counter++
	rt := newRuntime(sceneID, g.counter, cfg, l)
	g.runtimes[sceneID] = rt
	return rt
}

// Restart tears down the runtime registered for sceneID and re-arms it with
// a new creation counter value, leaving it uninitialized. Handles captured
// from the previous generation become inert.
func (g *Registry) Restart(sceneID string) (*Runtime, bool) {
	rt, ok := g.runtimes[sceneID]
	if !ok {
		return nil, false
	}
	rt.teardown()
	g.counter++
	rt.generation = g.counter
	rt.state = RuntimeUninitialized
	return rt, true
}

// Destroy tears down and unregisters the runtime for sceneID.
func (g *Registry) Destroy(sceneID string) {
	if rt, ok := g.runtimes[sceneID]; ok {
		rt.destroy()
		delete(g.runtimes, sceneID)
	}
}

// DestroyAll tears down every runtime.
func (g *Registry) DestroyAll() {
	for id := range g.runtimes {
		g.Destroy(id)
	}
}

// each calls fn for every registered runtime.
func (g *Registry) each(fn func(*Runtime)) {
	for _, rt := range g.runtimes {
		fn(rt)
	}
}
