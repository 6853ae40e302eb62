package stage

import (
	"fmt"
	"io"
)

// Multiplexer plays a project: it owns one runtime per visited scene and
// keeps exactly one of them active. Inactive runtimes are paused and asleep
// and keep their state until they are resumed or restarted.
type Multiplexer struct {
	cfg      Config
	store    ProjectStore
	compiler ScriptCompiler
	registry *Registry
	textures *TextureCache
	active   *Runtime

	onActiveChange handlerList[*Runtime]
	sink           EventSink

	logger logger
}

// NewMultiplexer creates a multiplexer over store. compiler may be nil, in
// which case object scripts are ignored.
func NewMultiplexer(store ProjectStore, compiler ScriptCompiler, cfg Config) *Multiplexer {
	m := &Multiplexer{
		cfg:      cfg,
		store:    store,
		compiler: compiler,
		registry: NewRegistry(),
		textures: NewTextureCache(nil),
		logger:   newLogger(cfg.Debug),
	}
	m.textures.logger = m.logger
	return m
}

// SetAssets sets where costume images are loaded from.
func (m *Multiplexer) SetAssets(src AssetSource) { m.textures.source = src }

// Textures returns the shared texture cache.
func (m *Multiplexer) Textures() *TextureCache { return m.textures }

// SetLogOutput redirects diagnostics. Nil silences them.
func (m *Multiplexer) SetLogOutput(w io.Writer) {
	m.logger.out = w
	m.textures.logger.out = w
	m.registry.each(func(rt *Runtime) { rt.logger.out = w })
}

// SetEventSink sets an optional consumer of scene switch events.
func (m *Multiplexer) SetEventSink(sink EventSink) { m.sink = sink }

// OnActiveChange registers a callback fired whenever another runtime becomes
// active.
func (m *Multiplexer) OnActiveChange(fn func(*Runtime)) CallbackHandle {
	return m.onActiveChange.add(fn)
}

// Registry returns the runtime registry.
func (m *Multiplexer) Registry() *Registry { return m.registry }

// Active returns the active runtime, or nil before Start.
func (m *Multiplexer) Active() *Runtime { return m.active }

// Start tears down any previous play session and starts sceneID.
func (m *Multiplexer) Start(sceneID string) error {
	scene, ok := m.store.Scene(sceneID)
	if !ok {
		return fmt.Errorf("start %s: %w", sceneID, ErrSceneNotFound)
	}
	m.Stop()
	rt := m.registry.Create(scene.ID, m.cfg, m.logger)
	m.startRuntime(rt, scene)
	m.activate(rt)
	return nil
}

// Restart restarts the whole play session from the active scene.
func (m *Multiplexer) Restart() error {
	if m.active == nil {
		return nil
	}
	return m.Start(m.active.SceneID())
}

// Stop destroys every runtime.
func (m *Multiplexer) Stop() {
	m.registry.DestroyAll()
	m.active = nil
}

func (m *Multiplexer) startRuntime(rt *Runtime, scene *Scene) {
	rt.start(scene, effectiveObjects(m.store, scene, m.logger), m.compiler, m.textures)
}

func (m *Multiplexer) activate(rt *Runtime) {
	m.active = rt
	m.logger.debugf("active scene: %s (%s)", rt.SceneName(), rt.SceneID())
	m.onActiveChange.fire(rt)
	if m.sink != nil {
		m.sink.EmitEvent(Event{Type: EventSceneSwitch, SceneID: rt.SceneID()})
	}
}

// Update runs one frame: texture completions, the active runtime's logic,
// any switch it requested, then the physics step of whichever runtime is
// active after the switch.
func (m *Multiplexer) Update(dt float64) {
	if ready := m.textures.Poll(); len(ready) > 0 {
		m.registry.each(func(rt *Runtime) { rt.applyTextures(ready) })
	}
	rt := m.active
	if rt == nil {
		return
	}
	rt.update(dt)
	if req, ok := rt.takePending(); ok {
		m.SwitchTo(req.Target, req.Restart)
	}
	if m.active != nil {
		m.active.step(dt)
	}
}

// SwitchTo makes the scene named target active. Without restart a runtime
// that already exists for it is woken and resumed with its state intact;
// otherwise the target is built fresh. An unknown name is logged and
// ignored.
func (m *Multiplexer) SwitchTo(target string, restart bool) {
	scene, ok := m.store.SceneByName(target)
	if !ok {
		m.logger.warnf("switch to scene %q: not found", target)
		return
	}
	source := m.active
	if source != nil && source.SceneID() == scene.ID && !restart {
		return
	}
	if source != nil {
		source.pause()
	}

	existing, ok := m.registry.Get(scene.ID)
	if ok && !restart && existing.State() != RuntimeDestroyed {
		if source != nil {
			source.sleep()
		}
		existing.wake()
		m.activate(existing)
		existing.resume()
		return
	}

	if source != nil && source != existing {
		source.sleep()
	}
	var rt *Runtime
	if ok {
		rt, _ = m.registry.Restart(scene.ID)
	} else {
		rt = m.registry.Create(scene.ID, m.cfg, m.logger)
	}
	m.startRuntime(rt, scene)
	m.activate(rt)
}
