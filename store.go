package stage

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrSceneNotFound is returned when a scene id or name does not resolve.
	ErrSceneNotFound = errors.New("stage: scene not found")
	// ErrObjectNotFound is returned when an object id is not in the scene.
	ErrObjectNotFound = errors.New("stage: object not found")
)

// ProjectStore is the authoritative source of scenes, objects and
// components. Readers receive snapshots; the only write path is
// UpdateObject.
type ProjectStore interface {
	Scene(id string) (*Scene, bool)
	SceneByName(name string) (*Scene, bool)
	Scenes() []*Scene
	Component(id string) (*ComponentDefinition, bool)
	UpdateObject(sceneID, objectID string, patch ObjectPatch) error
	// Revision increases on every successful write.
	Revision() uint64
}

// MemoryStore is an in-process ProjectStore. Reads return deep copies so
// that callers cannot mutate stored objects behind the store's back.
type MemoryStore struct {
	project  Project
	revision uint64
	handlers []storeHandler
	nextID   uint32
	logger   logger
}

type storeHandler struct {
	id uint32
	fn func(sceneID, objectID string)
}

// NewMemoryStore creates a store holding a deep copy of project. A project
// that cannot be copied leaves the store empty.
func NewMemoryStore(project Project) *MemoryStore {
	s := &MemoryStore{logger: newLogger(false)}
	if err := deepCopy(&s.project, &project); err != nil {
		s.logger.warnf("store: %v", err)
		s.project = Project{}
	}
	return s
}

// SetLogOutput redirects diagnostics. Nil silences them.
func (s *MemoryStore) SetLogOutput(w io.Writer) { s.logger.out = w }

// Scene returns a snapshot of the scene with the given id.
func (s *MemoryStore) Scene(id string) (*Scene, bool) {
	for _, sc := range s.project.Scenes {
		if sc.ID == id {
			return s.cloneScene(sc)
		}
	}
	return nil, false
}

// SceneByName returns a snapshot of the first scene with the given name.
func (s *MemoryStore) SceneByName(name string) (*Scene, bool) {
	for _, sc := range s.project.Scenes {
		if sc.Name == name {
			return s.cloneScene(sc)
		}
	}
	return nil, false
}

// Scenes returns snapshots of all scenes in project order. Scenes that
// cannot be copied are skipped.
func (s *MemoryStore) Scenes() []*Scene {
	out := make([]*Scene, 0, len(s.project.Scenes))
	for _, sc := range s.project.Scenes {
		if c, ok := s.cloneScene(sc); ok {
			out = append(out, c)
		}
	}
	return out
}

// Component returns a snapshot of the component definition.
func (s *MemoryStore) Component(id string) (*ComponentDefinition, bool) {
	for _, c := range s.project.Components {
		if c.ID == id {
			out := &ComponentDefinition{}
			if err := deepCopy(out, c); err != nil {
				s.logger.warnf("store: component %s: %v", id, err)
				return nil, false
			}
			return out, true
		}
	}
	return nil, false
}

// UpdateObject applies a partial update to one object.
func (s *MemoryStore) UpdateObject(sceneID, objectID string, patch ObjectPatch) error {
	var scene *Scene
	for _, sc := range s.project.Scenes {
		if sc.ID == sceneID {
			scene = sc
			break
		}
	}
	if scene == nil {
		return fmt.Errorf("update %s/%s: %w", sceneID, objectID, ErrSceneNotFound)
	}
	obj, ok := scene.Object(objectID)
	if !ok {
		return fmt.Errorf("update %s/%s: %w", sceneID, objectID, ErrObjectNotFound)
	}
	if patch.Empty() {
		return nil
	}
	patch.apply(obj)
	s.revision++
	for _, h := range s.handlers {
		h.fn(sceneID, objectID)
	}
	return nil
}

// Revision returns the write counter.
func (s *MemoryStore) Revision() uint64 {
	return s.revision
}

// OnChange registers a callback fired after every successful write.
func (s *MemoryStore) OnChange(fn func(sceneID, objectID string)) CallbackHandle {
	s.nextID++
	id := s.nextID
	s.handlers = append(s.handlers, storeHandler{id: id, fn: fn})
	return CallbackHandle{remove: func() {
		for i := range s.handlers {
			if s.handlers[i].id == id {
				s.handlers = append(s.handlers[:i], s.handlers[i+1:]...)
				return
			}
		}
	}}
}

func (s *MemoryStore) cloneScene(sc *Scene) (*Scene, bool) {
	out := &Scene{}
	if err := deepCopy(out, sc); err != nil {
		s.logger.warnf("store: scene %s: %v", sc.ID, err)
		return nil, false
	}
	return out, true
}

// effectiveObjects resolves component instances for every object of scene.
// Objects that fail to resolve are logged and left out.
func effectiveObjects(store ProjectStore, scene *Scene, log logger) []*GameObject {
	out := make([]*GameObject, 0, len(scene.Objects))
	for _, o := range scene.Objects {
		var def *ComponentDefinition
		if o.ComponentID != "" {
			def, _ = store.Component(o.ComponentID)
		}
		eff, err := EffectiveObject(o, def)
		if err != nil {
			log.warnf("object %s: %v", o.ID, err)
			continue
		}
		out = append(out, eff)
	}
	return out
}
