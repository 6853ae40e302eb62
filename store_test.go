package stage

import (
	"errors"
	"testing"

	"github.com/jinzhu/copier"
)

func storeProject() Project {
	gravity := 0.5
	return Project{
		Components: []*ComponentDefinition{{
			ID:       "crate",
			Costumes: []Costume{{ID: "crate", AssetID: "crate.png"}},
			Physics:  &PhysicsConfig{Enabled: true, Friction: 0.8, GravityScale: &gravity},
			Collider: &ColliderConfig{Shape: ColliderBox},
			Script:   &ScriptSource{Code: "crate"},
		}},
		Scenes: []*Scene{{
			ID:   "s1",
			Name: "main",
			Objects: []*GameObject{
				{ID: "a", Transform: Transform{X: 1, Y: 2, ScaleX: 1, ScaleY: 1}, Visible: true},
				{ID: "b", ComponentID: "crate", Transform: Transform{ScaleX: 1, ScaleY: 1}},
				{
					ID:          "c",
					ComponentID: "crate",
					Costumes:    []Costume{{ID: "own"}},
					Physics:     &PhysicsConfig{Enabled: false},
				},
			},
		}},
	}
}

func mustEffective(t *testing.T, obj *GameObject, def *ComponentDefinition) *GameObject {
	t.Helper()
	out, err := EffectiveObject(obj, def)
	if err != nil {
		t.Fatalf("EffectiveObject: %v", err)
	}
	return out
}

func TestEffectiveObjectInheritsTemplate(t *testing.T) {
	p := storeProject()
	def := p.Components[0]
	scene := p.Scenes[0]

	b := mustEffective(t, scene.Objects[1], def)
	if len(b.Costumes) != 1 || b.Costumes[0].ID != "crate" {
		t.Errorf("costumes = %+v, want the template's", b.Costumes)
	}
	if b.Physics == nil || !b.Physics.Enabled || b.Physics.Friction != 0.8 {
		t.Errorf("physics = %+v, want the template's", b.Physics)
	}
	if b.Script == nil || b.Script.Code != "crate" {
		t.Errorf("script = %+v", b.Script)
	}

	c := mustEffective(t, scene.Objects[2], def)
	if c.Costumes[0].ID != "own" {
		t.Errorf("local costumes should win, got %+v", c.Costumes)
	}
	if c.Physics.Enabled {
		t.Error("local physics should win")
	}
	if c.Collider == nil || c.Collider.Shape != ColliderBox {
		t.Errorf("collider = %+v, want inherited box", c.Collider)
	}
}

func TestEffectiveObjectSharesNoMemory(t *testing.T) {
	p := storeProject()
	def := p.Components[0]
	obj := p.Scenes[0].Objects[1]

	b := mustEffective(t, obj, def)
	b.Physics.Friction = 0
	*b.Physics.GravityScale = 3
	b.Costumes[0].ID = "changed"
	b.X = 99

	if def.Physics.Friction != 0.8 || *def.Physics.GravityScale != 0.5 {
		t.Error("template physics was mutated")
	}
	if def.Costumes[0].ID != "crate" {
		t.Error("template costumes were mutated")
	}
	if obj.X != 0 {
		t.Error("instance was mutated")
	}

	plain := mustEffective(t, p.Scenes[0].Objects[0], nil)
	plain.Visible = false
	if !p.Scenes[0].Objects[0].Visible {
		t.Error("object without a component should be copied")
	}
}

func TestMemoryStoreSnapshots(t *testing.T) {
	p := storeProject()
	s := NewMemoryStore(p)

	p.Scenes[0].Objects[0].X = 500
	sc, ok := s.Scene("s1")
	if !ok {
		t.Fatal("scene missing")
	}
	if sc.Objects[0].X != 1 {
		t.Errorf("store shares memory with its input: x = %v", sc.Objects[0].X)
	}

	sc.Objects[0].X = 700
	again, _ := s.Scene("s1")
	if again.Objects[0].X != 1 {
		t.Error("store shares memory with its snapshots")
	}

	if byName, ok := s.SceneByName("main"); !ok || byName.ID != "s1" {
		t.Error("SceneByName failed")
	}
	if _, ok := s.SceneByName("nope"); ok {
		t.Error("unknown name resolved")
	}
	if got := s.Scenes(); len(got) != 1 || got[0].ID != "s1" {
		t.Errorf("Scenes = %v", got)
	}

	def, ok := s.Component("crate")
	if !ok {
		t.Fatal("component missing")
	}
	*def.Physics.GravityScale = 9
	def2, _ := s.Component("crate")
	if *def2.Physics.GravityScale != 0.5 {
		t.Error("component snapshot shares memory")
	}
	if _, ok := s.Component("missing"); ok {
		t.Error("unknown component resolved")
	}
}

func TestMemoryStoreUpdateObject(t *testing.T) {
	s := NewMemoryStore(storeProject())
	var changes []string
	h := s.OnChange(func(sceneID, objectID string) { changes = append(changes, sceneID+"/"+objectID) })

	if err := s.UpdateObject("s1", "a", PositionPatch(10, 20)); err != nil {
		t.Fatalf("UpdateObject: %v", err)
	}
	sc, _ := s.Scene("s1")
	if o := sc.Objects[0]; o.X != 10 || o.Y != 20 {
		t.Errorf("position = (%v, %v), want (10, 20)", o.X, o.Y)
	}
	if s.Revision() != 1 {
		t.Errorf("revision = %d, want 1", s.Revision())
	}

	if err := s.UpdateObject("s1", "a", ObjectPatch{}); err != nil {
		t.Fatalf("empty patch: %v", err)
	}
	if s.Revision() != 1 {
		t.Error("empty patch bumped the revision")
	}

	h.Remove()
	_ = s.UpdateObject("s1", "a", TransformPatch(Transform{X: 1, Y: 1, ScaleX: 2, ScaleY: 3, Rotation: 45}))
	if len(changes) != 1 || changes[0] != "s1/a" {
		t.Errorf("changes = %v, want [s1/a]", changes)
	}
	sc, _ = s.Scene("s1")
	if o := sc.Objects[0]; o.ScaleX != 2 || o.ScaleY != 3 || o.Rotation != 45 {
		t.Errorf("transform = %+v", o.Transform)
	}
}

func TestMemoryStoreUpdateErrors(t *testing.T) {
	s := NewMemoryStore(storeProject())
	tests := []struct {
		name    string
		sceneID string
		object  string
		want    error
	}{
		{"unknown scene", "s9", "a", ErrSceneNotFound},
		{"unknown object", "s1", "z", ErrObjectNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.UpdateObject(tt.sceneID, tt.object, PositionPatch(1, 1))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if s.Revision() != 0 {
		t.Errorf("failed writes bumped the revision to %d", s.Revision())
	}
}

func TestObjectPatchPhysics(t *testing.T) {
	s := NewMemoryStore(storeProject())
	scale := 2.0
	cfg := &PhysicsConfig{Enabled: true, GravityScale: &scale}
	if err := s.UpdateObject("s1", "a", ObjectPatch{Physics: cfg, Collider: &ColliderConfig{Shape: ColliderCircle}}); err != nil {
		t.Fatal(err)
	}
	scale = 7
	cfg.Enabled = false

	sc, _ := s.Scene("s1")
	o := sc.Objects[0]
	if !o.PhysicsEnabled() || *o.Physics.GravityScale != 2 {
		t.Errorf("physics = %+v, want a copy of the patch", o.Physics)
	}
	if o.Collider.Shape != ColliderCircle {
		t.Errorf("collider = %+v", o.Collider)
	}

	_ = s.UpdateObject("s1", "a", ObjectPatch{ClearPhysics: true})
	sc, _ = s.Scene("s1")
	if sc.Objects[0].Physics != nil {
		t.Error("ClearPhysics left a config behind")
	}
}

func TestEffectiveObjectsResolvesComponents(t *testing.T) {
	s := NewMemoryStore(storeProject())
	sc, _ := s.Scene("s1")
	objs := effectiveObjects(s, sc, logger{})
	if len(objs) != 3 {
		t.Fatalf("len = %d", len(objs))
	}
	if !objs[1].PhysicsEnabled() {
		t.Error("component physics not inherited")
	}
	if objs[0].PhysicsEnabled() {
		t.Error("plain object gained physics")
	}
}

func TestCurrentCostume(t *testing.T) {
	o := &GameObject{Costumes: []Costume{{ID: "a"}, {ID: "b"}}, CostumeIndex: 1}
	if c, ok := o.CurrentCostume(); !ok || c.ID != "b" {
		t.Errorf("CurrentCostume = %+v, %v", c, ok)
	}
	o.CostumeIndex = 2
	if _, ok := o.CurrentCostume(); ok {
		t.Error("out of range index resolved")
	}
	if ids := (&Scene{Objects: []*GameObject{{ID: "x"}, {ID: "y"}}}).ObjectIDs(); len(ids) != 2 || ids[1] != "y" {
		t.Errorf("ObjectIDs = %v", ids)
	}
}

func TestDeepCopyErrors(t *testing.T) {
	var src GameObject
	if err := deepCopy(GameObject{}, &src); !errors.Is(err, copier.ErrInvalidCopyDestination) {
		t.Errorf("non-pointer destination: err = %v", err)
	}
	if _, err := EffectiveObject(nil, nil); !errors.Is(err, copier.ErrInvalidCopyFrom) {
		t.Errorf("nil object: err = %v, want ErrInvalidCopyFrom", err)
	}
}
