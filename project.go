package stage

import (
	"fmt"
	"image"

	"github.com/jinzhu/copier"
)

// Transform is an object's author-space placement. Rotation is in degrees,
// clockwise on screen.
type Transform struct {
	X, Y     float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

// Costume is one visual appearance of an object.
type Costume struct {
	ID      string
	Name    string
	AssetID string
	// Bounds is the visible-content rectangle in source pixels. Nil means it
	// is derived from the decoded image's alpha channel.
	Bounds *image.Rectangle
	// Width and Height are the default display size, used until the asset
	// decodes. Zero falls back to Config.PlaceholderSize.
	Width, Height float64
}

// ColliderShape selects the simulation shape built for an object.
type ColliderShape string

const (
	ColliderBox     ColliderShape = "box"
	ColliderCircle  ColliderShape = "circle"
	ColliderCapsule ColliderShape = "capsule"
	ColliderNone    ColliderShape = "none" // sensor only, no collision response
)

// ColliderConfig describes the simulation shape of an object. Offsets are
// author-space pixels in the object's unscaled frame.
type ColliderConfig struct {
	Shape            ColliderShape
	OffsetX, OffsetY float64
	Radius           float64 // circle only; zero derives from the costume
}

// PhysicsConfig describes how an object behaves in the simulation.
// Velocities are author-space (+Y up) pixels per second.
type PhysicsConfig struct {
	Enabled              bool
	Static               bool
	AllowRotation        bool
	VelocityX, VelocityY float64
	Bounce               float64
	Friction             float64
	// GravityScale multiplies world gravity for this body. Nil means 1.
	GravityScale *float64
	Mass         float64 // zero means 1
}

// ScriptSource is an authored script as handed to the script compiler.
type ScriptSource struct {
	Language string
	Code     string
}

// GameObject is a scene object as stored in the project.
type GameObject struct {
	ID   string
	Name string
	Transform
	Visible      bool
	Costumes     []Costume
	CostumeIndex int
	Physics      *PhysicsConfig
	Collider     *ColliderConfig
	Script       *ScriptSource
	// ComponentID, when set, makes this object an instance of a component.
	ComponentID string
}

// CurrentCostume returns the current costume, if any.
func (o *GameObject) CurrentCostume() (Costume, bool) {
	if o.CostumeIndex < 0 || o.CostumeIndex >= len(o.Costumes) {
		return Costume{}, false
	}
	return o.Costumes[o.CostumeIndex], true
}

// PhysicsEnabled reports whether the object should own a simulation body.
func (o *GameObject) PhysicsEnabled() bool {
	return o.Physics != nil && o.Physics.Enabled
}

// Ground is a static floor added to the scene's physics world.
type Ground struct {
	Y        float64 // author-space top edge
	Height   float64
	Friction float64
}

// Scene is an ordered list of objects. Index order is render order: later
// objects draw on top.
type Scene struct {
	ID         string
	Name       string
	Objects    []*GameObject
	Background Color
	Ground     *Ground
}

// Object returns the object with the given id.
func (s *Scene) Object(id string) (*GameObject, bool) {
	for _, o := range s.Objects {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

// ObjectIDs returns the object ids in scene order.
func (s *Scene) ObjectIDs() []string {
	ids := make([]string, len(s.Objects))
	for i, o := range s.Objects {
		ids[i] = o.ID
	}
	return ids
}

// ComponentDefinition is a template whose properties instances inherit
// unless they override them locally.
type ComponentDefinition struct {
	ID           string
	Name         string
	Costumes     []Costume
	CostumeIndex int
	Physics      *PhysicsConfig
	Collider     *ColliderConfig
	Script       *ScriptSource
}

// Project is the full authored game.
type Project struct {
	Scenes     []*Scene
	Components []*ComponentDefinition
}

// EffectiveObject merges an instance's local overrides onto a deep copy of
// its component template. Instance fields that are set (non-nil, non-empty)
// win. The template is never mutated; the result shares no memory with
// either input. Objects without a component are deep-copied unchanged.
func EffectiveObject(obj *GameObject, def *ComponentDefinition) (*GameObject, error) {
	out := &GameObject{}
	if err := deepCopy(out, obj); err != nil {
		return nil, err
	}
	if def == nil {
		return out, nil
	}
	tmpl := &ComponentDefinition{}
	if err := deepCopy(tmpl, def); err != nil {
		return nil, fmt.Errorf("component %s: %w", def.ID, err)
	}
	if len(out.Costumes) == 0 {
		out.Costumes = tmpl.Costumes
		out.CostumeIndex = tmpl.CostumeIndex
	}
	if out.Physics == nil {
		out.Physics = tmpl.Physics
	}
	if out.Collider == nil {
		out.Collider = tmpl.Collider
	}
	if out.Script == nil {
		out.Script = tmpl.Script
	}
	return out, nil
}

// deepCopy copies src into dst sharing no memory.
func deepCopy(dst, src any) error {
	if err := copier.CopyWithOption(dst, src, copier.Option{DeepCopy: true}); err != nil {
		return fmt.Errorf("deep copy %T: %w", src, err)
	}
	return nil
}

// ObjectPatch is a partial object update. Nil fields are left unchanged.
type ObjectPatch struct {
	X, Y         *float64
	ScaleX       *float64
	ScaleY       *float64
	Rotation     *float64
	Visible      *bool
	CostumeIndex *int
	Physics      *PhysicsConfig
	Collider     *ColliderConfig
	// ClearPhysics removes the physics config entirely.
	ClearPhysics bool
}

// Empty reports whether the patch changes nothing.
func (p ObjectPatch) Empty() bool {
	return p.X == nil && p.Y == nil && p.ScaleX == nil && p.ScaleY == nil &&
		p.Rotation == nil && p.Visible == nil && p.CostumeIndex == nil &&
		p.Physics == nil && p.Collider == nil && !p.ClearPhysics
}

// apply writes the patch onto o.
func (p ObjectPatch) apply(o *GameObject) {
	if p.X != nil {
		o.X = *p.X
	}
	if p.Y != nil {
		o.Y = *p.Y
	}
	if p.ScaleX != nil {
		o.ScaleX = *p.ScaleX
	}
	if p.ScaleY != nil {
		o.ScaleY = *p.ScaleY
	}
	if p.Rotation != nil {
		o.Rotation = *p.Rotation
	}
	if p.Visible != nil {
		o.Visible = *p.Visible
	}
	if p.CostumeIndex != nil {
		o.CostumeIndex = *p.CostumeIndex
	}
	if p.ClearPhysics {
		o.Physics = nil
	}
	if p.Physics != nil {
		cfg := *p.Physics
		if cfg.GravityScale != nil {
			g := *cfg.GravityScale
			cfg.GravityScale = &g
		}
		o.Physics = &cfg
	}
	if p.Collider != nil {
		cfg := *p.Collider
		o.Collider = &cfg
	}
}

// TransformPatch builds a patch carrying a full author-space transform.
func TransformPatch(t Transform) ObjectPatch {
	return ObjectPatch{X: &t.X, Y: &t.Y, ScaleX: &t.ScaleX, ScaleY: &t.ScaleY, Rotation: &t.Rotation}
}

// PositionPatch builds a patch carrying only an author-space position.
func PositionPatch(x, y float64) ObjectPatch {
	return ObjectPatch{X: &x, Y: &y}
}
