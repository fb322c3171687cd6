package scene

import (
	"slices"

	"animation-poser/internal/asset"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
)

// Renderer holds an object's material slots. A nil slot is empty.
type Renderer struct {
	materials []*asset.Material
}

// NewRenderer returns a renderer with a copy of materials.
func NewRenderer(materials []*asset.Material) *Renderer {
	return &Renderer{materials: slices.Clone(materials)}
}

// Materials returns a copy of the slots.
func (r *Renderer) Materials() []*asset.Material {
	return slices.Clone(r.materials)
}

// SetMaterials replaces every slot at once.
func (r *Renderer) SetMaterials(materials []*asset.Material) {
	r.materials = slices.Clone(materials)
}

// Rig is the skeletal abstraction of an instance. Head is set only for humanoid rigs that
// declare a head joint.
type Rig struct {
	Humanoid bool
	Head     *Object
}

// Object is a node in the scene hierarchy. Position and Rotation are local to the parent.
type Object struct {
	ID       uuid.UUID
	Name     string
	Position rl.Vector3
	Rotation rl.Quaternion
	Renderer *Renderer
	Rig      *Rig
	// Source is the prefab a linked instance was created from; nil for plain copies and children.
	Source *asset.Prefab

	parent   *Object
	children []*Object
}

// NewObject returns a parentless object at the origin with identity rotation.
func NewObject(name string) *Object {
	return &Object{ID: uuid.New(), Name: name, Rotation: rl.QuaternionIdentity()}
}

// Parent returns the parent, or nil for a root.
func (o *Object) Parent() *Object { return o.parent }

// Children returns a copy of the child list.
func (o *Object) Children() []*Object { return slices.Clone(o.children) }

// AddChild reparents c under o, keeping c's local transform.
func (o *Object) AddChild(c *Object) {
	c.detach()
	c.parent = o
	o.children = append(o.children, c)
}

func (o *Object) detach() {
	if o.parent == nil {
		return
	}
	p := o.parent
	if i := slices.Index(p.children, o); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	o.parent = nil
}

// WorldRotation composes local rotations from the root down.
func (o *Object) WorldRotation() rl.Quaternion {
	if o.parent == nil {
		return o.Rotation
	}
	return rl.QuaternionMultiply(o.parent.WorldRotation(), o.Rotation)
}

// WorldPosition returns the object's position in world space.
func (o *Object) WorldPosition() rl.Vector3 {
	if o.parent == nil {
		return o.Position
	}
	return rl.Vector3Add(o.parent.WorldPosition(), rl.Vector3RotateByQuaternion(o.Position, o.parent.WorldRotation()))
}

// SetWorldPositionAndRotation moves the object in one update: both locals are computed
// before either is assigned.
func (o *Object) SetWorldPositionAndRotation(pos rl.Vector3, rot rl.Quaternion) {
	if o.parent == nil {
		o.Position, o.Rotation = pos, rot
		return
	}
	inv := rl.QuaternionInvert(o.parent.WorldRotation())
	localPos := rl.Vector3RotateByQuaternion(rl.Vector3Subtract(pos, o.parent.WorldPosition()), inv)
	localRot := rl.QuaternionNormalize(rl.QuaternionMultiply(inv, rot))
	o.Position, o.Rotation = localPos, localRot
}

// Up returns the object's world up axis.
func (o *Object) Up() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(rl.NewVector3(0, 1, 0), o.WorldRotation())
}

// Walk visits o and its descendants in pre-order until fn returns false.
func (o *Object) Walk(fn func(*Object) bool) bool {
	if !fn(o) {
		return false
	}
	for _, c := range o.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Find returns the first object in pre-order for which match is true.
func (o *Object) Find(match func(*Object) bool) *Object {
	var found *Object
	o.Walk(func(n *Object) bool {
		if match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindNamed returns the first object in pre-order named name.
func (o *Object) FindNamed(name string) *Object {
	return o.Find(func(n *Object) bool { return n.Name == name })
}

// Renderers returns every renderer under o in pre-order.
func (o *Object) Renderers() []*Renderer {
	var out []*Renderer
	o.Walk(func(n *Object) bool {
		if n.Renderer != nil {
			out = append(out, n.Renderer)
		}
		return true
	})
	return out
}

// FindRig returns the first object at or under o that carries a rig.
func (o *Object) FindRig() *Object {
	return o.Find(func(n *Object) bool { return n.Rig != nil })
}
