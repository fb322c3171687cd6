// Package scene is an in-memory editor scene: an object hierarchy built from prefabs, an undo
// log of created objects, a selection set, and static colliders for click ray casts.
package scene

import (
	"fmt"
	"slices"

	"animation-poser/internal/asset"
	"animation-poser/internal/collision"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"
)

// UndoEntry records one created object. Entries registered together share a Group.
type UndoEntry struct {
	Group  uuid.UUID
	Label  string
	Object *Object
}

// Option configures a Scene.
type Option func(*Scene)

// WithoutLinking makes InstantiateLinked unsupported, forcing plain copies.
func WithoutLinking() Option {
	return func(s *Scene) { s.linking = false }
}

// Scene owns root objects and the editor state around them.
type Scene struct {
	Colliders *collision.World

	roots     []*Object
	undo      []UndoEntry
	selection []*Object
	linking   bool
	log       *zap.Logger
}

// New returns an empty scene with an empty collision world.
func New(log *zap.Logger, opts ...Option) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scene{Colliders: collision.NewWorld(), linking: true, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Roots returns a copy of the root objects.
func (s *Scene) Roots() []*Object { return slices.Clone(s.roots) }

// Add places o in the scene, under parent when parent is non-nil.
func (s *Scene) Add(o, parent *Object) {
	if parent != nil {
		parent.AddChild(o)
		return
	}
	o.detach()
	s.roots = append(s.roots, o)
}

// Remove takes o out of the scene and the selection.
func (s *Scene) Remove(o *Object) {
	if o.parent != nil {
		o.detach()
	} else if i := slices.Index(s.roots, o); i >= 0 {
		s.roots = slices.Delete(s.roots, i, i+1)
	}
	s.selection = slices.DeleteFunc(s.selection, func(x *Object) bool { return x == o })
}

// InstantiateLinked builds an instance that keeps a reference to its source prefab.
// It reports false when the scene does not support linked instances.
func (s *Scene) InstantiateLinked(p *asset.Prefab, parent *Object) (*Object, bool) {
	if !s.linking || p == nil || p.Root == nil {
		return nil, false
	}
	o := build(p.Root, p.Rig)
	o.Source = p
	s.Add(o, parent)
	return o, true
}

// Instantiate builds a plain copy of the prefab, detached from the asset's node data. Unlike a
// linked instance, its renderers hold their own *asset.Material copies, so editing a copy's
// materials never reaches the prefab or other instances.
func (s *Scene) Instantiate(p *asset.Prefab, parent *Object) (*Object, error) {
	if p == nil || p.Root == nil {
		return nil, fmt.Errorf("scene: prefab has no root node")
	}
	var root asset.Node
	if err := copier.CopyWithOption(&root, p.Root, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("scene: copy %s: %w", p.Name, err)
	}
	o := build(&root, p.Rig)
	s.Add(o, parent)
	return o, nil
}

// build turns a node tree into objects. The rig lands on the root object.
func build(root *asset.Node, rig *asset.RigDef) *Object {
	o := buildNode(root)
	if rig != nil {
		r := &Rig{Humanoid: rig.Humanoid}
		if rig.Humanoid && rig.Head != "" {
			r.Head = o.FindNamed(rig.Head)
		}
		o.Rig = r
	}
	return o
}

func buildNode(n *asset.Node) *Object {
	o := NewObject(n.Name)
	o.Position = n.Position
	o.Rotation = n.Rotation
	if o.Rotation == (rl.Quaternion{}) {
		o.Rotation = rl.QuaternionIdentity()
	}
	if n.Renderer != nil {
		o.Renderer = NewRenderer(n.Renderer.Materials)
	}
	for _, c := range n.Children {
		o.AddChild(buildNode(c))
	}
	return o
}

// RegisterCreatedUndo records o as created so Undo can remove it.
func (s *Scene) RegisterCreatedUndo(o *Object, label string) {
	e := UndoEntry{Group: uuid.New(), Label: label, Object: o}
	s.undo = append(s.undo, e)
	s.log.Debug("undo registered", zap.String("label", label), zap.Stringer("group", e.Group), zap.String("object", o.Name))
}

// UndoHistory returns the undo log, oldest first.
func (s *Scene) UndoHistory() []UndoEntry { return slices.Clone(s.undo) }

// Undo removes the most recently created object. It reports false when the log is empty.
func (s *Scene) Undo() (UndoEntry, bool) {
	if len(s.undo) == 0 {
		return UndoEntry{}, false
	}
	e := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.Remove(e.Object)
	return e, true
}

// SetSelection replaces the selection.
func (s *Scene) SetSelection(objs ...*Object) {
	s.selection = slices.Clone(objs)
}

// Selection returns the selected objects.
func (s *Scene) Selection() []*Object { return slices.Clone(s.selection) }

// Raycast casts against the scene's colliders.
func (s *Scene) Raycast(ray rl.Ray) (collision.Hit, bool) {
	return s.Colliders.Raycast(ray, 0)
}
