package asset

import (
	"errors"
	"path"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrNotFound is returned by LoadAsset when a handle no longer resolves to an asset.
// Callers treat it as a null asset, not as a failure.
var ErrNotFound = errors.New("asset: not found")

// Handle is an opaque reference to an asset in the store. The zero Handle is invalid.
// Handles are issued by a Registry so the core never holds host-owned objects as map keys.
type Handle uint64

// Kind is the asset type searched for by EnumerateAssetsOfKind.
type Kind int

const (
	KindClip Kind = iota
	KindPrefab
	KindMaterial
)

func (k Kind) String() string {
	switch k {
	case KindClip:
		return "clip"
	case KindPrefab:
		return "prefab"
	case KindMaterial:
		return "material"
	}
	return "unknown"
}

// Location is a folder in the asset store, in slash-separated form.
type Location string

// Store is the host's asset database as seen by the scan engine and the material resolver.
type Store interface {
	// ResolveGroupLocation maps a group identifier to its folder; ok is false when the group is not installed.
	ResolveGroupLocation(groupID string) (loc Location, ok bool)
	// EnumerateAssetsOfKind lists every asset of kind under loc, including subfolders.
	EnumerateAssetsOfKind(kind Kind, loc Location) ([]Handle, error)
	// LoadAsset returns the asset for h, or ErrNotFound.
	LoadAsset(h Handle) (Asset, error)
}

// Asset is implemented by *Clip, *Prefab and *Material.
type Asset interface {
	AssetHandle() Handle
	AssetName() string
	AssetKind() Kind
}

// Material is a material asset. Path is empty for built-in materials that have no backing file.
type Material struct {
	Handle Handle
	Name   string
	Path   string
}

func (m *Material) AssetHandle() Handle { return m.Handle }
func (m *Material) AssetName() string   { return m.Name }
func (m *Material) AssetKind() Kind     { return KindMaterial }

// Folder returns the folder holding the material file, or "" for built-in materials.
func (m *Material) Folder() Location {
	if m == nil || m.Path == "" {
		return ""
	}
	return Location(path.Dir(m.Path))
}

// Renderer is a mesh renderer on a prefab node. A nil entry in Materials is an empty slot.
type Renderer struct {
	Materials []*Material
}

// Node is one transform in a prefab hierarchy. Position and Rotation are local to the parent.
type Node struct {
	Name     string
	Position rl.Vector3
	Rotation rl.Quaternion
	Renderer *Renderer
	Children []*Node
}

// RigDef declares a skeletal rig on the prefab root. Head names the humanoid head joint when Humanoid is set.
type RigDef struct {
	Humanoid bool
	Head     string
}

// Prefab is a character asset: a node hierarchy with an optional rig.
type Prefab struct {
	Handle Handle
	Name   string
	Path   string
	Root   *Node
	Rig    *RigDef
}

func (p *Prefab) AssetHandle() Handle { return p.Handle }
func (p *Prefab) AssetName() string   { return p.Name }
func (p *Prefab) AssetKind() Kind     { return KindPrefab }

// Renderers returns the prefab's renderers in depth-first pre-order, matching scene traversal order.
func (p *Prefab) Renderers() []*Renderer {
	var out []*Renderer
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.Renderer != nil {
			out = append(out, n.Renderer)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(p.Root)
	return out
}

// RotationKey is a joint rotation at Time seconds.
type RotationKey struct {
	Time     float32
	Rotation rl.Quaternion
}

// PositionKey is a root position at Time seconds.
type PositionKey struct {
	Time     float32
	Position rl.Vector3
}

// Track animates one joint by name.
type Track struct {
	Joint string
	Keys  []RotationKey
}

// Clip is an animation clip. Root holds root motion; an empty Root leaves the rig root in place.
type Clip struct {
	Handle Handle
	Name   string
	Path   string
	Length float32
	Root   []PositionKey
	Tracks []Track
}

func (c *Clip) AssetHandle() Handle { return c.Handle }
func (c *Clip) AssetName() string   { return c.Name }
func (c *Clip) AssetKind() Kind     { return KindClip }
