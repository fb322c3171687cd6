package assetfs

// File suffixes that identify asset descriptors by kind.
const (
	ClipSuffix     = ".clip.yaml"
	PrefabSuffix   = ".prefab.yaml"
	MaterialSuffix = ".mat.yaml"
	// GroupsFile maps group identifiers to folders; it lives at the store root.
	GroupsFile = "groups.yaml"
	// BuiltinPrefix marks a material reference with no backing file (e.g. "builtin:Default").
	BuiltinPrefix = "builtin:"
)

// GroupDef is one entry of groups.yaml.
type GroupDef struct {
	ID   string `yaml:"id"`
	Path string `yaml:"path"`
}

// ClipDef is the YAML form of an animation clip. Rotations are Euler degrees [x, y, z].
type ClipDef struct {
	Name   string        `yaml:"name"`
	Length float32       `yaml:"length"`
	Root   []PositionDef `yaml:"root,omitempty"`
	Tracks []TrackDef    `yaml:"tracks,omitempty"`
}

type PositionDef struct {
	Time     float32    `yaml:"t"`
	Position [3]float32 `yaml:"pos"`
}

type TrackDef struct {
	Joint string     `yaml:"joint"`
	Keys  []EulerDef `yaml:"keys"`
}

type EulerDef struct {
	Time  float32    `yaml:"t"`
	Euler [3]float32 `yaml:"euler"`
}

// PrefabDef is the YAML form of a character prefab.
type PrefabDef struct {
	Name     string  `yaml:"name"`
	Humanoid bool    `yaml:"humanoid,omitempty"`
	Head     string  `yaml:"head,omitempty"`
	Rig      bool    `yaml:"rig,omitempty"`
	Root     NodeDef `yaml:"root"`
}

// NodeDef is one transform. Materials lists material descriptor paths relative to the store root;
// "" is an empty slot and "builtin:<name>" a built-in material. A node with no materials key has no renderer.
type NodeDef struct {
	Name      string     `yaml:"name"`
	Position  [3]float32 `yaml:"pos,omitempty"`
	Euler     [3]float32 `yaml:"euler,omitempty"`
	Materials []string   `yaml:"materials,omitempty"`
	Children  []NodeDef  `yaml:"children,omitempty"`
}

// MaterialDef is the YAML form of a material. Name defaults to the file name without suffix.
type MaterialDef struct {
	Name string `yaml:"name,omitempty"`
}
