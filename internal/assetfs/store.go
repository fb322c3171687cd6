package assetfs

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"animation-poser/internal/asset"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/hack-pad/hackpadfs"
	"gopkg.in/yaml.v3"
)

// Store is an asset.Store over a hackpadfs file system holding YAML descriptors.
// Loaded assets are cached by handle; the cache is never invalidated during a session.
type Store struct {
	fsys   hackpadfs.FS
	groups map[string]string
	reg    *asset.Registry
	cache  map[asset.Handle]asset.Asset
}

// New opens a store rooted at fsys. groups.yaml is optional; without it no group resolves.
func New(fsys hackpadfs.FS) (*Store, error) {
	s := &Store{
		fsys:   fsys,
		groups: make(map[string]string),
		reg:    asset.NewRegistry(),
		cache:  make(map[asset.Handle]asset.Asset),
	}
	data, err := hackpadfs.ReadFile(fsys, GroupsFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("assetfs: read %s: %w", GroupsFile, err)
	}
	var defs []GroupDef
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("assetfs: parse %s: %w", GroupsFile, err)
	}
	for _, d := range defs {
		if d.ID == "" || d.Path == "" {
			continue
		}
		s.groups[d.ID] = path.Clean(d.Path)
	}
	return s, nil
}

// ResolveGroupLocation returns the folder registered for groupID when it exists on disk.
func (s *Store) ResolveGroupLocation(groupID string) (asset.Location, bool) {
	p, ok := s.groups[groupID]
	if !ok {
		return "", false
	}
	info, err := hackpadfs.Stat(s.fsys, p)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return asset.Location(p), true
}

// EnumerateAssetsOfKind walks loc recursively and returns handles of every descriptor of kind,
// in lexical path order.
func (s *Store) EnumerateAssetsOfKind(kind asset.Kind, loc asset.Location) ([]asset.Handle, error) {
	suffix, err := suffixFor(kind)
	if err != nil {
		return nil, err
	}
	var paths []string
	if err := s.walk(string(loc), suffix, &paths); err != nil {
		return nil, fmt.Errorf("assetfs: enumerate %s in %q: %w", kind, loc, err)
	}
	sort.Strings(paths)
	out := make([]asset.Handle, 0, len(paths))
	for _, p := range paths {
		out = append(out, s.reg.Handle(p))
	}
	return out, nil
}

func (s *Store) walk(dir, suffix string, out *[]string) error {
	entries, err := hackpadfs.ReadDir(s.fsys, dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		p := path.Join(dir, e.Name())
		if e.IsDir() {
			if err := s.walk(p, suffix, out); err != nil {
				return err
			}
			continue
		}
		if strings.HasSuffix(e.Name(), suffix) {
			*out = append(*out, p)
		}
	}
	return nil
}

// LoadAsset decodes the descriptor behind h. A handle whose file has disappeared yields asset.ErrNotFound.
func (s *Store) LoadAsset(h asset.Handle) (asset.Asset, error) {
	if a, ok := s.cache[h]; ok {
		return a, nil
	}
	p, ok := s.reg.Lookup(h)
	if !ok {
		return nil, asset.ErrNotFound
	}
	data, err := hackpadfs.ReadFile(s.fsys, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, asset.ErrNotFound
		}
		return nil, fmt.Errorf("assetfs: read %s: %w", p, err)
	}
	var a asset.Asset
	switch {
	case strings.HasSuffix(p, ClipSuffix):
		a, err = s.decodeClip(h, p, data)
	case strings.HasSuffix(p, PrefabSuffix):
		a, err = s.decodePrefab(h, p, data)
	case strings.HasSuffix(p, MaterialSuffix):
		a, err = decodeMaterial(h, p, data)
	default:
		return nil, asset.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("assetfs: decode %s: %w", p, err)
	}
	s.cache[h] = a
	return a, nil
}

// MaterialHandle returns the handle for a material descriptor path, for hosts that reference materials by path.
func (s *Store) MaterialHandle(p string) asset.Handle {
	return s.reg.Handle(path.Clean(p))
}

func (s *Store) decodeClip(h asset.Handle, p string, data []byte) (*asset.Clip, error) {
	var def ClipDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, err
	}
	c := &asset.Clip{
		Handle: h,
		Name:   nameOr(def.Name, p, ClipSuffix),
		Path:   p,
		Length: def.Length,
	}
	for _, k := range def.Root {
		c.Root = append(c.Root, asset.PositionKey{Time: k.Time, Position: vec(k.Position)})
	}
	for _, t := range def.Tracks {
		tr := asset.Track{Joint: t.Joint}
		for _, k := range t.Keys {
			tr.Keys = append(tr.Keys, asset.RotationKey{Time: k.Time, Rotation: euler(k.Euler)})
		}
		c.Tracks = append(c.Tracks, tr)
	}
	return c, nil
}

func (s *Store) decodePrefab(h asset.Handle, p string, data []byte) (*asset.Prefab, error) {
	var def PrefabDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, err
	}
	root, err := s.node(def.Root)
	if err != nil {
		return nil, err
	}
	pf := &asset.Prefab{
		Handle: h,
		Name:   nameOr(def.Name, p, PrefabSuffix),
		Path:   p,
		Root:   root,
	}
	if def.Rig || def.Humanoid {
		pf.Rig = &asset.RigDef{Humanoid: def.Humanoid, Head: def.Head}
	}
	return pf, nil
}

func (s *Store) node(def NodeDef) (*asset.Node, error) {
	n := &asset.Node{
		Name:     def.Name,
		Position: vec(def.Position),
		Rotation: euler(def.Euler),
	}
	if def.Materials != nil {
		r := &asset.Renderer{Materials: make([]*asset.Material, len(def.Materials))}
		for i, ref := range def.Materials {
			m, err := s.materialRef(ref)
			if err != nil {
				return nil, err
			}
			r.Materials[i] = m
		}
		n.Renderer = r
	}
	for _, c := range def.Children {
		child, err := s.node(c)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func (s *Store) materialRef(ref string) (*asset.Material, error) {
	switch {
	case ref == "":
		return nil, nil
	case strings.HasPrefix(ref, BuiltinPrefix):
		return &asset.Material{Name: strings.TrimPrefix(ref, BuiltinPrefix)}, nil
	}
	a, err := s.LoadAsset(s.MaterialHandle(ref))
	if errors.Is(err, asset.ErrNotFound) {
		// Missing material files behave like unassigned slots.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m, ok := a.(*asset.Material)
	if !ok {
		return nil, fmt.Errorf("%s is not a material", ref)
	}
	return m, nil
}

func decodeMaterial(h asset.Handle, p string, data []byte) (*asset.Material, error) {
	var def MaterialDef
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, err
		}
	}
	return &asset.Material{Handle: h, Name: nameOr(def.Name, p, MaterialSuffix), Path: p}, nil
}

func suffixFor(kind asset.Kind) (string, error) {
	switch kind {
	case asset.KindClip:
		return ClipSuffix, nil
	case asset.KindPrefab:
		return PrefabSuffix, nil
	case asset.KindMaterial:
		return MaterialSuffix, nil
	}
	return "", fmt.Errorf("assetfs: unsupported kind %d", kind)
}

func nameOr(name, p, suffix string) string {
	if name != "" {
		return name
	}
	return strings.TrimSuffix(path.Base(p), suffix)
}

func vec(v [3]float32) rl.Vector3 {
	return rl.NewVector3(v[0], v[1], v[2])
}

// euler converts Euler degrees to a quaternion.
func euler(deg [3]float32) rl.Quaternion {
	return rl.QuaternionFromEuler(deg[0]*rl.Deg2rad, deg[1]*rl.Deg2rad, deg[2]*rl.Deg2rad)
}
