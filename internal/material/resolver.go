// Package material re-skins a placed instance by swapping each material for a random sibling
// from the same folder of the asset library.
package material

import (
	"errors"
	"math/rand"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"animation-poser/internal/asset"
	"animation-poser/internal/groups"
	"animation-poser/internal/scene"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// GroupLookup returns the character group a prefab was discovered in.
type GroupLookup func(asset.Handle) (groups.SourceGroup, bool)

// Resolver picks replacement materials. It never fails: anything it cannot resolve keeps the
// original material.
type Resolver struct {
	store   asset.Store
	groupOf GroupLookup
	rnd     *rand.Rand
	log     *zap.Logger
}

// NewResolver returns a resolver drawing from rnd. groupOf may be nil, which disables strict matching.
func NewResolver(store asset.Store, groupOf GroupLookup, rnd *rand.Rand, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{store: store, groupOf: groupOf, rnd: rnd, log: log}
}

// Resolve pairs the prefab's renderers with the instance's by traversal order and assigns each
// instance renderer a full, re-drawn material array.
func (r *Resolver) Resolve(instance *scene.Object, prefab *asset.Prefab) {
	if instance == nil || prefab == nil {
		return
	}
	strict := false
	if r.groupOf != nil {
		if g, ok := r.groupOf(prefab.Handle); ok {
			strict = g.StrictMaterialMatching
		}
	}

	src := prefab.Renderers()
	dst := instance.Renderers()
	if len(src) == 0 || len(dst) == 0 {
		return
	}
	if len(src) != len(dst) {
		r.log.Debug("renderer count differs between prefab and instance",
			zap.String("prefab", prefab.Name), zap.Int("prefab_renderers", len(src)), zap.Int("instance_renderers", len(dst)))
	}

	folders := make(map[string][]*asset.Material)
	for i := range min(len(src), len(dst)) {
		if src[i] == nil || dst[i] == nil {
			continue
		}
		out := make([]*asset.Material, len(src[i].Materials))
		for slot, orig := range src[i].Materials {
			out[slot] = r.pick(orig, strict, folders)
		}
		dst[i].SetMaterials(out)
	}
}

func (r *Resolver) pick(orig *asset.Material, strict bool, folders map[string][]*asset.Material) *asset.Material {
	if orig == nil {
		return nil
	}
	folder := string(orig.Folder())
	if folder == "" {
		return orig
	}

	var base string
	if strict {
		b, ok := StrictBase(orig.Name)
		if !ok {
			return orig
		}
		base = b
	}

	peers, ok := folders[folder]
	if !ok {
		peers = r.peers(folder)
		folders[folder] = peers
	}

	candidates := peers
	if strict {
		candidates = nil
		for _, m := range peers {
			if SharesBase(m.Name, base) {
				candidates = append(candidates, m)
			}
		}
	}
	if len(candidates) == 0 {
		return orig
	}
	chosen := candidates[r.rnd.Intn(len(candidates))]
	r.log.Debug("material chosen",
		zap.String("original", orig.Name), zap.String("chosen", chosen.Name), zap.Bool("strict", strict), zap.Int("candidates", len(candidates)))
	return chosen
}

// peers loads every material directly inside folder, skipping subfolders and unloadable assets.
func (r *Resolver) peers(folder string) []*asset.Material {
	handles, err := r.store.EnumerateAssetsOfKind(asset.KindMaterial, asset.Location(folder))
	if err != nil {
		r.log.Warn("material folder lookup failed", zap.String("folder", folder), zap.Error(err))
		return nil
	}
	var out []*asset.Material
	for _, h := range handles {
		a, err := r.store.LoadAsset(h)
		if err != nil {
			if !errors.Is(err, asset.ErrNotFound) {
				r.log.Warn("material load failed", zap.Uint64("handle", uint64(h)), zap.Error(err))
			}
			continue
		}
		m, ok := a.(*asset.Material)
		if !ok || path.Dir(m.Path) != folder {
			continue
		}
		out = append(out, m)
	}
	return out
}

// StrictBase strips the trailing run of single-letter "_X" variant tags from name and returns
// everything up to and including the underscore of the last tag stripped, so
// "Chr_Knight_01_A" → "Chr_Knight_01_". It reports false when name ends in no such tag.
func StrictBase(name string) (string, bool) {
	end, cut := len(name), -1
	for {
		i := strings.LastIndexByte(name[:end], '_')
		if i < 0 || !singleLetter(name[i+1:end]) {
			break
		}
		cut, end = i, i
	}
	if cut < 0 {
		return "", false
	}
	return name[:cut+1], true
}

func singleLetter(s string) bool {
	r, n := utf8.DecodeRuneInString(s)
	return n > 0 && n == len(s) && unicode.IsLetter(r)
}

// SharesBase reports whether name starts with base, ignoring case, and has something after it.
func SharesBase(name, base string) bool {
	fold := cases.Fold()
	n, b := fold.String(name), fold.String(base)
	return strings.HasPrefix(n, b) && len(n) > len(b)
}
