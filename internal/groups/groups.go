// Package groups models the toggleable asset-source groups and the fingerprint of the
// enabled selection used to tell whether a cached scan still matches what the user picked.
package groups

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/maps"
)

// Family separates animation sources from character sources.
type Family int

const (
	Animation Family = iota
	Character
)

func (f Family) String() string {
	if f == Animation {
		return "animation"
	}
	return "character"
}

// ParseFamily accepts "anim", "animation", "char", "character", "art".
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "anim", "animation", "animations":
		return Animation, nil
	case "char", "character", "characters", "art":
		return Character, nil
	}
	return 0, fmt.Errorf("groups: unknown family %q", s)
}

// SourceGroup is one named asset source. ID is the stable handle the asset store resolves.
type SourceGroup struct {
	ID                     string
	Name                   string
	Enabled                bool
	StrictMaterialMatching bool
}

// Set holds both families in their display order.
type Set struct {
	Animation []SourceGroup
	Character []SourceGroup
}

// Clone returns a deep copy.
func (s Set) Clone() Set {
	return Set{
		Animation: slices.Clone(s.Animation),
		Character: slices.Clone(s.Character),
	}
}

// Family returns the groups of f. The slice aliases the set.
func (s Set) Family(f Family) []SourceGroup {
	if f == Animation {
		return s.Animation
	}
	return s.Character
}

// SetEnabled toggles group i of family f.
func (s *Set) SetEnabled(f Family, i int, enabled bool) error {
	list := s.Family(f)
	if i < 0 || i >= len(list) {
		return fmt.Errorf("groups: %s group index %d out of range [0,%d)", f, i, len(list))
	}
	list[i].Enabled = enabled
	return nil
}

// Enabled returns the enabled groups of f in display order.
func (s Set) Enabled(f Family) []SourceGroup {
	var out []SourceGroup
	for _, g := range s.Family(f) {
		if g.Enabled {
			out = append(out, g)
		}
	}
	return out
}

// Fingerprint returns the fingerprint of the enabled groups in s.
func (s Set) Fingerprint() string {
	return Fingerprint(ids(s.Enabled(Animation)), ids(s.Enabled(Character)))
}

// Fingerprint builds a deterministic string from the enabled animation and character group ids.
// Each family's ids are deduplicated and sorted, so traversal order never changes the result.
func Fingerprint(animationIDs, characterIDs []string) string {
	return sortedJoin(animationIDs) + "||" + sortedJoin(characterIDs)
}

func sortedJoin(ids []string) string {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return strings.Join(slices.Sorted(maps.Keys(set)), "|")
}

func ids(list []SourceGroup) []string {
	out := make([]string, len(list))
	for i, g := range list {
		out[i] = g.ID
	}
	return out
}
