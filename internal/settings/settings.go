// Package settings is the one typed configuration struct of the poser, with an explicit
// load/save boundary over the flat preference store.
package settings

import (
	"errors"
	"fmt"

	"animation-poser/internal/groups"
	"animation-poser/internal/placement"
	"animation-poser/internal/prefs"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/multierr"
)

// ErrGroupCountMismatch reports persisted group flags that were ignored because the stored
// count differs from the current default group list.
var ErrGroupCountMismatch = errors.New("settings: persisted group count does not match defaults")

// Settings is everything the user can change.
type Settings struct {
	Groups groups.Set

	UseCollisionNormal bool
	AlignmentAxis      rl.Vector3
	RandomYRotation    bool
	RandomMaterial     bool
	RotateHead         bool
	HeadYawRange       float32
	HeadPitchRange     float32

	AnimationFilter string
	CharacterFilter string
}

// Default returns settings over a copy of defaults with world-up alignment and a random spin.
func Default(defaults groups.Set) Settings {
	o := placement.DefaultOptions()
	return Settings{
		Groups:          defaults.Clone(),
		AlignmentAxis:   o.AlignmentAxis,
		RandomYRotation: o.RandomYRotation,
	}
}

// PlacementOptions converts the placement fields. Parent is left for the caller.
func (s Settings) PlacementOptions() placement.Options {
	return placement.Options{
		UseCollisionNormal: s.UseCollisionNormal,
		AlignmentAxis:      s.AlignmentAxis,
		RandomYRotation:    s.RandomYRotation,
		RandomMaterial:     s.RandomMaterial,
		RotateHead:         s.RotateHead,
		HeadYawRange:       s.HeadYawRange,
		HeadPitchRange:     s.HeadPitchRange,
	}
}

type family struct {
	f      groups.Family
	prefix string
}

var families = []family{
	{groups.Animation, "AnimPack"},
	{groups.Character, "ArtPack"},
}

// Load applies stored values over Default(defaults); missing keys keep their defaults.
// A family whose stored count is positive but differs from the default list keeps every
// default flag. The returned settings are always usable; a non-nil error wraps
// ErrGroupCountMismatch once per ignored family.
func Load(store *prefs.Store, defaults groups.Set) (Settings, error) {
	s := Default(defaults)
	var errs error
	for _, fam := range families {
		list := s.Groups.Family(fam.f)
		n := store.GetInt(fam.prefix+"_Count", -1)
		if n <= 0 {
			continue
		}
		if n != len(list) {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s stored %d, have %d", ErrGroupCountMismatch, fam.f, n, len(list)))
			continue
		}
		for i := range list {
			list[i].Enabled = store.GetBool(fmt.Sprintf("%s_%d_Enabled", fam.prefix, i), list[i].Enabled)
		}
	}

	s.UseCollisionNormal = store.GetBool("UseCollisionNormal", s.UseCollisionNormal)
	s.AlignmentAxis = rl.NewVector3(
		store.GetFloat("AlignmentVector_X", s.AlignmentAxis.X),
		store.GetFloat("AlignmentVector_Y", s.AlignmentAxis.Y),
		store.GetFloat("AlignmentVector_Z", s.AlignmentAxis.Z),
	)
	s.RandomYRotation = store.GetBool("RandomYRotation", s.RandomYRotation)
	s.RandomMaterial = store.GetBool("RandomMaterial", s.RandomMaterial)
	s.RotateHead = store.GetBool("RotateHead", s.RotateHead)
	s.HeadYawRange = store.GetFloat("HeadHorizontalRange", s.HeadYawRange)
	s.HeadPitchRange = store.GetFloat("HeadVerticalRange", s.HeadPitchRange)
	s.AnimationFilter = store.GetString("AnimationNameFilter", s.AnimationFilter)
	s.CharacterFilter = store.GetString("CharacterNameFilter", s.CharacterFilter)
	return s, errs
}

// Save writes every setting into store and flushes it.
func Save(store *prefs.Store, s Settings) error {
	for _, fam := range families {
		list := s.Groups.Family(fam.f)
		for i, g := range list {
			store.SetBool(fmt.Sprintf("%s_%d_Enabled", fam.prefix, i), g.Enabled)
		}
		store.SetInt(fam.prefix+"_Count", len(list))
	}
	store.SetBool("UseCollisionNormal", s.UseCollisionNormal)
	store.SetFloat("AlignmentVector_X", s.AlignmentAxis.X)
	store.SetFloat("AlignmentVector_Y", s.AlignmentAxis.Y)
	store.SetFloat("AlignmentVector_Z", s.AlignmentAxis.Z)
	store.SetBool("RandomYRotation", s.RandomYRotation)
	store.SetBool("RandomMaterial", s.RandomMaterial)
	store.SetBool("RotateHead", s.RotateHead)
	store.SetFloat("HeadHorizontalRange", s.HeadYawRange)
	store.SetFloat("HeadVerticalRange", s.HeadPitchRange)
	store.SetString("AnimationNameFilter", s.AnimationFilter)
	store.SetString("CharacterNameFilter", s.CharacterFilter)
	return store.Save()
}
