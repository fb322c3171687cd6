package session

import (
	"fmt"
	"slices"

	"animation-poser/internal/filter"
	"animation-poser/internal/groups"

	"golang.org/x/exp/maps"
)

// Presets add tokens to a family's filter. "idle" adds two tokens because clip packs spell it
// both ways.
var Presets = map[groups.Family]map[string][]string{
	groups.Animation: {
		"idle":   {"idle", "_IDL_"},
		"emotes": {"_EMOT_"},
		"walk":   {"walk"},
		"run":    {"run"},
	},
	groups.Character: {
		"male":   {"male"},
		"female": {"female"},
		"zombie": {"zombie"},
	},
}

// PresetNames returns the preset names of f, sorted.
func PresetNames(f groups.Family) []string {
	return slices.Sorted(maps.Keys(Presets[f]))
}

// Filter returns the raw filter string of f.
func (s *Session) Filter(f groups.Family) string {
	if f == groups.Animation {
		return s.settings.AnimationFilter
	}
	return s.settings.CharacterFilter
}

// SetFilter replaces the raw filter string of f.
func (s *Session) SetFilter(f groups.Family, raw string) {
	if f == groups.Animation {
		s.settings.AnimationFilter = raw
	} else {
		s.settings.CharacterFilter = raw
	}
	s.save()
}

// AddFilterToken appends token to f's filter unless it is already there.
func (s *Session) AddFilterToken(f groups.Family, token string) {
	s.SetFilter(f, filter.AddToken(s.Filter(f), token))
}

// ApplyPreset adds the tokens of a named preset to f's filter.
func (s *Session) ApplyPreset(f groups.Family, name string) error {
	tokens, ok := Presets[f][name]
	if !ok {
		return fmt.Errorf("session: unknown %s preset %q", f, name)
	}
	raw := s.Filter(f)
	for _, t := range tokens {
		raw = filter.AddToken(raw, t)
	}
	s.SetFilter(f, raw)
	return nil
}

// ClearFilter empties f's filter.
func (s *Session) ClearFilter(f groups.Family) {
	s.SetFilter(f, "")
}
