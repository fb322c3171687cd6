// Package catalog holds the built-in configuration: the default animation and character
// groups and the prefix rules that decide which prefabs are placeable characters.
package catalog

import (
	_ "embed"
	"fmt"

	"animation-poser/internal/classifier"
	"animation-poser/internal/groups"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtin []byte

// GroupDef is the YAML definition of a default group.
type GroupDef struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Strict bool   `yaml:"strict_material_matching,omitempty"`
}

// Prefixes are the classifier allow/deny rules.
type Prefixes struct {
	Allow []string `yaml:"allow"`
	Deny  []string `yaml:"deny"`
}

// Catalog is the static configuration. It is not user-editable at runtime.
type Catalog struct {
	AnimationGroups []GroupDef `yaml:"animation_groups"`
	CharacterGroups []GroupDef `yaml:"character_groups"`
	Prefixes        Prefixes   `yaml:"prefixes"`
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if len(c.Prefixes.Allow) == 0 {
		return nil, fmt.Errorf("catalog: no allow prefixes")
	}
	return &c, nil
}

// Default returns the embedded catalog. It panics if the embedded document is malformed.
func Default() *Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(err)
	}
	return c
}

// Groups returns a fresh group set with every default group enabled.
func (c *Catalog) Groups() groups.Set {
	return groups.Set{
		Animation: toGroups(c.AnimationGroups),
		Character: toGroups(c.CharacterGroups),
	}
}

// Classifier returns a classifier over the catalog's prefix rules.
func (c *Catalog) Classifier() *classifier.Classifier {
	return classifier.New(c.Prefixes.Allow, c.Prefixes.Deny)
}

func toGroups(defs []GroupDef) []groups.SourceGroup {
	out := make([]groups.SourceGroup, len(defs))
	for i, d := range defs {
		out[i] = groups.SourceGroup{ID: d.ID, Name: d.Name, Enabled: true, StrictMaterialMatching: d.Strict}
	}
	return out
}
