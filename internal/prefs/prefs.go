// Package prefs is a persisted flat key/value store. Every key lives under Namespace; values
// are bool, int, float or string and are coerced on read.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cast"
	"golang.org/x/exp/maps"
)

// Namespace prefixes every stored key.
const Namespace = "AnimationPoser."

// DefaultPath is the preferences file, relative to the process working directory.
const DefaultPath = "config/poser.json"

// Store holds preferences in memory until Save.
type Store struct {
	path   string
	values map[string]any
}

// New returns an empty store that saves to path.
func New(path string) *Store {
	return &Store{path: path, values: make(map[string]any)}
}

// Load reads preferences from path. If the file is missing or invalid, returns an empty store
// and does not create a file. Keys outside Namespace are dropped.
func Load(path string) *Store {
	s := New(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return s
	}
	for k, v := range raw {
		if strings.HasPrefix(k, Namespace) {
			s.values[k] = v
		}
	}
	return s
}

// Path returns where Save writes.
func (s *Store) Path() string { return s.path }

// Has reports whether key has a stored value.
func (s *Store) Has(key string) bool {
	_, ok := s.values[Namespace+key]
	return ok
}

// Keys returns the stored keys without the namespace, sorted.
func (s *Store) Keys() []string {
	keys := slices.Sorted(maps.Keys(s.values))
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, Namespace)
	}
	return keys
}

// GetBool returns the value at key, or def when missing or not coercible.
func (s *Store) GetBool(key string, def bool) bool {
	return get(s, key, def, cast.ToBoolE)
}

// GetInt returns the value at key, or def when missing or not coercible.
func (s *Store) GetInt(key string, def int) int {
	return get(s, key, def, cast.ToIntE)
}

// GetFloat returns the value at key, or def when missing or not coercible.
func (s *Store) GetFloat(key string, def float32) float32 {
	return get(s, key, def, cast.ToFloat32E)
}

// GetString returns the value at key, or def when missing or not coercible.
func (s *Store) GetString(key string, def string) string {
	return get(s, key, def, cast.ToStringE)
}

func get[T any](s *Store, key string, def T, conv func(any) (T, error)) T {
	v, ok := s.values[Namespace+key]
	if !ok {
		return def
	}
	out, err := conv(v)
	if err != nil {
		return def
	}
	return out
}

// SetBool stores a bool.
func (s *Store) SetBool(key string, v bool) { s.values[Namespace+key] = v }

// SetInt stores an int.
func (s *Store) SetInt(key string, v int) { s.values[Namespace+key] = v }

// SetFloat stores a float.
func (s *Store) SetFloat(key string, v float32) { s.values[Namespace+key] = v }

// SetString stores a string.
func (s *Store) SetString(key string, v string) { s.values[Namespace+key] = v }

// Delete removes key.
func (s *Store) Delete(key string) { delete(s.values, Namespace+key) }

// Save writes every value to the store's path, creating the directory if needed.
func (s *Store) Save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("prefs: %w", err)
		}
	}
	data, err := json.MarshalIndent(s.values, "", "\t")
	if err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	return nil
}
