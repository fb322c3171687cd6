package scan

import (
	"slices"

	"animation-poser/internal/asset"
	"animation-poser/internal/groups"
)

// Entry is a discovered asset and the name filters run against.
type Entry struct {
	Handle asset.Handle
	Name   string
}

// Result is the immutable outcome of a completed scan. All methods are safe on a nil Result.
type Result struct {
	clips       []Entry
	prefabs     []Entry
	groupOf     map[asset.Handle]groups.SourceGroup
	fingerprint string
}

// NewResult builds a result from already-collected lists, deduplicating both by handle.
// It is what the engine commits; hosts with their own discovery can use it directly.
func NewResult(clips, prefabs []Entry, groupOf map[asset.Handle]groups.SourceGroup, fingerprint string) *Result {
	m := make(map[asset.Handle]groups.SourceGroup, len(groupOf))
	for h, g := range groupOf {
		m[h] = g
	}
	return &Result{
		clips:       dedupe(clips),
		prefabs:     dedupe(prefabs),
		groupOf:     m,
		fingerprint: fingerprint,
	}
}

// Clips returns a copy of the clip list in discovery order.
func (r *Result) Clips() []Entry {
	if r == nil {
		return nil
	}
	return slices.Clone(r.clips)
}

// Prefabs returns a copy of the placeable prefab list in discovery order.
func (r *Result) Prefabs() []Entry {
	if r == nil {
		return nil
	}
	return slices.Clone(r.prefabs)
}

// GroupOf returns the character group prefab h was discovered in.
func (r *Result) GroupOf(h asset.Handle) (groups.SourceGroup, bool) {
	if r == nil {
		return groups.SourceGroup{}, false
	}
	g, ok := r.groupOf[h]
	return g, ok
}

// Fingerprint returns the fingerprint of the group selection the scan ran over.
func (r *Result) Fingerprint() string {
	if r == nil {
		return ""
	}
	return r.fingerprint
}

// Counts returns the number of clips and prefabs.
func (r *Result) Counts() (clips, prefabs int) {
	if r == nil {
		return 0, 0
	}
	return len(r.clips), len(r.prefabs)
}

// dedupe keeps the first occurrence of every handle.
func dedupe(in []Entry) []Entry {
	seen := make(map[asset.Handle]struct{}, len(in))
	out := make([]Entry, 0, len(in))
	for _, e := range in {
		if _, ok := seen[e.Handle]; ok {
			continue
		}
		seen[e.Handle] = struct{}{}
		out = append(out, e)
	}
	return out
}
