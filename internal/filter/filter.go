// Package filter parses comma-separated name filters such as "idle, walk, !sword" and applies
// them to name-indexed collections. Tokens compare case-insensitively; a leading "!" marks an exclusion.
package filter

import (
	"strings"

	"golang.org/x/text/cases"
)

// Spec is a parsed filter. The zero Spec matches every name.
type Spec struct {
	Include []string
	Exclude []string
}

// Parse splits raw on commas, trims tokens, drops empty ones, and routes "!token" to Exclude.
// Duplicates collapse case-insensitively, keeping the first spelling seen.
func Parse(raw string) Spec {
	var s Spec
	seenInc := make(map[string]struct{})
	seenExc := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		t := strings.TrimSpace(part)
		if t == "" {
			continue
		}
		if strings.HasPrefix(t, "!") {
			t = strings.TrimSpace(t[1:])
			if t == "" {
				continue
			}
			if addUnique(seenExc, t) {
				s.Exclude = append(s.Exclude, t)
			}
			continue
		}
		if addUnique(seenInc, t) {
			s.Include = append(s.Include, t)
		}
	}
	return s
}

// IsEmpty reports whether the filter has no tokens, in which case it passes everything through.
func (s Spec) IsEmpty() bool {
	return len(s.Include) == 0 && len(s.Exclude) == 0
}

// Matches reports whether name passes the filter: it must contain an inclusion token (when any
// exist) and must not contain any exclusion token.
func (s Spec) Matches(name string) bool {
	if s.IsEmpty() {
		return true
	}
	n := fold(name)
	if len(s.Include) > 0 && !containsAny(n, s.Include) {
		return false
	}
	return !containsAny(n, s.Exclude)
}

// Apply returns the items whose name passes s. An empty filter returns items unchanged.
func Apply[T any](items []T, name func(T) string, s Spec) []T {
	if s.IsEmpty() {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if s.Matches(name(it)) {
			out = append(out, it)
		}
	}
	return out
}

// AddToken appends token to the raw filter string unless an equal token (case-insensitive) is
// already present. The result is normalized to "a, b, c"; existing order is preserved.
func AddToken(existing, token string) string {
	t := strings.TrimSpace(token)
	if t == "" {
		return existing
	}
	tokens := tokens(existing)
	for _, x := range tokens {
		if fold(x) == fold(t) {
			return strings.Join(tokens, ", ")
		}
	}
	return strings.Join(append(tokens, t), ", ")
}

// tokens returns the raw tokens of s (exclusions keep their "!"), trimmed and deduplicated.
func tokens(s string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(s, ",") {
		t := strings.TrimSpace(part)
		if t == "" {
			continue
		}
		if addUnique(seen, t) {
			out = append(out, t)
		}
	}
	return out
}

func addUnique(seen map[string]struct{}, t string) bool {
	k := fold(t)
	if _, ok := seen[k]; ok {
		return false
	}
	seen[k] = struct{}{}
	return true
}

func containsAny(foldedName string, toks []string) bool {
	for _, t := range toks {
		if strings.Contains(foldedName, fold(t)) {
			return true
		}
	}
	return false
}

func fold(s string) string {
	return cases.Fold().String(s)
}
