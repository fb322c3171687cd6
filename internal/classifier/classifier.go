package classifier

import "strings"

// Classifier decides whether a discovered prefab is a placeable character from its name.
// A name must start with an allow prefix; only then is it checked against the deny prefixes,
// so a deny entry like "Chr_Attach_" can carve attachments out of an allowed "Chr_" family.
type Classifier struct {
	allow []string
	deny  []string
}

// New returns a classifier over copies of allow and deny. Prefix comparison is case-sensitive.
func New(allow, deny []string) *Classifier {
	return &Classifier{
		allow: append([]string(nil), allow...),
		deny:  append([]string(nil), deny...),
	}
}

// IsPlaceable reports whether name is a placeable character.
func (c *Classifier) IsPlaceable(name string) bool {
	if !hasAnyPrefix(name, c.allow) {
		return false
	}
	return !hasAnyPrefix(name, c.deny)
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
