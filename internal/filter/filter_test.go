package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		include []string
		exclude []string
	}{
		{name: "empty", raw: ""},
		{name: "only separators and spaces", raw: " , ,, "},
		{name: "simple", raw: "idle, walk", include: []string{"idle", "walk"}},
		{name: "exclusion", raw: "idle, !sword", include: []string{"idle"}, exclude: []string{"sword"}},
		{name: "exclusion trimmed after bang", raw: "!  sword ", exclude: []string{"sword"}},
		{name: "bare bang dropped", raw: "!, ! ,idle", include: []string{"idle"}},
		{name: "case-insensitive dedupe", raw: "Idle, IDLE, idle, !Run, !run", include: []string{"Idle"}, exclude: []string{"Run"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Parse(tt.raw)
			assert.Equal(t, tt.include, s.Include)
			assert.Equal(t, tt.exclude, s.Exclude)
		})
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		input string
		want  bool
	}{
		{name: "empty filter matches anything", raw: "", input: "A_Idle_01", want: true},
		{name: "empty filter matches empty name", raw: "", input: "", want: true},
		{name: "inclusion substring", raw: "idle", input: "A_Idle_01", want: true},
		{name: "inclusion miss", raw: "walk", input: "A_Idle_01", want: false},
		{name: "any inclusion suffices", raw: "walk, idle", input: "A_IDLE_01", want: true},
		{name: "exclusion wins over inclusion", raw: "idle, !look", input: "A_Idle_Look_02", want: false},
		{name: "exclusion only", raw: "!emot", input: "A_EMOT_Wave", want: false},
		{name: "exclusion only passes others", raw: "!emot", input: "A_Idle_01", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw).Matches(tt.input))
		})
	}
}

func TestMatchesContainedTokens(t *testing.T) {
	raws := []string{"idle", "Chr_, male", "a,b,c", "_IDL_, !zombie"}
	for _, raw := range raws {
		s := Parse(raw)
		for _, tok := range s.Include {
			name := "prefix_" + tok + "_suffix"
			assert.True(t, s.Matches(name), "%q should accept %q", raw, name)
		}
		for _, tok := range s.Exclude {
			name := "X" + tok
			for _, inc := range s.Include {
				name += inc
			}
			assert.False(t, s.Matches(name), "%q should reject %q", raw, name)
		}
	}
}

func TestApply(t *testing.T) {
	items := []string{"A_Idle_01", "A_Walk_01", "A_Run_01"}
	id := func(s string) string { return s }

	all := Apply(items, id, Parse(""))
	assert.Equal(t, items, all)

	assert.Equal(t, []string{"A_Walk_01", "A_Run_01"}, Apply(items, id, Parse("walk, run")))
	assert.Empty(t, Apply(items, id, Parse("jump")))
}

func TestAddToken(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		token    string
		want     string
	}{
		{name: "into empty", existing: "", token: "idle", want: "idle"},
		{name: "append", existing: "idle", token: "walk", want: "idle, walk"},
		{name: "present different case", existing: "Idle,walk", token: "IDLE", want: "Idle, walk"},
		{name: "blank token is no-op", existing: "idle ,  walk", token: "  ", want: "idle ,  walk"},
		{name: "exclusion token", existing: "idle", token: "!look", want: "idle, !look"},
		{name: "normalizes spacing", existing: "idle,,walk", token: "run", want: "idle, walk, run"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddToken(tt.existing, tt.token))
		})
	}
}

func TestAddTokenIdempotent(t *testing.T) {
	for _, s := range []string{"", "walk", "Idle, run", "_EMOT_, !sword"} {
		once := AddToken(s, "idle")
		assert.Equal(t, once, AddToken(once, "idle"), "base %q", s)
	}
}
