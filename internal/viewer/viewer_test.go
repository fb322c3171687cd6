package viewer

import (
	"strings"
	"testing"

	"animation-poser/internal/scene"
	"animation-poser/internal/session"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkeleton(t *testing.T) {
	root := scene.NewObject("Chr_Knight_01")
	root.Position = rl.NewVector3(2, 0, 0)
	hips := scene.NewObject("Hips")
	hips.Position = rl.NewVector3(0, 1, 0)
	head := scene.NewObject("Head")
	head.Position = rl.NewVector3(0, 0.6, 0)
	root.AddChild(hips)
	hips.AddChild(head)

	bones, joints := skeleton(root)
	require.Len(t, joints, 3)
	assert.Equal(t, rl.NewVector3(2, 0, 0), joints[0])
	require.Len(t, bones, 2)
	assert.Equal(t, bone{from: rl.NewVector3(2, 0, 0), to: rl.NewVector3(2, 1, 0)}, bones[0])
	assert.InDelta(t, 1.6, bones[1].to.Y, 1e-5)

	// A sub-tree's root has no bone to its own parent.
	bones, _ = skeleton(hips)
	assert.Len(t, bones, 1)
}

func TestStatusLines(t *testing.T) {
	tests := []struct {
		name string
		st   session.Status
		want string
		hint bool
	}{
		{"stopped", session.Status{Text: session.ReadyStatus, RescanNeeded: true}, "stopped (space to start)", true},
		{"scanning", session.Status{Text: "Preparing scan...", Scanning: true, RescanNeeded: true}, "scanning", false},
		{"armed", session.Status{Text: "Scan complete.", Started: true, Animations: 3, Characters: 2}, "armed: click to place", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := statusLines(tt.st)
			assert.Equal(t, tt.st.Text, lines[0])
			assert.Equal(t, tt.want, lines[2])
			assert.Equal(t, tt.hint, len(lines) == 4)
		})
	}
	assert.Equal(t, "Animations: 3  Characters: 2", statusLines(session.Status{Animations: 3, Characters: 2})[1])
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "abcdefg...", clip("abcdefghijklmnop", 10))
	// Never splits a multi-byte rune.
	got := clip(strings.Repeat("é", 10), 10)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, "ééé...", got)
}

func TestLastLines(t *testing.T) {
	assert.Equal(t, []string{"c", "d"}, lastLines([]string{"a", "b", "c", "d"}, 2))
	assert.Equal(t, []string{"a"}, lastLines([]string{"a"}, 2))
}
