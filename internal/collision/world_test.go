package collision

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func down(x, z float32) rl.Ray {
	return rl.NewRay(rl.NewVector3(x, 10, z), rl.NewVector3(0, -1, 0))
}

func TestRaycastReturnsNearestHit(t *testing.T) {
	w := NewWorld()
	w.Add(NewBox("floor", rl.NewVector3(0, -0.5, 0), rl.NewVector3(20, 1, 20)))
	w.Add(NewBox("table", rl.NewVector3(2, 1, 2), rl.NewVector3(2, 2, 2)))

	hit, ok := w.Raycast(down(2, 2), 0)
	require.True(t, ok)
	assert.Equal(t, "table", hit.Collider.Name)
	assert.InDelta(t, 2, hit.Point.Y, 1e-4)
	assert.InDelta(t, 1, hit.Normal.Y, 1e-4)
	assert.InDelta(t, 8, hit.Distance, 1e-4)

	hit, ok = w.Raycast(down(-5, -5), 0)
	require.True(t, ok)
	assert.Equal(t, "floor", hit.Collider.Name)
	assert.InDelta(t, 0, hit.Point.Y, 1e-4)
}

func TestRaycastRespectsMaxDistance(t *testing.T) {
	w := NewWorld()
	w.Add(NewBox("floor", rl.NewVector3(0, -0.5, 0), rl.NewVector3(20, 1, 20)))

	_, ok := w.Raycast(down(0, 0), 5)
	assert.False(t, ok)
	_, ok = w.Raycast(down(50, 0), 0)
	assert.False(t, ok)
}

func TestRaycastSideNormal(t *testing.T) {
	w := NewWorld()
	w.Add(NewBox("wall", rl.NewVector3(0, 1, 0), rl.NewVector3(2, 2, 2)))

	ray := rl.NewRay(rl.NewVector3(-10, 1, 0), rl.NewVector3(1, 0, 0))
	hit, ok := w.Raycast(ray, 0)
	require.True(t, ok)
	assert.InDelta(t, -1, hit.Normal.X, 1e-4)
	assert.InDelta(t, -1, hit.Point.X, 1e-4)
}

func TestRemove(t *testing.T) {
	w := NewWorld()
	w.Add(NewBox("a", rl.Vector3{}, rl.Vector3{}))
	w.Add(NewBox("b", rl.Vector3{}, rl.Vector3{}))
	assert.True(t, w.Remove("a"))
	assert.False(t, w.Remove("a"))
	require.Len(t, w.Colliders, 1)
	assert.Equal(t, "b", w.Colliders[0].Name)
}

func TestOverlapping(t *testing.T) {
	w := NewWorld()
	w.Add(NewBox("a", rl.NewVector3(0, 0, 0), rl.NewVector3(1, 1, 1)))
	w.Add(NewBox("b", rl.NewVector3(5, 0, 0), rl.NewVector3(1, 1, 1)))

	got := w.Overlapping(NewBox("probe", rl.NewVector3(0.5, 0, 0), rl.NewVector3(1, 1, 1)).Box())
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Name)
}

func TestGroundPoint(t *testing.T) {
	tests := []struct {
		name string
		ray  rl.Ray
		want rl.Vector3
		ok   bool
	}{
		{"straight down", down(3, 4), rl.NewVector3(3, 0, 4), true},
		{"slanted", rl.NewRay(rl.NewVector3(0, 2, 0), rl.NewVector3(1, -1, 0)), rl.NewVector3(2, 0, 0), true},
		{"parallel", rl.NewRay(rl.NewVector3(0, 2, 0), rl.NewVector3(1, 0, 0)), rl.Vector3{}, false},
		{"pointing away", rl.NewRay(rl.NewVector3(0, 2, 0), rl.NewVector3(0, 1, 0)), rl.Vector3{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GroundPoint(tt.ray)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want.X, got.X, 1e-5)
				assert.InDelta(t, tt.want.Y, got.Y, 1e-5)
				assert.InDelta(t, tt.want.Z, got.Z, 1e-5)
			}
		})
	}
}
