package mapgen

import (
	"testing"

	"animation-poser/internal/collision"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeightMapTiles(t *testing.T) {
	opts := DefaultHeightMapOptions()
	opts.Width, opts.Depth = 4, 3
	tiles := HeightMapTiles(opts)
	require.Len(t, tiles, 12)

	assert.Equal(t, "Tile_0_0", tiles[0].Name)
	assert.Equal(t, "Tile_3_2", tiles[11].Name)
	assert.InDelta(t, -1.5, tiles[0].Center.X, 1e-5)
	assert.InDelta(t, -1, tiles[0].Center.Z, 1e-5)
	assert.InDelta(t, 1.5, tiles[11].Center.X, 1e-5)

	for _, tile := range tiles {
		box := tile.Box()
		assert.InDelta(t, 0, box.Min.Y, 1e-5, tile.Name)
		assert.GreaterOrEqual(t, tile.Size.Y, float32(minHeight))
		assert.LessOrEqual(t, tile.Size.Y, opts.HeightScale+1e-5)
		assert.Equal(t, opts.TileSize, tile.Size.X)
	}

	again := HeightMapTiles(opts)
	for i := range tiles {
		assert.Equal(t, tiles[i].Size, again[i].Size, "same seed gives the same map")
	}
}

func TestHeightMapTilesEmpty(t *testing.T) {
	assert.Nil(t, HeightMapTiles(HeightMapOptions{Width: 0, Depth: 4}))
}

func TestZeroOptionsUseDefaults(t *testing.T) {
	tiles := HeightMapTiles(HeightMapOptions{Width: 2, Depth: 2})
	require.Len(t, tiles, 4)
	assert.Equal(t, float32(1), tiles[0].Size.X)
}

func TestApplyReplacesOnlyTiles(t *testing.T) {
	w := collision.NewWorld()
	w.Add(collision.NewBox("Wall", rl.NewVector3(0, 1, 5), rl.NewVector3(10, 2, 1)))

	opts := DefaultHeightMapOptions()
	opts.Width, opts.Depth = 3, 3
	assert.Equal(t, 9, Apply(w, opts))
	assert.Len(t, w.Colliders, 10)

	opts.Width = 2
	assert.Equal(t, 6, Apply(w, opts))
	assert.Len(t, w.Colliders, 7)

	Clear(w)
	require.Len(t, w.Colliders, 1)
	assert.Equal(t, "Wall", w.Colliders[0].Name)
}

func TestRayLandsOnTileTop(t *testing.T) {
	w := collision.NewWorld()
	opts := DefaultHeightMapOptions()
	opts.Width, opts.Depth = 1, 1
	Apply(w, opts)

	hit, ok := w.Raycast(rl.Ray{Position: rl.NewVector3(0, 10, 0), Direction: rl.NewVector3(0, -1, 0)}, 0)
	require.True(t, ok)
	assert.InDelta(t, w.Colliders[0].Size.Y, hit.Point.Y, 1e-4)
	assert.InDelta(t, 1, hit.Normal.Y, 1e-4)
}

func TestNoiseRange(t *testing.T) {
	for i := range 50 {
		v := fractalValueNoise2D(float32(i)*0.37, float32(i)*0.11, 7, 4, 2, 0.5)
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
	assert.Equal(t, float32(0), smoothStep(-1))
	assert.Equal(t, float32(1), smoothStep(2))
	assert.Equal(t, float32(0.5), smoothStep(0.5))
}
