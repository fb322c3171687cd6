// Package mapgen builds step terrain out of box colliders so there is something other than the
// ground plane to place characters on.
package mapgen

import (
	"fmt"
	"strings"

	"animation-poser/internal/collision"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// TilePrefix starts the name of every generated collider.
const TilePrefix = "Tile_"

const minHeight = 0.15

// HeightMapOptions controls procedural height map generation.
// Width/Depth are in tiles; TileSize is the world size of one tile on X/Z.
// HeightScale is the maximum height of the terrain in world units.
// Octaves, Frequency, Lacunarity, and Gain control the fractal noise shape.
type HeightMapOptions struct {
	Width       int
	Depth       int
	TileSize    float32
	HeightScale float32

	Seed       int64
	Octaves    int
	Frequency  float32
	Lacunarity float32
	Gain       float32
}

// DefaultHeightMapOptions returns a 16x16 map of 1-unit tiles up to 2 units high.
func DefaultHeightMapOptions() HeightMapOptions {
	return HeightMapOptions{
		Width:       16,
		Depth:       16,
		TileSize:    1,
		HeightScale: 2,
		Seed:        1,
		Octaves:     4,
		Frequency:   0.08,
		Lacunarity:  2,
		Gain:        0.5,
	}
}

func (o HeightMapOptions) withDefaults() HeightMapOptions {
	d := DefaultHeightMapOptions()
	if o.TileSize <= 0 {
		o.TileSize = d.TileSize
	}
	if o.HeightScale <= minHeight {
		o.HeightScale = d.HeightScale
	}
	if o.Octaves <= 0 {
		o.Octaves = d.Octaves
	}
	if o.Frequency <= 0 {
		o.Frequency = d.Frequency
	}
	if o.Lacunarity <= 0 {
		o.Lacunarity = d.Lacunarity
	}
	if o.Gain <= 0 {
		o.Gain = d.Gain
	}
	return o
}

// HeightMapTiles builds one box collider per tile, sitting on Y=0 and centered on the origin in
// X/Z. Tile heights follow fractal value noise in [minHeight, HeightScale]. The same options
// always give the same tiles.
func HeightMapTiles(opts HeightMapOptions) []*collision.Collider {
	if opts.Width <= 0 || opts.Depth <= 0 {
		return nil
	}
	opts = opts.withDefaults()

	half := opts.TileSize * 0.5
	startX := -float32(opts.Width)*half + half
	startZ := -float32(opts.Depth)*half + half

	tiles := make([]*collision.Collider, 0, opts.Width*opts.Depth)
	for z := range opts.Depth {
		for x := range opts.Width {
			h := fractalValueNoise2D(float32(x)*opts.Frequency, float32(z)*opts.Frequency, opts.Seed, opts.Octaves, opts.Lacunarity, opts.Gain)
			height := minHeight + h*(opts.HeightScale-minHeight)
			if math32.IsNaN(height) || math32.IsInf(height, 0) || height <= 0 {
				height = minHeight
			}
			center := rl.NewVector3(startX+float32(x)*opts.TileSize, height*0.5, startZ+float32(z)*opts.TileSize)
			size := rl.NewVector3(opts.TileSize, height, opts.TileSize)
			tiles = append(tiles, collision.NewBox(fmt.Sprintf("%s%d_%d", TilePrefix, x, z), center, size))
		}
	}
	return tiles
}

// Apply replaces any previously generated tiles in w with a new height map and returns the
// number of tiles added.
func Apply(w *collision.World, opts HeightMapOptions) int {
	Clear(w)
	tiles := HeightMapTiles(opts)
	for _, t := range tiles {
		w.Add(t)
	}
	return len(tiles)
}

// Clear removes every generated tile from w, leaving other colliders alone.
func Clear(w *collision.World) {
	kept := w.Colliders[:0]
	for _, c := range w.Colliders {
		if !strings.HasPrefix(c.Name, TilePrefix) {
			kept = append(kept, c)
		}
	}
	w.Colliders = kept
}

// fractalValueNoise2D layers smooth value noise over octaves. Output is in [0,1].
func fractalValueNoise2D(x, y float32, seed int64, octaves int, lacunarity, gain float32) float32 {
	var sum, maxAmp float32
	amplitude, freq := float32(1), float32(1)
	for i := range octaves {
		sum += valueNoise2D(x*freq, y*freq, int32(seed)+int32(i)) * amplitude
		maxAmp += amplitude
		amplitude *= gain
		freq *= lacunarity
	}
	if maxAmp == 0 {
		return 0
	}
	return sum / maxAmp
}

func valueNoise2D(x, y float32, seed int32) float32 {
	x0 := int32(math32.Floor(x))
	y0 := int32(math32.Floor(y))
	sx := smoothStep(x - float32(x0))
	sy := smoothStep(y - float32(y0))

	top := lerp(hash2D(x0, y0, seed), hash2D(x0+1, y0, seed), sx)
	bottom := lerp(hash2D(x0, y0+1, seed), hash2D(x0+1, y0+1, seed), sx)
	return lerp(top, bottom, sy)
}

// hash2D maps lattice coordinates to a deterministic value in [0,1].
func hash2D(x, y, seed int32) float32 {
	n := x*374761393 + y*668265263 + seed*362437
	n = (n ^ (n >> 13)) * 1274126177
	n = n ^ (n >> 16)
	const invMaxInt = 1.0 / 2147483647.0
	return float32(n&0x7fffffff) * invMaxInt
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

// smoothStep is 3t^2 - 2t^3 clamped to [0,1].
func smoothStep(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}
