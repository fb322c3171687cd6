// Package collision holds static axis-aligned colliders and answers ray casts against them.
// It is the host's "physics raycast against the scene" for click placement.
package collision

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Collider is a static AABB. Size components of 0 are treated as 1.
type Collider struct {
	Name   string
	Center rl.Vector3
	Size   rl.Vector3
}

// NewBox returns a collider centered at center with the given extents.
func NewBox(name string, center, size rl.Vector3) *Collider {
	return &Collider{Name: name, Center: center, Size: size}
}

// Box returns the collider's bounding box.
func (c *Collider) Box() rl.BoundingBox {
	sx, sy, sz := c.Size.X, c.Size.Y, c.Size.Z
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	if sz == 0 {
		sz = 1
	}
	half := rl.NewVector3(sx*0.5, sy*0.5, sz*0.5)
	return rl.NewBoundingBox(rl.Vector3Subtract(c.Center, half), rl.Vector3Add(c.Center, half))
}

// Hit is the nearest surface a ray struck.
type Hit struct {
	Point    rl.Vector3
	Normal   rl.Vector3
	Distance float32
	Collider *Collider
}

// World is an ordered set of colliders. Order only breaks distance ties.
type World struct {
	Colliders []*Collider
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{}
}

// Add appends a collider.
func (w *World) Add(c *Collider) {
	w.Colliders = append(w.Colliders, c)
}

// Remove drops every collider with the given name and reports whether any was removed.
func (w *World) Remove(name string) bool {
	kept := w.Colliders[:0]
	for _, c := range w.Colliders {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	removed := len(kept) != len(w.Colliders)
	w.Colliders = kept
	return removed
}

// Raycast returns the closest hit within maxDistance. A maxDistance <= 0 means unbounded.
func (w *World) Raycast(ray rl.Ray, maxDistance float32) (Hit, bool) {
	if maxDistance <= 0 {
		maxDistance = math.MaxFloat32
	}
	var best Hit
	found := false
	for _, c := range w.Colliders {
		rc := rl.GetRayCollisionBox(ray, c.Box())
		if !rc.Hit || rc.Distance < 0 || rc.Distance > maxDistance {
			continue
		}
		if found && rc.Distance >= best.Distance {
			continue
		}
		best = Hit{Point: rc.Point, Normal: rl.Vector3Normalize(rc.Normal), Distance: rc.Distance, Collider: c}
		found = true
	}
	return best, found
}

// Overlapping returns the colliders whose boxes intersect box.
func (w *World) Overlapping(box rl.BoundingBox) []*Collider {
	var out []*Collider
	for _, c := range w.Colliders {
		if rl.CheckCollisionBoxes(box, c.Box()) {
			out = append(out, c)
		}
	}
	return out
}

// GroundPoint intersects ray with the Y=0 plane. It fails when the ray is parallel to the plane
// or points away from it.
func GroundPoint(ray rl.Ray) (rl.Vector3, bool) {
	dir := ray.Direction
	if math.Abs(float64(dir.Y)) < 1e-6 {
		return rl.Vector3{}, false
	}
	t := -ray.Position.Y / dir.Y
	if t < 0 {
		return rl.Vector3{}, false
	}
	return rl.Vector3Add(ray.Position, rl.Vector3Scale(dir, t)), true
}
