package placement

import (
	"animation-poser/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Options are supplied per placement.
type Options struct {
	// UseCollisionNormal aligns to the hit surface when there was one; otherwise AlignmentAxis is used.
	UseCollisionNormal bool
	AlignmentAxis      rl.Vector3
	RandomYRotation    bool
	RandomMaterial     bool
	RotateHead         bool
	// HeadYawRange and HeadPitchRange are total spans in degrees, applied as ± half.
	HeadYawRange   float32
	HeadPitchRange float32
	// Parent receives the instance when non-nil.
	Parent *scene.Object
}

// DefaultOptions returns world-up alignment with a random spin.
func DefaultOptions() Options {
	return Options{
		AlignmentAxis:   rl.NewVector3(0, 1, 0),
		RandomYRotation: true,
	}
}

// Request is where the user clicked. HasSurfaceHit is false for the ground-plane fallback.
type Request struct {
	Point         rl.Vector3
	Normal        rl.Vector3
	HasSurfaceHit bool
}
