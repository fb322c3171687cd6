// Package pose samples an animation clip onto a scene instance at a single point in time.
package pose

import (
	"errors"
	"fmt"

	"animation-poser/internal/asset"
	"animation-poser/internal/scene"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrNoRig is returned when the instance has nothing to drive.
var ErrNoRig = errors.New("pose: instance has no rig")

// Sample applies clip at time t onto the rig found at or under root. t is clamped to the clip.
// Joints the clip names but the rig lacks are skipped. Root keys move the rig object itself.
// The clip is checked before anything is written, so an error leaves the rig untouched.
func Sample(root *scene.Object, clip *asset.Clip, t float32) error {
	if clip == nil {
		return fmt.Errorf("pose: nil clip")
	}
	rig := root.FindRig()
	if rig == nil {
		return ErrNoRig
	}
	t = math32.Max(0, t)
	if clip.Length > 0 {
		t = math32.Min(t, clip.Length)
	}

	if err := validate(clip); err != nil {
		return err
	}

	if len(clip.Root) > 0 {
		rig.Position = samplePosition(clip.Root, t)
	}
	for _, tr := range clip.Tracks {
		if len(tr.Keys) == 0 {
			continue
		}
		if joint := rig.FindNamed(tr.Joint); joint != nil {
			joint.Rotation = sampleRotation(tr.Keys, t)
		}
	}
	return nil
}

// validate checks that every key list of clip is sorted by time.
func validate(clip *asset.Clip) error {
	if err := checkOrder(len(clip.Root), func(i int) float32 { return clip.Root[i].Time }); err != nil {
		return fmt.Errorf("pose: %s root: %w", clip.Name, err)
	}
	for _, tr := range clip.Tracks {
		if err := checkOrder(len(tr.Keys), func(i int) float32 { return tr.Keys[i].Time }); err != nil {
			return fmt.Errorf("pose: %s track %s: %w", clip.Name, tr.Joint, err)
		}
	}
	return nil
}

func checkOrder(n int, time func(int) float32) error {
	for i := 1; i < n; i++ {
		if time(i) < time(i-1) {
			return fmt.Errorf("keys out of order at index %d", i)
		}
	}
	return nil
}

// span finds the keys bracketing t and the blend factor between them.
func span(n int, time func(int) float32, t float32) (int, int, float32) {
	if t <= time(0) {
		return 0, 0, 0
	}
	for i := 1; i < n; i++ {
		if t < time(i) {
			a, b := time(i-1), time(i)
			if b == a {
				return i, i, 0
			}
			return i - 1, i, (t - a) / (b - a)
		}
	}
	return n - 1, n - 1, 0
}

func samplePosition(keys []asset.PositionKey, t float32) rl.Vector3 {
	a, b, f := span(len(keys), func(i int) float32 { return keys[i].Time }, t)
	return rl.Vector3Lerp(keys[a].Position, keys[b].Position, f)
}

func sampleRotation(keys []asset.RotationKey, t float32) rl.Quaternion {
	a, b, f := span(len(keys), func(i int) float32 { return keys[i].Time }, t)
	return rl.QuaternionSlerp(keys[a].Rotation, keys[b].Rotation, f)
}
