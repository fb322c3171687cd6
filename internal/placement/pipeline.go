// Package placement turns a click into a posed, oriented and optionally re-skinned character.
//
// Place runs synchronously and in a fixed order: pick, instantiate, pose, orient, move, aim the
// head, re-skin, select. Posing comes before moving because sampling a clip with root motion
// moves the rig; moving last guarantees the instance ends up exactly at the clicked point.
package placement

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"animation-poser/internal/asset"
	"animation-poser/internal/filter"
	"animation-poser/internal/pose"
	"animation-poser/internal/scan"
	"animation-poser/internal/scene"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// UndoLabel names placements in the host's undo history.
const UndoLabel = "Place Animated Character"

// ErrNoCandidates is returned when filtering leaves no prefab or no clip. The scene is untouched.
var ErrNoCandidates = errors.New("placement: no characters or animations available")

// Host is the scene the pipeline mutates.
type Host interface {
	InstantiateLinked(p *asset.Prefab, parent *scene.Object) (*scene.Object, bool)
	Instantiate(p *asset.Prefab, parent *scene.Object) (*scene.Object, error)
	RegisterCreatedUndo(o *scene.Object, label string)
	SetSelection(objs ...*scene.Object)
}

// MaterialResolver re-skins an instance from its source prefab.
type MaterialResolver interface {
	Resolve(instance *scene.Object, prefab *asset.Prefab)
}

// Pipeline places characters. All random draws come from one source.
type Pipeline struct {
	host      Host
	store     asset.Store
	materials MaterialResolver
	rnd       *rand.Rand
	log       *zap.Logger
}

// New returns a pipeline. materials may be nil when random materials are never requested.
func New(host Host, store asset.Store, materials MaterialResolver, rnd *rand.Rand, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{host: host, store: store, materials: materials, rnd: rnd, log: log}
}

// Place instantiates a random filtered prefab at req.Point, posed at a random time of a random
// filtered clip, and selects it.
func (p *Pipeline) Place(req Request, opts Options, res *scan.Result, clipFilter, charFilter filter.Spec) (*scene.Object, error) {
	name := func(e scan.Entry) string { return e.Name }
	prefabs := filter.Apply(res.Prefabs(), name, charFilter)
	clips := filter.Apply(res.Clips(), name, clipFilter)
	if len(prefabs) == 0 || len(clips) == 0 {
		p.log.Warn("no characters or animations available, check the name filters",
			zap.Int("characters", len(prefabs)), zap.Int("animations", len(clips)))
		return nil, ErrNoCandidates
	}

	prefabEntry := prefabs[p.rnd.Intn(len(prefabs))]
	clipEntry := clips[p.rnd.Intn(len(clips))]
	prefab, err := load[*asset.Prefab](p.store, prefabEntry.Handle)
	if err != nil {
		return nil, fmt.Errorf("placement: load prefab %s: %w", prefabEntry.Name, err)
	}
	clip, err := load[*asset.Clip](p.store, clipEntry.Handle)
	if err != nil {
		return nil, fmt.Errorf("placement: load clip %s: %w", clipEntry.Name, err)
	}

	inst, ok := p.host.InstantiateLinked(prefab, opts.Parent)
	if !ok {
		if inst, err = p.host.Instantiate(prefab, opts.Parent); err != nil {
			return nil, fmt.Errorf("placement: instantiate %s: %w", prefab.Name, err)
		}
	}
	p.host.RegisterCreatedUndo(inst, UndoLabel)

	p.applyPose(inst, clip)

	rot := p.orientation(inst, req, opts)
	inst.SetWorldPositionAndRotation(req.Point, rot)

	if opts.RotateHead && (opts.HeadYawRange > 0 || opts.HeadPitchRange > 0) {
		p.aimHead(inst, opts.HeadYawRange, opts.HeadPitchRange)
	}
	if opts.RandomMaterial && p.materials != nil {
		p.materials.Resolve(inst, prefab)
	}

	p.host.SetSelection(inst)
	return inst, nil
}

func load[T asset.Asset](store asset.Store, h asset.Handle) (T, error) {
	var zero T
	a, err := store.LoadAsset(h)
	if err != nil {
		return zero, err
	}
	v, ok := a.(T)
	if !ok {
		return zero, fmt.Errorf("asset %d is a %s", h, a.AssetKind())
	}
	return v, nil
}

// applyPose samples clip at a random time. Failures leave the prefab's default pose.
func (p *Pipeline) applyPose(inst *scene.Object, clip *asset.Clip) {
	t := p.rnd.Float32() * clip.Length
	if err := pose.Sample(inst, clip, t); err != nil {
		if errors.Is(err, pose.ErrNoRig) {
			p.log.Warn("character has no rig, pose skipped", zap.String("character", inst.Name))
			return
		}
		p.log.Warn("failed to sample animation", zap.String("clip", clip.Name), zap.Error(err))
		return
	}
	p.log.Info("applied pose",
		zap.String("clip", clip.Name),
		zap.String("time", fmt.Sprintf("%.2fs", t)),
		zap.String("character", inst.Name),
	)
}

// orientation maps the instance's current up onto the desired up, spinning about the desired
// up first when asked, and composes that with the current world rotation.
func (p *Pipeline) orientation(inst *scene.Object, req Request, opts Options) rl.Quaternion {
	up := opts.AlignmentAxis
	if opts.UseCollisionNormal && req.HasSurfaceHit {
		up = req.Normal
	}
	up = normalizeOr(up, rl.NewVector3(0, 1, 0))

	align := fromTo(inst.Up(), up)
	if opts.RandomYRotation {
		angle := p.rnd.Float32() * 360
		align = rl.QuaternionMultiply(rl.QuaternionFromAxisAngle(up, angle*rl.Deg2rad), align)
	}
	return rl.QuaternionNormalize(rl.QuaternionMultiply(align, inst.WorldRotation()))
}

// aimHead tilts the head joint by a random yaw and pitch within ± half of each range.
func (p *Pipeline) aimHead(inst *scene.Object, yawRange, pitchRange float32) {
	head := FindHead(inst)
	if head == nil {
		return
	}
	yaw := (p.rnd.Float32() - 0.5) * yawRange
	pitch := (p.rnd.Float32() - 0.5) * pitchRange
	if approxZero(yaw) && approxZero(pitch) {
		return
	}
	tilt := rl.QuaternionMultiply(
		rl.QuaternionFromAxisAngle(rl.NewVector3(0, 1, 0), yaw*rl.Deg2rad),
		rl.QuaternionFromAxisAngle(rl.NewVector3(1, 0, 0), pitch*rl.Deg2rad),
	)
	head.Rotation = rl.QuaternionNormalize(rl.QuaternionMultiply(head.Rotation, tilt))
}

// FindHead returns the humanoid rig's head joint when declared, else the first object under
// root whose name contains "head" in any case.
func FindHead(root *scene.Object) *scene.Object {
	if r := root.FindRig(); r != nil && r.Rig.Humanoid && r.Rig.Head != nil {
		return r.Rig.Head
	}
	fold := cases.Fold()
	return root.Find(func(o *scene.Object) bool {
		return strings.Contains(fold.String(o.Name), "head")
	})
}

func approxZero(v float32) bool {
	return math32.Abs(v) < 1e-6
}

func normalizeOr(v, fallback rl.Vector3) rl.Vector3 {
	if rl.Vector3Length(v) < 1e-6 {
		return fallback
	}
	return rl.Vector3Normalize(v)
}

// fromTo is the shortest rotation taking direction from onto to. Opposite directions turn half
// way around an axis perpendicular to from.
func fromTo(from, to rl.Vector3) rl.Quaternion {
	from = normalizeOr(from, rl.NewVector3(0, 1, 0))
	to = normalizeOr(to, rl.NewVector3(0, 1, 0))
	d := rl.Vector3DotProduct(from, to)
	switch {
	case d >= 1-1e-6:
		return rl.QuaternionIdentity()
	case d <= -1+1e-6:
		axis := rl.Vector3CrossProduct(from, rl.NewVector3(1, 0, 0))
		if rl.Vector3Length(axis) < 1e-6 {
			axis = rl.Vector3CrossProduct(from, rl.NewVector3(0, 0, 1))
		}
		return rl.QuaternionFromAxisAngle(rl.Vector3Normalize(axis), math32.Pi)
	}
	return rl.QuaternionFromVector3ToVector3(from, to)
}
