// Package viewer is a raylib window host for the poser. It drives scans from the frame loop,
// turns left clicks into placement rays and draws placed characters as skeletons.
//
// Controls: left click places, right drag moves the camera, space starts or stops placement,
// F5 rescans, Ctrl+Z undoes the last placement, ESC opens the command bar.
package viewer

import (
	"errors"

	"animation-poser/internal/collision"
	"animation-poser/internal/commands"
	"animation-poser/internal/logger"
	"animation-poser/internal/scene"
	"animation-poser/internal/session"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

const (
	gridExtent     = 50
	gridMinorStep  = 1
	gridMajorStep  = 10
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220
	jointSize      = 0.08
)

var (
	background    = rl.NewColor(28, 30, 34, 255)
	boneColor     = rl.NewColor(230, 200, 120, 255)
	headColor     = rl.NewColor(240, 110, 90, 255)
	selectedColor = rl.NewColor(120, 220, 255, 255)
	colliderColor = rl.NewColor(140, 140, 160, 255)
)

// Viewer renders a session's scene and routes input to it.
type Viewer struct {
	sess    *session.Session
	log     *logger.Logger
	camera  rl.Camera3D
	bar     *inputBar
	overlay *overlay
}

// New returns a viewer over sess. Commands typed into the bar run through reg.
func New(sess *session.Session, log *logger.Logger, reg *commands.Registry) *Viewer {
	v := &Viewer{
		sess:    sess,
		log:     log,
		bar:     newInputBar(log, reg),
		overlay: &overlay{ShowFPS: true},
	}
	v.camera.Position = rl.NewVector3(10, 10, 10)
	v.camera.Target = rl.NewVector3(0, 0, 0)
	v.camera.Up = rl.NewVector3(0, 1, 0)
	v.camera.Fovy = 45
	v.camera.Projection = rl.CameraPerspective
	return v
}

// SetShowMemAlloc toggles the heap counter under the FPS counter.
func (v *Viewer) SetShowMemAlloc(show bool) { v.overlay.ShowMemAlloc = show }

// Run opens the window and blocks until it is closed. The session is attached to the frame loop
// for the lifetime of the window.
func (v *Viewer) Run(cfg WindowConfig) {
	if cfg.Title == "" {
		cfg.Title = "Animation Poser"
	}
	v.sess.Attach()
	defer v.sess.Detach()
	runWindow(cfg, v.update, v.draw)
}

func (v *Viewer) update() {
	v.sess.Update()
	v.bar.update()
	if v.bar.open {
		return
	}

	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		rl.UpdateCamera(&v.camera, rl.CameraFree)
	}
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		if v.sess.Status().Started {
			v.sess.Stop()
		} else {
			v.sess.Start()
		}
	case rl.IsKeyPressed(rl.KeyF5):
		v.sess.Rescan()
	case rl.IsKeyPressed(rl.KeyZ) && (rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)):
		if e, ok := v.sess.Scene().Undo(); ok {
			v.log.Log("undo " + e.Label + ": " + e.Object.Name)
		}
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		v.click(rl.GetScreenToWorldRay(rl.GetMousePosition(), v.camera))
	}
}

func (v *Viewer) click(ray rl.Ray) {
	obj, err := v.sess.Click(ray)
	switch {
	case errors.Is(err, session.ErrNotArmed), errors.Is(err, session.ErrNoSurface):
	case err != nil:
		v.log.Zap().Warn("placement failed", zap.Error(err))
	default:
		v.log.Log("placed " + obj.Name)
	}
}

func (v *Viewer) draw() {
	rl.BeginMode3D(v.camera)
	drawGrid()
	drawColliders(v.sess.Scene().Colliders)
	selected := v.sess.Scene().Selection()
	for _, root := range v.sess.Scene().Roots() {
		color := boneColor
		for _, s := range selected {
			if s == root {
				color = selectedColor
			}
		}
		drawSkeleton(root, color)
	}
	rl.EndMode3D()

	v.overlay.draw(v.sess.Status())
	v.bar.draw()
}

// bone is a line from a joint to its parent, in world space.
type bone struct {
	from, to rl.Vector3
}

// skeleton returns the bones under root and every joint position, in pre-order.
func skeleton(root *scene.Object) ([]bone, []rl.Vector3) {
	var bones []bone
	var joints []rl.Vector3
	root.Walk(func(o *scene.Object) bool {
		p := o.WorldPosition()
		joints = append(joints, p)
		if parent := o.Parent(); parent != nil && o != root {
			bones = append(bones, bone{from: parent.WorldPosition(), to: p})
		}
		return true
	})
	return bones, joints
}

func drawSkeleton(root *scene.Object, color rl.Color) {
	bones, joints := skeleton(root)
	for _, b := range bones {
		rl.DrawLine3D(b.from, b.to, color)
	}
	for _, j := range joints {
		rl.DrawCube(j, jointSize, jointSize, jointSize, color)
	}
	if rig := root.FindRig(); rig != nil && rig.Rig.Head != nil {
		rl.DrawSphere(rig.Rig.Head.WorldPosition(), jointSize*2, headColor)
	}
}

func drawColliders(w *collision.World) {
	for _, c := range w.Colliders {
		rl.DrawBoundingBox(c.Box(), colliderColor)
	}
}

// drawGrid draws the XZ plane grid with major/minor lines and the three axis lines.
func drawGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)
	axisX := rl.NewColor(220, 80, 80, axisLineAlpha)
	axisY := rl.NewColor(80, 220, 80, axisLineAlpha)
	axisZ := rl.NewColor(80, 80, 220, axisLineAlpha)

	var start, end rl.Vector3
	for i := -gridExtent; i <= gridExtent; i += gridMinorStep {
		c := major
		if i%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(i), 0, -gridExtent
		end.X, end.Y, end.Z = float32(i), 0, gridExtent
		rl.DrawLine3D(start, end, c)
		start.X, start.Y, start.Z = -gridExtent, 0, float32(i)
		end.X, end.Y, end.Z = gridExtent, 0, float32(i)
		rl.DrawLine3D(start, end, c)
	}

	rl.DrawLine3D(rl.NewVector3(-gridExtent, 0, 0), rl.NewVector3(gridExtent, 0, 0), axisX)
	rl.DrawLine3D(rl.NewVector3(0, -gridExtent, 0), rl.NewVector3(0, gridExtent, 0), axisY)
	rl.DrawLine3D(rl.NewVector3(0, 0, -gridExtent), rl.NewVector3(0, 0, gridExtent), axisZ)
}
