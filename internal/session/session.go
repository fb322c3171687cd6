// Package session is what a host window talks to: it owns the settings, the scan engine and the
// placement pipeline, and tracks whether placement is armed.
//
// The host calls Update once per frame while attached and routes pointer clicks to Click.
// Start arms placement, scanning first when the cached result is stale; the scan completing
// then arms placement on its own.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"animation-poser/internal/asset"
	"animation-poser/internal/collision"
	"animation-poser/internal/filter"
	"animation-poser/internal/groups"
	"animation-poser/internal/material"
	"animation-poser/internal/placement"
	"animation-poser/internal/prefs"
	"animation-poser/internal/scan"
	"animation-poser/internal/scene"
	"animation-poser/internal/settings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

// ReadyStatus is the status before the first scan.
const ReadyStatus = "Ready to rescan."

var (
	// ErrNotArmed is returned by Click and PlaceAt while placement is stopped, a scan is
	// running, or the cached result has no clips or no characters.
	ErrNotArmed = errors.New("session: placement is not armed")
	// ErrNoSurface is returned when a click ray hits no collider and never reaches the ground plane.
	ErrNoSurface = errors.New("session: click ray hits no surface")
)

// Config wires a session.
type Config struct {
	Store      asset.Store
	Classifier scan.Classifier
	Defaults   groups.Set
	Prefs      *prefs.Store
	Scene      *scene.Scene
	Rand       *rand.Rand
	Log        *zap.Logger
	// ScanOptions are passed to the scan engine after the session's own progress hook.
	ScanOptions []scan.Option
	// OnStatus is called whenever the status text changes.
	OnStatus func(string)
}

// Status is a snapshot for rendering.
type Status struct {
	Text         string
	Fraction     float32
	Scanning     bool
	Started      bool
	RescanNeeded bool
	Animations   int
	Characters   int
}

// Session is driven from the host's single main loop and is not safe for concurrent use.
type Session struct {
	engine   *scan.Engine
	scene    *scene.Scene
	pipeline *placement.Pipeline
	prefs    *prefs.Store
	settings settings.Settings
	log      *zap.Logger
	onStatus func(string)

	parent         *scene.Object
	status         string
	started        bool
	startAfterScan bool
	needsRescan    bool
	attached       bool
	pending        bool
}

// New loads settings from cfg.Prefs over cfg.Defaults and returns a stopped session.
func New(cfg Config) *Session {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	rnd := cfg.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	sc := cfg.Scene
	if sc == nil {
		sc = scene.New(log)
	}
	store := cfg.Prefs
	if store == nil {
		store = prefs.New(prefs.DefaultPath)
	}

	s := &Session{
		scene:       sc,
		prefs:       store,
		log:         log,
		onStatus:    cfg.OnStatus,
		needsRescan: true,
	}
	st, err := settings.Load(store, cfg.Defaults)
	if err != nil {
		log.Warn("ignored persisted group selection", zap.Error(err))
	}
	s.settings = st

	opts := append([]scan.Option{scan.WithProgress(s.onProgress)}, cfg.ScanOptions...)
	s.engine = scan.New(cfg.Store, cfg.Classifier, log, opts...)
	resolver := material.NewResolver(cfg.Store, s.engine.GroupOf, rnd, log)
	s.pipeline = placement.New(sc, cfg.Store, resolver, rnd, log)
	s.setStatus(ReadyStatus)
	return s
}

func (s *Session) onProgress(p scan.Progress) {
	s.setStatus(p.Status)
}

func (s *Session) setStatus(text string) {
	if text == s.status {
		return
	}
	s.status = text
	if s.onStatus != nil {
		s.onStatus(text)
	}
}

// Scene returns the scene placements go into.
func (s *Session) Scene() *scene.Scene { return s.scene }

// Result returns the cached scan result, or nil before the first completed scan.
func (s *Session) Result() *scan.Result { return s.engine.Result() }

// Settings returns a copy of the current settings.
func (s *Session) Settings() settings.Settings {
	st := s.settings
	st.Groups = st.Groups.Clone()
	return st
}

// Status returns what the host should display.
func (s *Session) Status() Status {
	p := s.engine.Progress()
	clips, chars := s.engine.Result().Counts()
	return Status{
		Text:         s.status,
		Fraction:     p.Fraction,
		Scanning:     s.engine.Scanning(),
		Started:      s.started,
		RescanNeeded: s.RescanNeeded(),
		Animations:   clips,
		Characters:   chars,
	}
}

// RescanNeeded reports whether the cached result is missing, empty, or from another selection.
func (s *Session) RescanNeeded() bool {
	res := s.engine.Result()
	clips, chars := res.Counts()
	return s.needsRescan || res.Fingerprint() != s.settings.Groups.Fingerprint() || clips == 0 || chars == 0
}

// Start arms placement. When a rescan is needed it starts one instead and arms on completion.
// It does nothing while a scan is running.
func (s *Session) Start() {
	if s.engine.Scanning() || s.started {
		return
	}
	if s.RescanNeeded() {
		s.startAfterScan = true
		s.startScan()
		return
	}
	s.started = true
}

// Stop disarms placement, including an arm pending on a running scan.
func (s *Session) Stop() {
	s.started = false
	s.startAfterScan = false
}

// Rescan restarts the scan over the current selection. Placement is re-armed afterwards if it
// was armed, or about to be, when Rescan was called.
func (s *Session) Rescan() {
	s.startAfterScan = s.started || s.startAfterScan
	s.startScan()
}

// CancelScan stops a running scan; the previous result stays cached.
func (s *Session) CancelScan() {
	if !s.engine.Scanning() {
		return
	}
	s.engine.Cancel()
	s.pending = false
	s.startAfterScan = false
	s.setStatus("Scan cancelled.")
}

func (s *Session) startScan() {
	s.engine.Start(s.settings.Groups.Enabled(groups.Animation), s.settings.Groups.Enabled(groups.Character))
	s.pending = true
	s.Attach()
}

// Attach subscribes the session to the host's frame updates. Attaching twice is a no-op.
func (s *Session) Attach() { s.attached = true }

// Detach unsubscribes from frame updates. A running scan pauses until Attach.
func (s *Session) Detach() { s.attached = false }

// Attached reports whether Update drives the scan.
func (s *Session) Attached() bool { return s.attached }

// Update advances a running scan by one time slice. It returns true while a scan is still running.
func (s *Session) Update() bool {
	if !s.attached || !s.pending {
		return false
	}
	if !s.engine.Tick() {
		return true
	}
	s.pending = false
	switch s.engine.State() {
	case scan.Complete:
		s.needsRescan = false
		if s.startAfterScan {
			s.started = true
			s.startAfterScan = false
		}
	case scan.Failed:
		s.startAfterScan = false
	}
	return false
}

// RunScan drives a scan to completion without a frame loop, sleeping between slices.
// It returns the engine's error when the scan did not complete.
func (s *Session) RunScan(pause time.Duration) error {
	s.Rescan()
	for s.Update() {
		if pause > 0 {
			time.Sleep(pause)
		}
	}
	if s.engine.State() != scan.Complete {
		return fmt.Errorf("session: scan did not complete: %w", s.engine.Err())
	}
	return nil
}

// Armed reports whether a click would place a character.
func (s *Session) Armed() bool {
	clips, chars := s.engine.Result().Counts()
	return s.started && !s.engine.Scanning() && clips > 0 && chars > 0
}

// Click resolves a pointer ray against the scene colliders, falling back to the Y=0 plane,
// and places a character there.
func (s *Session) Click(ray rl.Ray) (*scene.Object, error) {
	if !s.Armed() {
		return nil, ErrNotArmed
	}
	req := placement.Request{}
	if hit, ok := s.scene.Raycast(ray); ok {
		req.Point, req.Normal, req.HasSurfaceHit = hit.Point, hit.Normal, true
	} else {
		p, ok := collision.GroundPoint(ray)
		if !ok {
			return nil, ErrNoSurface
		}
		req.Point, req.Normal = p, rl.NewVector3(0, 1, 0)
	}
	return s.PlaceAt(req)
}

// PlaceAt places a character for an already-resolved surface point.
func (s *Session) PlaceAt(req placement.Request) (*scene.Object, error) {
	if !s.Armed() {
		return nil, ErrNotArmed
	}
	opts := s.settings.PlacementOptions()
	opts.Parent = s.parent
	return s.pipeline.Place(req, opts, s.engine.Result(),
		filter.Parse(s.settings.AnimationFilter), filter.Parse(s.settings.CharacterFilter))
}

// SetParent sets the object new placements are attached to; nil places at the scene root.
func (s *Session) SetParent(o *scene.Object) { s.parent = o }

// SetGroupEnabled toggles one group. Changing the selection disarms placement and requires a rescan.
func (s *Session) SetGroupEnabled(f groups.Family, i int, enabled bool) error {
	if err := s.settings.Groups.SetEnabled(f, i, enabled); err != nil {
		return err
	}
	s.selectionChanged()
	return nil
}

// SetAllGroupsEnabled enables or disables every group of f.
func (s *Session) SetAllGroupsEnabled(f groups.Family, enabled bool) {
	for i := range s.settings.Groups.Family(f) {
		_ = s.settings.Groups.SetEnabled(f, i, enabled)
	}
	s.selectionChanged()
}

func (s *Session) selectionChanged() {
	s.needsRescan = true
	s.started = false
	s.save()
}

// UpdateSettings applies fn to the placement and filter settings. Group changes made by fn are treated
// like SetGroupEnabled.
func (s *Session) UpdateSettings(fn func(*settings.Settings)) {
	before := s.settings.Groups.Fingerprint()
	st := s.Settings()
	fn(&st)
	s.settings = st
	if st.Groups.Fingerprint() != before {
		s.selectionChanged()
		return
	}
	s.save()
}

// Save persists the settings.
func (s *Session) Save() error {
	return settings.Save(s.prefs, s.settings)
}

func (s *Session) save() {
	if err := s.Save(); err != nil {
		s.log.Warn("failed to save settings", zap.String("path", s.prefs.Path()), zap.Error(err))
	}
}
