package session

import (
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"animation-poser/internal/assetfs"
	"animation-poser/internal/classifier"
	"animation-poser/internal/collision"
	"animation-poser/internal/groups"
	"animation-poser/internal/placement"
	"animation-poser/internal/prefs"
	"animation-poser/internal/scan"
	"animation-poser/internal/scene"
	"animation-poser/internal/settings"
	"animation-poser/internal/testutil"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func knightDefaults() groups.Set {
	return groups.Set{
		Animation: []groups.SourceGroup{
			{ID: testutil.IdleGroupID, Name: "Idles", Enabled: true},
			{ID: testutil.EmoteGroupID, Name: "Emotes", Enabled: true},
		},
		Character: []groups.SourceGroup{
			{ID: testutil.KnightGroupID, Name: "Knights", Enabled: true, StrictMaterialMatching: true},
		},
	}
}

type fixture struct {
	session  *Session
	prefs    string
	logs     *observer.ObservedLogs
	statuses []string
}

func newFixture(t *testing.T, seed func(*prefs.Store)) *fixture {
	t.Helper()
	store, err := assetfs.New(testutil.NewMemFS(t, testutil.KnightLibrary))
	require.NoError(t, err)

	f := &fixture{prefs: filepath.Join(t.TempDir(), "poser.json")}
	p := prefs.New(f.prefs)
	if seed != nil {
		seed(p)
	}
	core, logs := observer.New(zapcore.DebugLevel)
	f.logs = logs
	f.session = New(Config{
		Store:       store,
		Classifier:  classifier.New([]string{"Chr_"}, []string{"Chr_Attach_"}),
		Defaults:    knightDefaults(),
		Prefs:       p,
		Rand:        rand.New(rand.NewSource(7)),
		Log:         zap.New(core),
		ScanOptions: []scan.Option{scan.WithClock(func() time.Time { return time.Unix(0, 0) })},
		OnStatus:    func(s string) { f.statuses = append(f.statuses, s) },
	})
	return f
}

// armed returns a fixture whose scan has completed and whose placement is armed.
func armed(t *testing.T) *Session {
	t.Helper()
	s := newFixture(t, nil).session
	s.Start()
	require.False(t, s.Update())
	require.True(t, s.Armed())
	return s
}

func down(x, z float32) rl.Ray {
	return rl.Ray{Position: rl.NewVector3(x, 10, z), Direction: rl.NewVector3(0, -1, 0)}
}

func TestNewSessionIsStopped(t *testing.T) {
	f := newFixture(t, nil)
	st := f.session.Status()
	assert.Equal(t, ReadyStatus, st.Text)
	assert.True(t, st.RescanNeeded)
	assert.False(t, st.Started)
	assert.False(t, st.Scanning)
	assert.False(t, f.session.Attached())
	assert.Equal(t, []string{ReadyStatus}, f.statuses)

	_, err := f.session.Click(down(0, 0))
	assert.ErrorIs(t, err, ErrNotArmed)
}

func TestStartScansThenArms(t *testing.T) {
	f := newFixture(t, nil)
	s := f.session

	s.Start()
	assert.True(t, s.Status().Scanning)
	assert.False(t, s.Status().Started)
	assert.True(t, s.Attached())

	assert.False(t, s.Update())
	st := s.Status()
	assert.True(t, st.Started)
	assert.False(t, st.Scanning)
	assert.False(t, st.RescanNeeded)
	assert.Equal(t, 3, st.Animations)
	assert.Equal(t, 2, st.Characters)
	assert.Equal(t, "Scan complete. Animations: 3, Characters: 2", st.Text)
	assert.Equal(t, float32(1), st.Fraction)

	assert.Equal(t, ReadyStatus, f.statuses[0])
	assert.Equal(t, "Preparing scan...", f.statuses[1])
	assert.Equal(t, st.Text, f.statuses[len(f.statuses)-1])
}

func TestStartWithFreshResultArmsImmediately(t *testing.T) {
	s := armed(t)
	s.Stop()
	assert.False(t, s.Armed())

	s.Start()
	assert.False(t, s.Status().Scanning, "fresh result is reused")
	assert.True(t, s.Armed())
}

func TestStopDuringScanCancelsPendingArm(t *testing.T) {
	s := newFixture(t, nil).session
	s.Start()
	s.Stop()
	assert.False(t, s.Update())
	assert.False(t, s.Status().Started)
	assert.False(t, s.RescanNeeded(), "scan still completes")
}

func TestRescanPreservesArmedState(t *testing.T) {
	t.Run("armed", func(t *testing.T) {
		s := armed(t)
		s.Rescan()
		assert.True(t, s.Status().Scanning)
		assert.False(t, s.Armed(), "no placement while scanning")
		s.Update()
		assert.True(t, s.Armed())
	})
	t.Run("stopped", func(t *testing.T) {
		s := armed(t)
		s.Stop()
		s.Rescan()
		s.Update()
		assert.False(t, s.Status().Started)
	})
}

func TestDetachPausesScan(t *testing.T) {
	s := newFixture(t, nil).session
	s.Start()
	s.Detach()
	s.Detach()
	assert.False(t, s.Update())
	assert.True(t, s.Status().Scanning)

	s.Attach()
	s.Attach()
	assert.False(t, s.Update())
	assert.True(t, s.Armed())
}

func TestCancelScan(t *testing.T) {
	s := newFixture(t, nil).session
	s.Start()
	s.CancelScan()
	st := s.Status()
	assert.Equal(t, "Scan cancelled.", st.Text)
	assert.False(t, st.Scanning)
	assert.False(t, s.Update())
	assert.False(t, st.Started)
	assert.Nil(t, s.Result())
}

func TestRunScan(t *testing.T) {
	s := newFixture(t, nil).session
	require.NoError(t, s.RunScan(0))
	clips, chars := s.Result().Counts()
	assert.Equal(t, 3, clips)
	assert.Equal(t, 2, chars)
	assert.False(t, s.Status().Started, "RunScan does not arm a stopped session")
}

func TestSelectionChangeDisarmsAndPersists(t *testing.T) {
	f := newFixture(t, nil)
	s := f.session
	s.Start()
	s.Update()
	require.True(t, s.Armed())

	require.NoError(t, s.SetGroupEnabled(groups.Animation, 1, false))
	assert.False(t, s.Status().Started)
	assert.True(t, s.RescanNeeded())
	assert.False(t, prefs.Load(f.prefs).GetBool("AnimPack_1_Enabled", true))

	s.Start()
	assert.True(t, s.Status().Scanning)
	s.Update()
	clips, _ := s.Result().Counts()
	assert.Equal(t, 2, clips, "emotes are no longer scanned")
	assert.True(t, s.Armed())

	assert.Error(t, s.SetGroupEnabled(groups.Character, 9, true))
}

func TestSetAllGroupsEnabled(t *testing.T) {
	s := armed(t)
	s.SetAllGroupsEnabled(groups.Character, false)
	assert.Empty(t, s.Settings().Groups.Enabled(groups.Character))
	assert.True(t, s.RescanNeeded())
	assert.False(t, s.Armed())
}

func TestUpdateSettings(t *testing.T) {
	t.Run("options keep the scan", func(t *testing.T) {
		s := armed(t)
		s.UpdateSettings(func(st *settings.Settings) { st.RotateHead = true })
		assert.True(t, s.Settings().RotateHead)
		assert.True(t, s.Armed())
	})
	t.Run("group change needs rescan", func(t *testing.T) {
		s := armed(t)
		s.UpdateSettings(func(st *settings.Settings) {
			_ = st.Groups.SetEnabled(groups.Animation, 0, false)
		})
		assert.True(t, s.RescanNeeded())
		assert.False(t, s.Armed())
	})
}

func TestSettingsLoadedFromPrefs(t *testing.T) {
	f := newFixture(t, func(p *prefs.Store) {
		p.SetBool("RotateHead", true)
		p.SetString("AnimationNameFilter", "wave")
		p.SetInt("ArtPack_Count", 4)
	})
	st := f.session.Settings()
	assert.True(t, st.RotateHead)
	assert.Equal(t, "wave", st.AnimationFilter)
	assert.Len(t, st.Groups.Character, 1)
	assert.Equal(t, 1, f.logs.FilterMessage("ignored persisted group selection").Len())
}

func TestClickOnGround(t *testing.T) {
	s := armed(t)
	obj, err := s.Click(down(2, 3))
	require.NoError(t, err)
	p := obj.WorldPosition()
	assert.InDelta(t, 2, p.X, 1e-4)
	assert.InDelta(t, 0, p.Y, 1e-4)
	assert.InDelta(t, 3, p.Z, 1e-4)

	undo := s.Scene().UndoHistory()
	require.Len(t, undo, 1)
	assert.Equal(t, placement.UndoLabel, undo[0].Label)
	assert.Equal(t, []*scene.Object{obj}, s.Scene().Selection())
}

func TestClickOnCollider(t *testing.T) {
	s := armed(t)
	s.Scene().Colliders.Add(collision.NewBox("Floor", rl.NewVector3(0, 0.5, 0), rl.NewVector3(4, 1, 4)))
	obj, err := s.Click(down(0, 0))
	require.NoError(t, err)
	assert.InDelta(t, 1, obj.WorldPosition().Y, 1e-4)
}

func TestClickMissesEverything(t *testing.T) {
	s := armed(t)
	_, err := s.Click(rl.Ray{Position: rl.NewVector3(0, 1, 0), Direction: rl.NewVector3(0, 1, 0)})
	assert.ErrorIs(t, err, ErrNoSurface)
	assert.Empty(t, s.Scene().UndoHistory())
}

func TestClickUnderParent(t *testing.T) {
	s := armed(t)
	p, err := s.PlaceAt(placement.Request{Point: rl.NewVector3(5, 0, 0), Normal: rl.NewVector3(0, 1, 0)})
	require.NoError(t, err)
	s.SetParent(p)
	child, err := s.Click(down(1, 1))
	require.NoError(t, err)
	assert.Same(t, p, child.Parent())
}

func TestClickWithFiltersExcludingEverything(t *testing.T) {
	s := armed(t)
	s.SetFilter(groups.Character, "zombie")
	_, err := s.Click(down(0, 0))
	assert.ErrorIs(t, err, placement.ErrNoCandidates)
}

func TestPresets(t *testing.T) {
	f := newFixture(t, nil)
	s := f.session

	require.NoError(t, s.ApplyPreset(groups.Animation, "idle"))
	require.NoError(t, s.ApplyPreset(groups.Animation, "emotes"))
	require.NoError(t, s.ApplyPreset(groups.Animation, "idle"))
	assert.Equal(t, "idle, _IDL_, _EMOT_", s.Filter(groups.Animation))

	require.NoError(t, s.ApplyPreset(groups.Character, "zombie"))
	s.AddFilterToken(groups.Character, "!female")
	assert.Equal(t, "zombie, !female", s.Filter(groups.Character))
	assert.Equal(t, "zombie, !female", prefs.Load(f.prefs).GetString("CharacterNameFilter", ""))

	assert.Error(t, s.ApplyPreset(groups.Character, "idle"))

	s.ClearFilter(groups.Animation)
	assert.Empty(t, s.Filter(groups.Animation))

	assert.Equal(t, []string{"emotes", "idle", "run", "walk"}, PresetNames(groups.Animation))
	assert.Equal(t, []string{"female", "male", "zombie"}, PresetNames(groups.Character))
}
