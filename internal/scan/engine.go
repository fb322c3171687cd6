// Package scan discovers animation clips and placeable character prefabs in the enabled groups.
//
// A scan never blocks the host: Start only sets up a task, and the host drives it by calling
// Tick once per frame. Each Tick runs whole steps until its time budget is spent. A step ends at
// a yield point: after each group and after every Nth enumerated item. The task's resumption
// point is plain data (phase, group index, item index), so the engine can be cancelled or
// restarted at any yield point without leaving partial results behind.
package scan

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"animation-poser/internal/asset"
	"animation-poser/internal/groups"

	"go.uber.org/zap"
)

const (
	// DefaultBudget bounds the time one Tick may spend.
	DefaultBudget = 6 * time.Millisecond
	// DefaultYieldEvery is the item cadence at which enumeration yields.
	DefaultYieldEvery = 25
)

// ErrCancelled is reported by Err after a scan was cancelled before completing.
var ErrCancelled = errors.New("scan: cancelled")

// State is the engine's lifecycle state.
type State int

const (
	Idle State = iota
	Scanning
	Complete
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Classifier decides whether a prefab name is a placeable character.
type Classifier interface {
	IsPlaceable(name string) bool
}

// Progress is the fraction of stages started and a human-readable status.
type Progress struct {
	Fraction float32
	Status   string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now for budget accounting.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithBudget sets the per-Tick time budget.
func WithBudget(d time.Duration) Option {
	return func(e *Engine) { e.budget = d }
}

// WithYieldEvery sets the enumeration yield cadence; values below 1 are ignored.
func WithYieldEvery(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.yieldEvery = n
		}
	}
}

// WithProgress registers a callback fired whenever progress changes.
func WithProgress(fn func(Progress)) Option {
	return func(e *Engine) { e.onProgress = fn }
}

// Engine runs at most one scan at a time. It is not safe for concurrent use; everything happens
// on the host's main loop. Only the committed Result is published, through an atomic pointer.
type Engine struct {
	store      asset.Store
	classifier Classifier
	log        *zap.Logger
	now        func() time.Time
	budget     time.Duration
	yieldEvery int
	onProgress func(Progress)

	state    State
	task     *task
	nextID   uint64
	progress Progress
	err      error
	result   atomic.Pointer[Result]
}

// New returns an idle engine.
func New(store asset.Store, classifier Classifier, log *zap.Logger, opts ...Option) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		store:      store,
		classifier: classifier,
		log:        log,
		now:        time.Now,
		budget:     DefaultBudget,
		yieldEvery: DefaultYieldEvery,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle identifies one started scan.
type Handle struct {
	id     uint64
	engine *Engine
}

// ID returns the scan's sequence number.
func (h Handle) ID() uint64 { return h.id }

// Active reports whether this scan is still the engine's running scan.
func (h Handle) Active() bool {
	return h.engine != nil && h.engine.task != nil && h.engine.task.id == h.id
}

// Cancel cancels this scan if it is still running.
func (h Handle) Cancel() {
	if h.Active() {
		h.engine.Cancel()
	}
}

// Start cancels any running scan, discarding its progress, and begins a new one over the given
// enabled groups. Animation groups are scanned before character groups, each in the given order.
func (e *Engine) Start(animation, character []groups.SourceGroup) Handle {
	e.Cancel()

	e.nextID++
	t := &task{
		id:          e.nextID,
		fingerprint: groups.Fingerprint(groupIDs(animation), groupIDs(character)),
		families:    [2][]groups.SourceGroup{append([]groups.SourceGroup(nil), animation...), append([]groups.SourceGroup(nil), character...)},
		total:       max(1, len(animation)+len(character)),
		groupOf:     make(map[asset.Handle]groups.SourceGroup),
	}
	e.task = t
	e.state = Scanning
	e.err = nil
	e.setProgress(0, "Preparing scan...")
	e.log.Debug("scan started", zap.Uint64("scan", t.id), zap.String("fingerprint", t.fingerprint))
	return Handle{id: t.id, engine: e}
}

// Cancel stops the running scan. Nothing it collected becomes visible. A finished engine
// returns to Idle.
func (e *Engine) Cancel() {
	if e.task != nil {
		e.log.Debug("scan cancelled", zap.Uint64("scan", e.task.id))
		e.task = nil
		e.err = ErrCancelled
	}
	e.state = Idle
	e.progress.Fraction = 0
}

// Tick advances the running scan by at least one step and then by further steps until the
// budget is spent. It returns true when there is nothing left to drive.
func (e *Engine) Tick() bool {
	t := e.task
	if t == nil {
		return true
	}
	start := e.now()
	for {
		done, err := e.step(t)
		if e.task != t {
			// Cancelled or restarted from a progress callback.
			return e.task == nil
		}
		if err != nil {
			e.fail(t, err)
			return true
		}
		if done {
			e.commit(t)
			return true
		}
		if e.now().Sub(start) >= e.budget {
			return false
		}
	}
}

// step runs the task to its next yield point, converting panics from the store into errors.
func (e *Engine) step(t *task) (done bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scan: panic during step: %v", r)
		}
	}()
	return t.advance(e)
}

func (e *Engine) commit(t *task) {
	res := NewResult(t.clips, t.prefabs, t.groupOf, t.fingerprint)
	e.result.Store(res)
	e.task = nil
	e.state = Complete
	clips, prefabs := res.Counts()
	e.setProgress(1, fmt.Sprintf("Scan complete. Animations: %d, Characters: %d", clips, prefabs))
	e.log.Info("scan complete",
		zap.Uint64("scan", t.id),
		zap.Int("animations", clips),
		zap.Int("characters", prefabs),
	)
}

func (e *Engine) fail(t *task, err error) {
	e.task = nil
	e.state = Failed
	e.err = err
	e.setProgress(e.progress.Fraction, "Scan failed (see log).")
	e.log.Warn("scan failed", zap.Uint64("scan", t.id), zap.Error(err))
}

func (e *Engine) setProgress(fraction float32, status string) {
	e.progress = Progress{Fraction: fraction, Status: status}
	if e.onProgress != nil {
		e.onProgress(e.progress)
	}
}

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Scanning reports whether a scan is running.
func (e *Engine) Scanning() bool { return e.task != nil }

// Progress returns the latest progress report.
func (e *Engine) Progress() Progress { return e.progress }

// Err returns why the last scan did not complete, or nil.
func (e *Engine) Err() error { return e.err }

// Result returns the last committed result, or nil if no scan has completed.
// A failed or cancelled scan leaves the previous result in place.
func (e *Engine) Result() *Result { return e.result.Load() }

// GroupOf looks up a prefab's group in the current result.
func (e *Engine) GroupOf(h asset.Handle) (groups.SourceGroup, bool) {
	return e.Result().GroupOf(h)
}

func groupIDs(list []groups.SourceGroup) []string {
	out := make([]string, len(list))
	for i, g := range list {
		out[i] = g.ID
	}
	return out
}
