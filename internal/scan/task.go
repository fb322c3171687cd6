package scan

import (
	"errors"

	"animation-poser/internal/asset"
	"animation-poser/internal/groups"

	"go.uber.org/zap"
)

// phase indexes task.families; phaseCommit follows the last family.
type phase int

const (
	phaseAnimation phase = iota
	phaseCharacter
	phaseCommit
)

// task is the resumable state of one scan.
type task struct {
	id          uint64
	fingerprint string
	families    [2][]groups.SourceGroup
	total       int
	stage       int

	phase   phase
	group   int
	inGroup bool
	items   []asset.Handle
	item    int

	clips   []Entry
	prefabs []Entry
	groupOf map[asset.Handle]groups.SourceGroup
}

// advance runs until the next yield point. It returns done once every group has been scanned.
func (t *task) advance(e *Engine) (bool, error) {
	for {
		if t.phase == phaseCommit {
			return true, nil
		}
		list := t.families[t.phase]

		if !t.inGroup {
			if t.group >= len(list) {
				t.phase++
				t.group = 0
				continue
			}
			g := list[t.group]
			t.stage++
			e.setProgress(float32(t.stage)/float32(t.total), t.status(g))
			if e.task != t {
				return false, nil
			}
			loc, ok := e.store.ResolveGroupLocation(g.ID)
			if !ok {
				e.log.Warn("group not found in asset store",
					zap.String("family", groups.Family(t.phase).String()),
					zap.String("group", g.Name),
					zap.String("id", g.ID),
				)
				t.group++
				return false, nil
			}
			items, err := e.store.EnumerateAssetsOfKind(t.kind(), loc)
			if err != nil {
				return false, err
			}
			t.items, t.item, t.inGroup = items, 0, true
		}

		if t.item >= len(t.items) {
			t.items, t.inGroup = nil, false
			t.group++
			return false, nil
		}
		i := t.item
		t.item++
		if err := t.collect(e, list[t.group], t.items[i]); err != nil {
			return false, err
		}
		if i%e.yieldEvery == 0 {
			return false, nil
		}
	}
}

func (t *task) collect(e *Engine, g groups.SourceGroup, h asset.Handle) error {
	a, err := e.store.LoadAsset(h)
	if errors.Is(err, asset.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	switch t.phase {
	case phaseAnimation:
		if c, ok := a.(*asset.Clip); ok {
			t.clips = append(t.clips, Entry{Handle: h, Name: c.Name})
		}
	case phaseCharacter:
		p, ok := a.(*asset.Prefab)
		if ok && e.classifier.IsPlaceable(p.Name) {
			t.prefabs = append(t.prefabs, Entry{Handle: h, Name: p.Name})
			t.groupOf[h] = g
		}
	}
	return nil
}

func (t *task) kind() asset.Kind {
	if t.phase == phaseAnimation {
		return asset.KindClip
	}
	return asset.KindPrefab
}

func (t *task) status(g groups.SourceGroup) string {
	if t.phase == phaseAnimation {
		return "Scanning animations: " + g.Name
	}
	return "Scanning prefabs: " + g.Name
}
