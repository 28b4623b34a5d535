package game

import (
	"errors"
	"fmt"

	"github.com/chrisjuchem/botgame/internal/log"
)

// ErrRunawayBatch is returned when a batch exceeds Match.MaxBatchSteps.
var ErrRunawayBatch = errors.New("effect batch exceeded step limit")

// WorkItem is one effect aimed at a set of cells. Source is the acting
// unit's location, if there is one.
type WorkItem struct {
	Effect  Effect
	Targets []GridLocation
	Source  *GridLocation
}

func Item(effect Effect, source *GridLocation, targets ...GridLocation) WorkItem {
	return WorkItem{Effect: effect, Targets: targets, Source: source}
}

// Batch is a FIFO work queue resolved to quiescence.
type Batch struct {
	queue []WorkItem
	// Applied lists every primitive effect that changed state, restricted
	// to the targets it touched, in application order.
	Applied []WorkItem
	Steps   int
}

func (b *Batch) push(items ...WorkItem) {
	b.queue = append(b.queue, items...)
}

func (b *Batch) pop() (WorkItem, bool) {
	if len(b.queue) == 0 {
		return WorkItem{}, false
	}
	item := b.queue[0]
	b.queue = b.queue[1:]
	return item, true
}

func (b *Batch) record(item WorkItem, touched []GridLocation) {
	if len(touched) == 0 {
		return
	}
	b.Applied = append(b.Applied, WorkItem{Effect: item.Effect, Targets: touched, Source: item.Source})
}

// Resolve runs a batch seeded with the given items until no work remains and
// no live unit is at non-positive hit points. Follow-up effects from
// attacks, multi-effects and passive triggers are appended to the same
// queue. With MaxBatchSteps set, a batch that runs longer stops with
// ErrRunawayBatch; effects already applied stay applied and are reported.
func (m *Match) Resolve(seed ...WorkItem) (*Batch, error) {
	b := &Batch{}
	b.push(seed...)
	for {
		for {
			item, ok := b.pop()
			if !ok {
				break
			}
			if m.MaxBatchSteps > 0 && b.Steps >= m.MaxBatchSteps {
				m.log(log.NewBatchAbortedEvent(m.Turn, b.Steps))
				return b, fmt.Errorf("%w (%d)", ErrRunawayBatch, m.MaxBatchSteps)
			}
			b.Steps++
			m.resolveItem(b, item)
		}

		// State-based destruction
		dead := m.deadUnits()
		if len(dead) == 0 {
			return b, nil
		}
		for _, u := range dead {
			b.push(WorkItem{Effect: Destroy(), Targets: []GridLocation{u.Location}})
		}
	}
}

func (m *Match) resolveItem(b *Batch, item WorkItem) {
	e := item.Effect
	switch e.Kind {
	case EffectAttack:
		m.resolveAttack(b, item)
	case EffectMultiple:
		for _, child := range e.Effects {
			b.push(WorkItem{Effect: child, Targets: item.Targets, Source: item.Source})
		}
	case EffectDestroy:
		var touched []GridLocation
		for _, loc := range item.Targets {
			u := m.UnitAt(loc)
			if u == nil {
				continue
			}
			for _, s := range m.triggers.matching(m, PassiveWhenDies, loc) {
				b.push(m.fire(s, loc, "destroyed "+u.Name))
			}
			m.destroy(u, destroyReason(item))
			touched = append(touched, loc)
		}
		b.record(item, touched)
	default:
		b.record(item, m.applyPrimitive(item))
	}
}

func (m *Match) resolveAttack(b *Batch, item WorkItem) {
	e := item.Effect
	for _, loc := range item.Targets {
		u := m.UnitAt(loc)
		if u == nil {
			continue
		}
		dmg := m.damageAt(e.Damage, e.DamageKind, loc)
		m.log(log.NewAttackEvent(m.Turn, m.label(loc.Owner), u.Name, e.Damage, dmg, e.DamageKind.String()))
		b.push(WorkItem{Effect: ChangeHP(-dmg), Targets: []GridLocation{loc}, Source: item.Source})

		if e.Mutual && item.Source != nil {
			if src := m.UnitAt(*item.Source); src != nil {
				back := m.damageAt(e.Damage, e.DamageKind, *item.Source)
				m.log(log.NewAttackEvent(m.Turn, m.label(item.Source.Owner), src.Name, e.Damage, back, e.DamageKind.String()))
				b.push(WorkItem{Effect: ChangeHP(-back), Targets: []GridLocation{*item.Source}, Source: item.Source})
			}
		}

		for _, s := range m.triggers.matching(m, PassiveWhenHit, loc) {
			b.push(m.fire(s, loc, "hit "+u.Name))
		}
	}
}

// damageAt applies every matching resistance multiplicatively and truncates.
func (m *Match) damageAt(damage int, kind DamageKind, loc GridLocation) int {
	return int(float64(damage) * m.triggers.resistance(m, kind, loc))
}

// fire builds the work item for a triggered passive. ThisUnit effects land
// on the subscriber, ThatUnit effects on the cell that triggered it.
func (m *Match) fire(s subscription, cause GridLocation, why string) WorkItem {
	src := s.owner.Location
	target := cause
	if s.passive.Effect.Target == TargetThisUnit {
		target = src
	}
	m.log(log.NewTriggerEvent(m.Turn, m.label(src.Owner), s.owner.Name, s.passive.Effect.Kind.String(), why))
	return WorkItem{Effect: s.passive.Effect.Effect.Clone(), Targets: []GridLocation{target}, Source: &src}
}

func (m *Match) destroy(u *Unit, reason string) {
	m.remove(u)
	m.log(log.NewDestroyEvent(m.Turn, m.label(u.Location.Owner), u.Name, reason))
}

func destroyReason(item WorkItem) string {
	if item.Source == nil {
		return "state-based"
	}
	return "effect"
}

// applyPrimitive mutates state for one primitive effect and returns the
// targets it actually changed.
func (m *Match) applyPrimitive(item WorkItem) []GridLocation {
	e := item.Effect
	var touched []GridLocation
	for _, loc := range item.Targets {
		switch e.Kind {
		case EffectSummon:
			if e.Card != nil && m.spawn(*e.Card, loc) != nil {
				touched = append(touched, loc)
			}
		case EffectGrantAbility:
			if u := m.UnitAt(loc); u != nil && e.Ability != nil {
				m.grant(u, *e.Ability)
				touched = append(touched, loc)
			}
		case EffectChangeHP:
			if u := m.UnitAt(loc); u != nil {
				m.changeHP(u, e.Amount)
				touched = append(touched, loc)
			}
		case EffectChangeEnergy:
			if u := m.UnitAt(loc); u != nil {
				m.changeEnergy(u, e.Amount)
				touched = append(touched, loc)
			}
		case EffectDestroy:
			if u := m.UnitAt(loc); u != nil {
				m.destroy(u, "effect")
				touched = append(touched, loc)
			}
		}
	}
	return touched
}

// Apply performs one broadcast effect on a replica without expanding
// resistances or triggers and without state-based destruction. The server
// only ever broadcasts primitive effects; Attack is ignored here.
func (m *Match) Apply(item WorkItem) {
	switch item.Effect.Kind {
	case EffectAttack:
		return
	case EffectMultiple:
		for _, child := range item.Effect.Effects {
			m.Apply(WorkItem{Effect: child, Targets: item.Targets, Source: item.Source})
		}
	default:
		m.applyPrimitive(item)
	}
}
