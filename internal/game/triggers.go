package game

import "sort"

// subscription is one passive ability on one live unit.
type subscription struct {
	owner   *Unit
	ability int // index into owner.Abilities
	passive *PassiveAbility
}

// triggerIndex maps passive kinds to the live abilities that listen for them.
// Abilities whose filter is exactly ThisUnit can only ever match their owner,
// so they are keyed by owner and never evaluated against other units.
// The index is rebuilt whenever a unit spawns, is removed, or gains an
// ability; lookups never scan the board.
type triggerIndex struct {
	byKind map[PassiveKind][]subscription
	self   map[UnitID]map[PassiveKind][]subscription
}

func buildTriggerIndex(m *Match) *triggerIndex {
	idx := &triggerIndex{
		byKind: make(map[PassiveKind][]subscription),
		self:   make(map[UnitID]map[PassiveKind][]subscription),
	}
	for _, u := range m.units {
		for i := range u.Abilities {
			p := u.Abilities[i].Passive
			if p == nil {
				continue
			}
			sub := subscription{owner: u, ability: i, passive: p}
			if p.Filter.Kind == FilterThisUnit {
				if idx.self[u.ID] == nil {
					idx.self[u.ID] = make(map[PassiveKind][]subscription)
				}
				idx.self[u.ID][p.Effect.Kind] = append(idx.self[u.ID][p.Effect.Kind], sub)
				continue
			}
			idx.byKind[p.Effect.Kind] = append(idx.byKind[p.Effect.Kind], sub)
		}
	}
	return idx
}

// matching returns the subscriptions of the given kind whose filter accepts
// the target cell, in spawn order then ability order.
func (idx *triggerIndex) matching(b Board, kind PassiveKind, target GridLocation) []subscription {
	var subs []subscription
	if u := b.UnitAt(target); u != nil {
		subs = append(subs, idx.self[u.ID][kind]...)
	}
	for _, s := range idx.byKind[kind] {
		if s.passive.Filter.Matches(b, target, s.owner.Location) {
			subs = append(subs, s)
		}
	}
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].owner.ID != subs[j].owner.ID {
			return subs[i].owner.ID < subs[j].owner.ID
		}
		return subs[i].ability < subs[j].ability
	})
	return subs
}

// resistance returns the product of every matching resistance factor
// against the damage kind at target.
func (idx *triggerIndex) resistance(b Board, kind DamageKind, target GridLocation) float64 {
	factor := 1.0
	for _, s := range idx.matching(b, PassiveResistance, target) {
		if s.passive.Effect.DamageKind == kind {
			factor *= s.passive.Effect.Factor
		}
	}
	return factor
}
