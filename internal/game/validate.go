package game

import (
	"errors"
	"fmt"
)

// MaxContentDepth bounds how deeply effects, abilities and summoned cards
// may nest inside one card definition.
const MaxContentDepth = 16

// ValidateCard reports every authoring defect in a card definition. Cards
// that pass can be resolved by the engine without panicking.
func ValidateCard(c Card) error {
	v := &validator{}
	v.card(c, c.Name, 0)
	return errors.Join(v.errs...)
}

// ValidateDecklist validates every card of a deck.
func ValidateDecklist(d Decklist) error {
	v := &validator{}
	if d.Name == "" {
		v.fail("deck", "missing name")
	}
	if len(d.Cards) == 0 {
		v.fail(d.Name, "deck has no cards")
	}
	for i, c := range d.Cards {
		v.card(c, fmt.Sprintf("%s[%d] %s", d.Name, i, c.Name), 0)
	}
	return errors.Join(v.errs...)
}

type validator struct {
	errs []error
}

func (v *validator) fail(path, format string, args ...interface{}) {
	v.errs = append(v.errs, fmt.Errorf("%s: %s", path, fmt.Sprintf(format, args...)))
}

func (v *validator) tooDeep(path string, depth int) bool {
	if depth > MaxContentDepth {
		v.fail(path, "nested deeper than %d levels", MaxContentDepth)
		return true
	}
	return false
}

func (v *validator) card(c Card, path string, depth int) {
	if v.tooDeep(path, depth) {
		return
	}
	if c.Name == "" {
		v.fail(path, "card has no name")
	}
	if c.HP <= 0 {
		v.fail(path, "hp must be positive, got %d", c.HP)
	}
	if c.SummonCost < 0 || c.Size < 0 {
		v.fail(path, "summon cost and size must not be negative")
	}
	if c.StartingEnergy < 0 || c.MaxEnergy < 0 {
		v.fail(path, "energy must not be negative")
	}
	if c.StartingEnergy > c.MaxEnergy {
		v.fail(path, "starting energy %d exceeds max energy %d", c.StartingEnergy, c.MaxEnergy)
	}
	for i, a := range c.Abilities {
		v.ability(a, fmt.Sprintf("%s.abilities[%d]", path, i), depth+1)
	}
}

func (v *validator) ability(a Ability, path string, depth int) {
	if v.tooDeep(path, depth) {
		return
	}
	switch {
	case a.Activated != nil && a.Passive != nil, a.Activated == nil && a.Passive == nil:
		v.fail(path, "ability must be exactly one of activated or passive")
	case a.Activated != nil:
		if err := a.Activated.Cost.check(a.Activated.Effect); err != nil {
			v.fail(path, "%v", err)
		}
		v.amount(a.Activated.Targets.Amount, path)
		v.filter(a.Activated.Targets.Filter, path+".targets", depth+1)
		v.effect(a.Activated.Effect, path+".effect", depth+1)
	default:
		v.filter(a.Passive.Filter, path+".filter", depth+1)
		v.passive(a.Passive.Effect, path+".effect", depth+1)
	}
}

func (v *validator) amount(a TargetAmount, path string) {
	switch a.Kind {
	case AmountAll:
	case AmountN:
		if a.N <= 0 {
			v.fail(path, "target amount must be positive, got %d", a.N)
		}
	case AmountUpToN:
		if a.N < 0 {
			v.fail(path, "target amount must not be negative, got %d", a.N)
		}
	default:
		v.fail(path, "unknown amount kind %d", int(a.Kind))
	}
}

func (v *validator) filter(f TargetFilter, path string, depth int) {
	if v.tooDeep(path, depth) {
		return
	}
	switch f.Kind {
	case FilterAny, FilterThisUnit, FilterFriendly, FilterEnemy, FilterOccupied, FilterUnoccupied:
		if len(f.Children) > 0 {
			v.fail(path, "%s filter takes no children", f.Kind)
		}
	case FilterAnd, FilterOr:
		if len(f.Children) == 0 {
			v.fail(path, "%s filter needs at least one child", f.Kind)
		}
		for i, c := range f.Children {
			v.filter(c, fmt.Sprintf("%s.%s[%d]", path, f.Kind, i), depth+1)
		}
	default:
		v.fail(path, "unknown filter kind %d", int(f.Kind))
	}
}

func (v *validator) effect(e Effect, path string, depth int) {
	if v.tooDeep(path, depth) {
		return
	}
	switch e.Kind {
	case EffectAttack:
		if e.Damage < 0 {
			v.fail(path, "attack damage must not be negative, got %d", e.Damage)
		}
		if !e.DamageKind.valid() {
			v.fail(path, "unknown damage kind %d", int(e.DamageKind))
		}
	case EffectGrantAbility:
		if e.Ability == nil {
			v.fail(path, "grant_ability has no ability")
			return
		}
		v.ability(*e.Ability, path+".grant_ability", depth+1)
	case EffectSummon:
		if e.Card == nil {
			v.fail(path, "summon has no card")
			return
		}
		v.card(*e.Card, path+".summon", depth+1)
	case EffectMultiple:
		if len(e.Effects) == 0 {
			v.fail(path, "multiple has no effects")
		}
		for i, child := range e.Effects {
			v.effect(child, fmt.Sprintf("%s.multiple[%d]", path, i), depth+1)
		}
	case EffectChangeHP, EffectChangeEnergy, EffectDestroy:
	default:
		v.fail(path, "unknown effect kind %d", int(e.Kind))
	}
}

func (v *validator) passive(p PassiveEffect, path string, depth int) {
	switch p.Kind {
	case PassiveResistance:
		if p.Factor <= 0 {
			v.fail(path, "resistance factor must be positive, got %g", p.Factor)
		}
		if !p.DamageKind.valid() {
			v.fail(path, "unknown damage kind %d", int(p.DamageKind))
		}
	case PassiveWhenHit, PassiveWhenDies:
		if p.Effect == nil {
			v.fail(path, "%s has no effect", p.Kind)
			return
		}
		if p.Target != TargetThisUnit && p.Target != TargetThatUnit {
			v.fail(path, "unknown implicit target %d", int(p.Target))
		}
		v.effect(*p.Effect, path+"."+p.Kind.String(), depth+1)
	default:
		v.fail(path, "unknown passive kind %d", int(p.Kind))
	}
}
