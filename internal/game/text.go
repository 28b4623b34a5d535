package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Text renders the card as it would be printed.
func (c Card) Text() string {
	lines := []string{
		c.Name,
		fmt.Sprintf("%d HP", c.HP),
		fmt.Sprintf("%d/%d energy", c.StartingEnergy, c.MaxEnergy),
	}
	for _, a := range c.Abilities {
		lines = append(lines, a.Text())
	}
	return strings.Join(lines, "\n")
}

func (a Ability) Text() string {
	switch {
	case a.Activated != nil:
		return fmt.Sprintf("{%d}: %s", a.Activated.ResolvedCost().Energy, a.Activated.Effect.Text(a.Activated.Targets.Text()))
	case a.Passive != nil:
		return a.Passive.Effect.Text(a.Passive.Filter.Text())
	default:
		return ""
	}
}

// Text renders the effect applied to the described targets.
func (e Effect) Text(target string) string {
	switch e.Kind {
	case EffectAttack:
		s := fmt.Sprintf("Deal %d %s damage to %s.", e.Damage, e.DamageKind, target)
		if e.Mutual {
			s += " This unit takes the same damage."
		}
		return s
	case EffectGrantAbility:
		if e.Ability == nil {
			return ""
		}
		return fmt.Sprintf("Give %s %q.", target, e.Ability.Text())
	case EffectSummon:
		if e.Card == nil {
			return ""
		}
		return fmt.Sprintf("Summon the following unit to %s:\n\n%s\n", target, e.Card.Text())
	case EffectMultiple:
		parts := make([]string, len(e.Effects))
		for i, child := range e.Effects {
			parts[i] = child.Text(target)
		}
		return strings.Join(parts, " ")
	case EffectChangeHP:
		return fmt.Sprintf("%s %s health.", target, gainsOrLoses(e.Amount))
	case EffectChangeEnergy:
		return fmt.Sprintf("%s %s energy.", target, gainsOrLoses(e.Amount))
	case EffectDestroy:
		return fmt.Sprintf("Destroy %s.", target)
	default:
		return ""
	}
}

func gainsOrLoses(n int) string {
	if n > 0 {
		return fmt.Sprintf("gains %d", n)
	}
	return fmt.Sprintf("loses %d", -n)
}

func (p PassiveEffect) Text(target string) string {
	switch p.Kind {
	case PassiveResistance:
		return fmt.Sprintf("%s takes %sx damage from %s attacks.", capitalize(target), strconv.FormatFloat(p.Factor, 'g', -1, 64), p.DamageKind)
	case PassiveWhenHit:
		if p.Effect == nil {
			return ""
		}
		return fmt.Sprintf("Whenever a %s is hit, %s", target, p.Effect.Text(p.Target.String()))
	case PassiveWhenDies:
		if p.Effect == nil {
			return ""
		}
		return fmt.Sprintf("Whenever a %s is destroyed, %s", target, p.Effect.Text(p.Target.String()))
	default:
		return ""
	}
}

func (r TargetRules) Text() string {
	switch r.Amount.Kind {
	case AmountAll:
		return "all " + r.Filter.Text()
	case AmountN:
		return fmt.Sprintf("%d %s", r.Amount.N, r.Filter.Text())
	case AmountUpToN:
		return fmt.Sprintf("up to %d %s", r.Amount.N, r.Filter.Text())
	default:
		return r.Filter.Text()
	}
}

func (f TargetFilter) Text() string {
	switch f.Kind {
	case FilterAny:
		return "location(s)"
	case FilterThisUnit:
		return "this unit"
	case FilterFriendly:
		return "friendly"
	case FilterEnemy:
		return "enemy"
	case FilterUnoccupied:
		return "open location(s)"
	case FilterOccupied:
		return "unit(s)"
	case FilterAnd, FilterOr:
		sep := " "
		if f.Kind == FilterOr {
			sep = " or "
		}
		parts := make([]string, len(f.Children))
		for i, c := range f.Children {
			parts[i] = c.Text()
		}
		return strings.Join(parts, sep)
	default:
		return "?"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
