package game

import "fmt"

// Resolve computes the energy price of an ability with the given effect.
// A derived cost on anything other than a SummonCard effect is a malformed
// card definition and panics; ValidateCard reports it at load time.
func (c AbilityCost) Resolve(effect Effect) Cost {
	switch c.Kind {
	case CostStatic:
		return c.Static
	case CostDerived:
		if effect.Kind != EffectSummon || effect.Card == nil {
			panic(fmt.Sprintf("derived cost (%s) is only valid on SummonCard, got %s", c.Attribute, effect.Kind))
		}
		return Cost{Energy: c.Attribute.Of(*effect.Card)}
	default:
		panic(fmt.Sprintf("unknown cost kind %d", int(c.Kind)))
	}
}

// ResolvedCost resolves the ability's price against its own effect.
func (a ActivatedAbility) ResolvedCost() Cost {
	return a.Cost.Resolve(a.Effect)
}

// Of reads the attribute from a card.
func (a Attribute) Of(c Card) int {
	switch a {
	case AttrHP:
		return c.HP
	case AttrSummonCost:
		return c.SummonCost
	case AttrSize:
		return c.Size
	default:
		panic(fmt.Sprintf("unknown attribute %d", int(a)))
	}
}

// check reports the same contract Resolve enforces, as an error.
func (c AbilityCost) check(effect Effect) error {
	switch c.Kind {
	case CostStatic:
		if c.Static.Energy < 0 {
			return fmt.Errorf("negative static cost %d", c.Static.Energy)
		}
		return nil
	case CostDerived:
		if c.Attribute < AttrHP || c.Attribute > AttrSize {
			return fmt.Errorf("unknown attribute %d", int(c.Attribute))
		}
		if effect.Kind != EffectSummon || effect.Card == nil {
			return fmt.Errorf("derived cost (%s) on %s effect; only SummonCard carries attributes", c.Attribute, effect.Kind)
		}
		return nil
	default:
		return fmt.Errorf("unknown cost kind %d", int(c.Kind))
	}
}
