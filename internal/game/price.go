package game

import "math"

// Pricing heuristics used for deck building tools. The numbers are tuning
// knobs, not rules; nothing in a match depends on them.
const (
	priceBase        = 3.0
	priceStatPivot   = 4.0
	pricePerStat     = 0.15
	pricePerAbility  = 0.3
	priceDestroy     = 4.0
	priceAllTargets  = 10
	priceWideFilter  = 1.5
	priceMutualScale = 0.6
)

// PriceCard estimates what a card is worth. Each point of HP or max energy
// away from 4 moves the price by 0.15; each ability adds its value minus
// its energy cost, plus a flat 0.3.
func PriceCard(c Card) float64 {
	return priceCard(c, 0)
}

func priceCard(c Card, depth int) float64 {
	price := priceBase
	price += float64(c.HP-priceStatPivot) * pricePerStat
	price += float64(c.MaxEnergy-priceStatPivot) * pricePerStat
	for _, a := range c.Abilities {
		price += priceAbility(a, depth) + pricePerAbility
	}
	return price
}

func priceAbility(a Ability, depth int) float64 {
	if depth > MaxContentDepth {
		return 0
	}
	switch {
	case a.Activated != nil:
		cost := 0
		if a.Activated.Cost.check(a.Activated.Effect) == nil {
			cost = a.Activated.ResolvedCost().Energy
		}
		return priceEffect(a.Activated.Effect, depth)*amountMultiplier(a.Activated.Targets.Amount) - float64(cost)
	case a.Passive != nil:
		return pricePassive(*a.Passive, depth)
	}
	return 0
}

func amountMultiplier(a TargetAmount) float64 {
	switch a.Kind {
	case AmountUpToN:
		return 0.7 + float64(a.N)*0.08
	case AmountN:
		return 0.5 + float64(a.N)*0.08
	default:
		return 0.5 + priceAllTargets*0.08
	}
}

func priceEffect(e Effect, depth int) float64 {
	if depth > MaxContentDepth {
		return 0
	}
	switch e.Kind {
	case EffectAttack:
		score := float64(e.Damage) * 0.5
		if e.Mutual {
			score *= priceMutualScale
		}
		return score
	case EffectChangeHP:
		return float64(e.Amount) * 0.3
	case EffectChangeEnergy:
		return float64(e.Amount) * 0.5
	case EffectDestroy:
		return priceDestroy
	case EffectSummon:
		if e.Card == nil {
			return 0
		}
		return priceCard(*e.Card, depth+1)
	case EffectGrantAbility:
		if e.Ability == nil {
			return 0
		}
		return priceAbility(*e.Ability, depth+1) + pricePerAbility
	case EffectMultiple:
		total := 0.0
		for _, child := range e.Effects {
			total += priceEffect(child, depth+1)
		}
		return total
	}
	return 0
}

func pricePassive(p PassiveAbility, depth int) float64 {
	multiplier := 1.0
	if p.Filter.Kind != FilterThisUnit {
		multiplier = priceWideFilter
	}
	var base float64
	switch p.Effect.Kind {
	case PassiveResistance:
		if p.Effect.Factor > 0 {
			base = -math.Log2(p.Effect.Factor)
		}
	case PassiveWhenHit, PassiveWhenDies:
		if p.Effect.Effect != nil {
			base = priceEffect(*p.Effect.Effect, depth+1)
		}
	}
	return base * multiplier
}
