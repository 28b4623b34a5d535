package game

// Effect is a node in the recursive effect grammar. Kind selects which of
// the payload fields are meaningful:
//
//	Attack        Damage, DamageKind, Mutual
//	GrantAbility  Ability
//	SummonCard    Card
//	Multiple      Effects
//	ChangeHp      Amount
//	ChangeEnergy  Amount
//	DestroyCard   (none)
type Effect struct {
	Kind       EffectKind
	Damage     int
	DamageKind DamageKind
	// Mutual attacks also hit the source with the same damage.
	Mutual  bool
	Ability *Ability
	Card    *Card
	Effects []Effect
	Amount  int
}

func Attack(damage int, kind DamageKind) Effect {
	return Effect{Kind: EffectAttack, Damage: damage, DamageKind: kind}
}

// MutualAttack is an Attack where the source takes the same damage back.
func MutualAttack(damage int, kind DamageKind) Effect {
	return Effect{Kind: EffectAttack, Damage: damage, DamageKind: kind, Mutual: true}
}

func GrantAbility(a Ability) Effect {
	return Effect{Kind: EffectGrantAbility, Ability: &a}
}

func Summon(c Card) Effect {
	return Effect{Kind: EffectSummon, Card: &c}
}

func Multiple(effects ...Effect) Effect {
	return Effect{Kind: EffectMultiple, Effects: effects}
}

func ChangeHP(amount int) Effect {
	return Effect{Kind: EffectChangeHP, Amount: amount}
}

func ChangeEnergy(amount int) Effect {
	return Effect{Kind: EffectChangeEnergy, Amount: amount}
}

func Destroy() Effect {
	return Effect{Kind: EffectDestroy}
}

// IsPrimitive reports whether the effect mutates state directly, as opposed
// to expanding into other effects. Only primitive effects are broadcast.
func (e Effect) IsPrimitive() bool {
	switch e.Kind {
	case EffectSummon, EffectGrantAbility, EffectChangeHP, EffectChangeEnergy, EffectDestroy:
		return true
	}
	return false
}

func (e Effect) Clone() Effect {
	out := e
	if e.Ability != nil {
		a := e.Ability.Clone()
		out.Ability = &a
	}
	if e.Card != nil {
		c := e.Card.Clone()
		out.Card = &c
	}
	if e.Effects != nil {
		out.Effects = make([]Effect, len(e.Effects))
		for i, child := range e.Effects {
			out.Effects[i] = child.Clone()
		}
	}
	return out
}

// PassiveEffect is the payload of a PassiveAbility:
//
//	DamageResistance  DamageKind, Factor
//	WhenHit           Effect, Target
//	WhenDies          Effect, Target
type PassiveEffect struct {
	Kind       PassiveKind
	DamageKind DamageKind
	Factor     float64
	Effect     *Effect
	Target     ImplicitTarget
}

func Resistance(kind DamageKind, factor float64) PassiveEffect {
	return PassiveEffect{Kind: PassiveResistance, DamageKind: kind, Factor: factor}
}

func WhenHit(effect Effect, target ImplicitTarget) PassiveEffect {
	return PassiveEffect{Kind: PassiveWhenHit, Effect: &effect, Target: target}
}

func WhenDies(effect Effect, target ImplicitTarget) PassiveEffect {
	return PassiveEffect{Kind: PassiveWhenDies, Effect: &effect, Target: target}
}

func (p PassiveEffect) Clone() PassiveEffect {
	out := p
	if p.Effect != nil {
		e := p.Effect.Clone()
		out.Effect = &e
	}
	return out
}
