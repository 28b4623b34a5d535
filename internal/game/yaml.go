package game

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// YAML forms. Sum types are written as single-key mappings, and the common
// leaves have scalar shorthands:
//
//	effect:  {attack: {damage: 3, kind: fire, mutual: true}}
//	         {grant_ability: <ability>} | {summon: <card>} | {multiple: [...]}
//	         {change_hp: -2} | {change_energy: 1} | destroy
//	passive: {resistance: {kind: fire, factor: 0.5}}
//	         {when_hit: {effect: <effect>, target: that_unit}} | {when_dies: ...}
//	filter:  any | this_unit | friendly | enemy | occupied | unoccupied
//	         {and: [...]} | {or: [...]}
//	amount:  all | {n: 2} | {up_to: 3}
//	cost:    2 | {derived: summon_cost}

type attackYAML struct {
	Damage int        `yaml:"damage"`
	Kind   DamageKind `yaml:"kind"`
	Mutual bool       `yaml:"mutual,omitempty"`
}

type effectYAML struct {
	Attack       *attackYAML `yaml:"attack,omitempty"`
	GrantAbility *Ability    `yaml:"grant_ability,omitempty"`
	Summon       *Card       `yaml:"summon,omitempty"`
	Multiple     *[]Effect   `yaml:"multiple,omitempty"`
	ChangeHP     *int        `yaml:"change_hp,omitempty"`
	ChangeEnergy *int        `yaml:"change_energy,omitempty"`
}

func (e Effect) MarshalYAML() (interface{}, error) {
	var y effectYAML
	switch e.Kind {
	case EffectAttack:
		y.Attack = &attackYAML{Damage: e.Damage, Kind: e.DamageKind, Mutual: e.Mutual}
	case EffectGrantAbility:
		y.GrantAbility = e.Ability
	case EffectSummon:
		y.Summon = e.Card
	case EffectMultiple:
		effects := e.Effects
		if effects == nil {
			effects = []Effect{}
		}
		y.Multiple = &effects
	case EffectChangeHP:
		y.ChangeHP = &e.Amount
	case EffectChangeEnergy:
		y.ChangeEnergy = &e.Amount
	case EffectDestroy:
		return "destroy", nil
	default:
		return nil, fmt.Errorf("unknown effect kind %d", int(e.Kind))
	}
	return y, nil
}

func (e *Effect) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		if n.Value == "destroy" {
			*e = Destroy()
			return nil
		}
		return fmt.Errorf("line %d: unknown effect %q", n.Line, n.Value)
	}
	if err := singleKey(n, "effect"); err != nil {
		return err
	}
	if n.Content[0].Value == "destroy" {
		*e = Destroy()
		return nil
	}
	var y effectYAML
	if err := n.Decode(&y); err != nil {
		return err
	}
	switch {
	case y.Attack != nil:
		*e = Effect{Kind: EffectAttack, Damage: y.Attack.Damage, DamageKind: y.Attack.Kind, Mutual: y.Attack.Mutual}
	case y.GrantAbility != nil:
		*e = GrantAbility(*y.GrantAbility)
	case y.Summon != nil:
		*e = Summon(*y.Summon)
	case y.Multiple != nil:
		*e = Multiple(*y.Multiple...)
	case y.ChangeHP != nil:
		*e = ChangeHP(*y.ChangeHP)
	case y.ChangeEnergy != nil:
		*e = ChangeEnergy(*y.ChangeEnergy)
	default:
		return fmt.Errorf("line %d: unknown effect %q", n.Line, n.Content[0].Value)
	}
	return nil
}

type resistanceYAML struct {
	Kind   DamageKind `yaml:"kind"`
	Factor float64    `yaml:"factor"`
}

type triggeredYAML struct {
	Effect Effect         `yaml:"effect"`
	Target ImplicitTarget `yaml:"target"`
}

type passiveYAML struct {
	Resistance *resistanceYAML `yaml:"resistance,omitempty"`
	WhenHit    *triggeredYAML  `yaml:"when_hit,omitempty"`
	WhenDies   *triggeredYAML  `yaml:"when_dies,omitempty"`
}

func (p PassiveEffect) MarshalYAML() (interface{}, error) {
	var y passiveYAML
	switch p.Kind {
	case PassiveResistance:
		y.Resistance = &resistanceYAML{Kind: p.DamageKind, Factor: p.Factor}
	case PassiveWhenHit, PassiveWhenDies:
		if p.Effect == nil {
			return nil, fmt.Errorf("%s without an effect", p.Kind)
		}
		t := &triggeredYAML{Effect: *p.Effect, Target: p.Target}
		if p.Kind == PassiveWhenHit {
			y.WhenHit = t
		} else {
			y.WhenDies = t
		}
	default:
		return nil, fmt.Errorf("unknown passive kind %d", int(p.Kind))
	}
	return y, nil
}

func (p *PassiveEffect) UnmarshalYAML(n *yaml.Node) error {
	if err := singleKey(n, "passive effect"); err != nil {
		return err
	}
	var y passiveYAML
	if err := n.Decode(&y); err != nil {
		return err
	}
	switch {
	case y.Resistance != nil:
		*p = Resistance(y.Resistance.Kind, y.Resistance.Factor)
	case y.WhenHit != nil:
		*p = WhenHit(y.WhenHit.Effect, y.WhenHit.Target)
	case y.WhenDies != nil:
		*p = WhenDies(y.WhenDies.Effect, y.WhenDies.Target)
	default:
		return fmt.Errorf("line %d: unknown passive effect %q", n.Line, n.Content[0].Value)
	}
	return nil
}

func (a *Ability) UnmarshalYAML(n *yaml.Node) error {
	type plain Ability
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	if (p.Activated == nil) == (p.Passive == nil) {
		return fmt.Errorf("line %d: ability must be exactly one of activated or passive", n.Line)
	}
	*a = Ability(p)
	return nil
}

func (f TargetFilter) MarshalYAML() (interface{}, error) {
	switch f.Kind {
	case FilterAnd, FilterOr:
		children := f.Children
		if children == nil {
			children = []TargetFilter{}
		}
		return map[string][]TargetFilter{f.Kind.String(): children}, nil
	}
	name, ok := filterNames[f.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown filter kind %d", int(f.Kind))
	}
	return name, nil
}

func (f *TargetFilter) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		for kind, name := range filterNames {
			if name == n.Value && kind != FilterAnd && kind != FilterOr {
				*f = TargetFilter{Kind: kind}
				return nil
			}
		}
		return fmt.Errorf("line %d: unknown filter %q", n.Line, n.Value)
	}
	if err := singleKey(n, "filter"); err != nil {
		return err
	}
	var kind FilterKind
	switch n.Content[0].Value {
	case "and":
		kind = FilterAnd
	case "or":
		kind = FilterOr
	default:
		return fmt.Errorf("line %d: unknown filter combinator %q", n.Line, n.Content[0].Value)
	}
	var children []TargetFilter
	if err := n.Content[1].Decode(&children); err != nil {
		return err
	}
	*f = TargetFilter{Kind: kind, Children: children}
	return nil
}

type amountYAML struct {
	N    *int `yaml:"n,omitempty"`
	UpTo *int `yaml:"up_to,omitempty"`
}

func (a TargetAmount) MarshalYAML() (interface{}, error) {
	switch a.Kind {
	case AmountAll:
		return "all", nil
	case AmountN:
		return amountYAML{N: &a.N}, nil
	case AmountUpToN:
		return amountYAML{UpTo: &a.N}, nil
	}
	return nil, fmt.Errorf("unknown amount kind %d", int(a.Kind))
}

func (a *TargetAmount) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		if n.Value == "all" {
			*a = TargetAmount{Kind: AmountAll}
			return nil
		}
		return fmt.Errorf("line %d: unknown amount %q", n.Line, n.Value)
	}
	if err := singleKey(n, "amount"); err != nil {
		return err
	}
	var y amountYAML
	if err := n.Decode(&y); err != nil {
		return err
	}
	switch {
	case y.N != nil:
		*a = TargetAmount{Kind: AmountN, N: *y.N}
	case y.UpTo != nil:
		*a = TargetAmount{Kind: AmountUpToN, N: *y.UpTo}
	default:
		return fmt.Errorf("line %d: unknown amount %q", n.Line, n.Content[0].Value)
	}
	return nil
}

func (c AbilityCost) MarshalYAML() (interface{}, error) {
	switch c.Kind {
	case CostStatic:
		return c.Static.Energy, nil
	case CostDerived:
		return map[string]Attribute{"derived": c.Attribute}, nil
	}
	return nil, fmt.Errorf("unknown cost kind %d", int(c.Kind))
}

func (c *AbilityCost) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		energy, err := strconv.Atoi(n.Value)
		if err != nil {
			return fmt.Errorf("line %d: cost must be an integer or {derived: attribute}: %w", n.Line, err)
		}
		*c = StaticCost(energy)
		return nil
	}
	var y struct {
		Derived *Attribute `yaml:"derived"`
	}
	if err := n.Decode(&y); err != nil {
		return err
	}
	if y.Derived == nil {
		return fmt.Errorf("line %d: cost must be an integer or {derived: attribute}", n.Line)
	}
	*c = DerivedCost(*y.Derived)
	return nil
}

func singleKey(n *yaml.Node, what string) error {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return fmt.Errorf("line %d: %s must be a mapping with exactly one key", n.Line, what)
	}
	return nil
}
