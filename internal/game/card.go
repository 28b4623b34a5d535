package game

// Card is an immutable unit template. Summoning deep-clones it into a Unit.
type Card struct {
	Name           string    `yaml:"name"`
	Size           int       `yaml:"size,omitempty"`
	SummonCost     int       `yaml:"summon_cost"`
	HP             int       `yaml:"hp"`
	StartingEnergy int       `yaml:"starting_energy"`
	MaxEnergy      int       `yaml:"max_energy"`
	Abilities      []Ability `yaml:"abilities,omitempty"`
}

// Clone returns a deep copy of the card.
func (c Card) Clone() Card {
	out := c
	if c.Abilities != nil {
		out.Abilities = make([]Ability, len(c.Abilities))
		for i, a := range c.Abilities {
			out.Abilities[i] = a.Clone()
		}
	}
	return out
}

// Ability is exactly one of Activated or Passive.
type Ability struct {
	Activated *ActivatedAbility `yaml:"activated,omitempty"`
	Passive   *PassiveAbility   `yaml:"passive,omitempty"`
}

// ActivatedAbility is paid for with energy and aimed by the acting player.
type ActivatedAbility struct {
	Effect  Effect      `yaml:"effect"`
	Cost    AbilityCost `yaml:"cost"`
	Targets TargetRules `yaml:"targets"`
}

// PassiveAbility is always on. Filter selects the cells it watches,
// evaluated with the owning unit as the source.
type PassiveAbility struct {
	Effect PassiveEffect `yaml:"effect"`
	Filter TargetFilter  `yaml:"filter"`
}

func Activated(effect Effect, cost AbilityCost, targets TargetRules) Ability {
	return Ability{Activated: &ActivatedAbility{Effect: effect, Cost: cost, Targets: targets}}
}

func Passive(effect PassiveEffect, filter TargetFilter) Ability {
	return Ability{Passive: &PassiveAbility{Effect: effect, Filter: filter}}
}

// IsActivated reports whether the ability can be activated by a player.
func (a Ability) IsActivated() bool { return a.Activated != nil }

func (a Ability) Clone() Ability {
	var out Ability
	if a.Activated != nil {
		act := *a.Activated
		act.Effect = a.Activated.Effect.Clone()
		act.Targets = a.Activated.Targets.Clone()
		out.Activated = &act
	}
	if a.Passive != nil {
		p := *a.Passive
		p.Effect = a.Passive.Effect.Clone()
		p.Filter = a.Passive.Filter.Clone()
		out.Passive = &p
	}
	return out
}

// BasicSummon is the ability a deck unit uses to put a card onto the board:
// pay the card's summon cost, target one open friendly cell.
func BasicSummon(card Card) Ability {
	return Activated(
		Summon(card),
		DerivedCost(AttrSummonCost),
		Exactly(1, And(Friendly, Unoccupied)),
	)
}

// --- Costs ---

// Cost is a resolved energy price.
type Cost struct {
	Energy int
}

var Free = Cost{}

type CostKind int

const (
	CostStatic CostKind = iota
	CostDerived
)

// AbilityCost is either a fixed Cost or derived from an attribute of the
// ability's own effect payload.
type AbilityCost struct {
	Kind      CostKind
	Static    Cost
	Attribute Attribute
}

func StaticCost(energy int) AbilityCost {
	return AbilityCost{Kind: CostStatic, Static: Cost{Energy: energy}}
}

func DerivedCost(attr Attribute) AbilityCost {
	return AbilityCost{Kind: CostDerived, Attribute: attr}
}

// --- Targeting ---

// TargetRules combines a cardinality constraint with a cell filter.
type TargetRules struct {
	Amount TargetAmount `yaml:"amount"`
	Filter TargetFilter `yaml:"filter"`
}

func (r TargetRules) Clone() TargetRules {
	return TargetRules{Amount: r.Amount, Filter: r.Filter.Clone()}
}

type TargetAmount struct {
	Kind AmountKind
	N    int
}

func All(filter TargetFilter) TargetRules {
	return TargetRules{Amount: TargetAmount{Kind: AmountAll}, Filter: filter}
}

func Exactly(n int, filter TargetFilter) TargetRules {
	return TargetRules{Amount: TargetAmount{Kind: AmountN, N: n}, Filter: filter}
}

func UpTo(n int, filter TargetFilter) TargetRules {
	return TargetRules{Amount: TargetAmount{Kind: AmountUpToN, N: n}, Filter: filter}
}

// TargetFilter is a predicate tree evaluated per grid cell.
// Children are only meaningful for FilterAnd and FilterOr.
type TargetFilter struct {
	Kind     FilterKind
	Children []TargetFilter
}

var (
	AnyCell    = TargetFilter{Kind: FilterAny}
	ThisUnit   = TargetFilter{Kind: FilterThisUnit}
	Friendly   = TargetFilter{Kind: FilterFriendly}
	Enemy      = TargetFilter{Kind: FilterEnemy}
	Occupied   = TargetFilter{Kind: FilterOccupied}
	Unoccupied = TargetFilter{Kind: FilterUnoccupied}
)

func And(children ...TargetFilter) TargetFilter {
	return TargetFilter{Kind: FilterAnd, Children: children}
}

func Or(children ...TargetFilter) TargetFilter {
	return TargetFilter{Kind: FilterOr, Children: children}
}

func (f TargetFilter) Clone() TargetFilter {
	out := TargetFilter{Kind: f.Kind}
	if f.Children != nil {
		out.Children = make([]TargetFilter, len(f.Children))
		for i, c := range f.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}
