package game

import (
	"fmt"

	"github.com/google/uuid"
)

// --- Identifiers ---

// MatchID identifies one match on a server.
type MatchID uuid.UUID

func NewMatchID() MatchID { return MatchID(uuid.New()) }

func (id MatchID) String() string { return uuid.UUID(id).String() }

// PlayerID identifies a player for the lifetime of a match.
type PlayerID uuid.UUID

func NewPlayerID() PlayerID { return PlayerID(uuid.New()) }

func (id PlayerID) String() string { return uuid.UUID(id).String() }

// Short returns the first 8 hex digits, for logs and prompts.
func (id PlayerID) Short() string { return id.String()[:8] }

// UnitID is a per-match, monotonically increasing unit identifier.
type UnitID int

// --- Grid ---

// Coord addresses a cell on one player's half of the board.
// X is the row (0 = front row), Y is the column.
type Coord struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// GridLocation is the addressable unit of targeting.
type GridLocation struct {
	Coord Coord
	Owner PlayerID
}

func (l GridLocation) String() string {
	return fmt.Sprintf("%s@%s", l.Coord, l.Owner.Short())
}

const (
	DefaultGridRows = 2
	DefaultGridCols = 5
)

// --- Enums ---

type DamageKind int

const (
	DamagePhysical DamageKind = iota
	DamageExplosion
	DamageFire
	DamageElectrical
)

func (k DamageKind) String() string {
	switch k {
	case DamagePhysical:
		return "physical"
	case DamageExplosion:
		return "explosion"
	case DamageFire:
		return "fire"
	case DamageElectrical:
		return "electrical"
	default:
		return "unknown"
	}
}

func (k DamageKind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("invalid damage kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *DamageKind) UnmarshalText(b []byte) error {
	for _, c := range []DamageKind{DamagePhysical, DamageExplosion, DamageFire, DamageElectrical} {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown damage kind %q", b)
}

func (k DamageKind) valid() bool { return k >= DamagePhysical && k <= DamageElectrical }

// ImplicitTarget selects who a triggered passive effect lands on.
type ImplicitTarget int

const (
	TargetThisUnit ImplicitTarget = iota // the ability's owner
	TargetThatUnit                       // the unit that triggered it
)

func (t ImplicitTarget) String() string {
	switch t {
	case TargetThisUnit:
		return "this unit"
	case TargetThatUnit:
		return "that unit"
	default:
		return "unknown"
	}
}

func (t ImplicitTarget) MarshalText() ([]byte, error) {
	switch t {
	case TargetThisUnit:
		return []byte("this_unit"), nil
	case TargetThatUnit:
		return []byte("that_unit"), nil
	}
	return nil, fmt.Errorf("invalid implicit target %d", int(t))
}

func (t *ImplicitTarget) UnmarshalText(b []byte) error {
	switch string(b) {
	case "this_unit", "this":
		*t = TargetThisUnit
	case "that_unit", "that":
		*t = TargetThatUnit
	default:
		return fmt.Errorf("unknown implicit target %q", b)
	}
	return nil
}

// Attribute names a field of a summoned card that a derived cost reads.
type Attribute int

const (
	AttrHP Attribute = iota
	AttrSummonCost
	AttrSize
)

func (a Attribute) String() string {
	switch a {
	case AttrHP:
		return "hp"
	case AttrSummonCost:
		return "summon_cost"
	case AttrSize:
		return "size"
	default:
		return "unknown"
	}
}

func (a Attribute) MarshalText() ([]byte, error) {
	if a < AttrHP || a > AttrSize {
		return nil, fmt.Errorf("invalid attribute %d", int(a))
	}
	return []byte(a.String()), nil
}

func (a *Attribute) UnmarshalText(b []byte) error {
	for _, c := range []Attribute{AttrHP, AttrSummonCost, AttrSize} {
		if c.String() == string(b) {
			*a = c
			return nil
		}
	}
	return fmt.Errorf("unknown attribute %q", b)
}

type EffectKind int

const (
	EffectAttack EffectKind = iota
	EffectGrantAbility
	EffectSummon
	EffectMultiple
	EffectChangeHP
	EffectChangeEnergy
	EffectDestroy
)

func (k EffectKind) String() string {
	switch k {
	case EffectAttack:
		return "Attack"
	case EffectGrantAbility:
		return "GrantAbility"
	case EffectSummon:
		return "SummonCard"
	case EffectMultiple:
		return "MultipleEffects"
	case EffectChangeHP:
		return "ChangeHp"
	case EffectChangeEnergy:
		return "ChangeEnergy"
	case EffectDestroy:
		return "DestroyCard"
	default:
		return "Unknown"
	}
}

type PassiveKind int

const (
	PassiveResistance PassiveKind = iota
	PassiveWhenHit
	PassiveWhenDies
)

func (k PassiveKind) String() string {
	switch k {
	case PassiveResistance:
		return "DamageResistance"
	case PassiveWhenHit:
		return "WhenHit"
	case PassiveWhenDies:
		return "WhenDies"
	default:
		return "Unknown"
	}
}

type FilterKind int

const (
	FilterAny FilterKind = iota
	FilterThisUnit
	FilterFriendly
	FilterEnemy
	FilterOccupied
	FilterUnoccupied
	FilterAnd
	FilterOr
)

var filterNames = map[FilterKind]string{
	FilterAny:        "any",
	FilterThisUnit:   "this_unit",
	FilterFriendly:   "friendly",
	FilterEnemy:      "enemy",
	FilterOccupied:   "occupied",
	FilterUnoccupied: "unoccupied",
	FilterAnd:        "and",
	FilterOr:         "or",
}

func (k FilterKind) String() string {
	if s, ok := filterNames[k]; ok {
		return s
	}
	return "unknown"
}

type AmountKind int

const (
	AmountAll AmountKind = iota
	AmountN
	AmountUpToN
)

func (k AmountKind) String() string {
	switch k {
	case AmountAll:
		return "All"
	case AmountN:
		return "N"
	case AmountUpToN:
		return "UpToN"
	default:
		return "Unknown"
	}
}
