package game

import (
	"math"
	"strings"
	"testing"
)

func TestBuiltinCardsAreValid(t *testing.T) {
	for _, name := range CardNames() {
		if err := ValidateCard(LookupCard(name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	for name, deck := range BuiltinDecks() {
		if err := ValidateDecklist(deck); err != nil {
			t.Errorf("deck %s: %v", name, err)
		}
		if err := ValidateCard(DeckUnit(deck)); err != nil {
			t.Errorf("deck unit %s: %v", name, err)
		}
	}
}

func TestValidateCardReportsEveryProblem(t *testing.T) {
	bad := Card{
		Name:           "Broken",
		HP:             0,
		StartingEnergy: 5,
		MaxEnergy:      2,
		Abilities: []Ability{
			Activated(Attack(-1, DamageFire), DerivedCost(AttrHP), Exactly(0, Enemy)),
			Passive(Resistance(DamageFire, 0), ThisUnit),
			{},
			Activated(Multiple(), StaticCost(-2), UpTo(1, And())),
		},
	}
	err := ValidateCard(bad)
	if err == nil {
		t.Fatal("Expected validation errors")
	}
	for _, want := range []string{
		"hp must be positive",
		"starting energy 5 exceeds max energy 2",
		"attack damage must not be negative",
		"derived cost",
		"target amount must be positive",
		"resistance factor must be positive",
		"exactly one of activated or passive",
		"multiple has no effects",
		"negative static cost",
		"and filter needs at least one child",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected %q in:\n%v", want, err)
		}
	}
}

func TestValidateDepthLimit(t *testing.T) {
	c := vanillaBot("Nest", 1, 0, 0)
	for i := 0; i < MaxContentDepth; i++ {
		c = withAbilities(vanillaBot("Nest", 1, 0, 0), Activated(Summon(c), StaticCost(0), Exactly(1, Unoccupied)))
	}
	err := ValidateCard(c)
	if err == nil || !strings.Contains(err.Error(), "nested deeper") {
		t.Errorf("Expected a nesting error, got %v", err)
	}
}

func TestResolveCost(t *testing.T) {
	if got := StaticCost(4).Resolve(Destroy()); got.Energy != 4 {
		t.Errorf("Expected static cost 4, got %d", got.Energy)
	}
	bay := DroneBay().Abilities[0].Activated
	if got := bay.ResolvedCost(); got.Energy != ScrapDrone().Size {
		t.Errorf("Expected Drone Bay to pay the drone's size, got %d", got.Energy)
	}
	summon := BasicSummon(Gigablaster()).Activated
	if got := summon.ResolvedCost(); got.Energy != 0 {
		t.Errorf("Expected GIGABLASTER's summon cost of 0, got %d", got.Energy)
	}
}

func TestResolveDerivedCostPanicsOffSummon(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected a panic for a derived cost on an attack")
		}
	}()
	DerivedCost(AttrSize).Resolve(Attack(1, DamageFire))
}

func TestPriceCard(t *testing.T) {
	tests := []struct {
		name string
		card Card
		want float64
	}{
		// 3 + (6-4)*0.15 + (3-4)*0.15 + (1*0.5*1.3 - 2) + 0.3
		{"shrapnel", ShrapnelBot(), 2.1},
		// 3 + 0.15*(4-4) + 0.15*(0-4) + (-log2(0.5)) + 0.3
		{"armoured vanilla", withAbilities(vanillaBot("V", 4, 0, 0), Passive(Resistance(DamagePhysical, 0.5), ThisUnit)), 3.7},
		// wide filters cost more
		{"armour aura", withAbilities(vanillaBot("V", 4, 0, 0), Passive(Resistance(DamagePhysical, 0.5), Friendly)), 4.2},
		// 3 + 0 - 0.6 + (2*0.5*0.58 - 1) + 0.3
		{"single target", withAbilities(vanillaBot("V", 4, 0, 0), Activated(Attack(2, DamageFire), StaticCost(1), Exactly(1, Enemy))), 2.28},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PriceCard(tt.card); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Expected price %.4f, got %.4f", tt.want, got)
			}
		})
	}
}
