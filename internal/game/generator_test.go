package game

import (
	"math/rand/v2"
	"reflect"
	"testing"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestRandomCardsAreValid(t *testing.T) {
	r := seeded(7)
	for i := 0; i < 500; i++ {
		c := RandomCard(r)
		if err := ValidateCard(c); err != nil {
			t.Fatalf("Card %d (%s) is invalid: %v", i, c.Name, err)
		}
		if c.SummonCost < 0 || c.SummonCost > DeckUnitMaxEnergy {
			t.Errorf("Expected %s to be affordable, summon cost %d", c.Name, c.SummonCost)
		}
		if len(c.Abilities) < 2 || !c.Abilities[0].IsActivated() {
			t.Errorf("Expected %s to lead with an attack and have a resistance, got %d abilities", c.Name, len(c.Abilities))
		}
		for _, a := range c.Abilities {
			if a.Activated != nil && a.Activated.Cost.Static.Energy > c.MaxEnergy {
				t.Errorf("Expected %s to hold enough energy for %s", c.Name, a.Text())
			}
		}
	}
}

func TestRandomCardIsDeterministicPerSeed(t *testing.T) {
	a, b := RandomCard(seeded(42)), RandomCard(seeded(42))
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Expected equal cards for one seed, got %s and %s", a.Name, b.Name)
	}
	if reflect.DeepEqual(a, RandomCard(seeded(43))) {
		t.Error("Expected a different card for another seed")
	}
}

func TestRandomDeck(t *testing.T) {
	d := RandomDeck(seeded(1), "random", 4)
	if d.Name != "random" || len(d.Cards) != 4 {
		t.Fatalf("Expected 4 cards named random, got %d named %q", len(d.Cards), d.Name)
	}
	if err := ValidateDecklist(d); err != nil {
		t.Errorf("Random deck is invalid: %v", err)
	}

	// Marshalled random decks load back unchanged.
	data, err := MarshalDecklist(d)
	if err != nil {
		t.Fatal(err)
	}
	back, err := UnmarshalDecklist(data)
	if err != nil {
		t.Fatalf("Reload failed: %v\n%s", err, data)
	}
	if len(back.Cards) != len(d.Cards) {
		t.Fatalf("Expected %d cards, got %d", len(d.Cards), len(back.Cards))
	}
	for i := range d.Cards {
		if got, want := back.Cards[i].Text(), d.Cards[i].Text(); got != want {
			t.Errorf("Card %d changed.\nwant:\n%s\ngot:\n%s", i, want, got)
		}
	}

	for seed := uint64(0); seed < 20; seed++ {
		n := len(RandomDeck(seeded(seed), "any", 0).Cards)
		if n < 3 || n > 5 {
			t.Errorf("Expected 3 to 5 cards by default, got %d", n)
		}
	}
}

func TestRollLogRange(t *testing.T) {
	r := seeded(3)
	counts := make(map[int]int)
	for i := 0; i < 4000; i++ {
		v := rollLog(r, 4)
		if v < 1 || v > 4 {
			t.Fatalf("rollLog out of range: %d", v)
		}
		counts[v]++
	}
	if counts[1] <= counts[2] || counts[2] <= counts[4] {
		t.Errorf("Expected smaller values to be more common, got %v", counts)
	}
}
