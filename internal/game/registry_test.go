package game

import "testing"

func TestRegistryNamesMatchCards(t *testing.T) {
	for _, name := range CardNames() {
		if got := LookupCard(name).Name; got != name {
			t.Errorf("Registry key %q builds card %q", name, got)
		}
	}
	if _, ok := FindCard("Nope"); ok {
		t.Error("Expected an unknown card to be missing")
	}
}

func TestLookupCardPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected LookupCard to panic for an unknown card")
		}
	}()
	LookupCard("Nope")
}

func TestCardsAreIndependentCopies(t *testing.T) {
	a := LookupCard("Protection Bot")
	a.Abilities[0].Activated.Effect.Amount = 99
	if b := LookupCard("Protection Bot"); b.Abilities[0].Activated.Effect.Amount != 5 {
		t.Error("Expected each lookup to build a fresh card")
	}
}
