package game

import (
	"fmt"
	"sort"
)

// CardRegistry maps card names to their constructor functions.
var CardRegistry = map[string]func() Card{
	"Shrapnel Bot":      ShrapnelBot,
	"Charge Bot":        ChargeBot,
	"Support Bot":       SupportBot,
	"GIGABLASTER":       Gigablaster,
	"Self Destruct Bot": SelfDestructBot,
	"Protection Bot":    ProtectionBot,
	"Brawler Bot":       BrawlerBot,
	"Fire Drone":        FireDrone,
	"Medic Bot":         MedicBot,
	"Scrap Drone":       ScrapDrone,
	"Drone Bay":         DroneBay,
}

// LookupCard looks up a card by name and returns a new instance.
// Panics if the card is not found.
func LookupCard(name string) Card {
	c, ok := FindCard(name)
	if !ok {
		panic(fmt.Sprintf("card not found in registry: %q", name))
	}
	return c
}

// FindCard looks up a card by name.
func FindCard(name string) (Card, bool) {
	ctor, ok := CardRegistry[name]
	if !ok {
		return Card{}, false
	}
	return ctor(), true
}

// CardNames returns every registered card name, sorted.
func CardNames() []string {
	names := make([]string, 0, len(CardRegistry))
	for name := range CardRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuiltinDecks returns the sample decks that ship with the game.
func BuiltinDecks() map[string]Decklist {
	deck := func(name string, cards ...string) Decklist {
		d := Decklist{Name: name}
		for _, c := range cards {
			d.Cards = append(d.Cards, LookupCard(c))
		}
		return d
	}
	return map[string]Decklist{
		"aoe":         deck("aoe", "Shrapnel Bot", "Charge Bot", "Support Bot"),
		"gigablaster": deck("gigablaster", "GIGABLASTER", "Self Destruct Bot", "Protection Bot"),
		"skirmish":    deck("skirmish", "Brawler Bot", "Fire Drone", "Medic Bot", "Drone Bay"),
	}
}
