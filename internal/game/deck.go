package game

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DeckFile represents the top-level YAML structure.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry represents a single deck in the YAML file.
type DeckEntry struct {
	Name  string      `yaml:"name"`
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry is either a reference to a registered card by name, or an
// inline card definition. Count defaults to 1.
type CardEntry struct {
	Name  string `yaml:"name,omitempty"`
	Count int    `yaml:"count,omitempty"`
	Card  *Card  `yaml:"card,omitempty"`
}

// Decklist resolves the entry's card references and validates the result.
func (d DeckEntry) Decklist() (Decklist, error) {
	deck := Decklist{Name: d.Name}
	for i, entry := range d.Cards {
		var card Card
		switch {
		case entry.Card != nil:
			card = *entry.Card
		case entry.Name != "":
			c, ok := FindCard(entry.Name)
			if !ok {
				return Decklist{}, fmt.Errorf("deck %q card %d: unknown card %q", d.Name, i, entry.Name)
			}
			card = c
		default:
			return Decklist{}, fmt.Errorf("deck %q card %d: needs a name or an inline card", d.Name, i)
		}
		count := entry.Count
		if count == 0 {
			count = 1
		}
		for j := 0; j < count; j++ {
			deck.Cards = append(deck.Cards, card.Clone())
		}
	}
	if err := ValidateDecklist(deck); err != nil {
		return Decklist{}, fmt.Errorf("deck %q: %w", d.Name, err)
	}
	return deck, nil
}

// ParseDecks parses a YAML deck document and returns a map of deck name → decklist.
func ParseDecks(data []byte) (map[string]Decklist, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}

	decks := make(map[string]Decklist)
	for _, entry := range df.Decks {
		if _, dup := decks[entry.Name]; dup {
			return nil, fmt.Errorf("deck %q defined twice", entry.Name)
		}
		deck, err := entry.Decklist()
		if err != nil {
			return nil, err
		}
		decks[entry.Name] = deck
	}
	return decks, nil
}

// ParseDeckFile parses a YAML deck file.
func ParseDeckFile(path string) (map[string]Decklist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDecks(data)
}

// DeckByName returns one deck from a deck file.
func DeckByName(path, name string) (Decklist, error) {
	decks, err := ParseDeckFile(path)
	if err != nil {
		return Decklist{}, err
	}
	d, ok := decks[name]
	if !ok {
		return Decklist{}, fmt.Errorf("deck %q not found (have %v)", name, DeckNames(decks))
	}
	return d, nil
}

// DeckNames returns the sorted names of a deck map.
func DeckNames(decks map[string]Decklist) []string {
	names := make([]string, 0, len(decks))
	for name := range decks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MarshalDecklist writes a deck as a one-deck YAML document with every card
// inlined, so it round-trips without the registry.
func MarshalDecklist(d Decklist) ([]byte, error) {
	entry := DeckEntry{Name: d.Name}
	for i := range d.Cards {
		entry.Cards = append(entry.Cards, CardEntry{Card: &d.Cards[i]})
	}
	return yaml.Marshal(DeckFile{Decks: []DeckEntry{entry}})
}

// UnmarshalDecklist reads a document written by MarshalDecklist.
func UnmarshalDecklist(data []byte) (Decklist, error) {
	decks, err := ParseDecks(data)
	if err != nil {
		return Decklist{}, err
	}
	if len(decks) != 1 {
		return Decklist{}, fmt.Errorf("expected exactly one deck, found %d", len(decks))
	}
	for _, d := range decks {
		return d, nil
	}
	return Decklist{}, nil
}

// ParseCard reads and validates a single card definition.
func ParseCard(data []byte) (Card, error) {
	var c Card
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Card{}, fmt.Errorf("parse card: %w", err)
	}
	if err := ValidateCard(c); err != nil {
		return Card{}, err
	}
	return c, nil
}
