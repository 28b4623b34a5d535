package game

import (
	"fmt"

	"github.com/chrisjuchem/botgame/internal/log"
)

// Decklist is a named list of cards a player brings to a match.
type Decklist struct {
	Name  string `yaml:"name"`
	Cards []Card `yaml:"cards"`
}

// Stats of the deck unit each player starts with.
const (
	DeckUnitHP        = 20
	DeckUnitEnergy    = 3
	DeckUnitMaxEnergy = 10
)

// DeckUnit builds the card a player starts the match with: a unit that can
// summon each card of the decklist for that card's summon cost.
func DeckUnit(d Decklist) Card {
	name := d.Name
	if name == "" {
		name = "Deck"
	}
	c := Card{
		Name:           name,
		HP:             DeckUnitHP,
		StartingEnergy: DeckUnitEnergy,
		MaxEnergy:      DeckUnitMaxEnergy,
	}
	for _, card := range d.Cards {
		c.Abilities = append(c.Abilities, BasicSummon(card))
	}
	return c
}

// HomeCell is where a player's deck unit is placed: the front row, centre
// column.
func (m *Match) HomeCell(player PlayerID) GridLocation {
	return GridLocation{Coord: Coord{X: 0, Y: m.Cols / 2}, Owner: player}
}

// Start summons both players' deck units through the effect engine and gives
// the first turn to the first player, without energy regeneration. The
// returned batch holds the summons to broadcast.
func (m *Match) Start() (*Batch, error) {
	m.log(log.NewMatchStartEvent(m.ID.String()[:8], m.Players[0].Label(), m.Players[1].Label()))
	var seed []WorkItem
	for _, p := range m.Players {
		seed = append(seed, WorkItem{Effect: Summon(DeckUnit(p.Deck)), Targets: []GridLocation{m.HomeCell(p.ID)}})
	}
	batch, err := m.Resolve(seed...)
	if err != nil {
		return batch, fmt.Errorf("start match: %w", err)
	}
	if err := m.SetTurn(m.Players[0].ID); err != nil {
		return batch, err
	}
	return batch, nil
}

// End clears the board and every turn flag.
func (m *Match) End(reason string) {
	for _, u := range m.Units() {
		m.remove(u)
	}
	for _, p := range m.Players {
		p.CurrentTurn = false
	}
	m.log(log.NewMatchEndEvent(m.Turn, reason))
}
