package game

import (
	"testing"

	"github.com/chrisjuchem/botgame/internal/log"
)

// testMatch is an empty 2x5 match with P1 holding the turn.
type testMatch struct {
	*Match
	logger *log.MemoryLogger
	p0, p1 *Player
}

func newTestMatch(t *testing.T) *testMatch {
	t.Helper()
	return newTestMatchWith(t, MatchConfig{})
}

func newTestMatchWith(t *testing.T, cfg MatchConfig) *testMatch {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	p0 := &Player{ID: NewPlayerID(), Name: "P1"}
	p1 := &Player{ID: NewPlayerID(), Name: "P2"}
	m := NewMatch(NewMatchID(), p0, p1, cfg)
	if err := m.SetTurn(p0.ID); err != nil {
		t.Fatalf("SetTurn: %v", err)
	}
	t.Cleanup(func() {
		if t.Failed() {
			t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
		}
	})
	return &testMatch{Match: m, logger: logger, p0: p0, p1: p1}
}

// place spawns a card directly, bypassing the engine.
func (tm *testMatch) place(t *testing.T, card Card, owner *Player, x, y int) *Unit {
	t.Helper()
	u := tm.spawn(card, cell(owner, x, y))
	if u == nil {
		t.Fatalf("could not place %s at (%d,%d)", card.Name, x, y)
	}
	return u
}

func cell(owner *Player, x, y int) GridLocation {
	return GridLocation{Coord: Coord{X: x, Y: y}, Owner: owner.ID}
}

func ptr(loc GridLocation) *GridLocation {
	return &loc
}

// vanillaBot is a unit with no abilities.
func vanillaBot(name string, hp, energy, maxEnergy int) Card {
	return Card{Name: name, Size: 1, SummonCost: 1, HP: hp, StartingEnergy: energy, MaxEnergy: maxEnergy}
}

func withAbilities(c Card, abilities ...Ability) Card {
	c.Abilities = append(c.Abilities, abilities...)
	return c
}

func mustResolve(t *testing.T, m *Match, items ...WorkItem) *Batch {
	t.Helper()
	b, err := m.Resolve(items...)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return b
}

func expectHP(t *testing.T, u *Unit, hp int) {
	t.Helper()
	if u.HP != hp {
		t.Errorf("Expected %s to have %d HP, got %d", u.Name, hp, u.HP)
	}
}

func expectEnergy(t *testing.T, u *Unit, energy int) {
	t.Helper()
	if u.Energy != energy {
		t.Errorf("Expected %s to have %d energy, got %d", u.Name, energy, u.Energy)
	}
}

func expectGone(t *testing.T, m *Match, u *Unit) {
	t.Helper()
	if m.UnitByID(u.ID) != nil {
		t.Errorf("Expected %s to be destroyed", u.Name)
	}
	if m.UnitAt(u.Location) == u {
		t.Errorf("Expected %s's cell to be cleared", u.Name)
	}
}
