package game

import (
	"fmt"

	"github.com/chrisjuchem/botgame/internal/log"
)

// SetTurn gives the turn to the player, clearing every other flag. It does
// not regenerate energy; replicas use it to mirror NewTurn messages.
func (m *Match) SetTurn(next PlayerID) error {
	p := m.Player(next)
	if p == nil {
		return fmt.Errorf("player %s is not in match %s", next.Short(), m.ID)
	}
	for _, other := range m.Players {
		other.CurrentTurn = false
	}
	p.CurrentTurn = true
	m.Turn++
	m.log(log.NewTurnEvent(m.Turn, p.Label()))
	return nil
}

// AdvanceTurn passes the turn to the opponent of the current player and
// regenerates energy for each of the new player's units. The regen batch is
// returned so its effects can be broadcast.
func (m *Match) AdvanceTurn() (*Player, *Batch, error) {
	cur := m.CurrentPlayer()
	if cur == nil {
		return nil, nil, fmt.Errorf("match %s: no player holds the turn", m.ID)
	}
	next := m.Opponent(cur.ID)
	if err := m.SetTurn(next.ID); err != nil {
		return nil, nil, err
	}
	batch, err := m.Regenerate(next.ID)
	return next, batch, err
}

// Regenerate gives each of the player's units EnergyRegen energy through the
// effect engine.
func (m *Match) Regenerate(player PlayerID) (*Batch, error) {
	var targets []GridLocation
	for _, u := range m.UnitsOf(player) {
		targets = append(targets, u.Location)
	}
	if len(targets) == 0 {
		return &Batch{}, nil
	}
	return m.Resolve(WorkItem{Effect: ChangeEnergy(m.EnergyRegen), Targets: targets})
}
