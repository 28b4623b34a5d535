package game

import (
	"errors"
	"fmt"

	"github.com/chrisjuchem/botgame/internal/log"
)

// Activation rejections, in the order they are checked.
var (
	ErrNotYourTurn     = errors.New("not your turn")
	ErrNoUnit          = errors.New("no unit there")
	ErrNoSuchAbility   = errors.New("no such ability")
	ErrAbilityPassive  = errors.New("ability is passive")
	ErrNotEnoughEnergy = errors.New("not enough energy")
)

// Activation is an accepted ability use and everything it caused.
type Activation struct {
	Unit  *Unit
	Cost  Cost
	Batch *Batch // energy payment, the ability's effect, and all cascades
	Next  *Player
	Regen *Batch // the next player's energy regeneration
}

// Applied returns every primitive effect of the activation in broadcast
// order, excluding regeneration.
func (a *Activation) Applied() []WorkItem {
	if a.Batch == nil {
		return nil
	}
	return a.Batch.Applied
}

// CheckActivation validates a request without changing any state.
func (m *Match) CheckActivation(player PlayerID, at GridLocation, index int, targets []GridLocation) (*Unit, Cost, error) {
	p := m.Player(player)
	if p == nil || !p.CurrentTurn {
		return nil, Cost{}, ErrNotYourTurn
	}
	u := m.UnitAt(at)
	if u == nil || at.Owner != player {
		return nil, Cost{}, ErrNoUnit
	}
	if index < 0 || index >= len(u.Abilities) {
		return nil, Cost{}, fmt.Errorf("%w: %s has %d abilities", ErrNoSuchAbility, u.Name, len(u.Abilities))
	}
	ability := u.Abilities[index].Activated
	if ability == nil {
		return nil, Cost{}, ErrAbilityPassive
	}
	cost := ability.ResolvedCost()
	if u.Energy < cost.Energy {
		return nil, Cost{}, fmt.Errorf("%w: %s has %d, needs %d", ErrNotEnoughEnergy, u.Name, u.Energy, cost.Energy)
	}
	if err := ability.Targets.Validate(m, at, targets); err != nil {
		return nil, Cost{}, err
	}
	return u, cost, nil
}

// Activate validates and performs an ability use: the unit pays the cost,
// the effect resolves against the targets, and the turn passes.
func (m *Match) Activate(player PlayerID, at GridLocation, index int, targets []GridLocation) (*Activation, error) {
	u, cost, err := m.CheckActivation(player, at, index, targets)
	if err != nil {
		m.log(log.NewRejectedEvent(m.Turn, m.label(player), err.Error()))
		return nil, err
	}
	effect := u.Abilities[index].Activated.Effect.Clone()
	m.log(log.NewActivateEvent(m.Turn, m.label(player), u.Name, index, cost.Energy, len(targets)))

	src := at
	act := &Activation{Unit: u, Cost: cost}
	act.Batch, err = m.Resolve(
		WorkItem{Effect: ChangeEnergy(-cost.Energy), Targets: []GridLocation{at}, Source: &src},
		WorkItem{Effect: effect, Targets: targets, Source: &src},
	)
	// A runaway batch still ends the turn so the match cannot stall.
	var turnErr error
	act.Next, act.Regen, turnErr = m.AdvanceTurn()
	return act, errors.Join(err, turnErr)
}
