package game

import (
	"errors"
	"fmt"
)

// ErrInvalidTargets is wrapped by every targeting rejection.
var ErrInvalidTargets = errors.New("invalid targets")

// Matches evaluates the filter for one cell, with source as the acting unit's
// location.
func (f TargetFilter) Matches(b Board, cell, source GridLocation) bool {
	switch f.Kind {
	case FilterAny:
		return true
	case FilterThisUnit:
		u := b.UnitAt(cell)
		return u != nil && u.Location == source
	case FilterFriendly:
		return cell.Owner == source.Owner
	case FilterEnemy:
		return cell.Owner != source.Owner
	case FilterOccupied:
		return b.UnitAt(cell) != nil
	case FilterUnoccupied:
		return b.UnitAt(cell) == nil
	case FilterAnd:
		for _, c := range f.Children {
			if !c.Matches(b, cell, source) {
				return false
			}
		}
		return true
	case FilterOr:
		for _, c := range f.Children {
			if c.Matches(b, cell, source) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Validate checks a candidate target set against the rules. Every cell of
// every player's grid is evaluated: total counts the cells passing the
// filter, targeted counts the distinct candidates that pass. Any candidate
// failing the filter, any duplicate and any candidate off the board rejects.
func (r TargetRules) Validate(b Board, source GridLocation, targets []GridLocation) error {
	wanted := make(map[GridLocation]bool, len(targets))
	for _, t := range targets {
		wanted[t] = true
	}

	total, targeted := 0, 0
	for _, cell := range allCells(b) {
		valid := r.Filter.Matches(b, cell, source)
		if valid {
			total++
		}
		if wanted[cell] {
			if !valid {
				return fmt.Errorf("%w: %s does not match %s", ErrInvalidTargets, cell, r.Filter.Text())
			}
			targeted++
		}
	}

	if targeted != len(targets) {
		return fmt.Errorf("%w: %d of %d targets are distinct cells on the board", ErrInvalidTargets, targeted, len(targets))
	}
	return r.Amount.check(targeted, total)
}

// Valid is Validate as a predicate.
func (r TargetRules) Valid(b Board, source GridLocation, targets []GridLocation) bool {
	return r.Validate(b, source, targets) == nil
}

func (a TargetAmount) check(targeted, total int) error {
	switch a.Kind {
	case AmountN:
		if targeted != a.N {
			return fmt.Errorf("%w: need exactly %d, got %d", ErrInvalidTargets, a.N, targeted)
		}
	case AmountUpToN:
		if targeted > a.N {
			return fmt.Errorf("%w: need at most %d, got %d", ErrInvalidTargets, a.N, targeted)
		}
	case AmountAll:
		if targeted != total {
			return fmt.Errorf("%w: need all %d valid cells, got %d", ErrInvalidTargets, total, targeted)
		}
	default:
		return fmt.Errorf("%w: unknown amount kind %d", ErrInvalidTargets, int(a.Kind))
	}
	return nil
}

// AllValid returns every cell currently passing the filter, in board order.
// For All rules this is the only target set that validates.
func (r TargetRules) AllValid(b Board, source GridLocation) []GridLocation {
	var cells []GridLocation
	for _, cell := range allCells(b) {
		if r.Filter.Matches(b, cell, source) {
			cells = append(cells, cell)
		}
	}
	return cells
}
