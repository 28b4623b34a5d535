package net

import (
	"errors"

	"go.uber.org/zap"
)

// ErrNotInMatch rejects requests from connections without a match, or
// naming a match they are not in.
var ErrNotInMatch = errors.New("not in a match")

// activate validates and runs one ability use. Rejections go only to the
// requester; an accepted activation is broadcast as its applied effects,
// the turn change, and the next player's regeneration.
func (s *Server) activate(p *peer, req *ActivateAbility) {
	sess := p.session
	if sess == nil || sess.match.ID != req.MatchID {
		s.send(p, NewError("%v", ErrNotInMatch))
		return
	}
	m := sess.match
	act, err := m.Activate(p.player, req.UnitLocation, req.AbilityIndex, req.Targets)
	if act == nil {
		s.send(p, NewError("%v", err))
		return
	}
	if err != nil {
		s.log.Warn("activation did not settle", zap.String("match", m.ID.String()), zap.Error(err))
	}

	msgs := effectMessages(m.ID, act.Batch)
	if act.Next != nil {
		msgs = append(msgs, NewTurnMessage(m.ID, act.Next.ID))
	}
	msgs = append(msgs, effectMessages(m.ID, act.Regen)...)
	s.broadcast(sess, msgs...)
}
