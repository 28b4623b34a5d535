package net

import (
	"go.uber.org/zap"

	"github.com/chrisjuchem/botgame/internal/game"
	"github.com/chrisjuchem/botgame/internal/log"
)

// Protocol error texts clients may match on.
const (
	MsgAlreadyQueued        = "already in queue"
	MsgAlreadyInMatch       = "already in a match"
	MsgOpponentDisconnected = "opponent disconnected"
)

func (s *Server) join(p *peer, req *JoinMatchmakingQueue) {
	switch {
	case p.session != nil:
		s.send(p, NewError(MsgAlreadyInMatch))
		return
	case p.queued:
		s.send(p, NewError(MsgAlreadyQueued))
		return
	}
	if err := game.ValidateDecklist(req.Decklist); err != nil {
		s.send(p, NewError("invalid deck: %v", err))
		return
	}
	p.name = req.PlayerName
	p.deck = req.Decklist
	p.queued = true
	s.queue = append(s.queue, p)
	s.log.Info("player queued", zap.Uint64("peer", p.id), zap.String("name", p.name), zap.String("deck", p.deck.Name))
}

func (s *Server) unqueue(p *peer) {
	if !p.queued {
		return
	}
	p.queued = false
	for i, q := range s.queue {
		if q == p {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}

// matchmake pairs queued players first come, first served.
func (s *Server) matchmake() {
	for len(s.queue) >= 2 {
		a, b := s.queue[0], s.queue[1]
		s.queue = s.queue[2:]
		a.queued, b.queued = false, false
		s.startMatch(a, b)
	}
}

// startMatch tells both players about the match, then runs the opening
// summons and hands the first turn to the player who queued first.
func (s *Server) startMatch(a, b *peer) {
	id := game.NewMatchID()
	players := [2]*game.Player{
		{ID: game.NewPlayerID(), Name: a.name, Deck: a.deck},
		{ID: game.NewPlayerID(), Name: b.name, Deck: b.deck},
	}
	a.player, b.player = players[0].ID, players[1].ID

	cfg := s.cfg.Rules
	cfg.Logger = log.NewZapLogger(s.log.With(zap.String("match", id.String())))
	m := game.NewMatch(id, players[0], players[1], cfg)
	sess := &session{match: m, peers: [2]*peer{a, b}}
	s.matches[id] = sess
	a.session, b.session = sess, sess
	s.log.Info("match started", zap.String("match", id.String()), zap.String("p1", a.name), zap.String("p2", b.name))

	info := MatchStarted{MatchID: id, Rows: m.Rows, Cols: m.Cols}
	for _, p := range players {
		info.Players = append(info.Players, PlayerInfo{ID: p.ID, Name: p.Name, Decklist: p.Deck})
	}
	for _, p := range sess.peers {
		info.You = p.player
		s.send(p, NewMatchStarted(info))
	}

	batch, err := m.Start()
	if err != nil {
		s.log.Error("match start did not settle", zap.String("match", id.String()), zap.Error(err))
	}
	msgs := effectMessages(id, batch)
	if cur := m.CurrentPlayer(); cur != nil {
		msgs = append(msgs, NewTurnMessage(id, cur.ID))
	}
	s.broadcast(sess, msgs...)
}
