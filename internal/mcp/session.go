package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/chrisjuchem/botgame/internal/game"
	botnet "github.com/chrisjuchem/botgame/internal/net"
)

// UnitView is one unit as presented in tool responses.
type UnitView struct {
	Cell      string   `json:"cell"` // me:x,y or op:x,y, the syntax activate_ability takes
	Name      string   `json:"name"`
	HP        int      `json:"hp"`
	Energy    int      `json:"energy"`
	MaxEnergy int      `json:"max_energy"`
	Abilities []string `json:"abilities,omitempty"`
}

// StateView is the match as the session's player sees it.
type StateView struct {
	Turn     int        `json:"turn"`
	YourTurn bool       `json:"your_turn"`
	Yours    []UnitView `json:"yours"`
	Theirs   []UnitView `json:"theirs"`
	Board    string     `json:"board"`
}

// ToolResponse is the JSON envelope returned by the match tools.
type ToolResponse struct {
	Events    []string   `json:"events"`
	InMatch   bool       `json:"in_match"`
	State     *StateView `json:"state,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	Closed    string     `json:"closed,omitempty"`
}

// GameSession is one player's connection to a match server, driven by tool
// calls instead of a terminal.
type GameSession struct {
	client *botnet.Client
	cancel context.CancelFunc

	mu     sync.Mutex
	events []string
	closed string
	done   chan struct{}
}

// NewGameSession connects conn as a player named name, queues deck and
// starts applying server messages in the background.
func NewGameSession(conn botnet.Conn, name string, deck game.Decklist, logger *zap.Logger) (*GameSession, error) {
	ctx, cancel := context.WithCancel(context.Background())
	sess := &GameSession{
		client: botnet.NewClient(conn, logger),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	sess.client.OnMessage = func(msg botnet.Message) {
		sess.client.View(func(m *game.Match, me game.PlayerID) {
			sess.appendEvent(botnet.DescribeMessage(m, me, msg))
		})
	}
	if err := sess.client.Join(ctx, name, deck); err != nil {
		cancel()
		conn.Close()
		return nil, fmt.Errorf("join queue: %w", err)
	}

	go func() {
		defer close(sess.done)
		err := sess.client.Run(ctx)
		reason := "connection closed"
		if err != nil && !errors.Is(err, context.Canceled) {
			reason = err.Error()
		}
		sess.mu.Lock()
		sess.closed = reason
		sess.mu.Unlock()
	}()
	return sess, nil
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	return events
}

// Activate sends an ability use written in the REPL cell syntax.
func (s *GameSession) Activate(ctx context.Context, cell string, ability int, targets []string) error {
	var at game.GridLocation
	var locs []game.GridLocation
	var err error
	s.client.View(func(m *game.Match, me game.PlayerID) {
		if at, err = botnet.ParseCell(m, me, cell); err != nil {
			return
		}
		for _, t := range targets {
			var loc game.GridLocation
			if loc, err = botnet.ParseCell(m, me, t); err != nil {
				return
			}
			locs = append(locs, loc)
		}
	})
	if err != nil {
		return err
	}
	return s.client.Activate(ctx, at, ability, locs)
}

// Response drains the events and snapshots the replica.
func (s *GameSession) Response() *ToolResponse {
	resp := &ToolResponse{Events: s.drainEvents(), LastError: s.client.LastError()}
	s.mu.Lock()
	resp.Closed = s.closed
	s.mu.Unlock()

	s.client.View(func(m *game.Match, me game.PlayerID) {
		if m == nil {
			return
		}
		resp.InMatch = true
		resp.State = buildStateView(m, me)
	})
	// Ensure events is never null in JSON
	if resp.Events == nil {
		resp.Events = []string{}
	}
	return resp
}

// Close disconnects from the server and waits for the reader to stop.
func (s *GameSession) Close() {
	s.cancel()
	s.client.Close()
	<-s.done
}

func buildStateView(m *game.Match, me game.PlayerID) *StateView {
	view := &StateView{Turn: m.Turn, Board: botnet.RenderBoard(m, me)}
	if cur := m.CurrentPlayer(); cur != nil {
		view.YourTurn = cur.ID == me
	}
	for _, u := range m.Units() {
		side := "op"
		if u.Location.Owner == me {
			side = "me"
		}
		uv := UnitView{
			Cell:      fmt.Sprintf("%s:%d,%d", side, u.Location.Coord.X, u.Location.Coord.Y),
			Name:      u.Name,
			HP:        u.HP,
			Energy:    u.Energy,
			MaxEnergy: u.MaxEnergy,
		}
		for _, a := range u.Abilities {
			uv.Abilities = append(uv.Abilities, a.Text())
		}
		if side == "me" {
			view.Yours = append(view.Yours, uv)
		} else {
			view.Theirs = append(view.Theirs, uv)
		}
	}
	return view
}

// respondJSON marshals a tool response to a JSON string.
func respondJSON(resp any) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
