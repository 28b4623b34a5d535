package net

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/chrisjuchem/botgame/internal/game"
	"github.com/chrisjuchem/botgame/internal/log"
)

// Client keeps a replica of the server's match by applying the effects it
// is sent. It never resolves anything itself.
type Client struct {
	conn Conn
	log  *zap.Logger

	// OnMessage, if set, is called after each server message is applied.
	OnMessage func(Message)

	mu        sync.Mutex
	match     *game.Match
	me        game.PlayerID
	lastError string
}

// NewClient wraps a connection to a match server.
func NewClient(conn Conn, logger *zap.Logger) *Client {
	return &Client{conn: conn, log: logger}
}

// Join enters the matchmaking queue.
func (c *Client) Join(ctx context.Context, name string, deck game.Decklist) error {
	return c.conn.WriteMessage(ctx, NewJoinQueue(name, deck))
}

// Activate asks the server to use an ability of one of our units.
func (c *Client) Activate(ctx context.Context, at game.GridLocation, index int, targets []game.GridLocation) error {
	c.mu.Lock()
	m := c.match
	c.mu.Unlock()
	if m == nil {
		return ErrNotInMatch
	}
	return c.conn.WriteMessage(ctx, NewActivate(m.ID, at, index, targets))
}

// Run reads and applies server messages until the connection fails or ctx
// is cancelled.
func (c *Client) Run(ctx context.Context) error {
	for {
		msg, err := c.conn.ReadMessage(ctx)
		var bad *DecodeError
		if errors.As(err, &bad) {
			c.log.Warn("malformed server message", zap.Error(err))
			if err := c.conn.WriteMessage(ctx, NewError("%v", err)); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		if reply := c.Handle(msg); reply != nil {
			if err := c.conn.WriteMessage(ctx, *reply); err != nil {
				return err
			}
		}
		if c.OnMessage != nil {
			c.OnMessage(msg)
		}
	}
}

// Handle applies one server message to the replica. It returns the
// ProtocolError to send back when the message cannot be applied.
func (c *Client) Handle(msg Message) *Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	reject := func(format string, args ...interface{}) *Message {
		reply := NewError(format, args...)
		c.log.Warn("cannot handle server message", zap.String("type", string(msg.Type)), zap.String("reason", reply.Error.Msg))
		return &reply
	}

	switch msg.Type {
	case TypeMatchStarted:
		info := msg.MatchStarted
		if len(info.Players) != 2 {
			return reject("match_started with %d players", len(info.Players))
		}
		var players [2]*game.Player
		for i, p := range info.Players {
			players[i] = &game.Player{ID: p.ID, Name: p.Name, Deck: p.Decklist}
		}
		c.match = game.NewMatch(info.MatchID, players[0], players[1], game.MatchConfig{
			Rows:   info.Rows,
			Cols:   info.Cols,
			Logger: log.NewZapLogger(c.log),
		})
		c.me = info.You
		c.lastError = ""

	case TypeEffect:
		if c.match == nil || msg.Effect.MatchID != c.match.ID {
			return reject("effect for unknown match %s", msg.Effect.MatchID)
		}
		c.match.Apply(msg.Effect.WorkItem())

	case TypeNewTurn:
		if c.match == nil || msg.NewTurn.MatchID != c.match.ID {
			return reject("new turn for unknown match %s", msg.NewTurn.MatchID)
		}
		if err := c.match.SetTurn(msg.NewTurn.NextPlayer); err != nil {
			return reject("%v", err)
		}

	case TypeError:
		c.lastError = msg.Error.Msg
		c.log.Info("server error", zap.String("msg", msg.Error.Msg))
		if msg.Error.Msg == MsgOpponentDisconnected && c.match != nil {
			c.match.End(MsgOpponentDisconnected)
			c.match = nil
		}

	default:
		return reject("client cannot handle %s", msg.Type)
	}
	return nil
}

// View runs fn with the replica locked. m is nil outside a match.
func (c *Client) View(fn func(m *game.Match, me game.PlayerID)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.match, c.me)
}

// InMatch reports whether a match is running.
func (c *Client) InMatch() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.match != nil
}

// LastError is the most recent ProtocolError from the server.
func (c *Client) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.match == nil {
		return "client (no match)"
	}
	return fmt.Sprintf("client %s in match %s", c.me.Short(), c.match.ID)
}
