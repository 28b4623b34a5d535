package net

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/chrisjuchem/botgame/internal/game"
)

// recordConn captures what a client writes.
type recordConn struct {
	sent []Message
}

func (c *recordConn) ReadMessage(ctx context.Context) (Message, error) {
	<-ctx.Done()
	return Message{}, ctx.Err()
}

func (c *recordConn) WriteMessage(_ context.Context, msg Message) error {
	c.sent = append(c.sent, msg)
	return nil
}

func (c *recordConn) Close() error       { return nil }
func (c *recordConn) RemoteAddr() string { return "record" }

func feed(t *testing.T, c *Client, msgs ...Message) {
	t.Helper()
	for _, msg := range msgs {
		require.Nil(t, c.Handle(msg), "rejected %+v", msg)
	}
}

func TestReplicaFollowsServer(t *testing.T) {
	s := newTestServer(t, Config{})
	a, b := connect(t, s), connect(t, s)
	started, log := startMatch(t, s, a, b)
	id := started[0].MatchID

	alice := NewClient(&recordConn{}, zaptest.NewLogger(t))
	bob := NewClient(&recordConn{}, zaptest.NewLogger(t))
	feed(t, alice, log[0]...)
	feed(t, bob, log[1]...)

	authority := s.matches[id].match
	alice.View(func(m *game.Match, me game.PlayerID) {
		require.NotNil(t, m)
		assert.Equal(t, started[0].You, me)
		assert.Equal(t, authority.Describe(), m.Describe())
		assert.True(t, m.Player(me).CurrentTurn)
	})

	home := authority.HomeCell(started[0].You)
	a.send(t, NewActivate(id, home, 0, []game.GridLocation{{Coord: game.Coord{X: 1, Y: 0}, Owner: started[0].You}}))
	for _, tp := range []*testPeer{a, b} {
		c := alice
		if tp == b {
			c = bob
		}
		feed(t, c, tp.next(t, s, TypeEffect), tp.next(t, s, TypeEffect), tp.next(t, s, TypeNewTurn), tp.next(t, s, TypeEffect))
	}

	for _, c := range []*Client{alice, bob} {
		c.View(func(m *game.Match, _ game.PlayerID) {
			assert.Equal(t, authority.Describe(), m.Describe())
			assert.Equal(t, started[1].You, m.CurrentPlayer().ID)
		})
	}
	assert.Contains(t, authority.Describe(), "Shrapnel Bot")
}

func TestHandleRejections(t *testing.T) {
	c := NewClient(&recordConn{}, zaptest.NewLogger(t))
	item := game.Item(game.ChangeHP(-1), nil, game.GridLocation{})

	reply := c.Handle(NewEffect(game.NewMatchID(), item))
	require.NotNil(t, reply)
	assert.Equal(t, TypeError, reply.Type)
	assert.Contains(t, reply.Error.Msg, "unknown match")

	reply = c.Handle(NewJoinQueue("x", game.Decklist{}))
	require.NotNil(t, reply)
	assert.Contains(t, reply.Error.Msg, "cannot handle")

	reply = c.Handle(NewMatchStarted(MatchStarted{MatchID: game.NewMatchID()}))
	require.NotNil(t, reply)
	assert.False(t, c.InMatch())

	assert.Nil(t, c.Handle(NewError("%s", "no such ability")))
	assert.Equal(t, "no such ability", c.LastError())
}

// replicaClient returns a client whose replica has just started a match.
func replicaClient(t *testing.T) (*Client, *recordConn, [2]game.PlayerID) {
	t.Helper()
	conn := &recordConn{}
	c := NewClient(conn, zaptest.NewLogger(t))
	decks := game.BuiltinDecks()
	ids := [2]game.PlayerID{game.NewPlayerID(), game.NewPlayerID()}
	info := MatchStarted{
		MatchID: game.NewMatchID(),
		Players: []PlayerInfo{
			{ID: ids[0], Name: "alice", Decklist: decks["aoe"]},
			{ID: ids[1], Name: "bob", Decklist: decks["skirmish"]},
		},
		You:  ids[0],
		Rows: game.DefaultGridRows,
		Cols: game.DefaultGridCols,
	}
	feed(t, c, NewMatchStarted(info))

	// Replay what the server would send at match start.
	for i, id := range ids {
		home := game.GridLocation{Coord: game.Coord{X: 0, Y: info.Cols / 2}, Owner: id}
		feed(t, c, NewEffect(info.MatchID, game.Item(game.Summon(game.DeckUnit(info.Players[i].Decklist)), nil, home)))
	}
	feed(t, c, NewTurnMessage(info.MatchID, ids[0]))
	return c, conn, ids
}

func TestOpponentDisconnectEndsReplica(t *testing.T) {
	c, _, _ := replicaClient(t)
	require.True(t, c.InMatch())

	assert.Nil(t, c.Handle(NewError("%s", MsgOpponentDisconnected)))
	assert.False(t, c.InMatch())
	assert.Equal(t, "client (no match)", c.String())
}

func TestParseCell(t *testing.T) {
	c, _, ids := replicaClient(t)
	c.View(func(m *game.Match, me game.PlayerID) {
		loc, err := ParseCell(m, me, "me:1,2")
		require.NoError(t, err)
		assert.Equal(t, game.GridLocation{Coord: game.Coord{X: 1, Y: 2}, Owner: ids[0]}, loc)

		loc, err = ParseCell(m, me, "op:0,0")
		require.NoError(t, err)
		assert.Equal(t, ids[1], loc.Owner)

		for _, bad := range []string{"1,2", "them:1,2", "me:1", "me:a,b", "me:9,9", "me:-1,0"} {
			_, err := ParseCell(m, me, bad)
			assert.Error(t, err, bad)
		}
	})

	_, err := ParseCell(nil, ids[0], "me:0,0")
	assert.ErrorIs(t, err, ErrNotInMatch)
}

func TestRenderBoard(t *testing.T) {
	c, _, _ := replicaClient(t)
	c.View(func(m *game.Match, me game.PlayerID) {
		board := RenderBoard(m, me)
		assert.Contains(t, board, "OPPONENT bob")
		assert.Contains(t, board, "YOU alice")
		assert.Contains(t, board, "Your turn")
		// Both deck units show at full health.
		assert.Equal(t, 2, strings.Count(board, "20/3E"))

		// The opponent's rows are drawn back to front.
		assert.Less(t, strings.Index(board, "OPPONENT"), strings.Index(board, "YOU"))
	})
}

func TestDescribeMessage(t *testing.T) {
	c, _, ids := replicaClient(t)
	c.View(func(m *game.Match, me game.PlayerID) {
		assert.Equal(t, "=== Turn passes to you ===", DescribeMessage(m, me, NewTurnMessage(m.ID, ids[0])))
		assert.Contains(t, DescribeMessage(m, me, NewTurnMessage(m.ID, ids[1])), "bob")
		assert.Equal(t, "Error: nope", DescribeMessage(m, me, NewError("nope")))
	})
}

func TestREPL(t *testing.T) {
	c, conn, ids := replicaClient(t)
	var out bytes.Buffer
	r := NewREPL(c, strings.NewReader(""), &out)
	ctx := context.Background()

	quit, err := r.Exec(ctx, "help")
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Contains(t, out.String(), "me:x,y")

	_, err = r.Exec(ctx, "dance")
	assert.ErrorContains(t, err, "unknown command")

	_, err = r.Exec(ctx, "use me:0,2")
	assert.ErrorContains(t, err, "usage")
	_, err = r.Exec(ctx, "use me:0,2 zero")
	assert.ErrorContains(t, err, "ability must be a number")
	_, err = r.Exec(ctx, "use me:0,2 1 op:7,7")
	assert.ErrorContains(t, err, "off the board")
	assert.Empty(t, conn.sent)

	out.Reset()
	_, err = r.Exec(ctx, "card me:0,2")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "20 HP, 3/10 energy")
	assert.Contains(t, out.String(), "1) ")

	_, err = r.Exec(ctx, "card me:1,1")
	assert.ErrorContains(t, err, "no unit")

	_, err = r.Exec(ctx, "use me:0,2 1 me:1,0")
	require.NoError(t, err)
	require.Len(t, conn.sent, 1)
	act := conn.sent[0].Activate
	assert.Equal(t, 0, act.AbilityIndex)
	assert.Equal(t, ids[0], act.UnitLocation.Owner)
	assert.Equal(t, []game.GridLocation{{Coord: game.Coord{X: 1, Y: 0}, Owner: ids[0]}}, act.Targets)

	quit, err = r.Exec(ctx, "quit")
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestREPLRunStopsAtEOF(t *testing.T) {
	c := NewClient(&recordConn{}, zaptest.NewLogger(t))
	var out bytes.Buffer
	r := NewREPL(c, strings.NewReader("status\nboard\n"), &out)

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "client (no match)")
	assert.Contains(t, out.String(), "not in a match")
}
