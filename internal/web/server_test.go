package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/chrisjuchem/botgame/internal/game"
	botnet "github.com/chrisjuchem/botgame/internal/net"
)

type staticDecks map[string]game.Decklist

func (d staticDecks) LoadAll(context.Context) (map[string]game.Decklist, error) {
	if d == nil {
		return nil, errors.New("boom")
	}
	return d, nil
}

func newTestServer(t *testing.T, decks staticDecks) (*httptest.Server, *botnet.Server) {
	t.Helper()
	games := botnet.NewServer(botnet.Config{TickInterval: 5 * time.Millisecond}, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		games.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	hs := httptest.NewServer(NewServer(games, decks, zaptest.NewLogger(t)).Handler())
	t.Cleanup(hs.Close)
	return hs, games
}

func getJSON(t *testing.T, url string, v any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestCardsEndpoint(t *testing.T) {
	hs, _ := newTestServer(t, staticDecks{})

	var cards []CardInfo
	getJSON(t, hs.URL+"/api/cards", &cards)
	require.Len(t, cards, len(game.CardNames()))
	for _, c := range cards {
		assert.NotEmpty(t, c.Text, c.Name)
		assert.Positive(t, c.HP, c.Name)
	}

	var one CardInfo
	getJSON(t, hs.URL+"/api/cards/Shrapnel%20Bot", &one)
	assert.Equal(t, "Shrapnel Bot", one.Name)
	assert.InDelta(t, game.PriceCard(game.LookupCard("Shrapnel Bot")), one.Price, 1e-9)

	resp, err := http.Get(hs.URL + "/api/cards/Nothing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDecksEndpoint(t *testing.T) {
	hs, _ := newTestServer(t, staticDecks(game.BuiltinDecks()))

	var decks []DeckInfo
	getJSON(t, hs.URL+"/api/decks", &decks)
	require.Len(t, decks, 3)
	assert.Equal(t, "aoe", decks[0].Name)
	assert.Equal(t, 1, decks[0].Number)
	assert.Equal(t, []string{"Shrapnel Bot", "Charge Bot", "Support Bot"}, decks[0].Cards)
}

func TestDecksEndpointError(t *testing.T) {
	hs, _ := newTestServer(t, nil)

	resp, err := http.Get(hs.URL + "/api/decks")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestWebSocketMatch(t *testing.T) {
	hs, _ := newTestServer(t, staticDecks{})
	url := "ws" + strings.TrimPrefix(hs.URL, "http") + "/ws"
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	decks := game.BuiltinDecks()
	var conns [2]*botnet.WSConn
	for i, deck := range []string{"aoe", "gigablaster"} {
		conn, err := botnet.DialWebSocket(ctx, url, 0)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		conns[i] = conn
		require.NoError(t, conn.WriteMessage(ctx, botnet.NewJoinQueue(deck, decks[deck])))
	}

	for _, conn := range conns {
		msg, err := conn.ReadMessage(ctx)
		require.NoError(t, err)
		require.Equal(t, botnet.TypeMatchStarted, msg.Type)
		assert.Len(t, msg.MatchStarted.Players, 2)
	}
}
