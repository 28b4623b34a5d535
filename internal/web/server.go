// Package web serves the HTTP side of a match server: the card and deck
// JSON API and the WebSocket endpoint for match connections.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/chrisjuchem/botgame/internal/catalog"
	"github.com/chrisjuchem/botgame/internal/game"
	botnet "github.com/chrisjuchem/botgame/internal/net"
)

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	Name      string   `json:"name"`
	Text      string   `json:"text"`
	Size      int      `json:"size"`
	Cost      int      `json:"cost"`
	HP        int      `json:"hp"`
	Energy    int      `json:"energy"`
	MaxEnergy int      `json:"maxEnergy"`
	Abilities []string `json:"abilities"`
	Price     float64  `json:"price"`
}

// Server is the botgame HTTP server.
type Server struct {
	games *botnet.Server
	decks catalog.Decks
	log   *zap.Logger
	mux   *http.ServeMux
}

// NewServer creates a web server that hands WebSocket connections to games
// and lists decks from decks.
func NewServer(games *botnet.Server, decks catalog.Decks, logger *zap.Logger) *Server {
	s := &Server{
		games: games,
		decks: decks,
		log:   logger,
		mux:   http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	// API endpoints
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/cards/{name}", s.handleCard)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)

	// Match connections
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler exposes the routes, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func cardInfo(c game.Card) CardInfo {
	ci := CardInfo{
		Name:      c.Name,
		Text:      c.Text(),
		Size:      c.Size,
		Cost:      c.SummonCost,
		HP:        c.HP,
		Energy:    c.StartingEnergy,
		MaxEnergy: c.MaxEnergy,
		Price:     game.PriceCard(c),
	}
	for _, a := range c.Abilities {
		ci.Abilities = append(ci.Abilities, a.Text())
	}
	return ci
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	var cards []CardInfo
	for _, name := range game.CardNames() {
		cards = append(cards, cardInfo(game.LookupCard(name)))
	}
	writeJSON(w, cards)
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	c, ok := game.FindCard(r.PathValue("name"))
	if !ok {
		http.Error(w, "unknown card", http.StatusNotFound)
		return
	}
	writeJSON(w, cardInfo(c))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := botnet.AcceptWebSocket(w, r, s.games.MaxFrameBytes())
	if err != nil {
		s.log.Warn("websocket accept", zap.Error(err))
		return
	}
	s.games.Attach(conn)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// Serve runs the HTTP server on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	hs := &http.Server{Handler: s.mux, ReadHeaderTimeout: 10 * time.Second}
	stop := context.AfterFunc(ctx, func() {
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		hs.Shutdown(shutdown)
	})
	defer stop()

	s.log.Info("http listening", zap.String("addr", ln.Addr().String()))
	if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
