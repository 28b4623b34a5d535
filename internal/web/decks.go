package web

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/chrisjuchem/botgame/internal/game"
)

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Number int      `json:"number"`
	Name   string   `json:"name"`
	Cards  []string `json:"cards"`
	Size   int      `json:"size"`
	Price  float64  `json:"price"`
}

func deckInfos(decks map[string]game.Decklist) []DeckInfo {
	infos := []DeckInfo{}
	for i, name := range game.DeckNames(decks) {
		d := decks[name]
		di := DeckInfo{Number: i + 1, Name: name, Size: len(d.Cards)}
		// Unique card names for display
		seen := make(map[string]bool)
		for _, c := range d.Cards {
			di.Price += game.PriceCard(c)
			if !seen[c.Name] {
				di.Cards = append(di.Cards, c.Name)
				seen[c.Name] = true
			}
		}
		infos = append(infos, di)
	}
	return infos
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.decks.LoadAll(r.Context())
	if err != nil {
		s.log.Error("load decks", zap.Error(err))
		http.Error(w, "could not load decks", http.StatusInternalServerError)
		return
	}
	writeJSON(w, deckInfos(decks))
}
