package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisjuchem/botgame/internal/game"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoad(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	aoe := game.BuiltinDecks()["aoe"]

	require.NoError(t, s.SaveDeck(ctx, aoe))
	got, err := s.Deck(ctx, "aoe")
	require.NoError(t, err)
	require.Len(t, got.Cards, len(aoe.Cards))
	for i := range aoe.Cards {
		assert.Equal(t, aoe.Cards[i].Text(), got.Cards[i].Text())
	}

	_, err = s.Deck(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveReplaces(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	d := game.Decklist{Name: "mine", Cards: []game.Card{game.LookupCard("Charge Bot")}}
	require.NoError(t, s.SaveDeck(ctx, d))

	d.Cards = append(d.Cards, game.LookupCard("Shrapnel Bot"))
	require.NoError(t, s.SaveDeck(ctx, d))

	entries, err := s.ListDecks(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mine", entries[0].Name)
	assert.Equal(t, 2, entries[0].Cards)
	assert.False(t, entries[0].UpdatedAt.IsZero())
}

func TestSaveRejectsInvalidDecks(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	assert.Error(t, s.SaveDeck(ctx, game.Decklist{Cards: []game.Card{game.LookupCard("Charge Bot")}}))
	assert.ErrorContains(t, s.SaveDeck(ctx, game.Decklist{Name: "empty"}), "no cards")

	entries, err := s.ListDecks(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImportFile(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "decks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
decks:
  - name: pair
    cards:
      - name: Charge Bot
        count: 2
  - name: single
    cards:
      - name: GIGABLASTER
`), 0o644))

	names, err := s.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"pair", "single"}, names)

	all, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Len(t, all["pair"].Cards, 2)
	assert.Equal(t, "GIGABLASTER", all["single"].Cards[0].Name)
}

func TestImportIsAtomic(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	decks := map[string]game.Decklist{
		"good": {Name: "good", Cards: []game.Card{game.LookupCard("Charge Bot")}},
		"zbad": {Name: "zbad"},
	}

	require.Error(t, s.Import(ctx, decks))
	all, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDeleteDeck(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveDeck(ctx, game.BuiltinDecks()["skirmish"]))

	require.NoError(t, s.DeleteDeck(ctx, "skirmish"))
	assert.ErrorIs(t, s.DeleteDeck(ctx, "skirmish"), ErrNotFound)
}

func TestNewRequiresPath(t *testing.T) {
	_, err := New("  ")
	assert.Error(t, err)
}

func TestFileCatalogPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	ctx := context.Background()

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveDeck(ctx, game.BuiltinDecks()["gigablaster"]))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()
	d, err := s.Deck(ctx, "gigablaster")
	require.NoError(t, err)
	assert.Equal(t, "gigablaster", d.Name)
}

func TestOpenPicksSource(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	decksFile := filepath.Join(dir, "decks.yaml")
	require.NoError(t, os.WriteFile(decksFile, []byte("decks:\n  - name: solo\n    cards:\n      - name: Charge Bot\n"), 0o644))

	src, closeFn, err := Open(ctx, "", decksFile)
	require.NoError(t, err)
	assert.IsType(t, File(""), src)
	require.NoError(t, closeFn())

	src, closeFn, err = Open(ctx, filepath.Join(dir, "catalog.db"), decksFile)
	require.NoError(t, err)
	defer closeFn()
	require.IsType(t, &Store{}, src)
	all, err := src.LoadAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, all, "solo")
}
