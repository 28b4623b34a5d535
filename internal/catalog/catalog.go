// Package catalog stores named decks in SQLite. Each deck is kept as the
// inlined YAML document game.MarshalDecklist writes, so a stored deck
// loads without the built-in card registry.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chrisjuchem/botgame/internal/game"
)

// ErrNotFound is returned when no deck has the requested name.
var ErrNotFound = errors.New("deck not found")

// Entry is a stored deck's metadata.
type Entry struct {
	Name      string
	Cards     int
	UpdatedAt time.Time
}

// Store handles SQLite persistence of decks.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database and runs migrations. ":memory:" gives
// a private in-memory catalog.
func New(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("catalog path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection keeps an in-memory database alive and shared.
	db.SetMaxOpenConns(1)
	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL: %w", err)
		}
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS decks (
			name       TEXT PRIMARY KEY,
			yaml       TEXT NOT NULL,
			cards      INTEGER NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveDeck validates d and inserts or replaces it under its name.
func (s *Store) SaveDeck(ctx context.Context, d game.Decklist) error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("deck name is required")
	}
	if err := game.ValidateDecklist(d); err != nil {
		return fmt.Errorf("deck %q: %w", d.Name, err)
	}
	doc, err := game.MarshalDecklist(d)
	if err != nil {
		return fmt.Errorf("encode deck %q: %w", d.Name, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO decks (name, yaml, cards, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET yaml = excluded.yaml, cards = excluded.cards, updated_at = excluded.updated_at`,
		d.Name, string(doc), len(d.Cards), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save deck %q: %w", d.Name, err)
	}
	return nil
}

// Deck loads one deck by name.
func (s *Store) Deck(ctx context.Context, name string) (game.Decklist, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT yaml FROM decks WHERE name = ?", name).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Decklist{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return game.Decklist{}, fmt.Errorf("load deck %q: %w", name, err)
	}
	d, err := game.UnmarshalDecklist([]byte(doc))
	if err != nil {
		return game.Decklist{}, fmt.Errorf("decode deck %q: %w", name, err)
	}
	return d, nil
}

// ListDecks returns every stored deck ordered by name.
func (s *Store) ListDecks(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, cards, updated_at FROM decks ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Cards, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteDeck removes a deck. Deleting a missing deck returns ErrNotFound.
func (s *Store) DeleteDeck(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM decks WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete deck %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

// LoadAll returns every stored deck keyed by name, the shape the match
// server and the deck file loader share.
func (s *Store) LoadAll(ctx context.Context) (map[string]game.Decklist, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, yaml FROM decks")
	if err != nil {
		return nil, fmt.Errorf("load decks: %w", err)
	}
	defer rows.Close()

	decks := make(map[string]game.Decklist)
	for rows.Next() {
		var name, doc string
		if err := rows.Scan(&name, &doc); err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		d, err := game.UnmarshalDecklist([]byte(doc))
		if err != nil {
			return nil, fmt.Errorf("decode deck %q: %w", name, err)
		}
		decks[name] = d
	}
	return decks, rows.Err()
}

// Import saves every deck in the map in one transaction. Nothing is saved if
// any deck is invalid.
func (s *Store) Import(ctx context.Context, decks map[string]game.Decklist) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, name := range game.DeckNames(decks) {
		d := decks[name]
		if err := game.ValidateDecklist(d); err != nil {
			return fmt.Errorf("deck %q: %w", name, err)
		}
		doc, err := game.MarshalDecklist(d)
		if err != nil {
			return fmt.Errorf("encode deck %q: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO decks (name, yaml, cards, updated_at) VALUES (?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET yaml = excluded.yaml, cards = excluded.cards, updated_at = excluded.updated_at`,
			name, string(doc), len(d.Cards), now,
		); err != nil {
			return fmt.Errorf("import deck %q: %w", name, err)
		}
	}
	return tx.Commit()
}

// ImportFile loads a YAML deck file into the catalog and returns the
// imported deck names.
func (s *Store) ImportFile(ctx context.Context, path string) ([]string, error) {
	decks, err := game.ParseDeckFile(path)
	if err != nil {
		return nil, err
	}
	if err := s.Import(ctx, decks); err != nil {
		return nil, err
	}
	return game.DeckNames(decks), nil
}

// Decks is a source of named decks: a Store or a deck File.
type Decks interface {
	LoadAll(ctx context.Context) (map[string]game.Decklist, error)
}

// File serves the decks of a YAML deck file, re-read on every call.
type File string

func (f File) LoadAll(context.Context) (map[string]game.Decklist, error) {
	return game.ParseDeckFile(string(f))
}

// Open picks the deck source for a content configuration: the SQLite
// catalog when dbPath is set (seeded from decksFile while it is empty),
// otherwise the deck file. The returned close func is never nil.
func Open(ctx context.Context, dbPath, decksFile string) (Decks, func() error, error) {
	if dbPath == "" {
		return File(decksFile), func() error { return nil }, nil
	}
	s, err := New(dbPath)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.ListDecks(ctx)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	if len(entries) == 0 && decksFile != "" {
		if _, err := os.Stat(decksFile); err == nil {
			if _, err := s.ImportFile(ctx, decksFile); err != nil {
				s.Close()
				return nil, nil, fmt.Errorf("seed catalog: %w", err)
			}
		}
	}
	return s, s.Close, nil
}
