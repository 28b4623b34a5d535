package game

import (
	"fmt"

	"github.com/chrisjuchem/botgame/internal/log"
)

// Player is one side of a match.
type Player struct {
	ID          PlayerID
	Name        string
	Deck        Decklist
	CurrentTurn bool
}

// Label is the name used in logs: the display name, or a short id.
func (p *Player) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID.Short()
}

// Unit is a live card on the board.
type Unit struct {
	ID        UnitID
	Match     MatchID
	Name      string
	Location  GridLocation
	HP        int
	Energy    int
	MaxEnergy int
	Abilities []Ability
	Base      Card
}

// Board is the read-only view of a grid that targeting needs.
type Board interface {
	UnitAt(loc GridLocation) *Unit
	PlayerIDs() []PlayerID
	Dims() (rows, cols int)
}

// MatchConfig holds configuration for creating a new match.
type MatchConfig struct {
	Rows          int // rows per player (0 = DefaultGridRows)
	Cols          int // columns per player (0 = DefaultGridCols)
	EnergyRegen   int // energy each unit gains when its owner's turn starts (0 = 1)
	MaxBatchSteps int // stop a runaway effect batch after this many items (0 = no limit)
	Logger        log.EventLogger
}

// Match owns every unit, cell and player of one game. It is not safe for
// concurrent use; the server drives each match from a single goroutine.
type Match struct {
	ID      MatchID
	Players [2]*Player
	Turn    int

	Rows          int
	Cols          int
	EnergyRegen   int
	MaxBatchSteps int
	Logger        log.EventLogger

	cells    map[GridLocation]*Unit
	units    []*Unit // spawn order
	nextID   UnitID
	triggers *triggerIndex
}

// NewMatch creates an empty match between two players.
func NewMatch(id MatchID, p0, p1 *Player, cfg MatchConfig) *Match {
	rows, cols := cfg.Rows, cfg.Cols
	if rows <= 0 {
		rows = DefaultGridRows
	}
	if cols <= 0 {
		cols = DefaultGridCols
	}
	regen := cfg.EnergyRegen
	if regen == 0 {
		regen = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	m := &Match{
		ID:            id,
		Players:       [2]*Player{p0, p1},
		Rows:          rows,
		Cols:          cols,
		EnergyRegen:   regen,
		MaxBatchSteps: cfg.MaxBatchSteps,
		Logger:        logger,
		cells:         make(map[GridLocation]*Unit),
	}
	m.triggers = buildTriggerIndex(m)
	return m
}

// --- Board ---

func (m *Match) UnitAt(loc GridLocation) *Unit {
	return m.cells[loc]
}

func (m *Match) PlayerIDs() []PlayerID {
	return []PlayerID{m.Players[0].ID, m.Players[1].ID}
}

func (m *Match) Dims() (rows, cols int) {
	return m.Rows, m.Cols
}

// InBounds reports whether loc is a cell of one of the match's players.
func (m *Match) InBounds(loc GridLocation) bool {
	if m.Player(loc.Owner) == nil {
		return false
	}
	return loc.Coord.X >= 0 && loc.Coord.X < m.Rows && loc.Coord.Y >= 0 && loc.Coord.Y < m.Cols
}

// Cells enumerates every cell of both grids, row-major, player 0 first.
func (m *Match) Cells() []GridLocation {
	return allCells(m)
}

func allCells(b Board) []GridLocation {
	rows, cols := b.Dims()
	players := b.PlayerIDs()
	cells := make([]GridLocation, 0, rows*cols*len(players))
	for _, p := range players {
		for x := 0; x < rows; x++ {
			for y := 0; y < cols; y++ {
				cells = append(cells, GridLocation{Coord: Coord{X: x, Y: y}, Owner: p})
			}
		}
	}
	return cells
}

// --- Players ---

// Player returns the player with the given id, or nil.
func (m *Match) Player(id PlayerID) *Player {
	for _, p := range m.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Opponent returns the other player, or nil if id is not in the match.
func (m *Match) Opponent(id PlayerID) *Player {
	switch id {
	case m.Players[0].ID:
		return m.Players[1]
	case m.Players[1].ID:
		return m.Players[0]
	}
	return nil
}

// CurrentPlayer returns the player holding the turn, or nil between turns.
func (m *Match) CurrentPlayer() *Player {
	for _, p := range m.Players {
		if p.CurrentTurn {
			return p
		}
	}
	return nil
}

func (m *Match) label(id PlayerID) string {
	if p := m.Player(id); p != nil {
		return p.Label()
	}
	return id.Short()
}

// --- Units ---

// Units returns all live units in spawn order.
func (m *Match) Units() []*Unit {
	return append([]*Unit(nil), m.units...)
}

// UnitsOf returns the live units owned by a player, in spawn order.
func (m *Match) UnitsOf(owner PlayerID) []*Unit {
	var result []*Unit
	for _, u := range m.units {
		if u.Location.Owner == owner {
			result = append(result, u)
		}
	}
	return result
}

// UnitByID returns the live unit with the given id, or nil.
func (m *Match) UnitByID(id UnitID) *Unit {
	for _, u := range m.units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// NextID returns the next unit id.
func (m *Match) NextID() UnitID {
	m.nextID++
	return m.nextID
}

// spawn places a clone of card at loc. It returns nil, placing nothing, if
// the cell is occupied or off the board.
func (m *Match) spawn(card Card, loc GridLocation) *Unit {
	if !m.InBounds(loc) || m.cells[loc] != nil {
		m.log(log.NewSummonDroppedEvent(m.Turn, m.label(loc.Owner), card.Name, loc.Coord.String()))
		return nil
	}
	base := card.Clone()
	u := &Unit{
		ID:        m.NextID(),
		Match:     m.ID,
		Name:      card.Name,
		Location:  loc,
		HP:        card.HP,
		Energy:    clamp(card.StartingEnergy, 0, card.MaxEnergy),
		MaxEnergy: card.MaxEnergy,
		Abilities: base.Clone().Abilities,
		Base:      base,
	}
	m.cells[loc] = u
	m.units = append(m.units, u)
	m.triggers = buildTriggerIndex(m)
	m.log(log.NewSummonEvent(m.Turn, m.label(loc.Owner), u.Name, loc.Coord.String()))
	return u
}

// remove takes a unit off the board.
func (m *Match) remove(u *Unit) {
	if m.cells[u.Location] == u {
		delete(m.cells, u.Location)
	}
	for i, v := range m.units {
		if v == u {
			m.units = append(m.units[:i], m.units[i+1:]...)
			break
		}
	}
	m.triggers = buildTriggerIndex(m)
}

func (m *Match) grant(u *Unit, a Ability) {
	u.Abilities = append(u.Abilities, a.Clone())
	m.triggers = buildTriggerIndex(m)
	m.log(log.NewGrantAbilityEvent(m.Turn, m.label(u.Location.Owner), u.Name, a.Text()))
}

func (m *Match) changeHP(u *Unit, amount int) {
	old := u.HP
	u.HP += amount
	m.log(log.NewHPChangeEvent(m.Turn, m.label(u.Location.Owner), u.Name, old, u.HP))
}

func (m *Match) changeEnergy(u *Unit, amount int) {
	old := u.Energy
	u.Energy = clamp(u.Energy+amount, 0, u.MaxEnergy)
	m.log(log.NewEnergyChangeEvent(m.Turn, m.label(u.Location.Owner), u.Name, old, u.Energy))
}

// deadUnits returns live units at non-positive hit points, in spawn order.
func (m *Match) deadUnits() []*Unit {
	var dead []*Unit
	for _, u := range m.units {
		if u.HP <= 0 {
			dead = append(dead, u)
		}
	}
	return dead
}

func (m *Match) log(event log.GameEvent) {
	m.Logger.Log(event)
}

// Describe renders one line per unit, for debugging and terminal display.
func (m *Match) Describe() string {
	s := ""
	for _, u := range m.units {
		s += fmt.Sprintf("#%d %s at %s: %d HP, %d/%d energy\n", u.ID, u.Name, u.Location, u.HP, u.Energy, u.MaxEnergy)
	}
	return s
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
