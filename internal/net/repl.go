package net

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chrisjuchem/botgame/internal/game"
)

// REPL is a terminal front end for a Client.
type REPL struct {
	client *Client
	in     io.Reader
	out    io.Writer
}

func NewREPL(c *Client, in io.Reader, out io.Writer) *REPL {
	return &REPL{client: c, in: in, out: out}
}

const replHelp = `Commands:
  board                          show both grids
  card <cell>                    show the unit in a cell
  use <cell> <ability> [cells]   activate an ability (abilities are numbered from 1)
  status                         show connection state
  help                           show this message
  quit                           leave
Cells are written me:x,y or op:x,y (x = row, y = column).`

// Run reads commands until quit, EOF or ctx cancellation.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "Type 'help' for commands.")
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	for {
		fmt.Fprint(r.out, "> ")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := r.Exec(ctx, line)
			if err != nil {
				fmt.Fprintln(r.out, err)
			}
			if quit {
				return nil
			}
		}
	}
}

// Exec runs one command line.
func (r *REPL) Exec(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	switch fields[0] {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(r.out, replHelp)
	case "status":
		fmt.Fprintln(r.out, r.client.String())
		if e := r.client.LastError(); e != "" {
			fmt.Fprintf(r.out, "last error: %s\n", e)
		}
	case "board":
		r.client.View(func(m *game.Match, me game.PlayerID) {
			if m == nil {
				fmt.Fprintln(r.out, "not in a match")
				return
			}
			fmt.Fprint(r.out, RenderBoard(m, me))
		})
	case "card":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: card <cell>")
		}
		return false, r.showCard(fields[1])
	case "use":
		if len(fields) < 3 {
			return false, fmt.Errorf("usage: use <cell> <ability> [cells]")
		}
		return false, r.use(ctx, fields[1], fields[2], fields[3:])
	default:
		return false, fmt.Errorf("unknown command %q (try 'help')", fields[0])
	}
	return false, nil
}

func (r *REPL) showCard(cell string) error {
	var err error
	r.client.View(func(m *game.Match, me game.PlayerID) {
		var loc game.GridLocation
		if loc, err = ParseCell(m, me, cell); err != nil {
			return
		}
		u := m.UnitAt(loc)
		if u == nil {
			err = fmt.Errorf("no unit at %s", cell)
			return
		}
		fmt.Fprintf(r.out, "%s\n%d HP, %d/%d energy\n", u.Name, u.HP, u.Energy, u.MaxEnergy)
		for i, a := range u.Abilities {
			fmt.Fprintf(r.out, "  %d) %s\n", i+1, a.Text())
		}
	})
	return err
}

func (r *REPL) use(ctx context.Context, cell, ability string, targetCells []string) error {
	n, err := strconv.Atoi(ability)
	if err != nil || n < 1 {
		return fmt.Errorf("ability must be a number from 1")
	}
	var at game.GridLocation
	var targets []game.GridLocation
	r.client.View(func(m *game.Match, me game.PlayerID) {
		if at, err = ParseCell(m, me, cell); err != nil {
			return
		}
		for _, tc := range targetCells {
			var t game.GridLocation
			if t, err = ParseCell(m, me, tc); err != nil {
				return
			}
			targets = append(targets, t)
		}
	})
	if err != nil {
		return err
	}
	return r.client.Activate(ctx, at, n-1, targets)
}

// ParseCell reads "me:x,y" or "op:x,y" relative to the viewing player.
func ParseCell(m *game.Match, me game.PlayerID, s string) (game.GridLocation, error) {
	if m == nil {
		return game.GridLocation{}, ErrNotInMatch
	}
	side, xy, ok := strings.Cut(s, ":")
	if !ok {
		return game.GridLocation{}, fmt.Errorf("cell %q: want me:x,y or op:x,y", s)
	}
	var owner game.PlayerID
	switch side {
	case "me":
		owner = me
	case "op":
		opp := m.Opponent(me)
		if opp == nil {
			return game.GridLocation{}, fmt.Errorf("no opponent")
		}
		owner = opp.ID
	default:
		return game.GridLocation{}, fmt.Errorf("cell %q: side must be me or op", s)
	}
	xs, ys, ok := strings.Cut(xy, ",")
	if !ok {
		return game.GridLocation{}, fmt.Errorf("cell %q: want x,y", s)
	}
	x, errX := strconv.Atoi(xs)
	y, errY := strconv.Atoi(ys)
	if errX != nil || errY != nil {
		return game.GridLocation{}, fmt.Errorf("cell %q: coordinates must be numbers", s)
	}
	loc := game.GridLocation{Coord: game.Coord{X: x, Y: y}, Owner: owner}
	if !m.InBounds(loc) {
		return game.GridLocation{}, fmt.Errorf("cell %q is off the board", s)
	}
	return loc, nil
}

// RenderBoard draws the opponent's grid above the viewer's, front rows
// facing each other.
func RenderBoard(m *game.Match, me game.PlayerID) string {
	var sb strings.Builder
	opp := m.Opponent(me)
	row := func(owner game.PlayerID, x int) {
		fmt.Fprintf(&sb, "║ %d ", x)
		for y := 0; y < m.Cols; y++ {
			sb.WriteString(formatCell(m.UnitAt(game.GridLocation{Coord: game.Coord{X: x, Y: y}, Owner: owner})))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("╔══════════════════════════════════════════════════════\n")
	if opp != nil {
		fmt.Fprintf(&sb, "║  OPPONENT %s\n", opp.Label())
		for x := m.Rows - 1; x >= 0; x-- {
			row(opp.ID, x)
		}
	}
	sb.WriteString("║──────────────────────────────────────────────────────\n")
	for x := 0; x < m.Rows; x++ {
		row(me, x)
	}
	if p := m.Player(me); p != nil {
		fmt.Fprintf(&sb, "║  YOU %s\n", p.Label())
	}
	sb.WriteString("╚══════════════════════════════════════════════════════\n")

	if cur := m.CurrentPlayer(); cur != nil {
		turn := "Opponent's turn"
		if cur.ID == me {
			turn = "Your turn"
		}
		fmt.Fprintf(&sb, "Turn %d | %s\n", m.Turn, turn)
	}
	return sb.String()
}

func formatCell(u *game.Unit) string {
	if u == nil {
		return "[ ] "
	}
	return fmt.Sprintf("[%s %d/%dE] ", u.Name, u.HP, u.Energy)
}

// DescribeMessage renders a server message for the terminal.
func DescribeMessage(m *game.Match, me game.PlayerID, msg Message) string {
	label := func(id game.PlayerID) string {
		if id == me {
			return "you"
		}
		if m != nil {
			if p := m.Player(id); p != nil {
				return p.Label()
			}
		}
		return id.Short()
	}
	switch msg.Type {
	case TypeMatchStarted:
		names := make([]string, len(msg.MatchStarted.Players))
		for i, p := range msg.MatchStarted.Players {
			names[i] = p.Name
		}
		return fmt.Sprintf("Match started: %s", strings.Join(names, " vs "))
	case TypeEffect:
		cells := make([]string, len(msg.Effect.Targets))
		for i, t := range msg.Effect.Targets {
			cells[i] = fmt.Sprintf("%s %s", label(t.Owner), t.Coord)
		}
		return msg.Effect.Effect.Text(strings.Join(cells, ", "))
	case TypeNewTurn:
		return fmt.Sprintf("=== Turn passes to %s ===", label(msg.NewTurn.NextPlayer))
	case TypeError:
		return "Error: " + msg.Error.Msg
	}
	return string(msg.Type)
}
