// Package mcp exposes botgame over the Model Context Protocol: content tools
// for browsing, pricing and validating cards and decks, and match tools that
// let an assistant play through a server connection.
package mcp

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/chrisjuchem/botgame/internal/catalog"
	"github.com/chrisjuchem/botgame/internal/game"
	botnet "github.com/chrisjuchem/botgame/internal/net"
)

// Dialer opens a connection to a match server.
type Dialer func(ctx context.Context) (botnet.Conn, error)

// Toolbox holds what the tools share. One stdio process plays at most one
// match at a time.
type Toolbox struct {
	decks catalog.Decks
	dial  Dialer
	log   *zap.Logger

	mu      sync.Mutex
	session *GameSession
}

// NewToolbox creates the tools. dial may be nil, which disables the match
// tools.
func NewToolbox(decks catalog.Decks, dial Dialer, logger *zap.Logger) *Toolbox {
	return &Toolbox{decks: decks, dial: dial, log: logger}
}

// Register adds all tools to the MCP server.
func (tb *Toolbox) Register(s *server.MCPServer) {
	s.AddTool(listCardsTool(), tb.handleListCards)
	s.AddTool(describeCardTool(), tb.handleDescribeCard)
	s.AddTool(priceCardTool(), tb.handlePriceCard)
	s.AddTool(listDecksTool(), tb.handleListDecks)
	s.AddTool(validateDeckTool(), tb.handleValidateDeck)
	s.AddTool(randomDeckTool(), tb.handleRandomDeck)
	if tb.dial != nil {
		s.AddTool(joinMatchTool(), tb.handleJoinMatch)
		s.AddTool(activateAbilityTool(), tb.handleActivateAbility)
		s.AddTool(getMatchStateTool(), tb.handleGetMatchState)
		s.AddTool(leaveMatchTool(), tb.handleLeaveMatch)
	}
}

// Close ends any running match session.
func (tb *Toolbox) Close() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if tb.session != nil {
		tb.session.Close()
		tb.session = nil
	}
}

// --- Tool definitions ---

func listCardsTool() mcp.Tool {
	return mcp.NewTool("list_cards",
		mcp.WithDescription("List every built-in card with its stats and price."),
	)
}

func describeCardTool() mcp.Tool {
	return mcp.NewTool("describe_card",
		mcp.WithDescription("Show the full rules text of a built-in card."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Card name, e.g. 'Shrapnel Bot'")),
	)
}

func priceCardTool() mcp.Tool {
	return mcp.NewTool("price_card",
		mcp.WithDescription("Estimate the summon cost a card is worth. Accepts a built-in card name or a YAML card definition."),
		mcp.WithString("name", mcp.Description("Built-in card name")),
		mcp.WithString("yaml", mcp.Description("A single card in deck file syntax (name, hp, max_energy, abilities, ...)")),
	)
}

func listDecksTool() mcp.Tool {
	return mcp.NewTool("list_decks",
		mcp.WithDescription("List the decks available to join_match, with their cards."),
	)
}

func validateDeckTool() mcp.Tool {
	return mcp.NewTool("validate_deck",
		mcp.WithDescription("Check a deck file (YAML with a top-level 'decks' list) and report every problem found."),
		mcp.WithString("yaml", mcp.Required(), mcp.Description("Deck file contents")),
	)
}

func randomDeckTool() mcp.Tool {
	return mcp.NewTool("random_deck",
		mcp.WithDescription("Generate a random deck of priced cards. Returns deck file YAML that validate_deck accepts, with each card's rules text and price in comments."),
		mcp.WithNumber("seed", mcp.Description("Seed for a repeatable deck; omit for a fresh one")),
		mcp.WithNumber("size", mcp.Description("Number of cards, 1 to 10; omit for three to five")),
		mcp.WithString("name", mcp.Description("Deck name (default 'random')")),
	)
}

func joinMatchTool() mcp.Tool {
	return mcp.NewTool("join_match",
		mcp.WithDescription("Connect to the match server and queue for a match. The match starts once another player joins; poll get_match_state."),
		mcp.WithString("deck", mcp.Required(), mcp.Description("Deck name from list_decks")),
		mcp.WithString("player_name", mcp.Description("Name shown to the opponent")),
	)
}

func activateAbilityTool() mcp.Tool {
	return mcp.NewTool("activate_ability",
		mcp.WithDescription("Use an activated ability of one of your units. Cells are written me:x,y or op:x,y (x = row from the front, y = column)."),
		mcp.WithString("cell", mcp.Required(), mcp.Description("Cell of the unit, e.g. me:0,2")),
		mcp.WithNumber("ability", mcp.Required(), mcp.Description("1-based ability number as listed in get_match_state")),
		mcp.WithString("targets", mcp.Description("Space-separated target cells, e.g. 'op:0,1 op:0,2'")),
	)
}

func getMatchStateTool() mcp.Tool {
	return mcp.NewTool("get_match_state",
		mcp.WithDescription("Get the board, whose turn it is, and the events since the last call. Read-only."),
	)
}

func leaveMatchTool() mcp.Tool {
	return mcp.NewTool("leave_match",
		mcp.WithDescription("Disconnect from the match server. The opponent wins by default."),
	)
}

// --- Content handlers ---

func (tb *Toolbox) handleListCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	for _, name := range game.CardNames() {
		c := game.LookupCard(name)
		fmt.Fprintf(&sb, "%s: cost %d, %d HP, %d/%d energy, %d abilities, price %.2f\n",
			c.Name, c.SummonCost, c.HP, c.StartingEnergy, c.MaxEnergy, len(c.Abilities), game.PriceCard(c))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (tb *Toolbox) handleDescribeCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	c, ok := game.FindCard(name)
	if !ok {
		return mcp.NewToolResultErrorf("Unknown card %q. Use list_cards to see the catalog.", name), nil
	}
	return mcp.NewToolResultText(c.Text()), nil
}

func (tb *Toolbox) handlePriceCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	doc := request.GetString("yaml", "")

	var c game.Card
	switch {
	case name != "" && doc != "":
		return mcp.NewToolResultError("Give either name or yaml, not both."), nil
	case name != "":
		var ok bool
		if c, ok = game.FindCard(name); !ok {
			return mcp.NewToolResultErrorf("Unknown card %q.", name), nil
		}
	case doc != "":
		var err error
		if c, err = game.ParseCard([]byte(doc)); err != nil {
			return mcp.NewToolResultErrorf("Invalid card: %v", err), nil
		}
	default:
		return mcp.NewToolResultError("Give a card name or a yaml definition."), nil
	}

	price := game.PriceCard(c)
	return mcp.NewToolResultText(fmt.Sprintf("%s: price %.2f (summon cost %d)\n%s", c.Name, price, c.SummonCost, c.Text())), nil
}

func (tb *Toolbox) handleListDecks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decks, err := tb.decks.LoadAll(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Could not load decks: %v", err), nil
	}
	if len(decks) == 0 {
		return mcp.NewToolResultText("No decks."), nil
	}
	var sb strings.Builder
	for _, name := range game.DeckNames(decks) {
		fmt.Fprintf(&sb, "%s: %s\n", name, cardSummary(decks[name]))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (tb *Toolbox) handleValidateDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := request.GetString("yaml", "")
	decks, err := game.ParseDecks([]byte(doc))
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid deck file:\n%v", err), nil
	}
	var sb strings.Builder
	for _, name := range game.DeckNames(decks) {
		d := decks[name]
		var total float64
		for _, c := range d.Cards {
			total += game.PriceCard(c)
		}
		fmt.Fprintf(&sb, "%s: ok, %d cards, total price %.2f\n", name, len(d.Cards), total)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (tb *Toolbox) handleRandomDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	size := request.GetInt("size", 0)
	if size < 0 || size > 10 {
		return mcp.NewToolResultError("size must be between 1 and 10."), nil
	}
	seed := uint64(request.GetInt("seed", 0))
	if seed == 0 {
		seed = rand.Uint64()
	}
	deck := game.RandomDeck(rand.New(rand.NewPCG(seed, seed)), request.GetString("name", "random"), size)
	data, err := game.MarshalDecklist(deck)
	if err != nil {
		return mcp.NewToolResultErrorf("Could not encode deck: %v", err), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# seed %d\n", seed)
	for _, c := range deck.Cards {
		fmt.Fprintf(&sb, "#\n# Price: %.2f\n", game.PriceCard(c))
		for _, line := range strings.Split(strings.TrimRight(c.Text(), "\n"), "\n") {
			fmt.Fprintf(&sb, "# %s\n", line)
		}
	}
	sb.Write(data)
	return mcp.NewToolResultText(sb.String()), nil
}

// cardSummary lists a deck's card names with counts, in first-seen order.
func cardSummary(d game.Decklist) string {
	counts := make(map[string]int)
	var order []string
	for _, c := range d.Cards {
		if counts[c.Name] == 0 {
			order = append(order, c.Name)
		}
		counts[c.Name]++
	}
	parts := make([]string, len(order))
	for i, name := range order {
		parts[i] = name
		if counts[name] > 1 {
			parts[i] = fmt.Sprintf("%dx %s", counts[name], name)
		}
	}
	return strings.Join(parts, ", ")
}

// --- Match handlers ---

func (tb *Toolbox) handleJoinMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if tb.session != nil {
		return mcp.NewToolResultError("Already connected. Use leave_match first."), nil
	}

	deckName := request.GetString("deck", "")
	decks, err := tb.decks.LoadAll(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Could not load decks: %v", err), nil
	}
	deck, ok := decks[deckName]
	if !ok {
		return mcp.NewToolResultErrorf("Unknown deck %q. Available: %s", deckName, strings.Join(game.DeckNames(decks), ", ")), nil
	}

	conn, err := tb.dial(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Could not reach the match server: %v", err), nil
	}
	sess, err := NewGameSession(conn, request.GetString("player_name", "assistant"), deck, tb.log)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to join: %v", err), nil
	}
	tb.session = sess
	return mcp.NewToolResultText(respondJSON(sess.Response())), nil
}

func (tb *Toolbox) handleActivateAbility(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tb.mu.Lock()
	sess := tb.session
	tb.mu.Unlock()
	if sess == nil {
		return mcp.NewToolResultError("Not connected. Use join_match first."), nil
	}

	ability := request.GetInt("ability", 0)
	if ability < 1 {
		return mcp.NewToolResultError("ability must be 1 or more."), nil
	}
	targets := strings.Fields(request.GetString("targets", ""))
	if err := sess.Activate(ctx, request.GetString("cell", ""), ability-1, targets); err != nil {
		return mcp.NewToolResultErrorf("Could not send activation: %v", err), nil
	}
	return mcp.NewToolResultText("Sent. The outcome arrives as events; call get_match_state."), nil
}

func (tb *Toolbox) handleGetMatchState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tb.mu.Lock()
	sess := tb.session
	tb.mu.Unlock()
	if sess == nil {
		return mcp.NewToolResultError("Not connected. Use join_match first."), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.Response())), nil
}

func (tb *Toolbox) handleLeaveMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tb.mu.Lock()
	sess := tb.session
	tb.session = nil
	tb.mu.Unlock()
	if sess == nil {
		return mcp.NewToolResultError("Not connected."), nil
	}
	sess.Close()
	return mcp.NewToolResultText("Disconnected."), nil
}
