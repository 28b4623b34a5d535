package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"

	"github.com/chrisjuchem/botgame/internal/catalog"
	"github.com/chrisjuchem/botgame/internal/config"
	"github.com/chrisjuchem/botgame/internal/game"
	botnet "github.com/chrisjuchem/botgame/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error
	switch cmd {
	case "play":
		err = runPlay(os.Args[2:])
	case "cards":
		err = runCards(os.Args[2:])
	case "decks":
		err = runDecks(os.Args[2:])
	case "import":
		err = runImport(os.Args[2:])
	case "random":
		err = runRandom(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  botgame play [--addr ADDR | --ws URL] [--deck NAME] [--name NAME] [--decks FILE] [--catalog DB]")
	fmt.Println("  botgame cards [NAME]")
	fmt.Println("  botgame decks [--decks FILE] [--catalog DB]")
	fmt.Println("  botgame import --catalog DB FILE")
	fmt.Println("  botgame random [--seed N] [--size N] [--name NAME] [--catalog DB]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  play    Connect to a match server, queue with a deck and play")
	fmt.Println("  cards   List the built-in cards, or show one in full")
	fmt.Println("  decks   List available decks")
	fmt.Println("  import  Copy the decks of a YAML file into a catalog database")
	fmt.Println("  random  Generate a random deck as YAML, optionally saving it to a catalog")
}

// contentFlags registers the deck source flags shared by several commands.
func contentFlags(fs *flag.FlagSet) (decksFile, catalogDB *string) {
	return fs.String("decks", "decks.yaml", "path to decks file"),
		fs.String("catalog", "", "path to a deck catalog database (overrides --decks)")
}

func runPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	addr := fs.String("addr", "localhost:7777", "server TCP address")
	wsURL := fs.String("ws", "", "server WebSocket URL, e.g. ws://localhost:8080/ws (overrides --addr)")
	deckName := fs.String("deck", "aoe", "deck name")
	name := fs.String("name", os.Getenv("USER"), "player name")
	logLevel := fs.String("log", "warn", "log level")
	decksFile, catalogDB := contentFlags(fs)
	fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := config.NewLogger(config.LoggingConfig{Level: *logLevel, Format: "console"})
	if err != nil {
		return err
	}
	defer logger.Sync()

	deck, err := loadDeck(ctx, *decksFile, *catalogDB, *deckName)
	if err != nil {
		return err
	}

	var conn botnet.Conn
	if *wsURL != "" {
		conn, err = botnet.DialWebSocket(ctx, *wsURL, 0)
	} else {
		conn, err = botnet.DialTCP(ctx, *addr, 0)
	}
	if err != nil {
		return err
	}

	client := botnet.NewClient(conn, logger)
	defer client.Close()
	client.OnMessage = func(msg botnet.Message) {
		client.View(func(m *game.Match, me game.PlayerID) {
			fmt.Println(botnet.DescribeMessage(m, me, msg))
			if msg.Type == botnet.TypeNewTurn && m != nil {
				fmt.Print(botnet.RenderBoard(m, me))
			}
		})
	}

	if err := client.Join(ctx, *name, deck); err != nil {
		return err
	}
	fmt.Printf("Queued with deck %q. Waiting for an opponent...\n", deck.Name)

	runErr := make(chan error, 1)
	go func() { runErr <- client.Run(ctx) }()

	repl := botnet.NewREPL(client, os.Stdin, os.Stdout)
	replErr := make(chan error, 1)
	go func() { replErr <- repl.Run(ctx) }()

	select {
	case err := <-runErr:
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("connection lost: %w", err)
	case err := <-replErr:
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
}

func loadDeck(ctx context.Context, decksFile, catalogDB, name string) (game.Decklist, error) {
	src, closeSrc, err := catalog.Open(ctx, catalogDB, decksFile)
	if err != nil {
		return game.Decklist{}, err
	}
	defer closeSrc()

	decks, err := src.LoadAll(ctx)
	if err != nil {
		// Without a deck file the built-in decks still work.
		if _, statErr := os.Stat(decksFile); catalogDB == "" && os.IsNotExist(statErr) {
			decks = game.BuiltinDecks()
		} else {
			return game.Decklist{}, err
		}
	}
	d, ok := decks[name]
	if !ok {
		return game.Decklist{}, fmt.Errorf("deck %q not found (have %s)", name, strings.Join(game.DeckNames(decks), ", "))
	}
	return d, nil
}

func runCards(args []string) error {
	fs := flag.NewFlagSet("cards", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() > 0 {
		name := strings.Join(fs.Args(), " ")
		c, ok := game.FindCard(name)
		if !ok {
			return fmt.Errorf("unknown card %q", name)
		}
		fmt.Println(c.Text())
		fmt.Printf("Price: %.2f\n", game.PriceCard(c))
		return nil
	}
	for _, name := range game.CardNames() {
		c := game.LookupCard(name)
		fmt.Printf("%-20s cost %d  %3d HP  %d/%d energy  price %.2f\n",
			c.Name, c.SummonCost, c.HP, c.StartingEnergy, c.MaxEnergy, game.PriceCard(c))
	}
	return nil
}

func runDecks(args []string) error {
	fs := flag.NewFlagSet("decks", flag.ExitOnError)
	decksFile, catalogDB := contentFlags(fs)
	fs.Parse(args)

	ctx := context.Background()
	src, closeSrc, err := catalog.Open(ctx, *catalogDB, *decksFile)
	if err != nil {
		return err
	}
	defer closeSrc()
	decks, err := src.LoadAll(ctx)
	if err != nil {
		return err
	}
	for _, name := range game.DeckNames(decks) {
		d := decks[name]
		cards := make([]string, len(d.Cards))
		for i, c := range d.Cards {
			cards[i] = c.Name
		}
		fmt.Printf("%s (%d cards): %s\n", name, len(d.Cards), strings.Join(cards, ", "))
	}
	return nil
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	catalogDB := fs.String("catalog", "", "path to the deck catalog database")
	fs.Parse(args)
	if *catalogDB == "" || fs.NArg() != 1 {
		return fmt.Errorf("usage: botgame import --catalog DB FILE")
	}

	store, err := catalog.New(*catalogDB)
	if err != nil {
		return err
	}
	defer store.Close()
	names, err := store.ImportFile(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d decks: %s\n", len(names), strings.Join(names, ", "))
	return nil
}

func runRandom(args []string) error {
	fs := flag.NewFlagSet("random", flag.ExitOnError)
	seed := fs.Uint64("seed", 0, "random seed (0 picks one)")
	size := fs.Int("size", 0, "number of cards (0 for three to five)")
	name := fs.String("name", "random", "deck name")
	catalogDB := fs.String("catalog", "", "also save the deck to this catalog database")
	fs.Parse(args)

	if *seed == 0 {
		*seed = rand.Uint64()
	}
	deck := game.RandomDeck(rand.New(rand.NewPCG(*seed, *seed)), *name, *size)
	data, err := game.MarshalDecklist(deck)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "seed %d\n", *seed)
	fmt.Print(string(data))

	if *catalogDB == "" {
		return nil
	}
	store, err := catalog.New(*catalogDB)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.SaveDeck(context.Background(), deck)
}
