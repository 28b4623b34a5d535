package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/chrisjuchem/botgame/internal/catalog"
	"github.com/chrisjuchem/botgame/internal/config"
	botmcp "github.com/chrisjuchem/botgame/internal/mcp"
	botnet "github.com/chrisjuchem/botgame/internal/net"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	addr := flag.String("addr", "", "match server TCP address for the match tools (empty disables them)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	decks, closeDecks, err := catalog.Open(context.Background(), cfg.Content.CatalogDB, cfg.Content.DecksFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeDecks()

	var dial botmcp.Dialer
	if *addr != "" {
		dial = func(ctx context.Context) (botnet.Conn, error) {
			conn, err := botnet.DialTCP(ctx, *addr, cfg.Server.MaxFrameBytes)
			if err != nil {
				return nil, err
			}
			return conn, nil
		}
	}
	tools := botmcp.NewToolbox(decks, dial, logger)
	defer tools.Close()

	s := server.NewMCPServer("botgame", "1.0.0")
	tools.Register(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
