package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chrisjuchem/botgame/internal/catalog"
	"github.com/chrisjuchem/botgame/internal/config"
	botnet "github.com/chrisjuchem/botgame/internal/net"
	"github.com/chrisjuchem/botgame/internal/web"
)

var version = "dev" // set via ldflags during build

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	tcpAddr := flag.String("tcp", "", "TCP listen address (overrides config)")
	wsAddr := flag.String("http", "", "HTTP/WebSocket listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *tcpAddr != "" {
		cfg.Server.TCPAddr = *tcpAddr
	}
	if *wsAddr != "" {
		cfg.Server.WSAddr = *wsAddr
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("botgame server stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	decks, closeDecks, err := catalog.Open(ctx, cfg.Content.CatalogDB, cfg.Content.DecksFile)
	if err != nil {
		return fmt.Errorf("open deck catalog: %w", err)
	}
	defer closeDecks()

	games := botnet.NewServer(botnet.Config{
		TickInterval:  cfg.Server.TickInterval,
		OutboundQueue: cfg.Server.OutboundQueue,
		WriteTimeout:  cfg.Server.WriteTimeout,
		MaxFrameBytes: cfg.Server.MaxFrameBytes,
		Rules:         cfg.Rules.MatchConfig(),
	}, logger)

	var listeners []net.Listener
	if cfg.Server.TCPAddr != "" {
		ln, err := net.Listen("tcp", cfg.Server.TCPAddr)
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		listeners = append(listeners, ln)
	}

	logger.Info("starting botgame server",
		zap.String("version", version),
		zap.String("tcp_address", cfg.Server.TCPAddr),
		zap.String("http_address", cfg.Server.WSAddr),
		zap.Int("grid_rows", cfg.Rules.GridRows),
		zap.Int("grid_cols", cfg.Rules.GridCols),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return games.Run(ctx, listeners...) })
	if cfg.Server.WSAddr != "" {
		ln, err := net.Listen("tcp", cfg.Server.WSAddr)
		if err != nil {
			stop()
			g.Wait()
			return fmt.Errorf("listen: %w", err)
		}
		httpSrv := web.NewServer(games, decks, logger)
		g.Go(func() error { return httpSrv.Serve(ctx, ln) })
	}
	return g.Wait()
}
