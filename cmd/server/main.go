package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/broadside/broadside-server-go/internal/config"
	"github.com/broadside/broadside-server-go/internal/game"
	"github.com/broadside/broadside-server-go/internal/server"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting Broadside server",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.String("difficulty", string(cfg.Difficulty())),
		zap.Bool("ai_enabled", cfg.AI.Enabled),
		zap.String("win_condition", cfg.Game.WinCondition),
	)

	// Cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameMgr := game.NewManager(logger)
	logger.Info("game manager initialized")

	srv := server.NewServer(cfg, gameMgr, logger)
	logger.Info("Broadside server initialized",
		zap.String("websocket_address", cfg.Server.WebSocket.Address),
		zap.Int("max_sessions", cfg.Server.MaxSessions),
	)

	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Broadside server stopped")
}
