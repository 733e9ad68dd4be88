package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/broadside/broadside-server-go/internal/config"
	"github.com/broadside/broadside-server-go/internal/game"
	"github.com/broadside/broadside-server-go/internal/tournament"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	gamesFlag  = flag.Int("games", 0, "games per match (overrides simulate.games)")
	seedFlag   = flag.Int64("seed", 0, "base seed (overrides game.seed)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *gamesFlag > 0 {
		cfg.Simulate.Games = *gamesFlag
	}
	if *seedFlag != 0 {
		cfg.Game.Seed = *seedFlag
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	tournaments := tournament.NewManager(logger)
	t, err := tournaments.Create("ai ladder", cfg.Simulate.Entrants)
	if err != nil {
		return err
	}

	games := game.NewManager(logger)
	runner := tournament.NewRunner(games, cfg.GameOptions(), cfg.Simulate.Games, cfg.Simulate.MaxTurns, logger)
	logger.Info("starting simulation",
		zap.Strings("entrants", cfg.Simulate.Entrants),
		zap.Int("games_per_match", cfg.Simulate.Games),
		zap.Int("max_turns", cfg.Simulate.MaxTurns),
		zap.Int64("seed", cfg.Game.Seed),
		zap.String("win_condition", cfg.Game.WinCondition),
	)
	if err := runner.Run(ctx, t); err != nil {
		return err
	}

	printReport(t.Snapshot())
	return nil
}

func printReport(snap tournament.Snapshot) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, round := range snap.Rounds {
		fmt.Fprintf(w, "Round %d\t\t\t\n", round.Number)
		for _, p := range round.Pairings {
			winner := p.Winner
			if winner == "" {
				winner = "draw"
			}
			fmt.Fprintf(w, "  %s vs %s\t%d-%d-%d\t%s\t\n", p.Player1, p.Player2, p.Player1Wins, p.Player2Wins, p.Draws, winner)
		}
		if round.Bye != "" {
			fmt.Fprintf(w, "  %s has a bye\t\t\t\n", round.Bye)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Entrant\tPoints\tW-L-D\tGames\n")
	for _, p := range snap.Standings {
		fmt.Fprintf(w, "%s\t%d\t%d-%d-%d\t%d-%d\n", p.Name, p.Points, p.Wins, p.Losses, p.Draws, p.GamesWon, p.GamesLost)
	}
	w.Flush()
}
