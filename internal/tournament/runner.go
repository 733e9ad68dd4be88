package tournament

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/broadside/broadside-server-go/internal/game"
	"github.com/broadside/broadside-server-go/internal/game/ai"
	"github.com/broadside/broadside-server-go/internal/game/rules"
	"github.com/broadside/broadside-server-go/internal/game/watchers"
	"go.uber.org/zap"
)

// GameResult is the outcome of one headless game.
type GameResult struct {
	GameID string
	// Winner is the seat that won, or -1 when the turn limit ran out.
	Winner   int
	Turns    int
	Reason   string
	Checksum string
	Stats    [2]watchers.Stats
	// Faults counts turns a policy forfeited by erroring or panicking.
	Faults int
}

// Runner plays tournament matches headlessly through a game.Manager.
type Runner struct {
	games         *game.Manager
	opts          game.Options
	gamesPerMatch int
	maxTurns      int
	logger        *zap.Logger
}

// NewRunner creates a runner. opts.Seed is the base seed; each game gets
// its own derived seed so a run is reproducible.
func NewRunner(games *game.Manager, opts game.Options, gamesPerMatch, maxTurns int, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.AIEnabled = false
	return &Runner{
		games:         games,
		opts:          opts,
		gamesPerMatch: gamesPerMatch,
		maxTurns:      maxTurns,
		logger:        logger,
	}
}

// Run starts t and plays every scheduled match in order.
func (r *Runner) Run(ctx context.Context, t *Tournament) error {
	if err := t.Start(); err != nil {
		return fmt.Errorf("start tournament: %w", err)
	}

	snap := t.Snapshot()
	seed := r.opts.Seed
	for _, round := range snap.Rounds {
		for _, pairing := range round.Pairings {
			p1, _ := t.GetPlayer(pairing.Player1)
			p2, _ := t.GetPlayer(pairing.Player2)

			var wins [2]int
			draws := 0
			for i := 0; i < r.gamesPerMatch; i++ {
				seed++
				// seats alternate game by game
				seats := [2]Player{p1, p2}
				if i%2 == 1 {
					seats[0], seats[1] = p2, p1
				}
				res, err := r.PlayGame(ctx, seats[0].Difficulty, seats[1].Difficulty, seed)
				if err != nil {
					return fmt.Errorf("round %d %s vs %s: %w", round.Number, p1.Name, p2.Name, err)
				}
				switch {
				case res.Winner < 0:
					draws++
				case seats[res.Winner].Name == p1.Name:
					wins[0]++
				default:
					wins[1]++
				}
			}

			winner := ""
			switch {
			case wins[0] > wins[1]:
				winner = p1.Name
			case wins[1] > wins[0]:
				winner = p2.Name
			}
			if err := t.RecordMatchResult(round.Number, p1.Name, p2.Name, winner, wins[0], wins[1], draws); err != nil {
				return fmt.Errorf("record match: %w", err)
			}
			r.logger.Info("match finished",
				zap.Int("round", round.Number),
				zap.String("player1", p1.Name),
				zap.String("player2", p2.Name),
				zap.Int("player1_wins", wins[0]),
				zap.Int("player2_wins", wins[1]),
				zap.Int("draws", draws),
			)
		}
	}
	return nil
}

// PlayGame plays one game between two tiers, first seat moving first. The
// game is registered with the manager only while it runs.
func (r *Runner) PlayGame(ctx context.Context, first, second ai.Difficulty, seed int64) (GameResult, error) {
	var policies [2]game.Policy
	for i, d := range []ai.Difficulty{first, second} {
		p, err := ai.NewPolicy(d, rand.New(rand.NewSource(seed*2+int64(i))))
		if err != nil {
			return GameResult{}, err
		}
		policies[i] = p
	}
	return r.playWith(ctx, policies, seed)
}

func (r *Runner) playWith(ctx context.Context, policies [2]game.Policy, seed int64) (GameResult, error) {
	opts := r.opts
	opts.Seed = seed
	g, err := r.games.Create(opts, nil)
	if err != nil {
		return GameResult{}, err
	}
	defer r.games.Remove(g.ID())

	res := GameResult{GameID: g.ID(), Winner: -1}
	// turns run synchronously on this goroutine, so the count needs no lock
	faults := g.SubscribeEvents(rules.EventAIFault, func(e rules.Event) {
		res.Faults++
		r.logger.Warn("policy fault", zap.String("game_id", g.ID()), zap.Int("player", e.Player), zap.Int("turn", e.Turn))
	})
	defer g.Unsubscribe(faults)

	v := g.View()
	for !v.GameOver && v.Turn <= r.maxTurns {
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}
		if err := g.TakeTurn(policies[v.Active]); err != nil {
			return GameResult{}, fmt.Errorf("turn %d: %w", v.Turn, err)
		}
		v = g.View()
	}

	res.Turns = v.Turn
	res.Checksum = v.State.Checksum()
	for i, p := range v.Players {
		res.Stats[i] = p.Stats
	}
	if v.GameOver {
		res.Winner = v.Winner
		res.Reason = v.WinReason
	} else {
		res.Reason = fmt.Sprintf("turn limit %d reached", r.maxTurns)
	}
	r.logger.Debug("game finished",
		zap.String("game_id", res.GameID),
		zap.String("first", policies[0].Name()),
		zap.String("second", policies[1].Name()),
		zap.Int64("seed", seed),
		zap.Int("winner", res.Winner),
		zap.Int("turns", res.Turns),
		zap.String("reason", res.Reason),
		zap.Int("damage_first", res.Stats[0].DamageDealt),
		zap.Int("damage_second", res.Stats[1].DamageDealt),
		zap.Int("faults", res.Faults),
	)
	return res, nil
}
