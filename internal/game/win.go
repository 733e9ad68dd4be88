package game

import (
	"fmt"

	"github.com/broadside/broadside-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// evaluateLocked checks the terminal conditions. It runs after every
// committed action and every turn change.
func (g *Game) evaluateLocked() {
	s := g.state
	if s.GameOver {
		return
	}

	if w, ok := s.Watchers.GetWatcher(rules.SuddenDeathKey).(*rules.SuddenDeathWatcher); ok && w.Armed && w.ConditionMet() {
		loser := s.Players[w.Loser]
		g.declareWinnerLocked(1-w.Loser, fmt.Sprintf("%s wins (sudden death: %s lost a ship).", s.Players[1-w.Loser].Name, loser.Name))
		return
	}

	lost0, lost1 := g.hasLost(s.Players[0]), g.hasLost(s.Players[1])
	var winner int
	switch {
	case lost0 && lost1:
		// both fleets fell to the same action; the player who acted wins
		winner = s.Turn.Active
	case lost0:
		winner = 1
	case lost1:
		winner = 0
	default:
		return
	}
	loser := s.Players[1-winner]
	g.declareWinnerLocked(winner, fmt.Sprintf("%s wins (%s %s).", s.Players[winner].Name, loser.Name, g.lossReason(loser)))
}

func (g *Game) hasLost(p *Player) bool {
	flagshipLost := p.HasCrowned() && !p.HasLivingFlagship()
	annihilated := len(p.Living()) == 0
	switch g.opts.WinCondition {
	case WinFlagship:
		return flagshipLost
	case WinAnnihilation:
		return annihilated
	case WinEither:
		return flagshipLost || annihilated
	default:
		return false
	}
}

func (g *Game) lossReason(p *Player) string {
	if len(p.Living()) == 0 && g.opts.WinCondition != WinFlagship {
		return "fleet destroyed"
	}
	return "Flagship destroyed"
}

// declareWinnerLocked freezes the game.
func (g *Game) declareWinnerLocked(winner int, reason string) {
	s := g.state
	s.GameOver = true
	s.Winner = winner
	s.WinReason = reason
	s.Turn.Idle()
	s.Pending = noPending()
	g.cancelAILocked()
	g.hint = reason

	g.logger.Info("game over",
		zap.Int("winner", winner),
		zap.Int("turn", s.Turn.TurnNumber),
		zap.String("reason", reason),
	)
	g.emitLocked(rules.NewEvent(rules.EventGameWon, rules.SeverityGood, winner, reason))
}
