package game

import (
	"fmt"

	"github.com/broadside/broadside-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// EndTurn passes the turn. Any in-progress selection is dropped. When the
// deck is empty the deck-out rule is evaluated first, once per game.
func (g *Game) EndTurn() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.humanLocked(); err != nil {
		return err
	}
	return g.endTurnLocked()
}

func (g *Game) endTurnLocked() error {
	if err := g.guardLocked(); err != nil {
		return err
	}
	g.history.Record(g.state)

	g.checkDeckOutLocked()
	if g.state.GameOver {
		return nil
	}

	s := g.state
	s.Turn.AdvanceTurn()
	s.Pending = noPending()
	g.logger.Info("turn passed",
		zap.Int("turn", s.Turn.TurnNumber),
		zap.Int("active", s.Turn.Active),
		zap.Int("deck", s.Deck.Len()),
	)

	g.startTurnLocked()
	g.evaluateLocked()
	g.scheduleAILocked()
	return nil
}

// startTurnLocked runs the active player's upkeep: ship maintenance, then
// the draw.
func (g *Game) startTurnLocked() {
	s := g.state
	p := s.Active()
	g.emitLocked(rules.NewEvent(rules.EventTurnStarted, rules.SeverityMuted, p.ID,
		fmt.Sprintf("Turn %d: %s.", s.Turn.TurnNumber, p.Name)))

	for _, ship := range p.Ships {
		wasArmed := ship.ShieldActive
		ship.Maintain()
		if !wasArmed && ship.ShieldActive {
			e := rules.NewEvent(rules.EventShieldRearmed, rules.SeverityMuted, p.ID,
				fmt.Sprintf("%s's shield is back online (%d).", ship.Name, ship.ShieldRating()))
			e.ShipID, e.Owner = ship.ID, p.ID
			g.emitLocked(e)
		}
	}

	n := 1
	if !p.HasTakenFirstTurnBonusDraw {
		n = 2
		p.HasTakenFirstTurnBonusDraw = true
	}
	drawn := s.Deck.Draw(n)
	p.Hand = append(p.Hand, drawn...)
	if len(drawn) > 0 {
		plural := ""
		if len(drawn) > 1 {
			plural = "s"
		}
		e := rules.NewEvent(rules.EventCardsDrawn, rules.SeverityInfo, p.ID,
			fmt.Sprintf("%s draws %d card%s.", p.Name, len(drawn), plural))
		e.Amount = len(drawn)
		g.emitLocked(e)
	}
	g.hint = g.idleHint()
}

// checkDeckOutLocked compares fleet totals once the deck is gone. Unequal
// totals end the game; a tie starts the configured continuation.
func (g *Game) checkDeckOutLocked() {
	s := g.state
	if !s.Deck.Empty() || s.DeckOutChecked {
		return
	}
	s.DeckOutChecked = true

	t0, t1 := s.Players[0].TotalHP(), s.Players[1].TotalHP()
	if t0 != t1 {
		winner := 0
		if t1 > t0 {
			winner = 1
		}
		g.emitLocked(rules.NewEvent(rules.EventDeckExhausted, rules.SeverityInfo, -1,
			fmt.Sprintf("Deck out: totals %d vs %d.", t0, t1)))
		g.declareWinnerLocked(winner, fmt.Sprintf("%s wins by totals (%d vs %d).", s.Players[winner].Name, t0, t1))
		return
	}

	switch g.opts.TieBreak {
	case TieSuddenDeath:
		s.Watchers.GetWatcher(rules.SuddenDeathKey).(*rules.SuddenDeathWatcher).Arm()
		g.emitLocked(rules.NewEvent(rules.EventSuddenDeath, rules.SeverityWarn, -1,
			fmt.Sprintf("Deck out: equal totals (%d). Sudden death: whoever loses the next ship loses the game.", t0)))
	case TieContinue:
		g.emitLocked(rules.NewEvent(rules.EventDeckExhausted, rules.SeverityMuted, -1,
			fmt.Sprintf("Deck out: equal totals (%d). Play continues.", t0)))
	}
}
