package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/broadside/broadside-server-go/internal/game/rules"
	"go.uber.org/zap"
)

func (g *Game) aiControls(player int) bool {
	return g.opts.AIEnabled && g.policy != nil && player == g.opts.AIPlayer
}

// scheduleAILocked arranges for the AI to take its turn when it is the AI's
// move. A zero delay plays the turn inline. Stale callbacks are dropped by
// comparing generations.
func (g *Game) scheduleAILocked() {
	s := g.state
	if s.GameOver || !g.aiControls(s.Turn.Active) || g.aiInFlight || g.aiTimer != nil {
		return
	}
	if g.opts.AIDelay <= 0 {
		g.runAILocked()
		return
	}

	gen := g.aiGen
	g.aiTimer = time.AfterFunc(g.opts.AIDelay, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if gen != g.aiGen {
			return
		}
		g.aiTimer = nil
		g.runAILocked()
	})
	g.logger.Debug("ai turn scheduled", zap.Duration("delay", g.opts.AIDelay), zap.Uint64("generation", gen))
}

// cancelAILocked invalidates any scheduled AI turn.
func (g *Game) cancelAILocked() {
	g.aiGen++
	if g.aiTimer != nil {
		g.aiTimer.Stop()
		g.aiTimer = nil
	}
}

func (g *Game) runAILocked() {
	s := g.state
	if g.aiInFlight || s.GameOver || !g.aiControls(s.Turn.Active) {
		return
	}
	g.aiInFlight = true
	defer func() { g.aiInFlight = false }()

	if err := g.takeTurnLocked(g.policy); err != nil && !errors.Is(err, rules.ErrGameOver) {
		g.logger.Warn("ai turn failed", zap.Error(err))
	}
}

// RunAI plays the active player's turn with the configured policy,
// synchronously. It does not require the AI to be enabled.
func (g *Game) RunAI() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.policy == nil {
		return fmt.Errorf("%w: no policy configured", rules.ErrAIPolicyFault)
	}
	// a scheduled turn for the same seat is superseded
	g.cancelAILocked()
	return g.takeTurnLocked(g.policy)
}

// TakeTurn plays the active player's turn with policy: one decision, then
// the end of the turn. A policy that errors or panics forfeits its action
// but the turn still ends.
func (g *Game) TakeTurn(policy Policy) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.takeTurnLocked(policy)
}

func (g *Game) takeTurnLocked(policy Policy) error {
	if err := g.guardLocked(); err != nil {
		return err
	}
	s := g.state
	self := s.Turn.Active
	turn := s.Turn.TurnNumber

	// a selection left over from undo would block the policy's own steps
	g.cancelLocked()

	if !s.Turn.ActionUsed {
		if err := g.decideAndApplyLocked(policy, self); err != nil {
			g.faultLocked(policy, err)
		}
	}

	if g.state.GameOver || g.state.Turn.TurnNumber != turn {
		return nil
	}
	return g.endTurnLocked()
}

func (g *Game) decideAndApplyLocked(policy Policy, self int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", rules.ErrAIPolicyFault, r)
		}
	}()
	if policy == nil {
		return fmt.Errorf("%w: no policy", rules.ErrAIPolicyFault)
	}

	action, err := policy.Decide(g.state.Clone(), self)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", rules.ErrAIPolicyFault, policy.Name(), err)
	}
	g.logger.Debug("ai decided",
		zap.String("policy", policy.Name()),
		zap.Int("player", self),
		zap.Stringer("action", action),
	)
	if err := g.applyLocked(action); err != nil {
		return fmt.Errorf("%w: %s chose %s: %w", rules.ErrAIPolicyFault, policy.Name(), action, err)
	}
	return nil
}

func (g *Game) faultLocked(policy Policy, err error) {
	name := "unknown"
	if policy != nil {
		name = policy.Name()
	}
	g.logger.Warn("ai policy fault",
		zap.String("policy", name),
		zap.Int("turn", g.state.Turn.TurnNumber),
		zap.Error(err),
	)
	if !g.state.GameOver {
		g.cancelLocked()
	}
	g.emitLocked(rules.NewEvent(rules.EventAIFault, rules.SeverityWarn, g.state.Turn.Active,
		fmt.Sprintf("%s hesitates and ends the turn.", g.state.Active().Name)))
}
