package game

import (
	"github.com/broadside/broadside-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// Undo restores the state recorded before the most recent committed action
// or turn change. With the AI enabled it keeps rewinding through the AI's
// own turn so the human lands back on their last decision. Undo is refused
// once the game is over.
func (g *Game) Undo() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardLocked(); err != nil {
		return err
	}
	prev := g.history.Pop()
	if prev == nil {
		return g.rejectLocked(rules.Reject(rules.ErrResourceExhausted, "Nothing to undo."))
	}
	for g.aiControls(prev.Turn.Active) && g.history.Size() > 0 {
		prev = g.history.Pop()
	}

	g.cancelAILocked()
	// versions are recorded mid-selection; the restored turn starts idle
	prev.Turn.Idle()
	prev.Pending = noPending()
	g.state = prev
	g.hint = g.idleHint()
	g.logger.Info("undo",
		zap.Int("turn", prev.Turn.TurnNumber),
		zap.Int("active", prev.Turn.Active),
		zap.Int("history", g.history.Size()),
		zap.String("checksum", prev.Checksum()),
	)
	g.emitLocked(rules.NewEvent(rules.EventUndo, rules.SeverityMuted, prev.Turn.Active, "Undo."))
	g.scheduleAILocked()
	return nil
}

// CanUndo reports whether a recorded state is available.
func (g *Game) CanUndo() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.state.GameOver && g.history.Size() > 0
}
