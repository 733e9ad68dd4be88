package rules

import (
	"fmt"
)

// Phase is the interaction phase of the active player's turn. The engine
// gates actions on it; highlighting is derived from it separately.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseBuildPick
	PhaseBuildTarget
	PhaseLaunchPair
	PhaseAttackSelectAttacker
	PhaseAttackSelectTarget
	PhaseCrownSelectShip
	PhaseSpecialTarget
)

var phaseNames = map[Phase]string{
	PhaseIdle:                 "idle",
	PhaseBuildPick:            "build_pick",
	PhaseBuildTarget:          "build_target",
	PhaseLaunchPair:           "launch_pair",
	PhaseAttackSelectAttacker: "attack_select_attacker",
	PhaseAttackSelectTarget:   "attack_select_target",
	PhaseCrownSelectShip:      "crown_select_ship",
	PhaseSpecialTarget:        "special_target",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// IsBuild reports whether the phase belongs to the build/launch flow.
func (p Phase) IsBuild() bool {
	return p == PhaseBuildPick || p == PhaseBuildTarget || p == PhaseLaunchPair
}

// PlayerCount is fixed: the game is always a duel.
const PlayerCount = 2

// TurnManager tracks whose turn it is, the active interaction phase and the
// one-action gate.
type TurnManager struct {
	TurnNumber int
	Active     int
	Phase      Phase
	ActionUsed bool
}

// NewTurnManager creates a turn manager at turn 1 with the given player
// active and idle.
func NewTurnManager(active int) TurnManager {
	return TurnManager{
		TurnNumber: 1,
		Active:     active,
		Phase:      PhaseIdle,
	}
}

// Opponent returns the index of the player who is not active.
func (tm *TurnManager) Opponent() int {
	return 1 - tm.Active
}

// Gate rejects a new action once this turn's action has been used.
func (tm *TurnManager) Gate() error {
	if tm.ActionUsed {
		return Reject(ErrActionAlreadyUsed, "You've already used your one action this turn. End Turn to proceed.")
	}
	return nil
}

// Enter moves to phase if the gate is open.
func (tm *TurnManager) Enter(phase Phase) error {
	if err := tm.Gate(); err != nil {
		return err
	}
	tm.Phase = phase
	return nil
}

// Commit consumes this turn's action and returns to idle.
func (tm *TurnManager) Commit() {
	tm.ActionUsed = true
	tm.Phase = PhaseIdle
}

// Idle returns to idle without consuming the action.
func (tm *TurnManager) Idle() {
	tm.Phase = PhaseIdle
}

// AdvanceTurn hands the turn to the opponent with a fresh gate.
func (tm *TurnManager) AdvanceTurn() int {
	tm.Active = tm.Opponent()
	tm.TurnNumber++
	tm.Phase = PhaseIdle
	tm.ActionUsed = false
	return tm.Active
}
