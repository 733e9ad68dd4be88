package game

import (
	"fmt"
	"time"
)

// WinCondition selects which fleets count as beaten.
type WinCondition string

const (
	// WinFlagship: a player who crowned a ship and has no living flagship loses.
	WinFlagship WinCondition = "flagship"
	// WinAnnihilation: a player with no living ships loses.
	WinAnnihilation WinCondition = "annihilation"
	// WinEither applies both rules.
	WinEither WinCondition = "either"
)

// TieBreak selects what happens when the deck runs out with equal totals.
type TieBreak string

const (
	// TieSuddenDeath: the owner of the next ship destroyed loses.
	TieSuddenDeath TieBreak = "sudden_death"
	// TieContinue: play on until the win condition fires.
	TieContinue TieBreak = "continue"
)

// Options configures a single game. They are owned by the engine and
// fixed for the lifetime of a game; NewGame may swap them.
type Options struct {
	FleetCap            int
	ShieldCooldownTurns int
	WinCondition        WinCondition
	TieBreak            TieBreak
	StartingHands       [2]int
	FirstTurnBonusDraw  bool
	GuaranteeAce        bool
	HistoryDepth        int
	// Seed drives the deck shuffle. Zero picks a time-based seed.
	Seed int64

	AIEnabled bool
	AIPlayer  int
	// AIDelay is the pause before the AI acts. Zero runs the AI inline.
	AIDelay time.Duration
}

// DefaultOptions returns the standard rules with the AI on as player 2.
func DefaultOptions() Options {
	return Options{
		FleetCap:            3,
		ShieldCooldownTurns: 1,
		WinCondition:        WinFlagship,
		TieBreak:            TieSuddenDeath,
		StartingHands:       [2]int{7, 6},
		FirstTurnBonusDraw:  true,
		GuaranteeAce:        true,
		HistoryDepth:        80,
		AIEnabled:           true,
		AIPlayer:            1,
		AIDelay:             160 * time.Millisecond,
	}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.FleetCap < 1 {
		return fmt.Errorf("fleet cap must be at least 1, got %d", o.FleetCap)
	}
	if o.ShieldCooldownTurns < 1 {
		return fmt.Errorf("shield cooldown must be at least 1 turn, got %d", o.ShieldCooldownTurns)
	}
	switch o.WinCondition {
	case WinFlagship, WinAnnihilation, WinEither:
	default:
		return fmt.Errorf("unknown win condition %q", o.WinCondition)
	}
	switch o.TieBreak {
	case TieSuddenDeath, TieContinue:
	default:
		return fmt.Errorf("unknown tie break %q", o.TieBreak)
	}
	for i, n := range o.StartingHands {
		if n < 0 || n > 20 {
			return fmt.Errorf("starting hand %d out of range: %d", i+1, n)
		}
	}
	if o.HistoryDepth < 1 {
		return fmt.Errorf("history depth must be at least 1, got %d", o.HistoryDepth)
	}
	if o.AIPlayer < 0 || o.AIPlayer > 1 {
		return fmt.Errorf("ai player must be 0 or 1, got %d", o.AIPlayer)
	}
	if o.AIDelay < 0 {
		return fmt.Errorf("ai delay must not be negative")
	}
	return nil
}
