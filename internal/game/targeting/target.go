// Package targeting decides which ships a selection may land on. The same
// requirement drives validation of a tap and the highlight set shown for it.
package targeting

import (
	"fmt"

	"github.com/broadside/broadside-server-go/internal/game/cards"
)

// TargetType represents what a ship must satisfy to be chosen.
type TargetType string

const (
	// TargetTypeInstall targets own ships that can take the selected card
	TargetTypeInstall TargetType = "INSTALL"
	// TargetTypeAttacker targets own ships with positive damage output
	TargetTypeAttacker TargetType = "ATTACKER"
	// TargetTypeShip targets any living ship on the required side
	TargetTypeShip TargetType = "SHIP"
	// TargetTypeArmed targets ships with at least one weapon card installed
	TargetTypeArmed TargetType = "ARMED"
)

// Side is relative to the acting player.
type Side int

const (
	SideOwn Side = iota
	SideEnemy
)

func (s Side) String() string {
	if s == SideOwn {
		return "own"
	}
	return "enemy"
}

// ShipRef addresses a ship by owner and roster index.
type ShipRef struct {
	Owner int `json:"owner"`
	Index int `json:"index"`
}

func (r ShipRef) String() string {
	return fmt.Sprintf("P%d#%d", r.Owner+1, r.Index)
}

// Requirement defines what target a pending selection needs.
type Requirement struct {
	Type TargetType
	Side Side
	// Card is the card being installed or played, if any.
	Card cards.Card
	// Description is a human-readable description used in hints.
	Description string
}

// ForInstall requires an own living ship that can take card.
func ForInstall(card cards.Card) Requirement {
	return Requirement{
		Type:        TargetTypeInstall,
		Side:        SideOwn,
		Card:        card,
		Description: "one of your ships that can install " + card.Label(),
	}
}

// ForAttacker requires an own living ship that deals damage.
func ForAttacker() Requirement {
	return Requirement{Type: TargetTypeAttacker, Side: SideOwn, Description: "an armed ship of yours"}
}

// ForAttackTarget requires a living enemy ship.
func ForAttackTarget() Requirement {
	return Requirement{Type: TargetTypeShip, Side: SideEnemy, Description: "an enemy ship"}
}

// ForCrown requires an own living ship.
func ForCrown() Requirement {
	return Requirement{Type: TargetTypeShip, Side: SideOwn, Description: "one of your ships to crown"}
}

// ForSpecial returns the requirement of a joker or royal spade. ok is false
// for any other card.
func ForSpecial(card cards.Card) (Requirement, bool) {
	switch {
	case card.IsJoker():
		return Requirement{
			Type:        TargetTypeArmed,
			Side:        SideEnemy,
			Card:        card,
			Description: "an enemy ship with weapons installed",
		}, true
	case card.IsRoyalSpade() && card.Rank == cards.Queen:
		return Requirement{
			Type:        TargetTypeShip,
			Side:        SideOwn,
			Card:        card,
			Description: "one of your ships",
		}, true
	case card.IsRoyalSpade():
		return Requirement{
			Type:        TargetTypeShip,
			Side:        SideEnemy,
			Card:        card,
			Description: "an enemy ship",
		}, true
	default:
		return Requirement{}, false
	}
}

// OwnerFor resolves the side of a requirement to a player index.
func (r Requirement) OwnerFor(actor int) int {
	if r.Side == SideOwn {
		return actor
	}
	return 1 - actor
}
