package targeting

import (
	"fmt"

	"github.com/broadside/broadside-server-go/internal/game/fleet"
	"github.com/broadside/broadside-server-go/internal/game/rules"
)

// FleetAccessor provides access to rosters needed for target validation.
type FleetAccessor interface {
	// Fleet returns the roster of owner, destroyed records included.
	Fleet(owner int) []*fleet.Ship
}

// TargetValidator validates that selected ships are legal.
type TargetValidator struct {
	fleets FleetAccessor
}

// NewTargetValidator creates a new target validator.
func NewTargetValidator(fleets FleetAccessor) *TargetValidator {
	return &TargetValidator{fleets: fleets}
}

// ValidateTarget checks ref against requirement for the acting player.
// Failures are invalid-selection rejections with a hint.
func (tv *TargetValidator) ValidateTarget(actor int, ref ShipRef, requirement Requirement) error {
	if tv == nil || tv.fleets == nil {
		return fmt.Errorf("target validator not initialized")
	}

	if ref.Owner != requirement.OwnerFor(actor) {
		return rules.Reject(rules.ErrInvalidSelection, "Pick "+requirement.Description+".")
	}
	roster := tv.fleets.Fleet(ref.Owner)
	if ref.Index < 0 || ref.Index >= len(roster) || roster[ref.Index] == nil {
		return rules.Reject(rules.ErrInvalidSelection, "That ship doesn't exist.")
	}
	ship := roster[ref.Index]
	if !ship.Alive {
		return rules.Reject(rules.ErrInvalidSelection, ship.Name+" has been destroyed.")
	}

	switch requirement.Type {
	case TargetTypeInstall:
		if !ship.CanInstall(requirement.Card) {
			return rules.Reject(rules.ErrInvalidSelection,
				fmt.Sprintf("%s can't install %s (engine %d).", ship.Name, requirement.Card.Label(), ship.Engine()))
		}
	case TargetTypeAttacker:
		if ship.WeaponsOfflineTurns() > 0 {
			return rules.Reject(rules.ErrInvalidSelection, ship.Name+"'s weapons are offline.")
		}
		if ship.Damage() <= 0 {
			return rules.Reject(rules.ErrInvalidSelection, ship.Name+" has no usable weapons.")
		}
	case TargetTypeArmed:
		if !ship.HasWeapons() {
			return rules.Reject(rules.ErrInvalidSelection, ship.Name+" has no weapons to disable.")
		}
	case TargetTypeShip:
	}

	return nil
}

// Candidates returns every ship that satisfies requirement, in roster order.
func (tv *TargetValidator) Candidates(actor int, requirement Requirement) []ShipRef {
	if tv == nil || tv.fleets == nil {
		return nil
	}
	owner := requirement.OwnerFor(actor)
	var refs []ShipRef
	for i := range tv.fleets.Fleet(owner) {
		ref := ShipRef{Owner: owner, Index: i}
		if tv.ValidateTarget(actor, ref, requirement) == nil {
			refs = append(refs, ref)
		}
	}
	return refs
}

// MaxEngine returns the highest engine among owner's living ships.
func (tv *TargetValidator) MaxEngine(owner int) int {
	best := 0
	for _, ship := range tv.fleets.Fleet(owner) {
		if ship != nil && ship.Alive && ship.Engine() > best {
			best = ship.Engine()
		}
	}
	return best
}
