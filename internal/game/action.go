package game

import (
	"fmt"

	"github.com/broadside/broadside-server-go/internal/game/rules"
	"github.com/broadside/broadside-server-go/internal/game/targeting"
)

// ActionKind identifies a complete turn action.
type ActionKind int

const (
	ActionEndTurn ActionKind = iota
	ActionBuild
	ActionLaunch
	ActionCrown
	ActionSpecial
	ActionAttack
)

var actionNames = map[ActionKind]string{
	ActionEndTurn: "end_turn",
	ActionBuild:   "build",
	ActionLaunch:  "launch",
	ActionCrown:   "crown",
	ActionSpecial: "special",
	ActionAttack:  "attack",
}

func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ACTION_%d", int(k))
}

// Action is a whole action expressed as hand and roster indexes. Apply
// plays it through the same selection methods a human uses.
type Action struct {
	Kind ActionKind
	// Card is the hand index of the card played: the install card, the
	// first launch card, or the special. Crown always spends the first Ace.
	Card int
	// Pair is the second launch card.
	Pair int
	// Attacker is the roster index of the attacking ship.
	Attacker int
	// Target is the ship the action lands on.
	Target targeting.ShipRef
}

// EndTurn returns the end-turn action.
func EndTurn() Action {
	return Action{Kind: ActionEndTurn}
}

// Build installs hand card on own ship.
func Build(card int, ship targeting.ShipRef) Action {
	return Action{Kind: ActionBuild, Card: card, Target: ship}
}

// Launch pairs a ♣ and a ♥ into a new ship.
func Launch(first, second int) Action {
	return Action{Kind: ActionLaunch, Card: first, Pair: second}
}

// Crown spends an Ace on ship.
func Crown(ship targeting.ShipRef) Action {
	return Action{Kind: ActionCrown, Target: ship}
}

// Special plays a joker or royal spade on target.
func Special(card int, target targeting.ShipRef) Action {
	return Action{Kind: ActionSpecial, Card: card, Target: target}
}

// Attack fires attacker at target.
func Attack(attacker int, target targeting.ShipRef) Action {
	return Action{Kind: ActionAttack, Attacker: attacker, Target: target}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionEndTurn:
		return a.Kind.String()
	case ActionLaunch:
		return fmt.Sprintf("%s(%d,%d)", a.Kind, a.Card, a.Pair)
	case ActionCrown:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Target)
	case ActionAttack:
		return fmt.Sprintf("%s(%d→%s)", a.Kind, a.Attacker, a.Target)
	default:
		return fmt.Sprintf("%s(%d→%s)", a.Kind, a.Card, a.Target)
	}
}

// Apply plays a complete action for the active player. If any step is
// rejected the partial selection is cancelled and the error returned.
func (g *Game) Apply(a Action) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.humanLocked(); err != nil {
		return err
	}
	return g.applyLocked(a)
}

func (g *Game) applyLocked(a Action) error {
	if err := g.guardLocked(); err != nil {
		return err
	}
	self := g.state.Turn.Active

	var steps []func() error
	switch a.Kind {
	case ActionEndTurn:
		return g.endTurnLocked()
	case ActionBuild:
		steps = []func() error{
			g.beginBuildLocked,
			func() error { return g.selectCardLocked(a.Card) },
			func() error { return g.selectShipLocked(a.Target) },
		}
	case ActionLaunch:
		steps = []func() error{
			g.beginBuildLocked,
			func() error { return g.selectCardLocked(a.Card) },
			func() error { return g.selectCardLocked(a.Pair) },
			g.confirmLaunchLocked,
		}
	case ActionCrown:
		steps = []func() error{
			g.beginCrownLocked,
			func() error { return g.selectShipLocked(a.Target) },
		}
	case ActionSpecial:
		steps = []func() error{
			func() error { return g.selectCardLocked(a.Card) },
			func() error { return g.selectShipLocked(a.Target) },
		}
	case ActionAttack:
		steps = []func() error{
			g.beginAttackLocked,
			func() error { return g.selectShipLocked(targeting.ShipRef{Owner: self, Index: a.Attacker}) },
			func() error { return g.selectShipLocked(a.Target) },
		}
	default:
		return rules.Reject(rules.ErrInvalidSelection, "Unknown action.")
	}

	for _, step := range steps {
		if err := step(); err != nil {
			if !g.state.GameOver {
				hint := g.hint
				g.cancelLocked()
				g.hint = hint
			}
			return fmt.Errorf("%s: %w", a, err)
		}
	}
	return nil
}
