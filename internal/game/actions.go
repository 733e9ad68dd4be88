package game

import (
	"fmt"

	"github.com/broadside/broadside-server-go/internal/game/cards"
	"github.com/broadside/broadside-server-go/internal/game/fleet"
	"github.com/broadside/broadside-server-go/internal/game/rules"
	"github.com/broadside/broadside-server-go/internal/game/targeting"
	"go.uber.org/zap"
)

const buildHint = "Build: tap a card (♣ Engine, ♥ Hull, ♦ Shield, ♠ Weapon ≤ Engine). Tap ♣ then ♥ (or vice versa) to LAUNCH a new ship."

// BeginBuild starts the build/launch flow.
func (g *Game) BeginBuild() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.humanLocked(); err != nil {
		return err
	}
	return g.beginBuildLocked()
}

func (g *Game) beginBuildLocked() error {
	if err := g.guardLocked(); err != nil {
		return err
	}
	s := g.state
	if err := s.Turn.Enter(rules.PhaseBuildPick); err != nil {
		return g.rejectLocked(err)
	}
	s.Pending = noPending()
	s.Pending.Kind = PendingBuild
	g.hint = buildHint
	return nil
}

// BeginAttack starts attacker selection.
func (g *Game) BeginAttack() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.humanLocked(); err != nil {
		return err
	}
	return g.beginAttackLocked()
}

func (g *Game) beginAttackLocked() error {
	if err := g.guardLocked(); err != nil {
		return err
	}
	s := g.state
	if err := s.Turn.Gate(); err != nil {
		return g.rejectLocked(err)
	}
	if len(g.validator().Candidates(s.Turn.Active, targeting.ForAttacker())) == 0 {
		return g.rejectLocked(rules.Reject(rules.ErrResourceExhausted, "None of your ships has usable weapons. Install a ♠ first."))
	}
	s.Turn.Phase = rules.PhaseAttackSelectAttacker
	s.Pending = noPending()
	s.Pending.Kind = PendingAttack
	g.hint = "Attack: select your attacking ship (must have weapons)."
	return nil
}

// BeginCrown starts flagship selection. The player must hold an Ace.
func (g *Game) BeginCrown() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.humanLocked(); err != nil {
		return err
	}
	return g.beginCrownLocked()
}

func (g *Game) beginCrownLocked() error {
	if err := g.guardLocked(); err != nil {
		return err
	}
	s := g.state
	if err := s.Turn.Gate(); err != nil {
		return g.rejectLocked(err)
	}
	ace := -1
	for i, c := range s.Active().Hand {
		if c.IsAce() {
			ace = i
			break
		}
	}
	if ace < 0 {
		return g.rejectLocked(rules.Reject(rules.ErrInvalidSelection, "You have no Ace."))
	}
	s.Turn.Phase = rules.PhaseCrownSelectShip
	s.Pending = noPending()
	s.Pending.Kind = PendingCrown
	s.Pending.CardIndex = ace
	g.hint = "Select a ship to crown (Engine becomes at least 5)."
	return nil
}

// SelectCard picks a card from the active player's hand. Specials go
// straight to targeting; any other card joins the build flow, starting it
// if needed. A ♣ and a ♥ selected together form a launch pair.
func (g *Game) SelectCard(index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.humanLocked(); err != nil {
		return err
	}
	return g.selectCardLocked(index)
}

func (g *Game) selectCardLocked(index int) error {
	if err := g.guardLocked(); err != nil {
		return err
	}
	s := g.state
	if err := s.Turn.Gate(); err != nil {
		return g.rejectLocked(err)
	}
	p := s.Active()
	if index < 0 || index >= len(p.Hand) {
		return g.rejectLocked(rules.Reject(rules.ErrInvalidSelection, "No card at that position."))
	}
	card := p.Hand[index]
	active := s.Turn.Active

	if card.IsSpecial() {
		if s.Turn.Phase == rules.PhaseLaunchPair {
			return g.rejectLocked(rules.Reject(rules.ErrInvalidSelection, "Confirm or cancel the launch first."))
		}
		req, _ := targeting.ForSpecial(card)
		if len(g.validator().Candidates(active, req)) == 0 {
			return g.rejectLocked(rules.Reject(rules.ErrResourceExhausted,
				fmt.Sprintf("No valid targets for %s: needs %s.", card.Label(), req.Description)))
		}
		s.Turn.Phase = rules.PhaseSpecialTarget
		s.Pending = noPending()
		s.Pending.Kind = PendingSpecial
		s.Pending.CardIndex = index
		g.hint = specialHint(card)
		g.logger.Debug("special selected", zap.Int("player", active), zap.String("card", card.Label()))
		return nil
	}

	if card.Suit == cards.Spades && !card.IsWeapon() {
		return g.rejectLocked(rules.Reject(rules.ErrInvalidSelection, card.Label()+" can only be spent on a crown."))
	}
	if card.Suit == cards.Diamonds || card.Suit == cards.Spades {
		if len(g.validator().Candidates(active, targeting.ForInstall(card))) == 0 {
			if card.Suit == cards.Spades {
				return g.rejectLocked(rules.Reject(rules.ErrResourceExhausted,
					fmt.Sprintf("No valid targets for %s. Highest Engine is %d. Upgrade ♣ first or pick another card.",
						card.Label(), g.validator().MaxEngine(active))))
			}
			return g.rejectLocked(rules.Reject(rules.ErrResourceExhausted, "No valid targets: build only on your living ships."))
		}
	}

	if !s.Turn.Phase.IsBuild() {
		s.Turn.Phase = rules.PhaseBuildPick
		s.Pending = noPending()
		s.Pending.Kind = PendingBuild
	}
	pend := &s.Pending

	if card.Suit == cards.Clubs || card.Suit == cards.Hearts {
		first := pend.CardIndex
		if first >= 0 && first != index && first < len(p.Hand) && isLaunchPair(p.Hand[first], card) {
			pend.PairIndex = index
			s.Turn.Phase = rules.PhaseLaunchPair
			g.hint = "Launch ready: press Confirm Launch."
			return nil
		}
		pend.CardIndex = index
		pend.PairIndex = -1
		s.Turn.Phase = rules.PhaseBuildTarget
		need := "♣"
		if card.Suit == cards.Clubs {
			need = "♥"
		}
		g.hint = fmt.Sprintf("Selected %s. Tap a highlighted ship to install, or select a %s to LAUNCH a new ship.", card.Label(), need)
		return nil
	}

	pend.CardIndex = index
	pend.PairIndex = -1
	s.Turn.Phase = rules.PhaseBuildTarget
	g.hint = fmt.Sprintf("Build: tap a highlighted ship to install %s.", card.Label())
	return nil
}

func isLaunchPair(a, b cards.Card) bool {
	return (a.Suit == cards.Clubs && b.Suit == cards.Hearts) || (a.Suit == cards.Hearts && b.Suit == cards.Clubs)
}

func specialHint(card cards.Card) string {
	switch {
	case card.IsJoker():
		return "Joker: select an enemy ship with weapons (they go offline for 1 turn)."
	case card.Rank == cards.Jack:
		return fmt.Sprintf("J♠: select any enemy ship (%d Hull, bypass Shields).", jackDamage)
	case card.Rank == cards.Queen:
		return fmt.Sprintf("Q♠: select your ship for reflect (≤%d on its next attack).", fleet.ReflectCap)
	default:
		return fmt.Sprintf("K♠: select any enemy ship (%d Hull, bypass Shields).", kingDamage)
	}
}

// SelectShip taps a ship. What happens depends on the phase: install,
// launch confirmation, attacker or target choice, crown, or a special.
func (g *Game) SelectShip(owner, index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.humanLocked(); err != nil {
		return err
	}
	return g.selectShipLocked(targeting.ShipRef{Owner: owner, Index: index})
}

func (g *Game) selectShipLocked(ref targeting.ShipRef) error {
	if err := g.guardLocked(); err != nil {
		return err
	}
	s := g.state
	if err := s.Turn.Gate(); err != nil {
		return g.rejectLocked(err)
	}

	switch s.Turn.Phase {
	case rules.PhaseBuildTarget:
		return g.installLocked(ref)
	case rules.PhaseLaunchPair:
		return g.confirmLaunchLocked()
	case rules.PhaseAttackSelectAttacker:
		return g.selectAttackerLocked(ref)
	case rules.PhaseAttackSelectTarget:
		return g.attackLocked(ref)
	case rules.PhaseCrownSelectShip:
		return g.crownLocked(ref)
	case rules.PhaseSpecialTarget:
		return g.specialLocked(ref)
	case rules.PhaseBuildPick:
		return g.rejectLocked(rules.Reject(rules.ErrInvalidSelection, "Select a card first."))
	default:
		return g.rejectLocked(rules.Reject(rules.ErrInvalidSelection, "Choose Build, Attack or Crown first, or tap a card."))
	}
}

// ConfirmLaunch launches a ship from the selected ♣/♥ pair.
func (g *Game) ConfirmLaunch() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.humanLocked(); err != nil {
		return err
	}
	if err := g.state.Turn.Gate(); err != nil {
		return g.rejectLocked(err)
	}
	return g.confirmLaunchLocked()
}

// CancelLaunch drops the launch pair and returns to card selection.
func (g *Game) CancelLaunch() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.humanLocked(); err != nil {
		return err
	}
	s := g.state
	if s.Turn.Phase != rules.PhaseLaunchPair {
		return g.rejectLocked(rules.Reject(rules.ErrInvalidSelection, "No launch to cancel."))
	}
	s.Turn.Phase = rules.PhaseBuildPick
	s.Pending = noPending()
	s.Pending.Kind = PendingBuild
	g.hint = buildHint
	return nil
}

// Cancel abandons any in-progress selection without using the action.
func (g *Game) Cancel() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.guardLocked(); err != nil {
		return err
	}
	g.cancelLocked()
	return nil
}

func (g *Game) cancelLocked() {
	s := g.state
	if s.Turn.Phase == rules.PhaseIdle {
		return
	}
	s.Turn.Idle()
	s.Pending = noPending()
	if s.Turn.ActionUsed {
		g.hint = "Action used. End Turn to proceed."
	} else {
		g.hint = g.idleHint()
	}
}

// commitLocked consumes the turn's action, returns to idle and checks for
// a winner.
func (g *Game) commitLocked(action string) {
	s := g.state
	s.Turn.Commit()
	s.Pending = noPending()
	g.hint = "Action used. End Turn to proceed."
	g.logger.Info("action committed",
		zap.String("action", action),
		zap.Int("player", s.Turn.Active),
		zap.Int("turn", s.Turn.TurnNumber),
	)
	g.evaluateLocked()
}
