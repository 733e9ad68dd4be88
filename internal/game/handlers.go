package game

import (
	"fmt"

	"github.com/broadside/broadside-server-go/internal/game/cards"
	"github.com/broadside/broadside-server-go/internal/game/fleet"
	"github.com/broadside/broadside-server-go/internal/game/rules"
	"github.com/broadside/broadside-server-go/internal/game/targeting"
)

// Special card effects.
const (
	jackDamage        = 3
	kingDamage        = 7
	jokerOfflineTurns = 1
)

// pendingCard returns the hand card the current selection refers to.
func (g *Game) pendingCard() (cards.Card, int, bool) {
	p := g.state.Active()
	idx := g.state.Pending.CardIndex
	if idx < 0 || idx >= len(p.Hand) {
		return cards.Card{}, -1, false
	}
	return p.Hand[idx], idx, true
}

func (g *Game) installLocked(ref targeting.ShipRef) error {
	g.history.Record(g.state)
	s := g.state
	p := s.Active()

	card, idx, ok := g.pendingCard()
	if !ok {
		g.history.Discard()
		return g.rejectLocked(rules.Reject(rules.ErrInvalidSelection, "Select a card first."))
	}
	if err := g.validator().ValidateTarget(s.Turn.Active, ref, targeting.ForInstall(card)); err != nil {
		g.history.Discard()
		return g.rejectLocked(err)
	}
	ship := p.Ships[ref.Index]
	if err := ship.Install(card); err != nil {
		g.history.Discard()
		return g.rejectLocked(rules.Reject(rules.ErrInvalidSelection, "That card can't be installed on that ship."))
	}
	p.Hand = removeCards(p.Hand, idx)

	var msg string
	switch card.Suit {
	case cards.Clubs:
		msg = fmt.Sprintf("%s upgrades Engine on %s → %d.", p.Name, ship.Name, ship.Engine())
	case cards.Hearts:
		msg = fmt.Sprintf("%s reinforces Hull on %s → %d/%d.", p.Name, ship.Name, ship.Hull, ship.HullMax)
	case cards.Diamonds:
		msg = fmt.Sprintf("%s sets Shield %d on %s (active).", p.Name, ship.ShieldRating(), ship.Name)
	case cards.Spades:
		msg = fmt.Sprintf("%s installs weapon %s on %s.", p.Name, card.Label(), ship.Name)
	case cards.Joker:
	}
	e := rules.NewEvent(rules.EventCardInstalled, rules.SeverityInfo, p.ID, msg)
	e.ShipID, e.Owner = ship.ID, p.ID
	g.emitLocked(e)

	g.commitLocked("install")
	return nil
}

func (g *Game) confirmLaunchLocked() error {
	s := g.state
	pend := s.Pending
	p := s.Active()
	if s.Turn.Phase != rules.PhaseLaunchPair ||
		pend.CardIndex < 0 || pend.CardIndex >= len(p.Hand) ||
		pend.PairIndex < 0 || pend.PairIndex >= len(p.Hand) {
		return g.rejectLocked(rules.Reject(rules.ErrInvalidSelection, "Select a ♣ and a ♥ to launch."))
	}

	g.history.Record(s)

	club, heart := p.Hand[pend.CardIndex], p.Hand[pend.PairIndex]
	if club.Suit == cards.Hearts {
		club, heart = heart, club
	}
	if club.Suit != cards.Clubs || heart.Suit != cards.Hearts {
		g.history.Discard()
		return g.rejectLocked(rules.Reject(rules.ErrInvalidSelection, "A launch needs one ♣ and one ♥."))
	}
	if len(p.Living()) >= s.FleetCap {
		g.history.Discard()
		return g.rejectLocked(rules.Reject(rules.ErrResourceExhausted,
			fmt.Sprintf("Fleet is full (cap %d). Destroy a ship first or install instead.", s.FleetCap)))
	}

	p.Launched++
	ship := fleet.Launch(fmt.Sprintf("P%d New Ship %d", p.ID+1, p.Launched), club, heart)
	slot := -1
	for i, existing := range p.Ships {
		if !existing.Alive && !existing.Flagship {
			slot = i
			break
		}
	}
	if slot >= 0 {
		p.Ships[slot] = ship
	} else {
		p.Ships = append(p.Ships, ship)
	}
	p.Hand = removeCards(p.Hand, pend.CardIndex, pend.PairIndex)

	e := rules.NewEvent(rules.EventShipLaunched, rules.SeverityGood, p.ID,
		fmt.Sprintf("%s launches %s (E:%d H:%d).", p.Name, ship.Name, club.Rank, heart.Rank))
	e.ShipID, e.Owner = ship.ID, p.ID
	g.emitLocked(e)

	g.commitLocked("launch")
	return nil
}

// selectAttackerLocked picks the attacking ship. Nothing is committed yet,
// so no history is recorded.
func (g *Game) selectAttackerLocked(ref targeting.ShipRef) error {
	s := g.state
	if err := g.validator().ValidateTarget(s.Turn.Active, ref, targeting.ForAttacker()); err != nil {
		return g.rejectLocked(err)
	}
	s.Pending.Attacker = ref.Index
	s.Turn.Phase = rules.PhaseAttackSelectTarget
	g.hint = fmt.Sprintf("Attack: select an enemy target (damage = %d).", s.Active().Ships[ref.Index].Damage())
	return nil
}

func (g *Game) crownLocked(ref targeting.ShipRef) error {
	g.history.Record(g.state)
	s := g.state
	p := s.Active()

	card, idx, ok := g.pendingCard()
	if !ok || !card.IsAce() {
		g.history.Discard()
		return g.rejectLocked(rules.Reject(rules.ErrInvalidSelection, "You have no Ace."))
	}
	if err := g.validator().ValidateTarget(s.Turn.Active, ref, targeting.ForCrown()); err != nil {
		g.history.Discard()
		return g.rejectLocked(err)
	}
	ship := p.Ships[ref.Index]
	ship.Crown()
	p.Hand = removeCards(p.Hand, idx)

	e := rules.NewEvent(rules.EventShipCrowned, rules.SeverityGood, p.ID,
		fmt.Sprintf("%s crowns %s with %s. Engine ≥ %d.", p.Name, ship.Name, card.Label(), fleet.CrownEngineFloor))
	e.ShipID, e.Owner = ship.ID, p.ID
	g.emitLocked(e)

	g.commitLocked("crown")
	return nil
}

func (g *Game) specialLocked(ref targeting.ShipRef) error {
	g.history.Record(g.state)
	s := g.state
	p := s.Active()

	card, idx, ok := g.pendingCard()
	req, special := targeting.ForSpecial(card)
	if !ok || !special {
		g.history.Discard()
		return g.rejectLocked(rules.Reject(rules.ErrInvalidSelection, "Select a Joker or a royal ♠ first."))
	}
	if err := g.validator().ValidateTarget(s.Turn.Active, ref, req); err != nil {
		g.history.Discard()
		return g.rejectLocked(err)
	}
	owner := s.Players[ref.Owner]
	ship := owner.Ships[ref.Index]
	p.Hand = removeCards(p.Hand, idx)

	var (
		hit fleet.Hit
		e   rules.Event
	)
	switch {
	case card.IsJoker():
		ship.DisableWeapons(jokerOfflineTurns)
		e = rules.NewEvent(rules.EventSpecialPlayed, rules.SeverityWarn, p.ID,
			fmt.Sprintf("%s plays Joker: %s's %s weapons go offline for %d turn.", p.Name, owner.Name, ship.Name, jokerOfflineTurns))
	case card.Rank == cards.Jack:
		hit = ship.TakeBypass(jackDamage)
		e = rules.NewEvent(rules.EventSpecialPlayed, rules.SeverityBad, p.ID,
			fmt.Sprintf("%s plays J♠: %d Hull to %s (bypass).", p.Name, jackDamage, ship.Name))
	case card.Rank == cards.Queen:
		ship.ReflectPending = true
		e = rules.NewEvent(rules.EventSpecialPlayed, rules.SeverityGood, p.ID,
			fmt.Sprintf("%s plays Q♠: %s will reflect up to %d on its next attack.", p.Name, ship.Name, fleet.ReflectCap))
	default:
		hit = ship.TakeBypass(kingDamage)
		e = rules.NewEvent(rules.EventSpecialPlayed, rules.SeverityBad, p.ID,
			fmt.Sprintf("%s plays K♠: %d Hull to %s (bypass).", p.Name, kingDamage, ship.Name))
	}
	e.ShipID, e.Owner, e.Amount = ship.ID, owner.ID, hit.HullDamage
	g.emitLocked(e)
	if hit.Destroyed {
		g.destroyedLocked(owner, ship)
	}

	g.commitLocked("special")
	return nil
}

// destroyedLocked reports a ship loss. Watchers see it through the event.
func (g *Game) destroyedLocked(owner *Player, ship *fleet.Ship) {
	msg := fmt.Sprintf("%s's %s is destroyed!", owner.Name, ship.Name)
	if ship.Flagship {
		msg = fmt.Sprintf("%s's Flagship %s is destroyed!", owner.Name, ship.Name)
	}
	e := rules.NewEvent(rules.EventShipDestroyed, rules.SeverityBad, g.state.Turn.Active, msg)
	e.ShipID, e.Owner = ship.ID, owner.ID
	g.emitLocked(e)
}
