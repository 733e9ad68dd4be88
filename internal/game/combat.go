package game

import (
	"fmt"

	"github.com/broadside/broadside-server-go/internal/game/fleet"
	"github.com/broadside/broadside-server-go/internal/game/rules"
	"github.com/broadside/broadside-server-go/internal/game/targeting"
)

// attackLocked resolves an attack from the pending attacker into ref.
// The defender takes the hit first; reflect damage lands on the attacker
// afterwards through the same shield and hull path.
func (g *Game) attackLocked(ref targeting.ShipRef) error {
	g.history.Record(g.state)
	s := g.state
	p, o := s.Active(), s.Opponent()

	attackerRef := targeting.ShipRef{Owner: p.ID, Index: s.Pending.Attacker}
	if err := g.validator().ValidateTarget(p.ID, attackerRef, targeting.ForAttacker()); err != nil {
		g.history.Discard()
		return g.rejectLocked(err)
	}
	if err := g.validator().ValidateTarget(p.ID, ref, targeting.ForAttackTarget()); err != nil {
		g.history.Discard()
		return g.rejectLocked(err)
	}
	attacker := p.Ships[attackerRef.Index]
	defender := o.Ships[ref.Index]

	dmg := attacker.Damage()
	hit := defender.TakeHit(dmg, g.opts.ShieldCooldownTurns)
	if hit.ShieldBroke {
		e := rules.NewEvent(rules.EventShieldAbsorbed, rules.SeverityMuted, o.ID,
			fmt.Sprintf("%s's shield absorbs %d and goes down for %d turn(s).", defender.Name, hit.Absorbed, g.opts.ShieldCooldownTurns))
		e.ShipID, e.Owner, e.Amount = defender.ID, o.ID, hit.Absorbed
		g.emitLocked(e)
	}

	outcome := "destroyed!"
	severity := rules.SeverityBad
	if defender.Alive {
		outcome = fmt.Sprintf("(H%d Sh%d)", defender.Hull, defender.EffectiveShield())
		severity = rules.SeverityInfo
	}
	e := rules.NewEvent(rules.EventAttack, severity, p.ID,
		fmt.Sprintf("%s attacks with %s for %d → %s's %s %s", p.Name, attacker.Name, dmg, o.Name, defender.Name, outcome))
	e.ShipID, e.Owner, e.Amount = defender.ID, o.ID, hit.Dealt()
	g.emitLocked(e)
	if hit.Destroyed {
		g.destroyedLocked(o, defender)
	}

	if attacker.ReflectPending {
		g.reflectLocked(p, attacker, dmg)
	}

	g.commitLocked("attack")
	return nil
}

func (g *Game) reflectLocked(owner *Player, attacker *fleet.Ship, dealt int) {
	amount := min(fleet.ReflectCap, dealt)
	attacker.ReflectPending = false
	self := attacker.TakeHit(amount, g.opts.ShieldCooldownTurns)

	e := rules.NewEvent(rules.EventReflect, rules.SeverityMuted, owner.ID,
		fmt.Sprintf("Reflect triggers on %s: takes %d.", attacker.Name, amount))
	e.ShipID, e.Owner, e.Amount = attacker.ID, owner.ID, self.Dealt()
	g.emitLocked(e)
	if self.Destroyed {
		g.destroyedLocked(owner, attacker)
	}
}
