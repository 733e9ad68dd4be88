package ai

import (
	"github.com/broadside/broadside-server-go/internal/game"
	"github.com/broadside/broadside-server-go/internal/game/cards"
	"github.com/broadside/broadside-server-go/internal/game/fleet"
	"github.com/broadside/broadside-server-go/internal/game/targeting"
)

// Bypass thresholds at which the royal spades are worth spending.
const (
	kingLethal = 7
	jackLethal = 3
)

// Rule is one step of a priority chain. Then is only called after When
// has returned true for the same context.
type Rule struct {
	Name string
	When func(c *Context) bool
	Then func(c *Context) game.Action
}

// plan adapts a single function that both checks and builds an action.
func plan(name string, fn func(c *Context) (game.Action, bool)) Rule {
	return Rule{
		Name: name,
		When: func(c *Context) bool {
			_, ok := fn(c)
			return ok
		},
		Then: func(c *Context) game.Action {
			a, _ := fn(c)
			return a
		},
	}
}

// CrownStrongest spends an Ace on the strongest living ship while no ship
// has been crowned.
var CrownStrongest = plan("crown_strongest", func(c *Context) (game.Action, bool) {
	if c.hasFlagship() || c.findCard(cards.Card.IsAce) < 0 {
		return game.Action{}, false
	}
	best, ok := bestBy(c.own(), (*fleet.Ship).Strength)
	if !ok {
		return game.Action{}, false
	}
	return game.Crown(best.ref), true
})

// KingWeakest plays K♠ into the weakest enemy when its hull is in range.
var KingWeakest = plan("king_weakest", func(c *Context) (game.Action, bool) {
	return royalOnWeakest(c, cards.King, kingLethal)
})

// JackWeakest plays J♠ into the weakest enemy when its hull is in range.
var JackWeakest = plan("jack_weakest", func(c *Context) (game.Action, bool) {
	return royalOnWeakest(c, cards.Jack, jackLethal)
})

func royalOnWeakest(c *Context, rank, lethal int) (game.Action, bool) {
	idx := c.findCard(isRank(rank))
	if idx < 0 {
		return game.Action{}, false
	}
	target, ok := weakest(c.enemies())
	if !ok || target.ship.Hull > lethal {
		return game.Action{}, false
	}
	return game.Special(idx, target.ref), true
}

// KingFlagship prefers the enemy flagship for K♠: lethal on it first, then
// any lethal target, then chip damage on the flagship.
var KingFlagship = plan("king_flagship", func(c *Context) (game.Action, bool) {
	idx := c.findCard(isRank(cards.King))
	if idx < 0 {
		return game.Action{}, false
	}
	flag, hasFlag := c.enemyFlagship()
	if hasFlag && flag.ship.Hull <= kingLethal {
		return game.Special(idx, flag.ref), true
	}
	if lethal := filter(c.enemies(), func(s *fleet.Ship) bool { return s.Hull <= kingLethal }); len(lethal) > 0 {
		return game.Special(idx, lethal[0].ref), true
	}
	if hasFlag {
		return game.Special(idx, flag.ref), true
	}
	return game.Action{}, false
})

// JackFlagship plays J♠ only when it kills, the enemy flagship first.
var JackFlagship = plan("jack_flagship", func(c *Context) (game.Action, bool) {
	idx := c.findCard(isRank(cards.Jack))
	if idx < 0 {
		return game.Action{}, false
	}
	if flag, ok := c.enemyFlagship(); ok && flag.ship.Hull <= jackLethal {
		return game.Special(idx, flag.ref), true
	}
	if lethal := filter(c.enemies(), func(s *fleet.Ship) bool { return s.Hull <= jackLethal }); len(lethal) > 0 {
		return game.Special(idx, lethal[0].ref), true
	}
	return game.Action{}, false
})

// InstallWeapon puts the lowest weapon in hand on the fitting ship that
// currently deals the least damage.
var InstallWeapon = plan("install_weapon", func(c *Context) (game.Action, bool) {
	idx := c.lowestCard(cards.Card.IsWeapon)
	if idx < 0 {
		return game.Action{}, false
	}
	card := c.Player.Hand[idx]
	fit := filter(c.own(), func(s *fleet.Ship) bool { return s.CanInstall(card) })
	target, ok := leastBy(fit, (*fleet.Ship).Damage)
	if !ok {
		return game.Action{}, false
	}
	return game.Build(idx, target.ref), true
})

// LaunchShip pairs the first ♣ and ♥ in hand while the fleet has room.
var LaunchShip = plan("launch", func(c *Context) (game.Action, bool) {
	club, heart := c.findCard(isSuit(cards.Clubs)), c.findCard(isSuit(cards.Hearts))
	if club < 0 || heart < 0 || len(c.own()) >= c.State.FleetCap {
		return game.Action{}, false
	}
	return game.Launch(club, heart), true
})

// RaiseEngine installs the best ♣ on the slowest ship when the lowest
// weapon in hand needs more engine than that ship has.
var RaiseEngine = plan("raise_engine", func(c *Context) (game.Action, bool) {
	weapon := c.lowestCard(cards.Card.IsWeapon)
	club := c.highestCard(isSuit(cards.Clubs))
	if weapon < 0 || club < 0 {
		return game.Action{}, false
	}
	slowest, ok := leastBy(c.own(), (*fleet.Ship).Engine)
	if !ok || slowest.ship.Engine() >= c.Player.Hand[weapon].Rank {
		return game.Action{}, false
	}
	return game.Build(club, slowest.ref), true
})

// ReinforceHull installs the lowest ♥ on the weakest own ship.
var ReinforceHull = plan("reinforce_hull", func(c *Context) (game.Action, bool) {
	heart := c.lowestCard(isSuit(cards.Hearts))
	if heart < 0 {
		return game.Action{}, false
	}
	target, ok := weakest(c.own())
	if !ok {
		return game.Action{}, false
	}
	return game.Build(heart, target.ref), true
})

// ReinforceShield installs the highest ♦ on the ship with the lowest
// shield rating.
var ReinforceShield = plan("reinforce_shield", func(c *Context) (game.Action, bool) {
	diamond := c.highestCard(isSuit(cards.Diamonds))
	if diamond < 0 {
		return game.Action{}, false
	}
	target, ok := leastBy(c.own(), (*fleet.Ship).ShieldRating)
	if !ok {
		return game.Action{}, false
	}
	return game.Build(diamond, target.ref), true
})

// JokerBiggestGun takes the highest-damage enemy offline.
var JokerBiggestGun = plan("joker_biggest_gun", func(c *Context) (game.Action, bool) {
	return jokerOn(c, false)
})

// JokerBiggestGunFlagship is JokerBiggestGun with flagships winning ties.
var JokerBiggestGunFlagship = plan("joker_biggest_gun_flagship", func(c *Context) (game.Action, bool) {
	return jokerOn(c, true)
})

func jokerOn(c *Context, flagshipFirst bool) (game.Action, bool) {
	idx := c.findCard(cards.Card.IsJoker)
	if idx < 0 {
		return game.Action{}, false
	}
	target, ok := bestBy(filter(c.enemies(), armed), func(s *fleet.Ship) int {
		score := s.Damage() * 2
		if flagshipFirst && s.Flagship {
			score++
		}
		return score
	})
	if !ok {
		return game.Action{}, false
	}
	return game.Special(idx, target.ref), true
}

// AttackWeakest fires the highest-damage ship at the weakest enemy.
var AttackWeakest = plan("attack_weakest", func(c *Context) (game.Action, bool) {
	return attackInto(c, false)
})

// AttackFlagship fires the highest-damage ship at the enemy flagship when
// one is alive, otherwise at the weakest enemy.
var AttackFlagship = plan("attack_flagship", func(c *Context) (game.Action, bool) {
	return attackInto(c, true)
})

func attackInto(c *Context, flagshipFirst bool) (game.Action, bool) {
	attacker, ok := bestBy(filter(c.own(), armed), (*fleet.Ship).Damage)
	if !ok {
		return game.Action{}, false
	}
	target, found := candidate{}, false
	if flagshipFirst {
		target, found = c.enemyFlagship()
	}
	if !found {
		target, found = weakest(c.enemies())
	}
	if !found {
		return game.Action{}, false
	}
	return game.Attack(attacker.ref.Index, target.ref), true
}

// NormalRules is the Normal tier's priority chain.
var NormalRules = []Rule{
	CrownStrongest,
	KingWeakest,
	JackWeakest,
	InstallWeapon,
	LaunchShip,
	RaiseEngine,
	ReinforceHull,
	ReinforceShield,
	JokerBiggestGun,
	AttackWeakest,
}

// HardRules is the Hard tier's priority chain: flagship-focused specials
// and attacks, and engine work ahead of launching.
var HardRules = []Rule{
	CrownStrongest,
	KingFlagship,
	JackFlagship,
	InstallWeapon,
	RaiseEngine,
	LaunchShip,
	ReinforceHull,
	ReinforceShield,
	JokerBiggestGunFlagship,
	AttackFlagship,
}

// Easy options are picked at random among those that apply.

// CrownFirst crowns the first living ship.
var CrownFirst = plan("crown_first", func(c *Context) (game.Action, bool) {
	own := c.own()
	if c.hasFlagship() || c.findCard(cards.Card.IsAce) < 0 || len(own) == 0 {
		return game.Action{}, false
	}
	return game.Crown(own[0].ref), true
})

// AttackAny fires the first armed ship at the first living enemy.
var AttackAny = plan("attack_any", func(c *Context) (game.Action, bool) {
	attackers, enemies := filter(c.own(), armed), c.enemies()
	if len(attackers) == 0 || len(enemies) == 0 {
		return game.Action{}, false
	}
	return game.Attack(attackers[0].ref.Index, enemies[0].ref), true
})

// specialTarget returns the first legal target for a special card.
func specialTarget(c *Context, card cards.Card) (targeting.ShipRef, bool) {
	switch {
	case card.IsJoker():
		if gun := filter(c.enemies(), (*fleet.Ship).HasWeapons); len(gun) > 0 {
			return gun[0].ref, true
		}
	case card.Rank == cards.Queen:
		if own := c.own(); len(own) > 0 {
			return own[0].ref, true
		}
	default:
		if enemies := c.enemies(); len(enemies) > 0 {
			return enemies[0].ref, true
		}
	}
	return targeting.ShipRef{}, false
}
