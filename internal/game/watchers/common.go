// Package watchers holds the match statistics watchers. They live in the
// watcher registry with the rule watchers, so undo rewinds them too.
package watchers

import (
	"github.com/broadside/broadside-server-go/internal/game/rules"
)

// Registry keys.
const (
	CardsPlayedKey    = "cards_played"
	DamageDealtKey    = "damage_dealt"
	ShipsDestroyedKey = "ships_destroyed"
	CardsDrawnKey     = "cards_drawn"
)

func valid(player int) bool {
	return player == 0 || player == 1
}

// CardsPlayedWatcher counts the actions each player committed from hand:
// installs, launches, crowns and specials.
type CardsPlayedWatcher struct {
	rules.BaseWatcher
	Installs [2]int
	Launches [2]int
	Crowns   [2]int
	Specials [2]int
}

// NewCardsPlayedWatcher creates a new cards played watcher.
func NewCardsPlayedWatcher() *CardsPlayedWatcher {
	return &CardsPlayedWatcher{BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame, CardsPlayedKey)}
}

// Watch implements the Watcher interface.
func (w *CardsPlayedWatcher) Watch(event rules.Event) {
	if !valid(event.Player) {
		return
	}
	switch event.Type {
	case rules.EventCardInstalled:
		w.Installs[event.Player]++
	case rules.EventShipLaunched:
		w.Launches[event.Player]++
	case rules.EventShipCrowned:
		w.Crowns[event.Player]++
	case rules.EventSpecialPlayed:
		w.Specials[event.Player]++
	default:
		return
	}
	w.SetCondition(true)
}

// Total returns every card action of player.
func (w *CardsPlayedWatcher) Total(player int) int {
	return w.Installs[player] + w.Launches[player] + w.Crowns[player] + w.Specials[player]
}

// Copy creates a copy of this watcher.
func (w *CardsPlayedWatcher) Copy() rules.Watcher {
	clone := *w
	return &clone
}

// DamageDealtWatcher sums hull and shield damage each player inflicted.
// Reflected damage counts for the player who set up the reflect.
type DamageDealtWatcher struct {
	rules.BaseWatcher
	Dealt [2]int
}

// NewDamageDealtWatcher creates a new damage dealt watcher.
func NewDamageDealtWatcher() *DamageDealtWatcher {
	return &DamageDealtWatcher{BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame, DamageDealtKey)}
}

// Watch implements the Watcher interface.
func (w *DamageDealtWatcher) Watch(event rules.Event) {
	if event.Amount <= 0 {
		return
	}
	var credit int
	switch event.Type {
	case rules.EventAttack, rules.EventSpecialPlayed:
		credit = event.Player
	case rules.EventReflect:
		// the reflect lands on the attacker's own ship
		credit = 1 - event.Owner
	default:
		return
	}
	if !valid(credit) {
		return
	}
	w.Dealt[credit] += event.Amount
	w.SetCondition(true)
}

// Copy creates a copy of this watcher.
func (w *DamageDealtWatcher) Copy() rules.Watcher {
	clone := *w
	return &clone
}

// ShipsDestroyedWatcher counts the enemy ships each player has sunk. A ship
// lost to its own reflect counts for the opponent.
type ShipsDestroyedWatcher struct {
	rules.BaseWatcher
	Kills [2]int
}

// NewShipsDestroyedWatcher creates a new ships destroyed watcher.
func NewShipsDestroyedWatcher() *ShipsDestroyedWatcher {
	return &ShipsDestroyedWatcher{BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame, ShipsDestroyedKey)}
}

// Watch implements the Watcher interface.
func (w *ShipsDestroyedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventShipDestroyed || !valid(event.Owner) {
		return
	}
	w.Kills[1-event.Owner]++
	w.SetCondition(true)
}

// Copy creates a copy of this watcher.
func (w *ShipsDestroyedWatcher) Copy() rules.Watcher {
	clone := *w
	return &clone
}

// CardsDrawnWatcher tracks cards drawn by players.
type CardsDrawnWatcher struct {
	rules.BaseWatcher
	Drawn [2]int
}

// NewCardsDrawnWatcher creates a new cards drawn watcher.
func NewCardsDrawnWatcher() *CardsDrawnWatcher {
	return &CardsDrawnWatcher{BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame, CardsDrawnKey)}
}

// Watch implements the Watcher interface.
func (w *CardsDrawnWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCardsDrawn || !valid(event.Player) {
		return
	}
	w.Drawn[event.Player] += event.Amount
	w.SetCondition(true)
}

// Copy creates a copy of this watcher.
func (w *CardsDrawnWatcher) Copy() rules.Watcher {
	clone := *w
	return &clone
}

// Register adds every statistics watcher to wr.
func Register(wr *rules.WatcherRegistry) {
	wr.AddWatcher(NewCardsPlayedWatcher())
	wr.AddWatcher(NewDamageDealtWatcher())
	wr.AddWatcher(NewShipsDestroyedWatcher())
	wr.AddWatcher(NewCardsDrawnWatcher())
}

// Stats is one player's match statistics.
type Stats struct {
	CardsPlayed  int `json:"cardsPlayed"`
	DamageDealt  int `json:"damageDealt"`
	ShipsSunk    int `json:"shipsSunk"`
	CardsDrawn   int `json:"cardsDrawn"`
	Launches     int `json:"launches"`
	SpecialsUsed int `json:"specialsUsed"`
}

// StatsFor reads player's statistics from wr. Missing watchers read as zero.
func StatsFor(wr *rules.WatcherRegistry, player int) Stats {
	var s Stats
	if !valid(player) || wr == nil {
		return s
	}
	if w, ok := wr.GetWatcher(CardsPlayedKey).(*CardsPlayedWatcher); ok {
		s.CardsPlayed = w.Total(player)
		s.Launches = w.Launches[player]
		s.SpecialsUsed = w.Specials[player]
	}
	if w, ok := wr.GetWatcher(DamageDealtKey).(*DamageDealtWatcher); ok {
		s.DamageDealt = w.Dealt[player]
	}
	if w, ok := wr.GetWatcher(ShipsDestroyedKey).(*ShipsDestroyedWatcher); ok {
		s.ShipsSunk = w.Kills[player]
	}
	if w, ok := wr.GetWatcher(CardsDrawnKey).(*CardsDrawnWatcher); ok {
		s.CardsDrawn = w.Drawn[player]
	}
	return s
}
