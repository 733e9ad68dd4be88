// Package fleet models ships: their per-suit card stacks, the stats derived
// from them, and the runtime status that combat and specials mutate.
package fleet

import (
	"fmt"

	"github.com/broadside/broadside-server-go/internal/game/cards"
	"github.com/broadside/broadside-server-go/internal/game/counters"
	"github.com/broadside/broadside-server-go/internal/game/stacking"
	"github.com/google/uuid"
)

// CrownEngineFloor is the minimum engine of a flagship.
const CrownEngineFloor = 5

// ReflectCap bounds the self-damage a reflecting attacker takes.
const ReflectCap = 5

// Ship is a single vessel owned by one player.
type Ship struct {
	ID   string
	Name string

	Clubs    []int
	Hearts   []int
	Diamonds []int
	Spades   []int

	// EngineFloor is reapplied on every engine read; set by crowning.
	EngineFloor int

	Hull    int
	HullMax int

	ShieldActive bool
	Timers       *counters.Counters

	Alive          bool
	Flagship       bool
	ReflectPending bool
}

// Spec describes the starting stacks of a ship.
type Spec struct {
	Name     string
	Clubs    []int
	Hearts   []int
	Diamonds []int
	Spades   []int
}

// NewShip builds a living ship from its starting stacks. Hull starts full
// and a positive shield starts armed.
func NewShip(spec Spec) *Ship {
	s := &Ship{
		ID:       uuid.NewString(),
		Name:     spec.Name,
		Clubs:    cloneInts(spec.Clubs),
		Hearts:   cloneInts(spec.Hearts),
		Diamonds: cloneInts(spec.Diamonds),
		Spades:   cloneInts(spec.Spades),
		Timers:   counters.NewCounters(),
		Alive:    true,
	}
	s.HullMax = stacking.Aggregate(s.Hearts)
	s.Hull = s.HullMax
	s.ShieldActive = s.ShieldRating() > 0
	return s
}

// Launch builds a new ship from one club and one heart.
func Launch(name string, club, heart cards.Card) *Ship {
	return NewShip(Spec{
		Name:   name,
		Clubs:  []int{club.Rank},
		Hearts: []int{heart.Rank},
	})
}

// Engine is the aggregated clubs stack, floored for flagships.
func (s *Ship) Engine() int {
	e := stacking.Aggregate(s.Clubs)
	if e < s.EngineFloor {
		return s.EngineFloor
	}
	return e
}

// ShieldRating is the aggregated diamonds stack.
func (s *Ship) ShieldRating() int {
	return stacking.Aggregate(s.Diamonds)
}

// EffectiveShield is the rating when armed, otherwise 0.
func (s *Ship) EffectiveShield() int {
	if s.ShieldActive {
		return s.ShieldRating()
	}
	return 0
}

// ShieldCooldownTurns returns the owner-turns left before the shield re-arms.
func (s *Ship) ShieldCooldownTurns() int {
	return s.Timers.GetCount(counters.ShieldCooldown)
}

// WeaponsOfflineTurns returns the owner-turns left before weapons work again.
func (s *Ship) WeaponsOfflineTurns() int {
	return s.Timers.GetCount(counters.WeaponsOffline)
}

// HasWeapons reports whether any weapon card is installed.
func (s *Ship) HasWeapons() bool {
	return len(s.Spades) > 0
}

// UsableWeapons returns the installed weapon ranks the engine can power.
// Nothing is usable while weapons are offline.
func (s *Ship) UsableWeapons() []int {
	if s.WeaponsOfflineTurns() > 0 {
		return nil
	}
	return stacking.Usable(s.Spades, s.Engine())
}

// Role classifies the ship from its weapon pool, engine and maximum hull.
func (s *Ship) Role() stacking.Role {
	return stacking.Classify(len(s.Spades), s.Engine(), s.HullMax)
}

// Damage is the ship's attack output. It is 0 while weapons are offline.
func (s *Ship) Damage() int {
	if s.WeaponsOfflineTurns() > 0 {
		return 0
	}
	return stacking.Damage(s.UsableWeapons(), s.Role())
}

// Durability is hull plus the armed shield; the AI and tiebreak use it.
func (s *Ship) Durability() int {
	return s.Hull + s.EffectiveShield()
}

// Strength is the crowning heuristic: engine, hull and armed shield.
func (s *Ship) Strength() int {
	return s.Engine() + s.Hull + s.EffectiveShield()
}

// CanInstall reports whether card may be installed on this ship now.
func (s *Ship) CanInstall(card cards.Card) bool {
	if !s.Alive {
		return false
	}
	switch card.Suit {
	case cards.Clubs, cards.Hearts, cards.Diamonds:
		return true
	case cards.Spades:
		return card.IsWeapon() && card.Rank <= s.Engine()
	case cards.Joker:
		return false
	default:
		return false
	}
}

// Install pushes card onto its suit stack and updates derived runtime
// fields. Hearts heal by exactly the growth of hull max; diamonds re-arm
// the shield immediately.
func (s *Ship) Install(card cards.Card) error {
	if !s.CanInstall(card) {
		return fmt.Errorf("cannot install %s on %s", card.Label(), s.Name)
	}
	switch card.Suit {
	case cards.Clubs:
		s.Clubs = append(s.Clubs, card.Rank)
	case cards.Hearts:
		delta := stacking.Delta(s.Hearts, card.Rank)
		s.Hearts = append(s.Hearts, card.Rank)
		s.HullMax += delta
		s.Hull += delta
		if s.Hull > s.HullMax {
			s.Hull = s.HullMax
		}
	case cards.Diamonds:
		s.Diamonds = append(s.Diamonds, card.Rank)
		s.ShieldActive = true
		s.Timers.Set(counters.ShieldCooldown, 0)
	case cards.Spades:
		s.Spades = append(s.Spades, card.Rank)
	case cards.Joker:
		return fmt.Errorf("jokers are not installed")
	}
	return nil
}

// Crown marks the ship as a flagship and floors its engine.
func (s *Ship) Crown() {
	s.Flagship = true
	if s.EngineFloor < CrownEngineFloor {
		s.EngineFloor = CrownEngineFloor
	}
}

// DisableWeapons takes weapons offline for at least turns owner-turns.
func (s *Ship) DisableWeapons(turns int) {
	s.Timers.AtLeast(counters.WeaponsOffline, turns)
}

// Maintain runs start-of-owner-turn upkeep: timers tick and a shield whose
// cooldown expires re-arms.
func (s *Ship) Maintain() {
	if !s.Alive {
		return
	}
	for _, name := range s.Timers.Tick() {
		if name == counters.ShieldCooldown {
			s.ShieldActive = true
		}
	}
}

// Copy returns a deep copy of the ship.
func (s *Ship) Copy() *Ship {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Clubs = cloneInts(s.Clubs)
	cp.Hearts = cloneInts(s.Hearts)
	cp.Diamonds = cloneInts(s.Diamonds)
	cp.Spades = cloneInts(s.Spades)
	cp.Timers = s.Timers.Copy()
	return &cp
}

func cloneInts(in []int) []int {
	if in == nil {
		return nil
	}
	out := make([]int, len(in))
	copy(out, in)
	return out
}
