package ai

import (
	"sort"

	"github.com/broadside/broadside-server-go/internal/game"
	"github.com/broadside/broadside-server-go/internal/game/cards"
	"github.com/broadside/broadside-server-go/internal/game/fleet"
	"github.com/broadside/broadside-server-go/internal/game/targeting"
)

// Context is what a rule sees: a private copy of the state from the
// deciding player's side.
type Context struct {
	State    *game.State
	Self     int
	Player   *game.Player
	Opponent *game.Player
}

// NewContext wraps s for player self.
func NewContext(s *game.State, self int) *Context {
	return &Context{
		State:    s,
		Self:     self,
		Player:   s.Players[self],
		Opponent: s.Players[1-self],
	}
}

// candidate is a living ship with its roster position.
type candidate struct {
	ship *fleet.Ship
	ref  targeting.ShipRef
}

func living(p *game.Player) []candidate {
	var out []candidate
	for i, ship := range p.Ships {
		if ship.Alive {
			out = append(out, candidate{ship: ship, ref: targeting.ShipRef{Owner: p.ID, Index: i}})
		}
	}
	return out
}

func (c *Context) own() []candidate {
	return living(c.Player)
}

func (c *Context) enemies() []candidate {
	return living(c.Opponent)
}

// findCard returns the index of the first hand card matching pred.
func (c *Context) findCard(pred func(cards.Card) bool) int {
	for i, card := range c.Player.Hand {
		if pred(card) {
			return i
		}
	}
	return -1
}

// lowestCard returns the lowest-ranked matching hand card, first on ties.
func (c *Context) lowestCard(pred func(cards.Card) bool) int {
	best := -1
	for i, card := range c.Player.Hand {
		if pred(card) && (best < 0 || card.Rank < c.Player.Hand[best].Rank) {
			best = i
		}
	}
	return best
}

// highestCard returns the highest-ranked matching hand card, first on ties.
func (c *Context) highestCard(pred func(cards.Card) bool) int {
	best := -1
	for i, card := range c.Player.Hand {
		if pred(card) && (best < 0 || card.Rank > c.Player.Hand[best].Rank) {
			best = i
		}
	}
	return best
}

func (c *Context) hasFlagship() bool {
	return c.Player.HasCrowned()
}

// enemyFlagship returns the opponent's living flagship, if any.
func (c *Context) enemyFlagship() (candidate, bool) {
	for _, e := range c.enemies() {
		if e.ship.Flagship {
			return e, true
		}
	}
	return candidate{}, false
}

// weakest orders by hull plus armed shield, then by engine. The sort is
// stable so roster order breaks remaining ties.
func weakest(ships []candidate) (candidate, bool) {
	if len(ships) == 0 {
		return candidate{}, false
	}
	sorted := append([]candidate(nil), ships...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].ship, sorted[j].ship
		if a.Durability() != b.Durability() {
			return a.Durability() < b.Durability()
		}
		return a.Engine() < b.Engine()
	})
	return sorted[0], true
}

// bestBy returns the ship with the highest score, first on ties.
func bestBy(ships []candidate, score func(*fleet.Ship) int) (candidate, bool) {
	if len(ships) == 0 {
		return candidate{}, false
	}
	best := ships[0]
	for _, s := range ships[1:] {
		if score(s.ship) > score(best.ship) {
			best = s
		}
	}
	return best, true
}

// leastBy returns the ship with the lowest score, first on ties.
func leastBy(ships []candidate, score func(*fleet.Ship) int) (candidate, bool) {
	return bestBy(ships, func(s *fleet.Ship) int { return -score(s) })
}

func filter(ships []candidate, keep func(*fleet.Ship) bool) []candidate {
	var out []candidate
	for _, s := range ships {
		if keep(s.ship) {
			out = append(out, s)
		}
	}
	return out
}

func armed(s *fleet.Ship) bool {
	return s.Damage() > 0
}

func isRank(rank int) func(cards.Card) bool {
	return func(c cards.Card) bool {
		return c.Suit == cards.Spades && c.Rank == rank
	}
}

func isSuit(suit cards.Suit) func(cards.Card) bool {
	return func(c cards.Card) bool {
		return c.Suit == suit
	}
}
