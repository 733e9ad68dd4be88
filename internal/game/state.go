package game

import (
	"github.com/broadside/broadside-server-go/internal/game/cards"
	"github.com/broadside/broadside-server-go/internal/game/fleet"
	"github.com/broadside/broadside-server-go/internal/game/rules"
)

// Player is one side of the duel.
type Player struct {
	ID    int
	Name  string
	Hand  []cards.Card
	Ships []*fleet.Ship
	// HasTakenFirstTurnBonusDraw records the one-off second-player draw.
	HasTakenFirstTurnBonusDraw bool
	// Launched counts ships launched this game; used for naming.
	Launched int
}

// PendingKind identifies the action an in-progress selection belongs to.
type PendingKind int

const (
	PendingNone PendingKind = iota
	PendingBuild
	PendingAttack
	PendingCrown
	PendingSpecial
)

var pendingNames = map[PendingKind]string{
	PendingNone:    "none",
	PendingBuild:   "build",
	PendingAttack:  "attack",
	PendingCrown:   "crown",
	PendingSpecial: "special",
}

func (k PendingKind) String() string {
	return pendingNames[k]
}

// Pending is the selection context of the current phase. It is reset
// whenever the phase returns to idle.
type Pending struct {
	Kind PendingKind
	// CardIndex is the selected hand card: the install or first launch
	// card, the Ace being spent, or the special being played.
	CardIndex int
	// PairIndex is the complementary launch card.
	PairIndex int
	// Attacker is the roster index of the chosen attacker.
	Attacker int
}

func noPending() Pending {
	return Pending{Kind: PendingNone, CardIndex: -1, PairIndex: -1, Attacker: -1}
}

// State is everything undo restores. It holds no references shared with
// other versions: Clone is deep.
type State struct {
	Deck     *cards.Deck
	Players  [rules.PlayerCount]*Player
	Turn     rules.TurnManager
	Pending  Pending
	FleetCap int

	DeckOutChecked bool
	GameOver       bool
	Winner         int
	WinReason      string

	Watchers *rules.WatcherRegistry
}

// Fleet implements targeting.FleetAccessor.
func (s *State) Fleet(owner int) []*fleet.Ship {
	if owner < 0 || owner >= len(s.Players) || s.Players[owner] == nil {
		return nil
	}
	return s.Players[owner].Ships
}

// Active returns the player whose turn it is.
func (s *State) Active() *Player {
	return s.Players[s.Turn.Active]
}

// Opponent returns the player waiting for their turn.
func (s *State) Opponent() *Player {
	return s.Players[s.Turn.Opponent()]
}

// Living returns the ships of p that are still alive.
func (p *Player) Living() []*fleet.Ship {
	var out []*fleet.Ship
	for _, ship := range p.Ships {
		if ship.Alive {
			out = append(out, ship)
		}
	}
	return out
}

// TotalHP sums hull plus armed shield over living ships.
func (p *Player) TotalHP() int {
	total := 0
	for _, ship := range p.Living() {
		total += ship.Durability()
	}
	return total
}

// HasCrowned reports whether p has ever crowned a ship.
func (p *Player) HasCrowned() bool {
	for _, ship := range p.Ships {
		if ship.Flagship {
			return true
		}
	}
	return false
}

// HasLivingFlagship reports whether any of p's flagships survive.
func (p *Player) HasLivingFlagship() bool {
	for _, ship := range p.Ships {
		if ship.Flagship && ship.Alive {
			return true
		}
	}
	return false
}

// Copy deep-copies the player.
func (p *Player) Copy() *Player {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Hand != nil {
		cp.Hand = append([]cards.Card(nil), p.Hand...)
	}
	if p.Ships != nil {
		cp.Ships = make([]*fleet.Ship, len(p.Ships))
		for i, ship := range p.Ships {
			cp.Ships[i] = ship.Copy()
		}
	}
	return &cp
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Deck = s.Deck.Copy()
	for i, p := range s.Players {
		cp.Players[i] = p.Copy()
	}
	cp.Watchers = s.Watchers.Copy()
	return &cp
}

func removeCards(hand []cards.Card, indexes ...int) []cards.Card {
	out := make([]cards.Card, 0, len(hand))
	for i, c := range hand {
		skip := false
		for _, idx := range indexes {
			if i == idx {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, c)
		}
	}
	return out
}
