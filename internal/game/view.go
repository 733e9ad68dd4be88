package game

import (
	"github.com/broadside/broadside-server-go/internal/game/cards"
	"github.com/broadside/broadside-server-go/internal/game/fleet"
	"github.com/broadside/broadside-server-go/internal/game/rules"
	"github.com/broadside/broadside-server-go/internal/game/targeting"
	"github.com/broadside/broadside-server-go/internal/game/watchers"
)

// View is a read-only rendering of the game. It shares nothing with the
// live state.
type View struct {
	GameID      string              `json:"gameId"`
	Turn        int                 `json:"turn"`
	Active      int                 `json:"active"`
	Phase       string              `json:"phase"`
	ActionUsed  bool                `json:"actionUsed"`
	DeckSize    int                 `json:"deckSize"`
	FleetCap    int                 `json:"fleetCap"`
	Players     [2]PlayerView       `json:"players"`
	Selected    []int               `json:"selected"`
	Highlights  []targeting.ShipRef `json:"highlights"`
	Hint        string              `json:"hint"`
	Log         []LogEntry          `json:"log"`
	CanUndo     bool                `json:"canUndo"`
	AIPlayer    int                 `json:"aiPlayer"`
	GameOver    bool                `json:"gameOver"`
	Winner      int                 `json:"winner"`
	WinReason   string              `json:"winReason,omitempty"`
	SuddenDeath bool                `json:"suddenDeath"`

	// State is a deep copy for callers that need the full model.
	State *State `json:"-"`
}

// PlayerView describes one side.
type PlayerView struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Hand      []CardView     `json:"hand"`
	Ships     []ShipView     `json:"ships"`
	TotalHP   int            `json:"totalHp"`
	ShipsLost int            `json:"shipsLost"`
	Stats     watchers.Stats `json:"stats"`
}

// CardView describes a card in hand.
type CardView struct {
	Suit  string `json:"suit"`
	Rank  int    `json:"rank"`
	Label string `json:"label"`
}

// ShipView describes a ship with its derived stats.
type ShipView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	Engine         int    `json:"engine"`
	Hull           int    `json:"hull"`
	HullMax        int    `json:"hullMax"`
	ShieldRating   int    `json:"shieldRating"`
	ShieldActive   bool   `json:"shieldActive"`
	ShieldCooldown int    `json:"shieldCooldown"`
	WeaponsOffline int    `json:"weaponsOffline"`
	Weapons        []int  `json:"weapons"`
	Damage         int    `json:"damage"`
	Alive          bool   `json:"alive"`
	Flagship       bool   `json:"flagship"`
	Reflect        bool   `json:"reflect"`
}

// View returns a snapshot for rendering.
func (g *Game) View() *View {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := g.state
	v := &View{
		GameID:     g.id,
		Turn:       s.Turn.TurnNumber,
		Active:     s.Turn.Active,
		Phase:      s.Turn.Phase.String(),
		ActionUsed: s.Turn.ActionUsed,
		DeckSize:   s.Deck.Len(),
		FleetCap:   s.FleetCap,
		Selected:   selectedCards(s.Pending),
		Highlights: Highlights(s),
		Hint:       g.hint,
		Log:        append([]LogEntry(nil), g.log...),
		CanUndo:    !s.GameOver && g.history.Size() > 0,
		AIPlayer:   -1,
		GameOver:   s.GameOver,
		Winner:     s.Winner,
		WinReason:  s.WinReason,
		State:      s.Clone(),
	}
	if g.opts.AIEnabled && g.policy != nil {
		v.AIPlayer = g.opts.AIPlayer
	}
	if w, ok := s.Watchers.GetWatcher(rules.SuddenDeathKey).(*rules.SuddenDeathWatcher); ok {
		v.SuddenDeath = w.Armed
	}
	for i, p := range s.Players {
		v.Players[i] = playerView(s, p)
	}
	return v
}

// Hint returns the current player-facing hint.
func (g *Game) Hint() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hint
}

// Log returns a copy of the retained log, oldest first.
func (g *Game) Log() []LogEntry {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]LogEntry(nil), g.log...)
}

// Highlights returns the valid target set for the current phase.
func (g *Game) Highlights() []targeting.ShipRef {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Highlights(g.state)
}

// Highlights computes the ships a tap may land on in s's current phase.
// It has no side effects.
func Highlights(s *State) []targeting.ShipRef {
	if s.GameOver {
		return nil
	}
	req, ok := requirementFor(s)
	if !ok {
		return nil
	}
	return targeting.NewTargetValidator(s).Candidates(s.Turn.Active, req)
}

func requirementFor(s *State) (targeting.Requirement, bool) {
	hand := s.Active().Hand
	card := func() (cards.Card, bool) {
		idx := s.Pending.CardIndex
		if idx < 0 || idx >= len(hand) {
			return cards.Card{}, false
		}
		return hand[idx], true
	}

	switch s.Turn.Phase {
	case rules.PhaseBuildTarget:
		c, ok := card()
		if !ok {
			return targeting.Requirement{}, false
		}
		return targeting.ForInstall(c), true
	case rules.PhaseAttackSelectAttacker:
		return targeting.ForAttacker(), true
	case rules.PhaseAttackSelectTarget:
		return targeting.ForAttackTarget(), true
	case rules.PhaseCrownSelectShip:
		return targeting.ForCrown(), true
	case rules.PhaseSpecialTarget:
		c, ok := card()
		if !ok {
			return targeting.Requirement{}, false
		}
		return targeting.ForSpecial(c)
	default:
		return targeting.Requirement{}, false
	}
}

func selectedCards(p Pending) []int {
	var out []int
	if p.Kind == PendingAttack {
		return nil
	}
	if p.CardIndex >= 0 {
		out = append(out, p.CardIndex)
	}
	if p.PairIndex >= 0 {
		out = append(out, p.PairIndex)
	}
	return out
}

func playerView(s *State, p *Player) PlayerView {
	pv := PlayerView{
		ID:        p.ID,
		Name:      p.Name,
		TotalHP:   p.TotalHP(),
		Stats:     watchers.StatsFor(s.Watchers, p.ID),
		ShipsLost: s.Watchers.ShipsLost(p.ID),
	}
	for _, c := range p.Hand {
		pv.Hand = append(pv.Hand, CardView{Suit: c.Suit.String(), Rank: c.Rank, Label: c.Label()})
	}
	for _, ship := range p.Ships {
		pv.Ships = append(pv.Ships, shipView(ship))
	}
	return pv
}

func shipView(ship *fleet.Ship) ShipView {
	return ShipView{
		ID:             ship.ID,
		Name:           ship.Name,
		Role:           ship.Role().String(),
		Engine:         ship.Engine(),
		Hull:           ship.Hull,
		HullMax:        ship.HullMax,
		ShieldRating:   ship.ShieldRating(),
		ShieldActive:   ship.ShieldActive,
		ShieldCooldown: ship.ShieldCooldownTurns(),
		WeaponsOffline: ship.WeaponsOfflineTurns(),
		Weapons:        append([]int(nil), ship.Spades...),
		Damage:         ship.Damage(),
		Alive:          ship.Alive,
		Flagship:       ship.Flagship,
		Reflect:        ship.ReflectPending,
	}
}
