package ai

import (
	"testing"

	"github.com/broadside/broadside-server-go/internal/game"
	"github.com/broadside/broadside-server-go/internal/game/cards"
	"github.com/broadside/broadside-server-go/internal/game/fleet"
	"github.com/broadside/broadside-server-go/internal/game/targeting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const self = 1

// board describes one decision: the AI's hand and both fleets.
type board struct {
	hand    []cards.Card
	own     []fleet.Spec
	enemy   []fleet.Spec
	crowned []targeting.ShipRef
}

func (b board) context(t *testing.T) *Context {
	t.Helper()
	opts := game.DefaultOptions()
	opts.AIEnabled = false
	opts.Seed = 1
	g, err := game.New(opts, nil, zaptest.NewLogger(t))
	require.NoError(t, err)

	s := g.View().State
	s.Players[self].Hand = b.hand
	if b.own != nil {
		s.Players[self].Ships = ships(b.own)
	}
	if b.enemy != nil {
		s.Players[1-self].Ships = ships(b.enemy)
	}
	for _, ref := range b.crowned {
		s.Players[ref.Owner].Ships[ref.Index].Crown()
	}
	return NewContext(s, self)
}

func ships(specs []fleet.Spec) []*fleet.Ship {
	out := make([]*fleet.Ship, 0, len(specs))
	for _, spec := range specs {
		out = append(out, fleet.NewShip(spec))
	}
	return out
}

func card(suit cards.Suit, rank int) cards.Card {
	return cards.New(suit, rank)
}

func spec(clubs, hearts int, extra ...func(*fleet.Spec)) fleet.Spec {
	s := fleet.Spec{Name: "ship", Clubs: []int{clubs}, Hearts: []int{hearts}}
	for _, fn := range extra {
		fn(&s)
	}
	return s
}

func shield(ranks ...int) func(*fleet.Spec) {
	return func(s *fleet.Spec) { s.Diamonds = ranks }
}

func guns(ranks ...int) func(*fleet.Spec) {
	return func(s *fleet.Spec) { s.Spades = ranks }
}

func mine(i int) targeting.ShipRef {
	return targeting.ShipRef{Owner: self, Index: i}
}

func theirs(i int) targeting.ShipRef {
	return targeting.ShipRef{Owner: 1 - self, Index: i}
}

func TestRules(t *testing.T) {
	tests := []struct {
		name  string
		rule  Rule
		board board
		want  *game.Action
	}{
		{
			name:  "crown picks the strongest ship",
			rule:  CrownStrongest,
			board: board{hand: []cards.Card{card(cards.Clubs, 2), card(cards.Hearts, cards.Ace)}, own: []fleet.Spec{spec(3, 2), spec(6, 5)}},
			want:  ptr(game.Crown(mine(1))),
		},
		{
			name:  "crown needs an ace",
			rule:  CrownStrongest,
			board: board{hand: []cards.Card{card(cards.Clubs, 2)}},
		},
		{
			name:  "crown only once",
			rule:  CrownStrongest,
			board: board{hand: []cards.Card{card(cards.Hearts, cards.Ace)}, own: []fleet.Spec{spec(3, 2)}, crowned: []targeting.ShipRef{mine(0)}},
		},
		{
			name:  "king on weakest in range",
			rule:  KingWeakest,
			board: board{hand: []cards.Card{card(cards.Spades, cards.King)}, enemy: []fleet.Spec{spec(3, 9), spec(2, 6, shield(2))}},
			want:  ptr(game.Special(0, theirs(1))),
		},
		{
			name:  "king holds when the weakest is too tough",
			rule:  KingWeakest,
			board: board{hand: []cards.Card{card(cards.Spades, cards.King)}, enemy: []fleet.Spec{spec(3, 9), spec(2, 8)}},
		},
		{
			name:  "jack finishes a small ship",
			rule:  JackWeakest,
			board: board{hand: []cards.Card{card(cards.Hearts, 4), card(cards.Spades, cards.Jack)}, enemy: []fleet.Spec{spec(3, 9), spec(2, 3)}},
			want:  ptr(game.Special(1, theirs(1))),
		},
		{
			name:  "jack holds above three hull",
			rule:  JackWeakest,
			board: board{hand: []cards.Card{card(cards.Spades, cards.Jack)}, enemy: []fleet.Spec{spec(3, 4)}},
		},
		{
			name: "king prefers a lethal flagship",
			rule: KingFlagship,
			board: board{
				hand:    []cards.Card{card(cards.Spades, cards.King)},
				enemy:   []fleet.Spec{spec(3, 5), spec(3, 6)},
				crowned: []targeting.ShipRef{theirs(1)},
			},
			want: ptr(game.Special(0, theirs(1))),
		},
		{
			name: "king takes any lethal target before chipping the flagship",
			rule: KingFlagship,
			board: board{
				hand:    []cards.Card{card(cards.Spades, cards.King)},
				enemy:   []fleet.Spec{spec(3, 5), spec(3, 9)},
				crowned: []targeting.ShipRef{theirs(1)},
			},
			want: ptr(game.Special(0, theirs(0))),
		},
		{
			name: "king chips the flagship",
			rule: KingFlagship,
			board: board{
				hand:    []cards.Card{card(cards.Spades, cards.King)},
				enemy:   []fleet.Spec{spec(3, 10), spec(3, 9)},
				crowned: []targeting.ShipRef{theirs(1)},
			},
			want: ptr(game.Special(0, theirs(1))),
		},
		{
			name:  "king without targets in range or flagship",
			rule:  KingFlagship,
			board: board{hand: []cards.Card{card(cards.Spades, cards.King)}, enemy: []fleet.Spec{spec(3, 10)}},
		},
		{
			name: "jack prefers the flagship",
			rule: JackFlagship,
			board: board{
				hand:    []cards.Card{card(cards.Spades, cards.Jack)},
				enemy:   []fleet.Spec{spec(3, 2), spec(3, 3)},
				crowned: []targeting.ShipRef{theirs(1)},
			},
			want: ptr(game.Special(0, theirs(1))),
		},
		{
			name: "weapon goes on the fitting ship with least damage",
			rule: InstallWeapon,
			board: board{
				hand: []cards.Card{card(cards.Spades, 7), card(cards.Spades, 4), card(cards.Clubs, 2)},
				own:  []fleet.Spec{spec(3, 5), spec(5, 5, guns(5)), spec(6, 3)},
			},
			want: ptr(game.Build(1, mine(2))),
		},
		{
			name:  "weapon with no engine to power it",
			rule:  InstallWeapon,
			board: board{hand: []cards.Card{card(cards.Spades, 9)}, own: []fleet.Spec{spec(3, 5), spec(6, 3)}},
		},
		{
			name:  "launch pairs first club and heart",
			rule:  LaunchShip,
			board: board{hand: []cards.Card{card(cards.Hearts, 3), card(cards.Diamonds, 2), card(cards.Clubs, 5)}, own: []fleet.Spec{spec(3, 5), spec(4, 4)}},
			want:  ptr(game.Launch(2, 0)),
		},
		{
			name:  "launch blocked at cap",
			rule:  LaunchShip,
			board: board{hand: []cards.Card{card(cards.Hearts, 3), card(cards.Clubs, 5)}, own: []fleet.Spec{spec(3, 5), spec(4, 4), spec(2, 2)}},
		},
		{
			name:  "engine raised toward an unplayable weapon",
			rule:  RaiseEngine,
			board: board{hand: []cards.Card{card(cards.Spades, 9), card(cards.Clubs, 2), card(cards.Clubs, 7)}, own: []fleet.Spec{spec(3, 5), spec(5, 5)}},
			want:  ptr(game.Build(2, mine(0))),
		},
		{
			name:  "engine raise needs a club",
			rule:  RaiseEngine,
			board: board{hand: []cards.Card{card(cards.Spades, 9)}, own: []fleet.Spec{spec(3, 5)}},
		},
		{
			name:  "engine already sufficient",
			rule:  RaiseEngine,
			board: board{hand: []cards.Card{card(cards.Spades, 3), card(cards.Clubs, 7)}, own: []fleet.Spec{spec(3, 5)}},
		},
		{
			name:  "hull goes on the weakest ship",
			rule:  ReinforceHull,
			board: board{hand: []cards.Card{card(cards.Hearts, 9), card(cards.Hearts, 2)}, own: []fleet.Spec{spec(3, 5), spec(2, 5, shield(1))}},
			want:  ptr(game.Build(1, mine(0))),
		},
		{
			name:  "weakest ties break on engine",
			rule:  ReinforceHull,
			board: board{hand: []cards.Card{card(cards.Hearts, 2)}, own: []fleet.Spec{spec(4, 5), spec(3, 5)}},
			want:  ptr(game.Build(0, mine(1))),
		},
		{
			name:  "shield goes on the lowest rating",
			rule:  ReinforceShield,
			board: board{hand: []cards.Card{card(cards.Diamonds, 3), card(cards.Diamonds, 8)}, own: []fleet.Spec{spec(3, 5, shield(4)), spec(3, 5)}},
			want:  ptr(game.Build(1, mine(1))),
		},
		{
			name:  "joker silences the biggest gun",
			rule:  JokerBiggestGun,
			board: board{hand: []cards.Card{cards.NewJoker()}, enemy: []fleet.Spec{spec(5, 5, guns(5)), spec(9, 9, guns(8, 3))}},
			want:  ptr(game.Special(0, theirs(1))),
		},
		{
			name:  "joker needs an armed enemy",
			rule:  JokerBiggestGun,
			board: board{hand: []cards.Card{cards.NewJoker()}, enemy: []fleet.Spec{spec(5, 5)}},
		},
		{
			name: "joker keeps roster order on ties",
			rule: JokerBiggestGun,
			board: board{
				hand:    []cards.Card{cards.NewJoker()},
				enemy:   []fleet.Spec{spec(5, 5, guns(5)), spec(5, 5, guns(5))},
				crowned: []targeting.ShipRef{theirs(1)},
			},
			want: ptr(game.Special(0, theirs(0))),
		},
		{
			name: "hard joker breaks ties toward the flagship",
			rule: JokerBiggestGunFlagship,
			board: board{
				hand:    []cards.Card{cards.NewJoker()},
				enemy:   []fleet.Spec{spec(5, 5, guns(5)), spec(5, 5, guns(5))},
				crowned: []targeting.ShipRef{theirs(1)},
			},
			want: ptr(game.Special(0, theirs(1))),
		},
		{
			name:  "attack with the biggest gun into the weakest",
			rule:  AttackWeakest,
			board: board{own: []fleet.Spec{spec(5, 5, guns(5)), spec(9, 5, guns(9))}, enemy: []fleet.Spec{spec(3, 9), spec(3, 4)}},
			want:  ptr(game.Attack(1, theirs(1))),
		},
		{
			name:  "attack needs weapons",
			rule:  AttackWeakest,
			board: board{own: []fleet.Spec{spec(3, 5)}},
		},
		{
			name: "hard attack goes for the flagship",
			rule: AttackFlagship,
			board: board{
				own:     []fleet.Spec{spec(5, 5, guns(5))},
				enemy:   []fleet.Spec{spec(3, 9), spec(3, 4)},
				crowned: []targeting.ShipRef{theirs(0)},
			},
			want: ptr(game.Attack(0, theirs(0))),
		},
		{
			name:  "hard attack falls back to the weakest",
			rule:  AttackFlagship,
			board: board{own: []fleet.Spec{spec(5, 5, guns(5))}, enemy: []fleet.Spec{spec(3, 9), spec(3, 4)}},
			want:  ptr(game.Attack(0, theirs(1))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := tt.board.context(t)
			if tt.want == nil {
				assert.False(t, tt.rule.When(ctx))
				return
			}
			require.True(t, tt.rule.When(ctx))
			assert.Equal(t, *tt.want, tt.rule.Then(ctx))
		})
	}
}

func ptr(a game.Action) *game.Action {
	return &a
}

func TestChainOrder(t *testing.T) {
	normal := NewChainPolicy("normal", NormalRules)
	hard := NewChainPolicy("hard", HardRules)

	tests := []struct {
		name       string
		board      board
		normalRule string
		hardRule   string
	}{
		{
			name: "crown beats a lethal king",
			board: board{
				hand:  []cards.Card{card(cards.Spades, cards.King), card(cards.Clubs, cards.Ace)},
				enemy: []fleet.Spec{spec(3, 2)},
			},
			normalRule: "crown_strongest",
			hardRule:   "crown_strongest",
		},
		{
			name: "normal launches before raising engine",
			board: board{
				hand: []cards.Card{card(cards.Spades, 9), card(cards.Clubs, 7), card(cards.Hearts, 2)},
				own:  []fleet.Spec{spec(3, 5), spec(4, 4)},
			},
			normalRule: "launch",
			hardRule:   "raise_engine",
		},
		{
			name: "hard chips a flagship that normal leaves alone",
			board: board{
				hand:    []cards.Card{card(cards.Spades, cards.King)},
				enemy:   []fleet.Spec{spec(3, 10)},
				crowned: []targeting.ShipRef{theirs(0)},
				own:     []fleet.Spec{spec(3, 5)},
			},
			normalRule: "end_turn",
			hardRule:   "king_flagship",
		},
		{
			name:       "nothing to do",
			board:      board{hand: []cards.Card{card(cards.Spades, cards.Queen)}, own: []fleet.Spec{spec(3, 5)}},
			normalRule: "end_turn",
			hardRule:   "end_turn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := tt.board.context(t)
			_, rule := normal.Explain(ctx.State, self)
			assert.Equal(t, tt.normalRule, rule)
			_, rule = hard.Explain(ctx.State, self)
			assert.Equal(t, tt.hardRule, rule)
		})
	}
}
