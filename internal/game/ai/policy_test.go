package ai

import (
	"math/rand"
	"testing"

	"github.com/broadside/broadside-server-go/internal/game"
	"github.com/broadside/broadside-server-go/internal/game/cards"
	"github.com/broadside/broadside-server-go/internal/game/fleet"
	"github.com/broadside/broadside-server-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty(" HARD ")
	require.NoError(t, err)
	assert.Equal(t, Hard, d)

	_, err = ParseDifficulty("brutal")
	assert.Error(t, err)
}

func TestNewPolicy(t *testing.T) {
	for _, d := range []Difficulty{Easy, Normal, Hard} {
		p, err := NewPolicy(d, nil)
		require.NoError(t, err)
		assert.Equal(t, string(d), p.Name())
	}

	_, err := NewPolicy("brutal", nil)
	assert.Error(t, err)
}

func TestRandomPolicyEndsTurnWithNothingToDo(t *testing.T) {
	ctx := board{hand: []cards.Card{card(cards.Diamonds, 2)}, own: []fleet.Spec{spec(3, 5)}}.context(t)
	p, err := NewPolicy(Easy, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	a, err := p.Decide(ctx.State, self)
	require.NoError(t, err)
	assert.Equal(t, game.EndTurn(), a)
}

func TestRandomPolicyOnlyPicksPlayableOptions(t *testing.T) {
	ctx := board{
		hand:  []cards.Card{card(cards.Spades, 9), card(cards.Spades, 3), card(cards.Spades, cards.Queen), card(cards.Hearts, cards.Ace)},
		own:   []fleet.Spec{spec(4, 5), spec(2, 2)},
		enemy: []fleet.Spec{spec(3, 3)},
	}.context(t)
	p, err := NewPolicy(Easy, rand.New(rand.NewSource(11)))
	require.NoError(t, err)

	allowed := []game.Action{
		game.Crown(mine(0)),
		game.Special(2, mine(0)),
		game.Build(1, mine(0)),
	}
	seen := map[game.ActionKind]bool{}
	for i := 0; i < 50; i++ {
		a, err := p.Decide(ctx.State, self)
		require.NoError(t, err)
		assert.Contains(t, allowed, a)
		seen[a.Kind] = true
	}
	assert.Len(t, seen, 3, "every option should come up in 50 draws")
}

// Every tier drives full games through the engine without tripping a
// rejection or a fault.
func TestPoliciesPlayLegalGames(t *testing.T) {
	for _, d := range []Difficulty{Easy, Normal, Hard} {
		t.Run(string(d), func(t *testing.T) {
			for seed := int64(1); seed <= 5; seed++ {
				opts := game.DefaultOptions()
				opts.AIEnabled = false
				opts.Seed = seed
				g, err := game.New(opts, nil, zaptest.NewLogger(t))
				require.NoError(t, err)

				var rejected, faults int
				g.SubscribeEvents(rules.EventActionRejected, func(rules.Event) { rejected++ })
				g.SubscribeEvents(rules.EventAIFault, func(rules.Event) { faults++ })

				p0, err := NewPolicy(d, rand.New(rand.NewSource(seed)))
				require.NoError(t, err)
				p1, err := NewPolicy(d, rand.New(rand.NewSource(seed+100)))
				require.NoError(t, err)
				policies := [2]game.Policy{p0, p1}

				for turn := 0; turn < 300 && !g.View().GameOver; turn++ {
					require.NoError(t, g.TakeTurn(policies[g.View().Active]))
				}
				assert.Zero(t, rejected, "seed %d", seed)
				assert.Zero(t, faults, "seed %d", seed)
			}
		})
	}
}
