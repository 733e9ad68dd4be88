package game

import (
	"errors"
	"testing"

	"github.com/broadside/broadside-server-go/internal/game/cards"
	"github.com/broadside/broadside-server-go/internal/game/fleet"
	"github.com/broadside/broadside-server-go/internal/game/rules"
	"github.com/broadside/broadside-server-go/internal/game/targeting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagshipLossEndsGame(t *testing.T) {
	h := newHarness(t)
	h.setShips(0, gunship("Striker"))
	enemy := h.setShips(1,
		fleet.Spec{Name: "Crown", Clubs: []int{3}, Hearts: []int{2}},
		fleet.Spec{Name: "Escort", Clubs: []int{4}, Hearts: []int{4}},
	)
	enemy[0].Crown()

	require.NoError(t, h.g.Apply(Attack(0, targeting.ShipRef{Owner: 1, Index: 0})))

	s := h.state()
	assert.True(t, s.GameOver)
	assert.Equal(t, 0, s.Winner)
	assert.Contains(t, s.WinReason, "Flagship destroyed")
	assert.Equal(t, s.WinReason, h.g.Hint())
	assert.Equal(t, 1, h.countEvents(rules.EventGameWon))
	assert.True(t, enemy[1].Alive)

	v := h.g.View()
	assert.True(t, v.GameOver)
	assert.False(t, v.CanUndo)
	assert.Nil(t, v.Highlights)
}

func TestActionsAfterGameOver(t *testing.T) {
	h := newHarness(t)
	h.setShips(0, gunship("Striker"))
	enemy := h.setShips(1, fleet.Spec{Name: "Crown", Clubs: []int{3}, Hearts: []int{2}})
	enemy[0].Crown()
	require.NoError(t, h.g.Apply(Attack(0, targeting.ShipRef{Owner: 1, Index: 0})))
	require.True(t, h.state().GameOver)
	frozen := h.state().Checksum()

	for name, attempt := range map[string]func() error{
		"end turn": h.g.EndTurn,
		"build":    h.g.BeginBuild,
		"attack":   h.g.BeginAttack,
		"crown":    h.g.BeginCrown,
		"card":     func() error { return h.g.SelectCard(0) },
		"ship":     func() error { return h.g.SelectShip(0, 0) },
		"launch":   h.g.ConfirmLaunch,
		"cancel":   h.g.Cancel,
		"undo":     h.g.Undo,
		"apply":    func() error { return h.g.Apply(EndTurn()) },
	} {
		assert.Truef(t, errors.Is(attempt(), rules.ErrGameOver), "%s should be refused", name)
	}
	assert.Equal(t, frozen, h.state().Checksum())
	assert.False(t, h.g.CanUndo())
}

func TestUncrownedFleetSurvivesLossesInFlagshipMode(t *testing.T) {
	h := newHarness(t)
	h.setShips(0, gunship("Striker"))
	h.setShips(1, fleet.Spec{Name: "Last", Clubs: []int{3}, Hearts: []int{2}})

	require.NoError(t, h.g.Apply(Attack(0, targeting.ShipRef{Owner: 1, Index: 0})))
	assert.False(t, h.state().GameOver)
	assert.Empty(t, h.state().Players[1].Living())
}

func TestAnnihilationWins(t *testing.T) {
	for _, cond := range []WinCondition{WinAnnihilation, WinEither} {
		t.Run(string(cond), func(t *testing.T) {
			h := newHarness(t, func(o *Options) { o.WinCondition = cond })
			h.setShips(0, gunship("Striker"))
			h.setShips(1, fleet.Spec{Name: "Last", Clubs: []int{3}, Hearts: []int{2}})

			require.NoError(t, h.g.Apply(Attack(0, targeting.ShipRef{Owner: 1, Index: 0})))
			assert.True(t, h.state().GameOver)
			assert.Equal(t, 0, h.state().Winner)
			assert.Contains(t, h.state().WinReason, "fleet destroyed")
		})
	}
}

func TestAnnihilationModeIgnoresFlagship(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.WinCondition = WinAnnihilation })
	h.setShips(0, gunship("Striker"))
	enemy := h.setShips(1,
		fleet.Spec{Name: "Crown", Clubs: []int{3}, Hearts: []int{2}},
		fleet.Spec{Name: "Escort", Clubs: []int{4}, Hearts: []int{4}},
	)
	enemy[0].Crown()

	require.NoError(t, h.g.Apply(Attack(0, targeting.ShipRef{Owner: 1, Index: 0})))
	assert.False(t, h.state().GameOver)
}

func TestMutualDestructionFavoursActor(t *testing.T) {
	h := newHarness(t)
	own := h.setShips(0, fleet.Spec{Name: "Glass", Clubs: []int{5}, Hearts: []int{2}, Spades: []int{5}})
	own[0].Crown()
	own[0].ReflectPending = true
	enemy := h.setShips(1, fleet.Spec{Name: "Crown", Clubs: []int{3}, Hearts: []int{3}})
	enemy[0].Crown()

	require.NoError(t, h.g.Apply(Attack(0, targeting.ShipRef{Owner: 1, Index: 0})))

	assert.False(t, own[0].Alive)
	assert.False(t, enemy[0].Alive)
	assert.True(t, h.state().GameOver)
	assert.Equal(t, 0, h.state().Winner)
}

func TestDeckOutByTotals(t *testing.T) {
	h := newHarness(t)
	h.emptyDeck()

	require.NoError(t, h.g.EndTurn())

	s := h.state()
	assert.True(t, s.GameOver)
	assert.True(t, s.DeckOutChecked)
	assert.Equal(t, 1, s.Winner)
	assert.Equal(t, "Player 2 wins by totals (9 vs 10).", s.WinReason)
	assert.Equal(t, 1, h.countEvents(rules.EventDeckExhausted))
	assert.Equal(t, 1, s.Turn.TurnNumber, "the turn does not advance")
}

func equalFleets(h *testHarness) {
	h.setShips(0,
		fleet.Spec{Name: "Twin A", Clubs: []int{3}, Hearts: []int{3}},
		fleet.Spec{Name: "Twin B", Clubs: []int{3}, Hearts: []int{3}},
	)
	h.setShips(1, fleet.Spec{Name: "Solo", Clubs: []int{3}, Hearts: []int{6}})
}

func TestSuddenDeath(t *testing.T) {
	h := newHarness(t)
	equalFleets(h)
	h.emptyDeck()
	h.setHand(1, card(cards.Spades, cards.King))

	require.NoError(t, h.g.EndTurn())
	s := h.state()
	require.False(t, s.GameOver)
	assert.True(t, s.DeckOutChecked)
	assert.True(t, h.g.View().SuddenDeath)
	assert.Equal(t, 1, h.countEvents(rules.EventSuddenDeath))

	// the check runs once
	require.NoError(t, h.g.EndTurn())
	require.NoError(t, h.g.EndTurn())
	assert.Equal(t, 1, h.countEvents(rules.EventSuddenDeath))

	require.NoError(t, h.g.Apply(Special(0, targeting.ShipRef{Owner: 0, Index: 0})))
	s = h.state()
	assert.True(t, s.GameOver)
	assert.Equal(t, 1, s.Winner)
	assert.Contains(t, s.WinReason, "sudden death")
	assert.True(t, s.Players[0].Ships[1].Alive, "the loser still had ships")
}

func TestSuddenDeathDefenderFallsBeforeReflect(t *testing.T) {
	h := newHarness(t)
	own := h.setShips(0, fleet.Spec{Name: "Glass", Clubs: []int{5}, Hearts: []int{2}, Spades: []int{5}})
	own[0].ReflectPending = true
	h.setShips(1, fleet.Spec{Name: "Wall", Clubs: []int{3}, Hearts: []int{2}})
	h.emptyDeck()

	require.NoError(t, h.g.EndTurn())
	require.NoError(t, h.g.EndTurn())
	require.NoError(t, h.g.Apply(Attack(0, targeting.ShipRef{Owner: 1, Index: 0})))

	s := h.state()
	assert.False(t, own[0].Alive)
	assert.True(t, s.GameOver)
	assert.Equal(t, 0, s.Winner)
}

func TestTieContinues(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.TieBreak = TieContinue })
	equalFleets(h)
	h.emptyDeck()
	h.setHand(1, card(cards.Spades, cards.King))

	require.NoError(t, h.g.EndTurn())
	assert.False(t, h.state().GameOver)
	assert.False(t, h.g.View().SuddenDeath)
	assert.Equal(t, 1, h.countEvents(rules.EventDeckExhausted))

	require.NoError(t, h.g.Apply(Special(0, targeting.ShipRef{Owner: 0, Index: 0})))
	assert.False(t, h.state().GameOver)
	assert.Equal(t, 0, h.countEvents(rules.EventSuddenDeath))
}
