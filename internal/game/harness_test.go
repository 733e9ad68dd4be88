package game

import (
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/broadside/broadside-server-go/internal/game/cards"
	"github.com/broadside/broadside-server-go/internal/game/fleet"
	"github.com/broadside/broadside-server-go/internal/game/rules"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// testHarness builds deterministic games and lets tests rig hands and
// fleets before driving the public API.
type testHarness struct {
	t *testing.T
	g *Game
}

func newHarness(t *testing.T, mutators ...func(*Options)) *testHarness {
	t.Helper()
	opts := DefaultOptions()
	opts.Seed = 42
	opts.AIEnabled = false
	for _, m := range mutators {
		m(&opts)
	}
	g, err := New(opts, nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	return &testHarness{t: t, g: g}
}

func newHarnessWithPolicy(t *testing.T, policy Policy, mutators ...func(*Options)) *testHarness {
	t.Helper()
	opts := DefaultOptions()
	opts.Seed = 42
	opts.AIDelay = 0
	for _, m := range mutators {
		m(&opts)
	}
	g, err := New(opts, policy, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(g.Close)
	return &testHarness{t: t, g: g}
}

func (h *testHarness) state() *State {
	return h.g.state
}

func (h *testHarness) setHand(player int, hand ...cards.Card) {
	h.g.mu.Lock()
	defer h.g.mu.Unlock()
	h.g.state.Players[player].Hand = hand
}

func (h *testHarness) setShips(player int, specs ...fleet.Spec) []*fleet.Ship {
	h.g.mu.Lock()
	defer h.g.mu.Unlock()
	ships := make([]*fleet.Ship, 0, len(specs))
	for _, spec := range specs {
		ships = append(ships, fleet.NewShip(spec))
	}
	h.g.state.Players[player].Ships = ships
	return ships
}

func (h *testHarness) ship(owner, index int) *fleet.Ship {
	return h.g.state.Players[owner].Ships[index]
}

func (h *testHarness) emptyDeck() {
	h.g.mu.Lock()
	defer h.g.mu.Unlock()
	h.g.state.Deck.Cards = nil
}

func (h *testHarness) snapshot() *State {
	h.g.mu.Lock()
	defer h.g.mu.Unlock()
	return h.g.state.Clone()
}

func (h *testHarness) countEvents(eventType rules.EventType) int {
	n := 0
	for _, e := range h.g.Log() {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(7))
}

func card(suit cards.Suit, rank int) cards.Card {
	return cards.New(suit, rank)
}

// scriptedPolicy returns whatever decide says and counts calls.
type scriptedPolicy struct {
	calls  atomic.Int32
	decide func(s *State, self int) (Action, error)
}

func (p *scriptedPolicy) Name() string {
	return "scripted"
}

func (p *scriptedPolicy) Decide(s *State, self int) (Action, error) {
	p.calls.Add(1)
	if p.decide == nil {
		return EndTurn(), nil
	}
	return p.decide(s, self)
}
