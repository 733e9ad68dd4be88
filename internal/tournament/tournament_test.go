package tournament

import (
	"context"
	"fmt"
	"testing"

	"github.com/broadside/broadside-server-go/internal/game"
	"github.com/broadside/broadside-server-go/internal/game/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newLadder(t *testing.T, names ...string) *Tournament {
	t.Helper()
	tr := NewTournament("ladder")
	for _, name := range names {
		require.NoError(t, tr.AddPlayer(name, ai.Normal))
	}
	return tr
}

func TestRoundRobinSchedule(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 6} {
		t.Run(fmt.Sprintf("%d players", n), func(t *testing.T) {
			names := make([]string, n)
			for i := range names {
				names[i] = fmt.Sprintf("p%d", i)
			}
			rounds := roundRobin(names)

			wantRounds := n - 1
			if n%2 == 1 {
				wantRounds = n
			}
			require.Len(t, rounds, wantRounds)

			met := map[[2]string]int{}
			byes := map[string]int{}
			for _, r := range rounds {
				playing := map[string]bool{}
				for _, p := range r.Pairings {
					assert.False(t, playing[p.Player1] || playing[p.Player2], "nobody plays twice in round %d", r.Number)
					playing[p.Player1], playing[p.Player2] = true, true
					key := [2]string{p.Player1, p.Player2}
					if key[0] > key[1] {
						key[0], key[1] = key[1], key[0]
					}
					met[key]++
				}
				if r.Bye != "" {
					byes[r.Bye]++
				}
			}
			assert.Len(t, met, n*(n-1)/2)
			for pair, count := range met {
				assert.Equal(t, 1, count, "%v", pair)
			}
			if n%2 == 1 {
				assert.Len(t, byes, n)
			} else {
				assert.Empty(t, byes)
			}
		})
	}
}

func TestAddPlayer(t *testing.T) {
	tr := newLadder(t, "normal")
	assert.Error(t, tr.AddPlayer("normal", ai.Hard))
	assert.Equal(t, 1, tr.GetPlayerCount())

	assert.Error(t, tr.Start(), "one entrant is not a tournament")

	require.NoError(t, tr.AddPlayer("hard", ai.Hard))
	require.NoError(t, tr.Start())
	assert.Error(t, tr.AddPlayer("easy", ai.Easy))
	assert.Error(t, tr.Start())
	assert.Equal(t, StateInProgress, tr.GetState())
}

func TestRecordMatchResult(t *testing.T) {
	tr := newLadder(t, "a", "b", "c", "d")
	assert.Error(t, tr.RecordMatchResult(1, "a", "d", "a", 2, 0, 0), "not started")
	require.NoError(t, tr.Start())

	// round 1 is a-d and b-c; results may name the players in either order
	require.NoError(t, tr.RecordMatchResult(1, "d", "a", "a", 0, 2, 0))
	assert.Error(t, tr.RecordMatchResult(1, "a", "d", "a", 2, 0, 0), "recorded twice")
	assert.Error(t, tr.RecordMatchResult(1, "a", "b", "a", 2, 0, 0), "not paired")
	assert.Error(t, tr.RecordMatchResult(1, "b", "c", "d", 1, 0, 0), "winner outside pairing")
	assert.Error(t, tr.RecordMatchResult(9, "b", "c", "b", 1, 0, 0))
	assert.Equal(t, 1, tr.Snapshot().CurrentRound)

	require.NoError(t, tr.RecordMatchResult(1, "b", "c", "", 1, 1, 0))
	snap := tr.Snapshot()
	assert.True(t, snap.Rounds[0].Finished)
	assert.Equal(t, 2, snap.CurrentRound)

	a, _ := tr.GetPlayer("a")
	assert.Equal(t, PointsWin, a.Points)
	assert.Equal(t, 2, a.GamesWon)
	d, _ := tr.GetPlayer("d")
	assert.Equal(t, 1, d.Losses)
	assert.Equal(t, 2, d.GamesLost)
	b, _ := tr.GetPlayer("b")
	assert.Equal(t, PointsDraw, b.Points)
	assert.Equal(t, 1, b.Draws)

	assert.Equal(t, []string{"a", "b", "c", "d"}, standingNames(snap))
}

func TestTournamentFinishesAfterLastRound(t *testing.T) {
	tr := newLadder(t, "a", "b")
	require.NoError(t, tr.Start())
	require.NoError(t, tr.RecordMatchResult(1, "a", "b", "b", 0, 1, 0))

	snap := tr.Snapshot()
	assert.Equal(t, StateFinished, snap.State)
	assert.NotNil(t, snap.EndTime)
	assert.Equal(t, []string{"b", "a"}, standingNames(snap))
	assert.Error(t, tr.RecordMatchResult(1, "a", "b", "a", 1, 0, 0))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "IN_PROGRESS", StateInProgress.String())
	assert.Equal(t, "UNKNOWN", State(42).String())
}

func TestManager(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t))
	tr, err := m.Create("ladder", []string{"easy", "normal"})
	require.NoError(t, err)
	assert.Equal(t, 2, tr.GetPlayerCount())
	_, ok := tr.GetPlayer("normal")
	assert.True(t, ok, "entrants are named after their tier")

	got, ok := m.Get(tr.ID)
	require.True(t, ok)
	assert.Same(t, tr, got)
	assert.Equal(t, 1, m.Active())
	require.Len(t, m.Snapshots(), 1)
	assert.Equal(t, "ladder", m.Snapshots()[0].Name)

	require.NoError(t, tr.Start())
	require.NoError(t, tr.RecordMatchResult(1, "easy", "normal", "", 0, 0, 1))
	assert.Zero(t, m.Active())

	m.Remove(tr.ID)
	_, ok = m.Get(tr.ID)
	assert.False(t, ok)
	assert.Empty(t, m.Snapshots())
}

func TestManagerRejectsBadTiers(t *testing.T) {
	m := NewManager(nil)
	_, err := m.Create("bad", []string{"easy", "brutal"})
	assert.Error(t, err)
	_, err = m.Create("twice", []string{"hard", "hard"})
	assert.Error(t, err)
	assert.Empty(t, m.Snapshots())
}

func newRunner(t *testing.T, gamesPerMatch, maxTurns int) (*Runner, *game.Manager) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	games := game.NewManager(logger)
	opts := game.DefaultOptions()
	opts.Seed = 100
	return NewRunner(games, opts, gamesPerMatch, maxTurns, logger), games
}

func TestPlayGameIsReproducible(t *testing.T) {
	r, games := newRunner(t, 1, 300)

	first, err := r.PlayGame(context.Background(), ai.Hard, ai.Normal, 5)
	require.NoError(t, err)
	second, err := r.PlayGame(context.Background(), ai.Hard, ai.Normal, 5)
	require.NoError(t, err)

	assert.NotEqual(t, first.GameID, second.GameID)
	assert.Equal(t, first.Winner, second.Winner)
	assert.Equal(t, first.Turns, second.Turns)
	assert.Equal(t, first.Reason, second.Reason)
	assert.NotEmpty(t, first.Checksum)
	assert.Equal(t, first.Stats, second.Stats)
	assert.Positive(t, first.Stats[0].CardsDrawn)
	assert.Zero(t, first.Faults)
	assert.Zero(t, games.Count(), "finished games are released")
}

func TestPlayGameTurnLimit(t *testing.T) {
	r, _ := newRunner(t, 1, 1)
	res, err := r.PlayGame(context.Background(), ai.Easy, ai.Easy, 3)
	require.NoError(t, err)
	assert.Equal(t, -1, res.Winner)
	assert.Contains(t, res.Reason, "turn limit")
}

type panickingPolicy struct{}

func (panickingPolicy) Name() string { return "panicking" }

func (panickingPolicy) Decide(*game.State, int) (game.Action, error) {
	panic("no plan")
}

func TestPlayGameCountsFaults(t *testing.T) {
	r, _ := newRunner(t, 1, 4)
	res, err := r.playWith(context.Background(), [2]game.Policy{panickingPolicy{}, panickingPolicy{}}, 9)
	require.NoError(t, err)
	assert.Equal(t, -1, res.Winner)
	assert.Equal(t, res.Turns-1, res.Faults, "every completed turn faulted")
}

func TestRunLadder(t *testing.T) {
	r, games := newRunner(t, 2, 300)
	tr := NewTournament("tiers")
	require.NoError(t, tr.AddPlayer("easy", ai.Easy))
	require.NoError(t, tr.AddPlayer("normal", ai.Normal))
	require.NoError(t, tr.AddPlayer("hard", ai.Hard))

	require.NoError(t, r.Run(context.Background(), tr))

	snap := tr.Snapshot()
	assert.Equal(t, StateFinished, snap.State)
	require.Len(t, snap.Rounds, 3)

	totalPoints, played := 0, 0
	for _, round := range snap.Rounds {
		assert.True(t, round.Finished)
		for _, p := range round.Pairings {
			assert.True(t, p.Finished)
			played += p.Player1Wins + p.Player2Wins + p.Draws
		}
	}
	for _, p := range snap.Standings {
		totalPoints += p.Points
		assert.Equal(t, 2, p.Wins+p.Losses+p.Draws, p.Name)
	}
	assert.Equal(t, 3*2, played)
	assert.GreaterOrEqual(t, totalPoints, 3*2*PointsDraw)
	assert.Zero(t, games.Count())
}

func TestRunHonoursCancellation(t *testing.T) {
	r, _ := newRunner(t, 1, 300)
	tr := newLadder(t, "a", "b")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := r.Run(ctx, tr)
	assert.ErrorIs(t, err, context.Canceled)
}

func standingNames(s Snapshot) []string {
	var names []string
	for _, p := range s.Standings {
		names = append(names, p.Name)
	}
	return names
}
