// Package tournament runs round-robin ladders between AI tiers. Every
// entrant meets every other entrant once per cycle; a match is a short
// series of games with the seats alternating.
package tournament

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/broadside/broadside-server-go/internal/game/ai"
	"github.com/google/uuid"
)

// Points awarded per match.
const (
	PointsWin  = 3
	PointsDraw = 1
)

// State represents the state of a tournament
type State int

const (
	StateWaiting State = iota
	StateInProgress
	StateFinished
)

var stateNames = map[State]string{
	StateWaiting:    "WAITING",
	StateInProgress: "IN_PROGRESS",
	StateFinished:   "FINISHED",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Player is an entrant: a named AI tier.
type Player struct {
	Name       string
	Difficulty ai.Difficulty
	Points     int
	Wins       int
	Losses     int
	Draws      int
	GamesWon   int
	GamesLost  int
}

// Pairing is one match of a round.
type Pairing struct {
	Player1     string
	Player2     string
	Winner      string
	Player1Wins int
	Player2Wins int
	Draws       int
	Finished    bool
}

// Round is one round of the schedule.
type Round struct {
	Number   int
	Pairings []*Pairing
	Bye      string
	Finished bool
}

// PlayerSnapshot captures tournament player data for external use.
type PlayerSnapshot struct {
	Name       string
	Difficulty ai.Difficulty
	Points     int
	Wins       int
	Losses     int
	Draws      int
	GamesWon   int
	GamesLost  int
}

// PairingSnapshot captures pairing data for external use.
type PairingSnapshot struct {
	Player1     string
	Player2     string
	Winner      string
	Player1Wins int
	Player2Wins int
	Draws       int
	Finished    bool
}

// RoundSnapshot captures round data for external use.
type RoundSnapshot struct {
	Number   int
	Bye      string
	Finished bool
	Pairings []PairingSnapshot
}

// Snapshot captures a consistent view of a tournament. Standings are
// ordered by points, then game difference, then entry order.
type Snapshot struct {
	ID           string
	Name         string
	State        State
	Standings    []PlayerSnapshot
	Rounds       []RoundSnapshot
	CurrentRound int
	CreateTime   time.Time
	StartTime    *time.Time
	EndTime      *time.Time
}

// Tournament is a round-robin ladder.
type Tournament struct {
	ID           string
	Name         string
	State        State
	Players      map[string]*Player
	PlayerOrder  []string // Maintains insertion order
	Rounds       []*Round
	CurrentRound int
	CreateTime   time.Time
	StartTime    *time.Time
	EndTime      *time.Time
	mu           sync.RWMutex
}

// NewTournament creates an empty tournament.
func NewTournament(name string) *Tournament {
	return &Tournament{
		ID:          uuid.New().String(),
		Name:        name,
		State:       StateWaiting,
		Players:     make(map[string]*Player),
		PlayerOrder: make([]string, 0),
		Rounds:      make([]*Round, 0),
		CreateTime:  time.Now(),
	}
}

// AddPlayer enters an AI tier under name.
func (t *Tournament) AddPlayer(name string, difficulty ai.Difficulty) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != StateWaiting {
		return fmt.Errorf("tournament already started")
	}
	if _, exists := t.Players[name]; exists {
		return fmt.Errorf("player already joined: %s", name)
	}

	t.Players[name] = &Player{Name: name, Difficulty: difficulty}
	t.PlayerOrder = append(t.PlayerOrder, name)
	return nil
}

// GetPlayerCount returns the number of players
func (t *Tournament) GetPlayerCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.Players)
}

// GetPlayer returns a copy of the named player.
func (t *Tournament) GetPlayer(name string) (Player, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.Players[name]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// GetState returns the current tournament state
func (t *Tournament) GetState() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.State
}

// Start schedules every round and moves the tournament into progress.
func (t *Tournament) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != StateWaiting {
		return fmt.Errorf("tournament already started")
	}
	if len(t.Players) < 2 {
		return fmt.Errorf("not enough players")
	}

	now := time.Now()
	t.StartTime = &now
	t.State = StateInProgress
	t.Rounds = roundRobin(t.PlayerOrder)
	t.CurrentRound = 1
	return nil
}

// roundRobin builds the circle-method schedule: n-1 rounds for even n, n
// rounds with one bye each for odd n. The first entrant stays fixed while
// the rest rotate.
func roundRobin(names []string) []*Round {
	seats := append([]string(nil), names...)
	if len(seats)%2 == 1 {
		seats = append(seats, "")
	}
	n := len(seats)

	rounds := make([]*Round, 0, n-1)
	for r := 0; r < n-1; r++ {
		round := &Round{Number: r + 1}
		for i := 0; i < n/2; i++ {
			a, b := seats[i], seats[n-1-i]
			switch {
			case a == "":
				round.Bye = b
			case b == "":
				round.Bye = a
			default:
				// alternate colours so the fixed seat is not always first
				if r%2 == 1 && i == 0 {
					a, b = b, a
				}
				round.Pairings = append(round.Pairings, &Pairing{Player1: a, Player2: b})
			}
		}
		rounds = append(rounds, round)

		last := seats[n-1]
		copy(seats[2:], seats[1:n-1])
		seats[1] = last
	}
	return rounds
}

// RecordMatchResult records a finished match. winner is empty for a draw.
func (t *Tournament) RecordMatchResult(roundNum int, player1, player2, winner string, player1Wins, player2Wins, draws int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != StateInProgress {
		return fmt.Errorf("tournament not in progress")
	}
	if roundNum <= 0 || roundNum > len(t.Rounds) {
		return fmt.Errorf("invalid round number")
	}
	if winner != "" && winner != player1 && winner != player2 {
		return fmt.Errorf("winner %s is not in the pairing", winner)
	}

	round := t.Rounds[roundNum-1]
	for _, pairing := range round.Pairings {
		if pairing.Player1 == player2 && pairing.Player2 == player1 {
			player1, player2 = player2, player1
			player1Wins, player2Wins = player2Wins, player1Wins
		}
		if pairing.Player1 != player1 || pairing.Player2 != player2 {
			continue
		}
		if pairing.Finished {
			return fmt.Errorf("pairing already recorded")
		}

		pairing.Winner = winner
		pairing.Player1Wins = player1Wins
		pairing.Player2Wins = player2Wins
		pairing.Draws = draws
		pairing.Finished = true

		p1, p2 := t.Players[player1], t.Players[player2]
		p1.GamesWon += player1Wins
		p1.GamesLost += player2Wins
		p2.GamesWon += player2Wins
		p2.GamesLost += player1Wins
		switch winner {
		case player1:
			p1.Wins++
			p1.Points += PointsWin
			p2.Losses++
		case player2:
			p2.Wins++
			p2.Points += PointsWin
			p1.Losses++
		default:
			p1.Draws++
			p1.Points += PointsDraw
			p2.Draws++
			p2.Points += PointsDraw
		}

		t.advanceLocked()
		return nil
	}

	return fmt.Errorf("pairing not found")
}

// advanceLocked closes finished rounds and the tournament itself.
func (t *Tournament) advanceLocked() {
	for t.CurrentRound <= len(t.Rounds) {
		round := t.Rounds[t.CurrentRound-1]
		for _, p := range round.Pairings {
			if !p.Finished {
				return
			}
		}
		round.Finished = true
		if t.CurrentRound == len(t.Rounds) {
			now := time.Now()
			t.EndTime = &now
			t.State = StateFinished
			return
		}
		t.CurrentRound++
	}
}

// Snapshot returns a consistent copy of the tournament state.
func (t *Tournament) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	standings := make([]PlayerSnapshot, 0, len(t.PlayerOrder))
	for _, name := range t.PlayerOrder {
		if player, ok := t.Players[name]; ok {
			standings = append(standings, PlayerSnapshot{
				Name:       player.Name,
				Difficulty: player.Difficulty,
				Points:     player.Points,
				Wins:       player.Wins,
				Losses:     player.Losses,
				Draws:      player.Draws,
				GamesWon:   player.GamesWon,
				GamesLost:  player.GamesLost,
			})
		}
	}
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		return a.GamesWon-a.GamesLost > b.GamesWon-b.GamesLost
	})

	rounds := make([]RoundSnapshot, 0, len(t.Rounds))
	for _, r := range t.Rounds {
		pairings := make([]PairingSnapshot, 0, len(r.Pairings))
		for _, p := range r.Pairings {
			pairings = append(pairings, PairingSnapshot{
				Player1:     p.Player1,
				Player2:     p.Player2,
				Winner:      p.Winner,
				Player1Wins: p.Player1Wins,
				Player2Wins: p.Player2Wins,
				Draws:       p.Draws,
				Finished:    p.Finished,
			})
		}

		rounds = append(rounds, RoundSnapshot{
			Number:   r.Number,
			Bye:      r.Bye,
			Finished: r.Finished,
			Pairings: pairings,
		})
	}

	return Snapshot{
		ID:           t.ID,
		Name:         t.Name,
		State:        t.State,
		Standings:    standings,
		Rounds:       rounds,
		CurrentRound: t.CurrentRound,
		CreateTime:   t.CreateTime,
		StartTime:    cloneTime(t.StartTime),
		EndTime:      cloneTime(t.EndTime),
	}
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}
