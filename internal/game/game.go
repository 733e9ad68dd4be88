// Package game runs a single Broadside duel: the turn flow, the action
// handlers, combat, the win evaluator, undo and the AI scheduler.
package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/broadside/broadside-server-go/internal/game/cards"
	"github.com/broadside/broadside-server-go/internal/game/fleet"
	"github.com/broadside/broadside-server-go/internal/game/rules"
	"github.com/broadside/broadside-server-go/internal/game/targeting"
	"github.com/broadside/broadside-server-go/internal/game/watchers"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Policy decides one action for the player whose turn it is. The state
// passed in is a private copy.
type Policy interface {
	Name() string
	Decide(view *State, self int) (Action, error)
}

// Game is one session. All exported methods are safe to call from
// multiple goroutines; the AI timer is the only background writer.
type Game struct {
	mu     sync.Mutex
	id     string
	logger *zap.Logger
	opts   Options
	policy Policy
	rng    *rand.Rand

	state   *State
	history *History
	bus     *rules.EventBus
	log     []LogEntry
	hint    string

	aiGen      uint64
	aiTimer    *time.Timer
	aiInFlight bool
}

// New creates a game and deals the opening position. policy may be nil
// when no AI plays.
func New(opts Options, policy Policy, logger *zap.Logger) (*Game, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game options: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	g := &Game{
		id:     id,
		logger: logger.With(zap.String("game_id", id)),
		policy: policy,
		bus:    rules.NewEventBus(),
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetLocked(opts)
	return g, nil
}

// ID returns the game's identifier.
func (g *Game) ID() string {
	return g.id
}

// NewGame discards the current game, including any pending AI turn, and
// deals a fresh one.
func (g *Game) NewGame(opts Options) error {
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid game options: %w", err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetLocked(opts)
	return nil
}

// SetPolicy swaps the AI policy. It takes effect on the next AI turn.
func (g *Game) SetPolicy(policy Policy) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.policy = policy
}

// Close stops any scheduled AI turn.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelAILocked()
}

// Subscribe registers fn for every log entry the game emits and returns a
// handle for Unsubscribe. fn runs synchronously under the game lock and
// must not call back into the game.
func (g *Game) Subscribe(fn func(LogEntry)) int {
	if fn == nil {
		return -1
	}
	return g.bus.Subscribe(func(e rules.Event) {
		fn(entryFromEvent(e))
	})
}

// SubscribeEvents registers fn for raw events of one type.
func (g *Game) SubscribeEvents(eventType rules.EventType, fn func(rules.Event)) int {
	return g.bus.SubscribeTyped(eventType, fn)
}

// Unsubscribe removes a listener registered with Subscribe.
func (g *Game) Unsubscribe(handle int) {
	g.bus.Unsubscribe(handle)
}

func (g *Game) resetLocked(opts Options) {
	g.cancelAILocked()
	g.opts = opts

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed))
	if g.history == nil {
		g.history = NewHistory(opts.HistoryDepth)
	} else {
		g.history.Reset(opts.HistoryDepth)
	}
	g.log = nil
	g.hint = ""
	g.state = newState(opts, g.rng)

	g.logger.Info("game started",
		zap.Int64("seed", seed),
		zap.String("win_condition", string(opts.WinCondition)),
		zap.String("tie_break", string(opts.TieBreak)),
		zap.Bool("ai_enabled", opts.AIEnabled),
	)
	msg := "Game started. Player 1 begins."
	if opts.FirstTurnBonusDraw {
		msg += " Player 2 will draw 2 on their first turn."
	}
	g.emitLocked(rules.NewEvent(rules.EventGameStarted, rules.SeverityInfo, 0, msg))

	g.startTurnLocked()
	g.scheduleAILocked()
}

// starterFleets are the two ships each player opens with.
var starterFleets = [rules.PlayerCount][]fleet.Spec{
	{
		{Name: "P1 Ship A", Clubs: []int{3}, Hearts: []int{2}, Diamonds: []int{2}},
		{Name: "P1 Ship B", Clubs: []int{4}, Hearts: []int{5}},
	},
	{
		{Name: "P2 Ship A", Clubs: []int{2}, Hearts: []int{3}, Diamonds: []int{3}},
		{Name: "P2 Ship B", Clubs: []int{5}, Hearts: []int{4}},
	},
}

func newState(opts Options, rng *rand.Rand) *State {
	deck := cards.NewDeck(rng)
	s := &State{
		Deck:     deck,
		Turn:     rules.NewTurnManager(0),
		Pending:  noPending(),
		FleetCap: opts.FleetCap,
		Winner:   -1,
		Watchers: rules.NewWatcherRegistry(),
	}

	for i := range s.Players {
		p := &Player{
			ID:   i,
			Name: fmt.Sprintf("Player %d", i+1),
			// only the second player gets the bonus draw
			HasTakenFirstTurnBonusDraw: i == 0 || !opts.FirstTurnBonusDraw,
		}
		for _, spec := range starterFleets[i] {
			p.Ships = append(p.Ships, fleet.NewShip(spec))
		}
		p.Hand = deck.Draw(opts.StartingHands[i])
		if opts.GuaranteeAce {
			guaranteeAce(p, deck)
		}
		s.Players[i] = p
		s.Watchers.AddWatcher(rules.NewShipsLostWatcher(i))
	}
	s.Watchers.AddWatcher(rules.NewSuddenDeathWatcher())
	watchers.Register(s.Watchers)
	return s
}

func guaranteeAce(p *Player, deck *cards.Deck) {
	for _, c := range p.Hand {
		if c.IsAce() {
			return
		}
	}
	if ace, ok := deck.Splice(cards.Card.IsAce); ok {
		p.Hand = append(p.Hand, ace)
	}
}

// emitLocked stamps the event with the turn, feeds the watchers, appends
// to the log and publishes.
func (g *Game) emitLocked(e rules.Event) {
	e.Turn = g.state.Turn.TurnNumber
	g.state.Watchers.NotifyWatchers(e)
	g.log = appendLog(g.log, entryFromEvent(e))
	g.logger.Debug("game event",
		zap.String("type", string(e.Type)),
		zap.Int("turn", e.Turn),
		zap.String("message", e.Message),
	)
	g.bus.Publish(e)
}

// rejectLocked records a refused action: the hint is shown and logged.
// State has already been left untouched by the caller.
func (g *Game) rejectLocked(err error) error {
	hint := rules.HintOf(err)
	if hint == "" {
		hint = err.Error()
	}
	g.hint = hint
	g.logger.Warn("action rejected",
		zap.Int("player", g.state.Turn.Active),
		zap.String("phase", g.state.Turn.Phase.String()),
		zap.Error(err),
	)
	g.emitLocked(rules.NewEvent(rules.EventActionRejected, rules.SeverityWarn, g.state.Turn.Active, hint))
	return err
}

func (g *Game) guardLocked() error {
	if g.state.GameOver {
		return rules.ErrGameOver
	}
	return nil
}

// humanLocked gates the player-facing action calls. While the AI holds
// the turn only its scheduler may act.
func (g *Game) humanLocked() error {
	if err := g.guardLocked(); err != nil {
		return err
	}
	if g.aiControls(g.state.Turn.Active) {
		return g.rejectLocked(rules.Reject(rules.ErrInvalidSelection, "Waiting for the AI."))
	}
	return nil
}

func (g *Game) validator() *targeting.TargetValidator {
	return targeting.NewTargetValidator(g.state)
}

func (g *Game) idleHint() string {
	return fmt.Sprintf("%s: Build, Attack, Crown or play a special, then End Turn.", g.state.Active().Name)
}
