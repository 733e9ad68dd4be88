package rules

import (
	"fmt"
	"sync"
)

// WatcherScope defines the scope of a watcher's tracking.
type WatcherScope int

const (
	// WatcherScopeGame tracks events for the entire game.
	WatcherScopeGame WatcherScope = iota
	// WatcherScopePlayer tracks events for a specific player.
	WatcherScopePlayer
)

// String returns the string representation of the watcher scope.
func (ws WatcherScope) String() string {
	switch ws {
	case WatcherScopeGame:
		return "GAME"
	case WatcherScopePlayer:
		return "PLAYER"
	default:
		return "UNKNOWN"
	}
}

// Watcher observes game events and tracks a condition.
// Watchers live inside the game state, so they must copy cleanly for undo.
type Watcher interface {
	// Watch is called for every event the game emits.
	Watch(event Event)

	// ConditionMet returns true if the condition this watcher tracks has been met.
	ConditionMet() bool

	// GetScope returns the scope of this watcher.
	GetScope() WatcherScope

	// GetKey returns a unique key for this watcher instance.
	GetKey() string

	// Copy creates a deep copy of this watcher.
	Copy() Watcher
}

// BaseWatcher provides a base implementation for watchers.
type BaseWatcher struct {
	scope     WatcherScope
	player    int
	condition bool
	key       string
}

// NewBaseWatcher creates a new base watcher with the specified scope.
func NewBaseWatcher(scope WatcherScope, key string) BaseWatcher {
	return BaseWatcher{scope: scope, player: -1, key: key}
}

// GetScope returns the watcher's scope.
func (bw *BaseWatcher) GetScope() WatcherScope {
	return bw.scope
}

// Player returns the tracked player for PLAYER scope watchers, -1 otherwise.
func (bw *BaseWatcher) Player() int {
	return bw.player
}

// ConditionMet returns whether the condition has been met.
func (bw *BaseWatcher) ConditionMet() bool {
	return bw.condition
}

// SetCondition sets the condition flag.
func (bw *BaseWatcher) SetCondition(condition bool) {
	bw.condition = condition
}

// GetKey returns the unique key for this watcher.
func (bw *BaseWatcher) GetKey() string {
	return bw.key
}

// SuddenDeathWatcher records the owner of the first ship destroyed once armed.
// The game arms it when both fleets are tied after the deck runs out.
type SuddenDeathWatcher struct {
	BaseWatcher
	Armed bool
	Loser int
}

// SuddenDeathKey is the registry key of the sudden death watcher.
const SuddenDeathKey = "sudden_death"

// NewSuddenDeathWatcher constructs a disarmed watcher.
func NewSuddenDeathWatcher() *SuddenDeathWatcher {
	return &SuddenDeathWatcher{
		BaseWatcher: NewBaseWatcher(WatcherScopeGame, SuddenDeathKey),
		Loser:       -1,
	}
}

// Arm starts watching for the next destruction.
func (w *SuddenDeathWatcher) Arm() {
	w.Armed = true
}

// Watch implements Watcher.
func (w *SuddenDeathWatcher) Watch(event Event) {
	if !w.Armed || w.condition || event.Type != EventShipDestroyed || event.Owner < 0 {
		return
	}
	w.Loser = event.Owner
	w.condition = true
}

// Copy implements Watcher.
func (w *SuddenDeathWatcher) Copy() Watcher {
	clone := *w
	return &clone
}

// ShipsLostWatcher counts ships a player has lost this game.
type ShipsLostWatcher struct {
	BaseWatcher
	Lost int
}

// ShipsLostKey returns the registry key of the per-player loss watcher.
func ShipsLostKey(player int) string {
	return fmt.Sprintf("p%d_ships_lost", player)
}

// NewShipsLostWatcher constructs a loss counter for the given player.
func NewShipsLostWatcher(player int) *ShipsLostWatcher {
	base := NewBaseWatcher(WatcherScopePlayer, ShipsLostKey(player))
	base.player = player
	return &ShipsLostWatcher{BaseWatcher: base}
}

// Watch implements Watcher.
func (w *ShipsLostWatcher) Watch(event Event) {
	if event.Type == EventShipDestroyed && event.Owner == w.player {
		w.Lost++
		w.condition = true
	}
}

// Copy implements Watcher.
func (w *ShipsLostWatcher) Copy() Watcher {
	clone := *w
	return &clone
}

// WatcherRegistry manages watchers for a game.
// Watchers are notified in registration order.
type WatcherRegistry struct {
	mu       sync.RWMutex
	watchers map[string]Watcher
	order    []string
}

// NewWatcherRegistry creates a new watcher registry.
func NewWatcherRegistry() *WatcherRegistry {
	return &WatcherRegistry{
		watchers: make(map[string]Watcher),
	}
}

// AddWatcher adds a watcher to the registry, replacing any with the same key.
func (wr *WatcherRegistry) AddWatcher(watcher Watcher) {
	if watcher == nil {
		return
	}

	wr.mu.Lock()
	defer wr.mu.Unlock()

	key := watcher.GetKey()
	if _, exists := wr.watchers[key]; !exists {
		wr.order = append(wr.order, key)
	}
	wr.watchers[key] = watcher
}

// GetWatcher retrieves a watcher by key.
func (wr *WatcherRegistry) GetWatcher(key string) Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	return wr.watchers[key]
}

// GetWatchersByScope returns all watchers for a given scope in registration order.
func (wr *WatcherRegistry) GetWatchersByScope(scope WatcherScope) []Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	var result []Watcher
	for _, key := range wr.order {
		if w := wr.watchers[key]; w.GetScope() == scope {
			result = append(result, w)
		}
	}
	return result
}

// ShipsLost returns the loss count kept by player's PLAYER scope watcher.
func (wr *WatcherRegistry) ShipsLost(player int) int {
	for _, w := range wr.GetWatchersByScope(WatcherScopePlayer) {
		if lost, ok := w.(*ShipsLostWatcher); ok && lost.Player() == player {
			return lost.Lost
		}
	}
	return 0
}

// NotifyWatchers notifies all watchers of an event.
func (wr *WatcherRegistry) NotifyWatchers(event Event) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	for _, key := range wr.order {
		wr.watchers[key].Watch(event)
	}
}

// Copy deep-copies the registry and every watcher in it.
func (wr *WatcherRegistry) Copy() *WatcherRegistry {
	if wr == nil {
		return nil
	}
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	clone := &WatcherRegistry{
		watchers: make(map[string]Watcher, len(wr.watchers)),
		order:    append([]string(nil), wr.order...),
	}
	for key, w := range wr.watchers {
		clone.watchers[key] = w.Copy()
	}
	return clone
}
