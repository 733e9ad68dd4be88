package rules

import (
	"testing"
)

func destroyedEvent(owner int) Event {
	e := NewEvent(EventShipDestroyed, SeverityBad, 1-owner, "ship destroyed")
	e.Owner = owner
	return e
}

func TestWatcherRegistry(t *testing.T) {
	registry := NewWatcherRegistry()
	registry.AddWatcher(NewShipsLostWatcher(0))
	registry.AddWatcher(NewShipsLostWatcher(1))
	registry.AddWatcher(NewSuddenDeathWatcher())

	if registry.GetWatcher(ShipsLostKey(1)) == nil {
		t.Fatal("should retrieve player 1 loss watcher")
	}
	if got := len(registry.GetWatchersByScope(WatcherScopePlayer)); got != 2 {
		t.Fatalf("expected 2 player watchers, got %d", got)
	}
	if got := len(registry.GetWatchersByScope(WatcherScopeGame)); got != 1 {
		t.Fatalf("expected 1 game watcher, got %d", got)
	}

	registry.NotifyWatchers(destroyedEvent(1))
	registry.NotifyWatchers(destroyedEvent(1))

	lost := registry.GetWatcher(ShipsLostKey(1)).(*ShipsLostWatcher)
	if lost.Lost != 2 || !lost.ConditionMet() {
		t.Fatalf("expected player 1 to have lost 2 ships, got %d", lost.Lost)
	}
	if registry.GetWatcher(ShipsLostKey(0)).ConditionMet() {
		t.Fatal("player 0 should not have lost ships")
	}

	for i, w := range registry.GetWatchersByScope(WatcherScopePlayer) {
		if got := w.(*ShipsLostWatcher).Player(); got != i {
			t.Fatalf("watcher %s tracks player %d", w.GetKey(), got)
		}
	}
	if got := registry.ShipsLost(1); got != 2 {
		t.Fatalf("expected 2 ships lost by player 1, got %d", got)
	}
	if got := registry.ShipsLost(0); got != 0 {
		t.Fatalf("expected no ships lost by player 0, got %d", got)
	}
	if got := registry.GetWatcher(SuddenDeathKey).(*SuddenDeathWatcher).Player(); got != -1 {
		t.Fatalf("game watchers track no player, got %d", got)
	}
}

func TestSuddenDeathWatcherRecordsFirstDestruction(t *testing.T) {
	w := NewSuddenDeathWatcher()

	w.Watch(destroyedEvent(0))
	if w.ConditionMet() {
		t.Fatal("disarmed watcher should ignore destruction")
	}

	w.Arm()
	w.Watch(NewEvent(EventAttack, SeverityInfo, 0, "attack"))
	if w.ConditionMet() {
		t.Fatal("non-destruction events should be ignored")
	}

	w.Watch(destroyedEvent(1))
	w.Watch(destroyedEvent(0))
	if !w.ConditionMet() || w.Loser != 1 {
		t.Fatalf("expected loser 1, got %d", w.Loser)
	}
}

func TestWatcherRegistryCopyIsIndependent(t *testing.T) {
	registry := NewWatcherRegistry()
	registry.AddWatcher(NewSuddenDeathWatcher())
	registry.AddWatcher(NewShipsLostWatcher(0))

	snapshot := registry.Copy()

	registry.GetWatcher(SuddenDeathKey).(*SuddenDeathWatcher).Arm()
	registry.NotifyWatchers(destroyedEvent(0))

	restored := snapshot.GetWatcher(SuddenDeathKey).(*SuddenDeathWatcher)
	if restored.Armed || restored.ConditionMet() {
		t.Fatal("copy should not observe changes to the original")
	}
	if snapshot.GetWatcher(ShipsLostKey(0)).(*ShipsLostWatcher).Lost != 0 {
		t.Fatal("copied loss watcher should be untouched")
	}
	if registry.GetWatcher(ShipsLostKey(0)).(*ShipsLostWatcher).Lost != 1 {
		t.Fatal("original loss watcher should have counted the destruction")
	}
}
