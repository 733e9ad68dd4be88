package rules

import (
	"sync"
	"time"
)

// EventType indicates the category of a game event.
type EventType string

const (
	EventGameStarted    EventType = "GAME_STARTED"
	EventTurnStarted    EventType = "TURN_STARTED"
	EventCardsDrawn     EventType = "CARDS_DRAWN"
	EventShieldRearmed  EventType = "SHIELD_REARMED"
	EventCardInstalled  EventType = "CARD_INSTALLED"
	EventShipLaunched   EventType = "SHIP_LAUNCHED"
	EventShipCrowned    EventType = "SHIP_CROWNED"
	EventSpecialPlayed  EventType = "SPECIAL_PLAYED"
	EventAttack         EventType = "ATTACK"
	EventShieldAbsorbed EventType = "SHIELD_ABSORBED"
	EventReflect        EventType = "REFLECT"
	EventShipDestroyed  EventType = "SHIP_DESTROYED"
	EventActionRejected EventType = "ACTION_REJECTED"
	EventDeckExhausted  EventType = "DECK_EXHAUSTED"
	EventSuddenDeath    EventType = "SUDDEN_DEATH"
	EventGameWon        EventType = "GAME_WON"
	EventUndo           EventType = "UNDO"
	EventAIFault        EventType = "AI_FAULT"
)

// Severity styles a log entry for the UI.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityGood  Severity = "good"
	SeverityWarn  Severity = "warn"
	SeverityBad   Severity = "bad"
	SeverityMuted Severity = "muted"
)

// Event represents a state change that the log and other subsystems react to.
type Event struct {
	Type      EventType
	Message   string
	Severity  Severity
	Player    int    // acting or affected player, -1 when not applicable
	ShipID    string // ship the event concerns, if any
	Owner     int    // owner of ShipID
	Amount    int
	Turn      int
	Timestamp time.Time
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, severity Severity, player int, message string) Event {
	return Event{
		Type:      eventType,
		Message:   message,
		Severity:  severity,
		Player:    player,
		Owner:     -1,
		Timestamp: time.Now(),
	}
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	order          []int
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
// Listeners are called in subscription order.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	bus.order = append(bus.order, handle)
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for i, h := range bus.order {
		if h == handle {
			bus.order = append(bus.order[:i], bus.order[i+1:]...)
			break
		}
	}
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
// Listeners must not subscribe or unsubscribe from inside the callback.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	listeners := make([]Listener, 0, len(bus.order))
	for _, h := range bus.order {
		listeners = append(listeners, bus.listeners[h])
	}
	typed := append([]TypedListener(nil), bus.typedListeners[event.Type]...)
	bus.mu.RUnlock()

	for _, listener := range listeners {
		listener(event)
	}
	for _, listener := range typed {
		listener.Callback(event)
	}
}
