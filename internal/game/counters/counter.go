// Package counters holds the named turn timers carried by ships. Every
// timer counts owner-turns and is ticked once at the start of its owner's
// turn.
package counters

import "sort"

// Timer names used on ships.
const (
	ShieldCooldown = "shield_cooldown"
	WeaponsOffline = "weapons_offline"
)

// Counters is a set of named timers. A timer that runs down to zero is
// dropped, so an absent name always reads as 0.
type Counters struct {
	counts map[string]int
}

// CounterView is one timer as shown to clients.
type CounterView struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func NewCounters() *Counters {
	return &Counters{counts: make(map[string]int)}
}

// Set overwrites the timer. A count of 0 or less clears it.
func (cs *Counters) Set(name string, count int) {
	if count <= 0 {
		delete(cs.counts, name)
		return
	}
	cs.counts[name] = count
}

// AtLeast raises the timer to count; a longer timer is left alone.
func (cs *Counters) AtLeast(name string, count int) {
	if cs.GetCount(name) < count {
		cs.Set(name, count)
	}
}

// Remove takes amount off the timer, flooring at zero. It reports whether
// the timer was running.
func (cs *Counters) Remove(name string, amount int) bool {
	count, ok := cs.counts[name]
	if !ok || amount <= 0 {
		return false
	}
	cs.Set(name, count-amount)
	return true
}

// GetCount returns the remaining turns on name.
func (cs *Counters) GetCount(name string) int {
	if cs == nil {
		return 0
	}
	return cs.counts[name]
}

func (cs *Counters) HasCounter(name string) bool {
	return cs.GetCount(name) > 0
}

// Len returns the number of running timers.
func (cs *Counters) Len() int {
	if cs == nil {
		return 0
	}
	return len(cs.counts)
}

// Tick removes one turn from every timer and returns the names that
// expired, sorted.
func (cs *Counters) Tick() []string {
	var expired []string
	for name := range cs.counts {
		cs.Remove(name, 1)
		if !cs.HasCounter(name) {
			expired = append(expired, name)
		}
	}
	sort.Strings(expired)
	return expired
}

// Copy returns an independent copy.
func (cs *Counters) Copy() *Counters {
	if cs == nil {
		return nil
	}
	cp := NewCounters()
	for name, count := range cs.counts {
		cp.counts[name] = count
	}
	return cp
}

// ToView lists the running timers sorted by name.
func (cs *Counters) ToView() []CounterView {
	if cs == nil {
		return nil
	}
	views := make([]CounterView, 0, len(cs.counts))
	for name, count := range cs.counts {
		views = append(views, CounterView{Name: name, Count: count})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	return views
}
