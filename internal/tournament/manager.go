package tournament

import (
	"fmt"
	"sort"
	"sync"

	"github.com/broadside/broadside-server-go/internal/game/ai"
	"go.uber.org/zap"
)

// Manager tracks ladders by id.
type Manager struct {
	ladders map[string]*Tournament
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewManager creates an empty manager.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		ladders: make(map[string]*Tournament),
		logger:  logger,
	}
}

// Create registers a ladder with one entrant per AI tier name. Each
// entrant is named after its tier.
func (m *Manager) Create(name string, tiers []string) (*Tournament, error) {
	t := NewTournament(name)
	for _, tier := range tiers {
		d, err := ai.ParseDifficulty(tier)
		if err != nil {
			return nil, fmt.Errorf("ladder %q: %w", name, err)
		}
		if err := t.AddPlayer(string(d), d); err != nil {
			return nil, fmt.Errorf("ladder %q: %w", name, err)
		}
	}

	m.mu.Lock()
	m.ladders[t.ID] = t
	m.mu.Unlock()

	m.logger.Info("ladder created",
		zap.String("tournament_id", t.ID),
		zap.String("name", name),
		zap.Strings("tiers", tiers),
	)
	return t, nil
}

// Get retrieves a ladder by id.
func (m *Manager) Get(id string) (*Tournament, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.ladders[id]
	return t, ok
}

// Remove forgets a ladder.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	_, ok := m.ladders[id]
	delete(m.ladders, id)
	m.mu.Unlock()

	if ok {
		m.logger.Info("ladder removed", zap.String("tournament_id", id))
	}
}

// Active counts ladders that have not finished.
func (m *Manager) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, t := range m.ladders {
		if t.GetState() != StateFinished {
			n++
		}
	}
	return n
}

// Snapshots returns every ladder, oldest first.
func (m *Manager) Snapshots() []Snapshot {
	m.mu.RLock()
	out := make([]Snapshot, 0, len(m.ladders))
	for _, t := range m.ladders {
		out = append(out, t.Snapshot())
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreateTime.Before(out[j].CreateTime) })
	return out
}
