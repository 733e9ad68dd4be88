package game

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Manager tracks live games by id.
type Manager struct {
	games  map[string]*Game
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewManager creates an empty manager.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		games:  make(map[string]*Game),
		logger: logger,
	}
}

// Create starts a new game and registers it.
func (m *Manager) Create(opts Options, policy Policy) (*Game, error) {
	g, err := New(opts, policy, m.logger)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	m.mu.Lock()
	m.games[g.ID()] = g
	count := len(m.games)
	m.mu.Unlock()

	policyName := "none"
	if policy != nil {
		policyName = policy.Name()
	}
	m.logger.Info("game created",
		zap.String("game_id", g.ID()),
		zap.String("policy", policyName),
		zap.Int("active_games", count),
	)
	return g, nil
}

// Get retrieves a game by id.
func (m *Manager) Get(id string) (*Game, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	return g, ok
}

// Remove stops and forgets a game.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	g, ok := m.games[id]
	delete(m.games, id)
	m.mu.Unlock()

	if !ok {
		return
	}
	g.Close()
	m.logger.Info("game removed", zap.String("game_id", id))
}

// Count returns the number of live games.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
