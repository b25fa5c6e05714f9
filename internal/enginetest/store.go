// internal/enginetest/store.go
//
// In-memory game store for the engine double.
//
// Characteristics:
//   - Stores *Game objects keyed by session id (the session cookie value).
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process exits.

package enginetest

import (
	"context"
	"errors"
	"sync"
)

// ErrNoGame is returned when a session has no initialized game.
var ErrNoGame = errors.New("No active game")

// Store defines persistence for engine-side games.
type Store interface {
	// Save persists or replaces the game for a session.
	Save(ctx context.Context, session string, g *Game) error

	// Get retrieves the game for a session, or ErrNoGame.
	Get(ctx context.Context, session string) (*Game, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex     // guards games map
	games map[string]*Game // keyed by session id
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*Game)}
}

// Save adds or replaces the session's game.
func (m *memory) Save(ctx context.Context, session string, g *Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[session] = g
	return nil
}

// Get looks up the session's game.
func (m *memory) Get(ctx context.Context, session string) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[session]; ok {
		return g, nil
	}
	return nil, ErrNoGame
}
