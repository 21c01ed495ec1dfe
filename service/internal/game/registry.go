package game

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrGameNotFound is returned when a game ID is not registered.
var ErrGameNotFound = errors.New("game not found")

// Registry keeps the live games of this process in memory.
type Registry struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*DonutGame
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		games: make(map[uuid.UUID]*DonutGame),
	}
}

// Add registers a game under its ID.
func (r *Registry) Add(g *DonutGame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[g.ID] = g
}

// Get returns the game with the given ID.
func (r *Registry) Get(id uuid.UUID) (*DonutGame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// Remove drops a game. Removing an unknown ID is a no-op.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, id)
}

// Len returns the number of registered games.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// PruneIdle removes games with no activity since before cutoff and returns
// how many were removed.
func (r *Registry) PruneIdle(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, g := range r.games {
		g.Mu.Lock()
		idle := g.LastActivity.Before(cutoff)
		g.Mu.Unlock()
		if idle {
			delete(r.games, id)
			removed++
		}
	}
	return removed
}
