package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/orderbot/pkg/domain"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use. Sessions are lost when the process exits.
type Store struct {
	states map[string]domain.StateName
	carts  map[string]string
	mu     sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		states: make(map[string]domain.StateName),
		carts:  make(map[string]string),
	}
}

// GetState retrieves the state from memory.
func (s *Store) GetState(ctx context.Context, userID string) (domain.StateName, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[userID]
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	return state, nil
}

// SetState persists the state in memory.
func (s *Store) SetState(ctx context.Context, userID string, state domain.StateName) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = state
	return nil
}

// GetCartID returns the cached cart id.
func (s *Store) GetCartID(ctx context.Context, userID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.carts[userID]
	return id, ok, nil
}

// SetCartID caches the cart id.
func (s *Store) SetCartID(ctx context.Context, userID, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID] = cartID
	return nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
	delete(s.carts, userID)
	return nil
}

// List returns users with a recorded state.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.states))
	for id := range s.states {
		users = append(users, id)
	}
	sort.Strings(users)
	return users, nil
}
