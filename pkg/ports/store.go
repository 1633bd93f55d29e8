package ports

import (
	"context"

	"github.com/aretw0/orderbot/pkg/domain"
)

// StateStore persists the conversation state of each user.
type StateStore interface {
	// GetState returns the last committed state for the user.
	// Returns domain.ErrSessionNotFound if nothing was recorded yet.
	GetState(ctx context.Context, userID string) (domain.StateName, error)

	// SetState overwrites the state for the user.
	SetState(ctx context.Context, userID string, state domain.StateName) error
}

// CartStore caches the cart identity assigned to each user.
type CartStore interface {
	// GetCartID returns the cached cart id. Absence is reported with ok == false, not an error.
	GetCartID(ctx context.Context, userID string) (cartID string, ok bool, err error)

	// SetCartID caches the cart id for the user.
	SetCartID(ctx context.Context, userID, cartID string) error
}

// SessionStore is the durable per-user session: state and cart identity live under
// independent keys and fail independently.
type SessionStore interface {
	StateStore
	CartStore

	// Delete removes every key recorded for the user.
	Delete(ctx context.Context, userID string) error

	// List returns the users with a recorded session.
	List(ctx context.Context) ([]string, error)
}
