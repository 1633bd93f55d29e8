package ports

import (
	"context"

	"github.com/aretw0/orderbot/pkg/domain"
)

// Messenger renders replies on the chat transport the event came from.
// It is bound to a single inbound event.
type Messenger interface {
	Deliver(ctx context.Context, replies []domain.Reply) error
}

// MessengerFunc adapts a function to Messenger.
type MessengerFunc func(ctx context.Context, replies []domain.Reply) error

// Deliver calls f.
func (f MessengerFunc) Deliver(ctx context.Context, replies []domain.Reply) error {
	return f(ctx, replies)
}
