package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/orderbot/pkg/domain"
)

// LogHooks logs transitions at debug level and failures at warn level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.Debug("transition",
				"user_id", e.UserID,
				"from", e.From,
				"to", e.To,
				"duration", e.Duration,
			)
		},
		OnFailure: func(ctx context.Context, e *domain.FailureEvent) {
			logger.Warn("event aborted",
				"user_id", e.UserID,
				"state", e.State,
				"reason", e.Reason,
			)
		},
	}
}

// Chain fans every callback out to all hooks in order.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEvent: func(ctx context.Context, ev domain.Event) {
			for _, h := range hooks {
				if h.OnEvent != nil {
					h.OnEvent(ctx, ev)
				}
			}
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			for _, h := range hooks {
				if h.OnTransition != nil {
					h.OnTransition(ctx, e)
				}
			}
		},
		OnFailure: func(ctx context.Context, e *domain.FailureEvent) {
			for _, h := range hooks {
				if h.OnFailure != nil {
					h.OnFailure(ctx, e)
				}
			}
		},
	}
}
