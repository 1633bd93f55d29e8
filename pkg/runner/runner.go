package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/orderbot/internal/logging"
	"github.com/aretw0/orderbot/internal/runtime"
	"github.com/aretw0/orderbot/pkg/domain"
	"github.com/aretw0/orderbot/pkg/ports"
	"github.com/aretw0/orderbot/pkg/session"
)

// Runner is the state machine coordinator. It is safe for concurrent use;
// events of the same user are processed one at a time.
type Runner struct {
	engine      *runtime.Engine
	sessions    *session.Manager
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	failureText string
	maxInput    int
}

// New creates a Runner around an engine and the session manager owning the store.
func New(engine *runtime.Engine, sessions *session.Manager, opts ...Option) *Runner {
	r := &Runner{
		engine:      engine,
		sessions:    sessions,
		logger:      logging.NewNop(),
		failureText: engine.Texts().Failure,
		maxInput:    domain.MaxMessageLength,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Sessions returns the session manager.
func (r *Runner) Sessions() *session.Manager {
	return r.sessions
}

// Handle processes one event and delivers its replies through out.
//
// The next state is written only after the handler succeeded and its replies were
// delivered. On failure the user receives a generic notice, the stored state is left
// as it was, and the error is returned.
func (r *Runner) Handle(ctx context.Context, ev domain.Event, out ports.Messenger) error {
	if r.hooks.OnEvent != nil {
		r.hooks.OnEvent(ctx, ev)
	}

	var current domain.StateName
	err := r.sessions.WithLock(ctx, ev.UserID, func(ctx context.Context) error {
		start := time.Now()

		state, isNew, err := r.sessions.CurrentState(ctx, ev.UserID)
		if err != nil {
			return err
		}
		current = state
		if isNew {
			r.logger.Info("new session", "user_id", ev.UserID)
		}

		if ev.Kind == domain.EventMessage {
			clean, err := cleanText(ev.Payload, r.maxInput)
			if err != nil {
				return err
			}
			ev.Payload = clean
		}

		outcome, err := r.engine.Step(ctx, state, ev)
		if err != nil {
			return err
		}

		if err := out.Deliver(ctx, outcome.Replies); err != nil {
			return fmt.Errorf("deliver replies: %w", err)
		}

		if err := r.sessions.Commit(ctx, ev.UserID, outcome.Next); err != nil {
			return err
		}

		if r.hooks.OnTransition != nil {
			r.hooks.OnTransition(ctx, &domain.TransitionEvent{
				Timestamp: time.Now(),
				UserID:    ev.UserID,
				Kind:      ev.Kind,
				From:      state,
				To:        outcome.Next,
				Duration:  time.Since(start),
			})
		}
		return nil
	})
	if err == nil {
		return nil
	}

	r.fail(ctx, ev, current, err, out)
	return err
}

func (r *Runner) fail(ctx context.Context, ev domain.Event, state domain.StateName, err error, out ports.Messenger) {
	reason := classify(err)
	r.logger.Error("event failed",
		"user_id", ev.UserID,
		"kind", ev.Kind,
		"state", state,
		"reason", reason,
		"error", err,
	)

	if r.hooks.OnFailure != nil {
		r.hooks.OnFailure(ctx, &domain.FailureEvent{
			Timestamp: time.Now(),
			UserID:    ev.UserID,
			Kind:      ev.Kind,
			State:     state,
			Reason:    reason,
			Err:       err,
		})
	}

	// The request context may already be done; the notice should still go out.
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	notice := []domain.Reply{domain.Send(r.failureText, nil)}
	if ev.Kind == domain.EventCallback {
		notice = append([]domain.Reply{domain.Ack()}, notice...)
	}
	if derr := out.Deliver(notifyCtx, notice); derr != nil {
		r.logger.Warn("failure notice not delivered", "user_id", ev.UserID, "error", derr)
	}
}

// classify maps an error to a low-cardinality reason label.
func classify(err error) string {
	switch {
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, domain.ErrUnknownState):
		return "unknown_state"
	case errors.Is(err, ErrInputTooLarge), errors.Is(err, ErrInvalidUTF8):
		return "invalid_input"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrCartNotFound):
		return "not_found"
	default:
		return "backend"
	}
}
