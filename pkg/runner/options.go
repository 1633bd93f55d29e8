package runner

import (
	"log/slog"

	"github.com/aretw0/orderbot/pkg/domain"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithHooks registers lifecycle observers. Hooks run synchronously on the event path.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.hooks = hooks
	}
}

// WithFailureText overrides the notice sent to the user when an event fails.
func WithFailureText(text string) Option {
	return func(r *Runner) {
		if text != "" {
			r.failureText = text
		}
	}
}

// WithMaxInputSize limits typed messages to n characters. Longer messages fail the event.
func WithMaxInputSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxInput = n
		}
	}
}
