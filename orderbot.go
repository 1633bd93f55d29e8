package orderbot

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/orderbot/internal/logging"
	"github.com/aretw0/orderbot/internal/runtime"
	"github.com/aretw0/orderbot/pkg/domain"
	"github.com/aretw0/orderbot/pkg/ports"
	"github.com/aretw0/orderbot/pkg/runner"
	"github.com/aretw0/orderbot/pkg/session"
)

// Bot is the high-level entry point: the state machine, the session manager and the
// coordinator assembled around one catalog and one session store.
type Bot struct {
	runner   *runner.Runner
	sessions *session.Manager
	engine   *runtime.Engine

	texts   runtime.Texts
	locker  ports.DistributedLocker
	lockTTL time.Duration
	hooks   domain.LifecycleHooks
	logger  *slog.Logger

	maxInput int
}

// Option defines a functional option for configuring the Bot.
type Option func(*Bot)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Bot) {
		b.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// WithTexts overrides user-facing texts. Empty fields keep their defaults.
func WithTexts(t runtime.Texts) Option {
	return func(b *Bot) {
		b.texts = t
	}
}

// WithLocker serializes users across processes sharing the same store.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(b *Bot) {
		b.locker = locker
		b.lockTTL = ttl
	}
}

// WithMaxInputSize limits typed messages to n characters.
func WithMaxInputSize(n int) Option {
	return func(b *Bot) {
		b.maxInput = n
	}
}

// New assembles a Bot.
func New(catalog ports.Catalog, store ports.SessionStore, opts ...Option) (*Bot, error) {
	b := &Bot{texts: runtime.DefaultTexts()}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logging.NewNop()
	}

	engine, err := runtime.NewEngine(catalog, store,
		runtime.WithTexts(b.texts),
		runtime.WithLogger(b.logger),
	)
	if err != nil {
		return nil, err
	}
	b.engine = engine

	sessionOpts := []session.Option{session.WithLogger(b.logger)}
	if b.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(b.locker), session.WithLockTTL(b.lockTTL))
	}
	b.sessions = session.NewManager(store, sessionOpts...)

	b.runner = runner.New(engine, b.sessions,
		runner.WithLogger(b.logger),
		runner.WithHooks(b.hooks),
		runner.WithMaxInputSize(b.maxInput),
	)
	return b, nil
}

// Handle processes one event. See runner.Runner.Handle.
func (b *Bot) Handle(ctx context.Context, ev domain.Event, out ports.Messenger) error {
	return b.runner.Handle(ctx, ev, out)
}

// Runner returns the coordinator.
func (b *Bot) Runner() *runner.Runner {
	return b.runner
}

// Sessions returns the session manager.
func (b *Bot) Sessions() *session.Manager {
	return b.sessions
}
