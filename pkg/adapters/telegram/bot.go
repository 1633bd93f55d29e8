package telegram

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/orderbot/internal/logging"
	"github.com/aretw0/orderbot/pkg/domain"
	"github.com/aretw0/orderbot/pkg/ports"
	tele "gopkg.in/telebot.v4"
)

// EventHandler processes one event and renders its replies through out.
// *runner.Runner satisfies it.
type EventHandler interface {
	Handle(ctx context.Context, ev domain.Event, out ports.Messenger) error
}

// Bot is a long-polling Telegram front end.
type Bot struct {
	bot     *tele.Bot
	handler EventHandler
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures the Bot.
type Option func(*Bot)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithEventTimeout bounds the processing of a single update.
func WithEventTimeout(d time.Duration) Option {
	return func(b *Bot) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// New creates a bot for token. Settings may be adjusted through settings, e.g. to
// point at a test server or to run offline.
func New(token string, handler EventHandler, settings *tele.Settings, opts ...Option) (*Bot, error) {
	b := &Bot{
		handler: handler,
		logger:  logging.NewNop(),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(b)
	}

	pref := tele.Settings{}
	if settings != nil {
		pref = *settings
	}
	pref.Token = token
	if pref.Poller == nil {
		pref.Poller = &tele.LongPoller{Timeout: 10 * time.Second}
	}
	pref.OnError = func(err error, c tele.Context) {
		b.logger.Error("telegram update failed", "error", err)
	}

	bot, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}
	b.bot = bot

	bot.Handle("/start", b.onUpdate)
	bot.Handle(tele.OnText, b.onUpdate)
	bot.Handle(tele.OnCallback, b.onUpdate)
	return b, nil
}

// Run polls for updates until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("telegram bot started", "username", b.bot.Me.Username)
	go func() {
		<-ctx.Done()
		b.bot.Stop()
	}()
	b.bot.Start()
	return nil
}

func (b *Bot) onUpdate(c tele.Context) error {
	ev, ok := EventFrom(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	// Failures were already reported to the user by the handler.
	if err := b.handler.Handle(ctx, ev, NewMessenger(c)); err != nil {
		b.logger.Debug("update aborted", "user_id", ev.UserID, "error", err)
	}
	return nil
}
