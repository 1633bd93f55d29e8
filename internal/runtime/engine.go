package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/orderbot/internal/logging"
	"github.com/aretw0/orderbot/pkg/domain"
	"github.com/aretw0/orderbot/pkg/ports"
)

// Handler computes the outcome of one event for the state it is registered under.
type Handler func(ctx context.Context, ev domain.Event) (domain.Outcome, error)

// Engine is the conversation state machine: a dispatch table from state to handler.
// It holds no per-user data; state is passed in and the next state returned.
type Engine struct {
	catalog  ports.Catalog
	carts    *CartResolver
	texts    Texts
	logger   *slog.Logger
	handlers map[domain.StateName]Handler
	override map[domain.StateName]Handler
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTexts sets the user-facing texts. Empty fields keep their defaults.
func WithTexts(t Texts) EngineOption {
	return func(e *Engine) {
		e.texts = t.Merge(DefaultTexts())
	}
}

// WithHandler replaces the handler of a state.
func WithHandler(state domain.StateName, h Handler) EngineOption {
	return func(e *Engine) {
		e.override[state] = h
	}
}

// NewEngine builds the dispatch table. It fails if the table does not cover exactly
// the known states, so a missing or misspelled state is caught at construction.
func NewEngine(catalog ports.Catalog, carts ports.CartStore, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		catalog:  catalog,
		texts:    DefaultTexts(),
		logger:   logging.NewNop(),
		override: make(map[domain.StateName]Handler),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.carts = NewCartResolver(carts, catalog, e.logger)

	e.handlers = map[domain.StateName]Handler{
		domain.StateStart:              e.handleStart,
		domain.StateHandleMenu:         e.handleMenu,
		domain.StateHandleDescription:  e.handleDescription,
		domain.StateHandleCart:         e.handleCart,
		domain.StateHandleWaitingEmail: e.handleWaitingEmail,
	}
	for state, h := range e.override {
		if !state.Valid() {
			return nil, fmt.Errorf("%w: cannot register handler for %q", domain.ErrUnknownState, state)
		}
		e.handlers[state] = h
	}

	for _, state := range domain.KnownStates() {
		if e.handlers[state] == nil {
			return nil, fmt.Errorf("no handler registered for state %s", state)
		}
	}
	return e, nil
}

// Carts exposes the cart resolver used by the handlers.
func (e *Engine) Carts() *CartResolver {
	return e.carts
}

// Texts returns the effective user-facing texts.
func (e *Engine) Texts() Texts {
	return e.texts
}

// Step handles one event for a user currently in state current.
// The reset command is dispatched as StateStart whatever the current state.
// An unknown current state yields domain.ErrUnknownState.
func (e *Engine) Step(ctx context.Context, current domain.StateName, ev domain.Event) (domain.Outcome, error) {
	if ev.Kind == domain.EventReset {
		current = domain.StateStart
	}

	h, ok := e.handlers[current]
	if !ok {
		return domain.Outcome{}, fmt.Errorf("%w: %q", domain.ErrUnknownState, current)
	}

	out, err := h(ctx, ev)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("%s: %w", current, err)
	}
	if !out.Next.Valid() {
		return domain.Outcome{}, fmt.Errorf("%w: handler for %s returned %q", domain.ErrUnknownState, current, out.Next)
	}

	e.logger.Debug("step",
		"user_id", ev.UserID,
		"state", current,
		"next_state", out.Next,
		"replies", len(out.Replies),
	)
	return out, nil
}
