package runner_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/orderbot/internal/runtime"
	"github.com/aretw0/orderbot/pkg/adapters/memory"
	"github.com/aretw0/orderbot/pkg/domain"
	"github.com/aretw0/orderbot/pkg/runner"
	"github.com/aretw0/orderbot/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const user = "1001"

// recorder captures every delivered batch.
type recorder struct {
	mu      sync.Mutex
	batches [][]domain.Reply
	err     error
}

func (r *recorder) Deliver(ctx context.Context, replies []domain.Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, replies)
	return r.err
}

func (r *recorder) last() []domain.Reply {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.batches) == 0 {
		return nil
	}
	return r.batches[len(r.batches)-1]
}

type fixture struct {
	catalog *memory.Catalog
	store   *memory.Store
	runner  *runner.Runner
	out     *recorder
}

func newFixture(t *testing.T, opts ...runner.Option) *fixture {
	t.Helper()
	catalog := memory.NewDemoCatalog()
	store := memory.NewStore()
	engine, err := runtime.NewEngine(catalog, store)
	require.NoError(t, err)
	return &fixture{
		catalog: catalog,
		store:   store,
		runner:  runner.New(engine, session.NewManager(store), opts...),
		out:     &recorder{},
	}
}

func (f *fixture) state(t *testing.T) domain.StateName {
	t.Helper()
	state, err := f.store.GetState(context.Background(), user)
	require.NoError(t, err)
	return state
}

func (f *fixture) send(t *testing.T, ev domain.Event) {
	t.Helper()
	require.NoError(t, f.runner.Handle(context.Background(), ev, f.out))
}

func TestRunner_NewUserStartsAtStart(t *testing.T) {
	for _, ev := range []domain.Event{
		domain.NewMessageEvent(user, "hi"),
		domain.NewCallbackEvent(user, "salmon"),
		domain.NewMessageEvent(user, "/start"),
	} {
		f := newFixture(t)
		f.send(t, ev)
		assert.Equal(t, domain.StateHandleMenu, f.state(t), ev.Kind)
		assert.Zero(t, f.catalog.Calls("GetProduct"))
	}
}

func TestRunner_HappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.send(t, domain.NewMessageEvent(user, "/start"))
	assert.Equal(t, domain.StateHandleMenu, f.state(t))

	f.send(t, domain.NewCallbackEvent(user, "trout"))
	assert.Equal(t, domain.StateHandleDescription, f.state(t))

	detail := f.out.last()
	addToCart := detail[len(detail)-1].Keyboard[0][0]
	assert.Equal(t, "trout", addToCart.Data)

	f.send(t, domain.NewCallbackEvent(user, addToCart.Data))
	assert.Equal(t, domain.StateStart, f.state(t))

	cartID, ok, err := f.store.GetCartID(ctx, user)
	require.NoError(t, err)
	require.True(t, ok)
	cart, err := f.catalog.GetCart(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "trout", cart.Items[0].Product.ID)
	assert.Equal(t, 1, cart.Items[0].Quantity)

	// Any event after START shows the menu again.
	f.send(t, domain.NewCallbackEvent(user, domain.TokenReturnToMenu))
	assert.Equal(t, domain.StateHandleMenu, f.state(t))
}

func TestRunner_Checkout(t *testing.T) {
	f := newFixture(t)

	f.send(t, domain.NewMessageEvent(user, "/start"))
	f.send(t, domain.NewCallbackEvent(user, "salmon"))
	f.send(t, domain.NewCallbackEvent(user, "salmon"))
	f.send(t, domain.NewMessageEvent(user, "hi"))
	f.send(t, domain.NewCallbackEvent(user, domain.TokenShowCart))
	assert.Equal(t, domain.StateHandleCart, f.state(t))

	f.send(t, domain.NewCallbackEvent(user, domain.TokenRequestEmail))
	assert.Equal(t, domain.StateHandleWaitingEmail, f.state(t))

	f.send(t, domain.NewMessageEvent(user, "a@b.com"))
	assert.Equal(t, domain.StateStart, f.state(t))

	clients := f.catalog.Clients()
	require.Len(t, clients, 1)
	assert.Equal(t, domain.Client{ID: clients[0].ID, UserID: user, Email: "a@b.com"}, clients[0])
}

func TestRunner_BackendFailureKeepsState(t *testing.T) {
	var failures []*domain.FailureEvent
	f := newFixture(t, runner.WithHooks(domain.LifecycleHooks{
		OnFailure: func(ctx context.Context, ev *domain.FailureEvent) {
			failures = append(failures, ev)
		},
	}))

	f.send(t, domain.NewMessageEvent(user, "/start"))
	f.catalog.FailOn("GetProduct", errors.New("cms: status 503"))

	err := f.runner.Handle(context.Background(), domain.NewCallbackEvent(user, "salmon"), f.out)
	require.Error(t, err)
	assert.Equal(t, domain.StateHandleMenu, f.state(t))

	notice := f.out.last()
	require.Len(t, notice, 2)
	assert.Equal(t, domain.ReplyAck, notice[0].Kind)
	assert.Equal(t, runtime.DefaultTexts().Failure, notice[1].Text)

	require.Len(t, failures, 1)
	assert.Equal(t, domain.StateHandleMenu, failures[0].State)
	assert.Equal(t, "backend", failures[0].Reason)

	// The same event succeeds once the backend recovers.
	f.catalog.FailOn("GetProduct", nil)
	f.send(t, domain.NewCallbackEvent(user, "salmon"))
	assert.Equal(t, domain.StateHandleDescription, f.state(t))
}

func TestRunner_DeliveryFailureKeepsState(t *testing.T) {
	f := newFixture(t)
	f.send(t, domain.NewMessageEvent(user, "/start"))

	f.out.err = errors.New("chat unreachable")
	err := f.runner.Handle(context.Background(), domain.NewCallbackEvent(user, domain.TokenShowCart), f.out)
	require.Error(t, err)
	assert.Equal(t, domain.StateHandleMenu, f.state(t))
}

func TestRunner_UnknownStoredState(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.SetState(context.Background(), user, "LEGACY_STATE"))

	err := f.runner.Handle(context.Background(), domain.NewMessageEvent(user, "hi"), f.out)
	assert.ErrorIs(t, err, domain.ErrUnknownState)
	assert.Equal(t, domain.StateName("LEGACY_STATE"), f.state(t))

	// Reset recovers the session.
	f.send(t, domain.NewMessageEvent(user, "/start"))
	assert.Equal(t, domain.StateHandleMenu, f.state(t))
}

type unavailableStore struct {
	*memory.Store
}

func (unavailableStore) GetState(ctx context.Context, userID string) (domain.StateName, error) {
	return "", domain.ErrStoreUnavailable
}

func TestRunner_StoreUnavailable(t *testing.T) {
	catalog := memory.NewDemoCatalog()
	store := unavailableStore{memory.NewStore()}
	engine, err := runtime.NewEngine(catalog, store)
	require.NoError(t, err)

	var reason string
	r := runner.New(engine, session.NewManager(store),
		runner.WithFailureText("try later"),
		runner.WithHooks(domain.LifecycleHooks{
			OnFailure: func(ctx context.Context, ev *domain.FailureEvent) { reason = ev.Reason },
		}),
	)
	out := &recorder{}

	err = r.Handle(context.Background(), domain.NewMessageEvent(user, "hi"), out)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Equal(t, "store_unavailable", reason)
	assert.Equal(t, "try later", out.last()[0].Text)
	assert.Zero(t, catalog.Calls("ListProducts"))
}

func TestRunner_RejectsOversizedInput(t *testing.T) {
	f := newFixture(t)
	f.send(t, domain.NewMessageEvent(user, "/start"))
	f.send(t, domain.NewCallbackEvent(user, domain.TokenShowCart))
	f.send(t, domain.NewCallbackEvent(user, domain.TokenRequestEmail))

	err := f.runner.Handle(context.Background(), domain.NewMessageEvent(user, strings.Repeat("a", domain.MaxMessageLength+1)), f.out)
	assert.ErrorIs(t, err, runner.ErrInputTooLarge)
	assert.Equal(t, domain.StateHandleWaitingEmail, f.state(t))
	assert.Empty(t, f.catalog.Clients())
}

func TestRunner_CheckoutEmailLimitAndCleanup(t *testing.T) {
	f := newFixture(t, runner.WithMaxInputSize(32))
	f.send(t, domain.NewMessageEvent(user, "/start"))
	f.send(t, domain.NewCallbackEvent(user, domain.TokenShowCart))
	f.send(t, domain.NewCallbackEvent(user, domain.TokenRequestEmail))

	long := strings.Repeat("b", 30) + "@example.com"
	err := f.runner.Handle(context.Background(), domain.NewMessageEvent(user, long), f.out)
	assert.ErrorIs(t, err, runner.ErrInputTooLarge)
	assert.Equal(t, domain.StateHandleWaitingEmail, f.state(t))

	f.send(t, domain.NewMessageEvent(user, "buyer\x00@example.com\x07"))
	assert.Equal(t, domain.StateStart, f.state(t))

	clients := f.catalog.Clients()
	require.Len(t, clients, 1)
	assert.Equal(t, "buyer@example.com", clients[0].Email)
}

func TestRunner_TransitionsMatchOutcomes(t *testing.T) {
	var transitions []domain.TransitionEvent
	f := newFixture(t, runner.WithHooks(domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, ev *domain.TransitionEvent) {
			transitions = append(transitions, *ev)
		},
	}))

	events := []domain.Event{
		domain.NewMessageEvent(user, "/start"),
		domain.NewCallbackEvent(user, "shrimp"),
		domain.NewCallbackEvent(user, domain.TokenShowCart),
		domain.NewCallbackEvent(user, domain.TokenReturnToMenu),
	}
	want := []domain.StateName{
		domain.StateHandleMenu,
		domain.StateHandleDescription,
		domain.StateHandleCart,
		domain.StateHandleMenu,
	}

	for i, ev := range events {
		f.send(t, ev)
		assert.Equal(t, want[i], f.state(t), "after event %d", i)
	}

	require.Len(t, transitions, len(events))
	assert.Equal(t, domain.StateStart, transitions[0].From)
	for i := 1; i < len(transitions); i++ {
		assert.Equal(t, transitions[i-1].To, transitions[i].From)
	}
}

func TestRunner_ConcurrentEventsSameUser(t *testing.T) {
	f := newFixture(t)
	f.send(t, domain.NewMessageEvent(user, "/start"))

	// Parallel add-to-cart taps from the description screen must create one cart.
	require.NoError(t, f.store.SetState(context.Background(), user, domain.StateHandleDescription))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = f.runner.Handle(context.Background(), domain.NewCallbackEvent(user, "salmon"), f.out)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.catalog.Calls("CreateCart"))
}
