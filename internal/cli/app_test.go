package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/orderbot/internal/config"
	"github.com/aretw0/orderbot/pkg/domain"
	"github.com/aretw0/orderbot/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = ports.MessengerFunc(func(ctx context.Context, replies []domain.Reply) error { return nil })

func buildDemo(t *testing.T) *App {
	t.Helper()
	t.Chdir(t.TempDir())
	app, err := Build(context.Background(), Options{Demo: true}, config.Requirements{CMS: true, Redis: true})
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func TestBuild_Demo(t *testing.T) {
	app := buildDemo(t)

	var out bytes.Buffer
	require.NoError(t, ListProducts(context.Background(), app, &out, nil))
	assert.Contains(t, out.String(), "| salmon | Salmon |")
}

func TestBuild_RequiresBackends(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CMS_HOST", "")
	t.Setenv("CMS_API_TOKEN", "")

	_, err := Build(context.Background(), Options{MemoryStore: true}, config.Requirements{CMS: true, Telegram: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CMS_HOST")
	assert.Contains(t, err.Error(), "TG_BOT_TOKEN")
}

func TestBuild_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Chdir(t.TempDir())
	t.Setenv("REDIS_ADDR", mr.Addr())
	t.Setenv("REDIS_PREFIX", "test:")
	t.Setenv("CMS_HOST", "http://cms.invalid")
	t.Setenv("CMS_API_TOKEN", "token")

	app, err := Build(context.Background(), Options{}, config.Requirements{CMS: true, Redis: true})
	require.NoError(t, err)
	defer app.Close()

	require.NoError(t, app.Store.SetState(context.Background(), "5", domain.StateHandleCart))
	got, err := mr.Get("test:state:5")
	require.NoError(t, err)
	assert.Equal(t, "HANDLE_CART", got)
}

func TestBuild_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	t.Chdir(t.TempDir())
	t.Setenv("REDIS_ADDR", addr)

	_, err := Build(context.Background(), Options{}, config.Requirements{Redis: true})
	assert.ErrorContains(t, err, "connect to redis")
}

func TestSessionCommands(t *testing.T) {
	app := buildDemo(t)
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, ListSessions(ctx, app, &out))
	assert.Contains(t, out.String(), "No active sessions")

	require.NoError(t, app.Bot.Handle(ctx, domain.NewMessageEvent("11", "/start"), discard))
	require.NoError(t, app.Bot.Handle(ctx, domain.NewCallbackEvent("11", "salmon"), discard))
	require.NoError(t, app.Bot.Handle(ctx, domain.NewCallbackEvent("11", "salmon"), discard))

	out.Reset()
	require.NoError(t, ListSessions(ctx, app, &out))
	assert.Contains(t, out.String(), "- 11")

	out.Reset()
	require.NoError(t, InspectSession(ctx, app, "11", true, &out))
	assert.Contains(t, out.String(), `"state": "START"`)
	assert.Contains(t, out.String(), `"Salmon"`)

	out.Reset()
	require.NoError(t, ResetSession(ctx, app, "11", &out))
	assert.Contains(t, out.String(), "reset to START")

	out.Reset()
	require.NoError(t, RemoveSessions(ctx, app, []string{"11"}, &out))
	assert.Error(t, InspectSession(ctx, app, "11", false, &out))
}

func TestCatalogCommands(t *testing.T) {
	app := buildDemo(t)
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, ShowProduct(ctx, app, "trout", &out, func(s string) (string, error) {
		return strings.ToUpper(s), nil
	}))
	assert.Contains(t, out.String(), "# RAINBOW TROUT")

	assert.Error(t, ShowProduct(ctx, app, "whale", &out, nil))
}

func TestHTTPHandler(t *testing.T) {
	app := buildDemo(t)
	h := HTTPHandler(app)

	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"user_id":"3","payload":"/start"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `orderbot_events_total{kind="reset"} 1`)
	assert.Contains(t, w.Body.String(), `orderbot_catalog_requests_total{op="ListProducts",outcome="ok"} 1`)
}

func TestChat(t *testing.T) {
	app := buildDemo(t)
	var out bytes.Buffer

	// 1 selects the first product, 1 again adds it to the cart.
	err := Chat(context.Background(), app, "console", strings.NewReader("1\n1\n"), &out, nil)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "1) Salmon")
	assert.Contains(t, text, "[Product added to cart]")

	state, err := app.Store.GetState(context.Background(), "console")
	require.NoError(t, err)
	assert.Equal(t, domain.StateStart, state)
}
