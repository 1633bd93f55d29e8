package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/orderbot"
	httpadapter "github.com/aretw0/orderbot/pkg/adapters/http"
	"github.com/aretw0/orderbot/pkg/adapters/telegram"
	"github.com/aretw0/orderbot/pkg/runner"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// HTTPHandler builds the HTTP API for app.
func HTTPHandler(app *App) http.Handler {
	return httpadapter.NewHandler(app.Bot.Runner(), app.Bot.Sessions(),
		httpadapter.WithMetrics(promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{})),
		httpadapter.WithVersion(orderbot.Version),
		httpadapter.WithLogger(app.Logger),
	)
}

// Serve runs the HTTP API on addr until ctx is done.
func Serve(ctx context.Context, app *App, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           HTTPHandler(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("http server listening", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Warn("graceful shutdown did not complete", "error", err)
		return srv.Close()
	}
	app.Logger.Info("http server stopped")
	return nil
}

// RunTelegram polls Telegram and, when httpAddr is set, serves the HTTP API alongside.
func RunTelegram(ctx context.Context, app *App, httpAddr string) error {
	bot, err := telegram.New(app.Config.TelegramToken, app.Bot.Runner(), nil,
		telegram.WithLogger(app.Logger),
	)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, 2)
	go func() { errs <- bot.Run(ctx) }()
	if httpAddr != "" {
		go func() { errs <- Serve(ctx, app, httpAddr) }()
	}

	err = <-errs
	cancel()
	return err
}

// Chat runs an interactive console conversation as userID.
func Chat(ctx context.Context, app *App, userID string, in io.Reader, out io.Writer, renderer runner.ContentRenderer) error {
	var opts []runner.TextHandlerOption
	if renderer != nil {
		opts = append(opts, runner.WithTextHandlerRenderer(renderer))
	}
	return app.Bot.Runner().Chat(ctx, userID, runner.NewTextHandler(in, out, opts...))
}
