package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/orderbot"
	"github.com/aretw0/orderbot/internal/config"
	"github.com/aretw0/orderbot/internal/logging"
	"github.com/aretw0/orderbot/pkg/adapters/cms"
	"github.com/aretw0/orderbot/pkg/adapters/memory"
	redisstore "github.com/aretw0/orderbot/pkg/adapters/redis"
	"github.com/aretw0/orderbot/pkg/middleware"
	"github.com/aretw0/orderbot/pkg/observability"
	"github.com/aretw0/orderbot/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Options are the global command line switches.
type Options struct {
	ConfigPath string
	// Demo replaces the CMS with the built-in catalog and Redis with memory.
	Demo bool
	// MemoryStore keeps sessions in process even when not in demo mode.
	MemoryStore bool
	Debug       bool
}

// App holds the collaborators built from configuration.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Catalog ports.Catalog
	Store   ports.SessionStore
	Bot     *orderbot.Bot

	Registry *prometheus.Registry
	Metrics  *observability.Metrics

	closers []func() error
}

// Close releases connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// Build loads configuration and assembles the application. req lists what the calling
// command needs; demo and memory modes relax the CMS and Redis requirements.
func Build(ctx context.Context, opts Options, req config.Requirements) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Demo {
		req.CMS = false
		opts.MemoryStore = true
	}
	if opts.MemoryStore {
		req.Redis = false
	}
	if err := cfg.Validate(req); err != nil {
		return nil, err
	}

	level := logging.ParseLevel(cfg.LogLevel)
	if opts.Debug {
		level = slog.LevelDebug
	}
	app := &App{
		Config:   cfg,
		Logger:   logging.New(level, cfg.LogFormat),
		Registry: prometheus.NewRegistry(),
	}
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.Metrics = observability.NewMetrics(app.Registry)

	var backend ports.Catalog
	if opts.Demo {
		backend = memory.NewDemoCatalog()
		app.Logger.Info("using demo catalog")
	} else {
		backend = cms.NewClient(cfg.CMSHost, cfg.CMSToken,
			cms.WithTimeout(cfg.CMSTimeout),
			cms.WithLogger(app.Logger),
		)
	}
	app.Catalog = middleware.Chain(backend,
		middleware.NewInstrumentMiddleware(middleware.NewCatalogMetrics(app.Registry)),
		middleware.NewAuditMiddleware(app.Logger),
	)

	botOpts := []orderbot.Option{
		orderbot.WithLogger(app.Logger),
		orderbot.WithTexts(cfg.Messages),
		orderbot.WithMaxInputSize(cfg.MaxInputSize),
		orderbot.WithLifecycleHooks(observability.Chain(
			app.Metrics.Hooks(),
			observability.LogHooks(app.Logger),
		)),
	}

	if opts.MemoryStore {
		app.Store = memory.NewStore()
	} else {
		store := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			redisstore.WithPrefix(cfg.RedisPrefix),
			redisstore.WithTTL(cfg.SessionTTL),
		)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		app.Store = store
		app.closers = append(app.closers, store.Close)

		locker := redisstore.NewLocker(store.Client(), cfg.RedisPrefix)
		botOpts = append(botOpts, orderbot.WithLocker(locker, cfg.LockTTL))
	}

	app.Bot, err = orderbot.New(app.Catalog, app.Store, botOpts...)
	if err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}
