package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"coffeeintel/catalog"
	"coffeeintel/dashboard"
	"coffeeintel/mockdata"
)

type App struct {
	cfg      Config
	log      *zap.Logger
	fixtures *catalog.Fixtures
	catalog  catalog.Source
	sessions *dashboard.Manager
	metrics  *Metrics
	limiter  *promptLimiter
	closers  []func(context.Context) error
}

// newApp wires the catalog and the session manager. Dashboards created by
// the app stop ticking when ctx ends.
func newApp(ctx context.Context, cfg Config, log *zap.Logger) (*App, error) {
	fx, err := catalog.LoadFixtures()
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:      cfg,
		log:      log,
		fixtures: fx,
		metrics:  newMetrics(),
		limiter:  newPromptLimiter(cfg.PromptRate, cfg.PromptBurst),
	}

	switch cfg.Catalog {
	case "mongo":
		cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		m, err := catalog.NewMongo(cctx, cfg.MongoURI, cfg.MongoDB, fx)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("mongo catalog: %w", err)
		}
		app.catalog = m
		app.closers = append(app.closers, m.Close)
		log.Info("catalog backed by mongo", zap.String("db", cfg.MongoDB))
	default:
		app.catalog = catalog.NewMemory(fx)
	}

	app.sessions = dashboard.NewManager(ctx, dashboard.Deps{
		Fixtures:     fx,
		Catalog:      app.catalog,
		Generator:    mockdata.New(cfg.Seed),
		TickInterval: cfg.TickInterval,
		Logger:       log,
		Observer:     app.metrics,
	}, dashboard.Hooks{
		Count:  app.metrics.SessionCount,
		Closed: app.limiter.forget,
	}, dashboard.WithMaxSessions(cfg.MaxSessions))
	return app, nil
}

// reap closes idle sessions until ctx ends and drops their rate buckets.
func (a *App) reap(ctx context.Context) {
	interval := a.cfg.SessionIdle / 4
	if interval <= 0 {
		return
	}
	a.sessions.RunReaper(ctx, interval, a.cfg.SessionIdle)
}

func (a *App) close(ctx context.Context) {
	a.sessions.CloseAll()
	for _, c := range a.closers {
		if err := c(ctx); err != nil {
			a.log.Warn("close", zap.Error(err))
		}
	}
}
