package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/websession/internal/app"
	"github.com/dmitrymomot/websession/internal/config"
	"github.com/dmitrymomot/websession/internal/metrics"
	"github.com/dmitrymomot/websession/pkg/httpserver"
	"github.com/dmitrymomot/websession/pkg/logger"
	"github.com/dmitrymomot/websession/pkg/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env(), cfg.AppName),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithContextExtractors(app.RequestIDExtractor),
	)
	logger.SetAsDefault(log)

	stores, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stores.Close()

	sessionOpts := []session.Option{
		session.WithLogger(log),
		session.WithStore(stores.Store),
	}
	appOpts := []app.Option{
		app.WithLogger(log),
		app.WithReadinessChecks(stores.Checks...),
	}
	if cfg.MetricsEnabled {
		mx := metrics.New()
		sessionOpts = append(sessionOpts, session.WithObserver(mx))
		appOpts = append(appOpts, app.WithMetrics(mx))
	}

	sessions, err := session.New(cfg.Session, sessionOpts...)
	if err != nil {
		return fmt.Errorf("create session manager: %w", err)
	}

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(log *slog.Logger, addr string) {
			log.Info("server started",
				slog.String("addr", addr),
				slog.String("store", string(cfg.Store)),
				slog.Bool("secure_cookies", !cfg.Env().IsLocal()),
			)
		}),
	)

	return srv.Run(ctx, app.New(sessions, appOpts...).Router())
}
