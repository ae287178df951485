// Package httpserver runs an http.Server with graceful shutdown, timeouts
// and health-check handlers.
//
// Run blocks until its context is canceled, then shuts the server down
// within ShutdownTimeout. Pair it with signal.NotifyContext:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// HealthCheckHandler answers liveness probes without arguments and readiness
// probes when given dependency checks such as redis.Healthcheck or
// pg.Healthcheck. Errors are wrapped in ErrStart and ErrShutdown.
package httpserver
