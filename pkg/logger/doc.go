// Package logger builds the application's *slog.Logger.
//
// New returns a logger whose handler is wrapped in a LogHandlerDecorator so
// request-scoped values (request id, user id) are pulled out of the context
// at log time. WithEnvironment picks JSON output at INFO for deployed
// environments and text output at DEBUG for local development.
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Parse(os.Getenv("APP_ENV")), "websession"),
//	    logger.WithContextValue("request_id", middleware.RequestIDKey),
//	)
//	log.WarnContext(ctx, "session rejected", logger.Reason(err), logger.Component("session"))
//
// The attribute helpers in attr.go keep key names consistent across packages.
package logger
