// Package app wires the session manager into the HTTP surface of the server.
package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/websession/internal/metrics"
	"github.com/dmitrymomot/websession/pkg/httpserver"
	"github.com/dmitrymomot/websession/pkg/logger"
	"github.com/dmitrymomot/websession/pkg/session"
)

// Route paths.
const (
	LoginPath     = "/login"
	LogoutPath    = "/logout"
	LogoutAllPath = "/logout/all"
	MePath        = "/me"
	HealthPath    = "/healthz"
	ReadyPath     = "/readyz"
	MetricsPath   = "/metrics"
)

// App serves login, logout and the current-session endpoint.
type App struct {
	sessions *session.Manager
	auth     Authenticator
	log      *slog.Logger
	metrics  *metrics.Metrics
	checks   []func(context.Context) error
}

// Option configures an App.
type Option func(*App)

// WithAuthenticator sets the credential check used by POST /login.
func WithAuthenticator(a Authenticator) Option {
	return func(app *App) {
		if a != nil {
			app.auth = a
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(app *App) {
		if log != nil {
			app.log = log
		}
	}
}

// WithMetrics records HTTP metrics and serves them on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(app *App) { app.metrics = m }
}

// WithReadinessChecks adds probes run by /readyz.
func WithReadinessChecks(checks ...func(context.Context) error) Option {
	return func(app *App) { app.checks = append(app.checks, checks...) }
}

// New creates an App. Without WithAuthenticator the App uses
// DefaultAuthenticator for the manager's environment.
func New(sessions *session.Manager, opts ...Option) *App {
	a := &App{
		sessions: sessions,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.auth == nil {
		a.auth = DefaultAuthenticator(sessions.Environment())
	}
	a.log = a.log.With(logger.Component("http"))
	return a
}

// Router builds the HTTP handler.
func (a *App) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(a.requestLogger)
	r.Use(middleware.Recoverer)
	if a.metrics != nil {
		r.Use(a.metrics.Middleware)
	}

	// Probes and metrics stay reachable over plaintext for in-cluster scrapers.
	r.Get(HealthPath, httpserver.HealthCheckHandler(a.log))
	r.Get(ReadyPath, httpserver.HealthCheckHandler(a.log, a.checks...))
	if a.metrics != nil {
		r.Method(http.MethodGet, MetricsPath, a.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(a.sessions.SecureTransport())
		r.Use(a.sessions.Middleware)

		r.Get(LoginPath, a.loginForm)
		r.Post(LoginPath, a.login)
		r.Post(LogoutPath, a.logout)

		r.Group(func(r chi.Router) {
			r.Use(a.sessions.RequireAuth(LoginPath))
			r.Get(MePath, a.me)
			r.Post(LogoutAllPath, a.logoutAll)
		})
	})

	return r
}
