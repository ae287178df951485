package session

import (
	"log/slog"
	"time"
)

// Option configures a Manager
type Option func(*Manager)

// WithStore enables server-side revocation. Without it sessions live only
// in the signed cookie.
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithObserver receives session lifecycle events, e.g. for metrics.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		if o != nil {
			m.observer = o
		}
	}
}

// WithClock overrides the clock for issuing and verifying sessions.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}
