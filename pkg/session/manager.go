package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/dmitrymomot/websession/pkg/cookie"
	"github.com/dmitrymomot/websession/pkg/environment"
	"github.com/dmitrymomot/websession/pkg/logger"
)

// Manager issues, resolves and destroys authenticated sessions.
// It is safe for concurrent use.
type Manager struct {
	cfg       Config
	env       environment.Environment
	codec     *Codec
	transport *cookie.Transport
	store     Store
	log       *slog.Logger
	observer  Observer
	now       func() time.Time
}

// Resolution is the outcome of reading a session from a request.
type Resolution struct {
	// Record is set only when Authenticated is true.
	Record        Record
	Authenticated bool

	// ClearCookie asks the caller to send Manager.ClearInstruction with the
	// response because the presented cookie can never become valid.
	ClearCookie bool

	// Reason explains a rejected cookie. It is nil for authenticated
	// requests and for requests without a session cookie.
	Reason error
}

// Err returns ErrUnauthenticated for every resolution that is not authenticated.
func (r Resolution) Err() error {
	if r.Authenticated {
		return nil
	}
	if r.Reason != nil {
		return errors.Join(ErrUnauthenticated, r.Reason)
	}
	return ErrUnauthenticated
}

// New creates a session manager. The configuration is validated.
func New(cfg Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:      cfg,
		env:      cfg.Env(),
		log:      slog.Default(),
		observer: nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With(logger.Component("session"))

	codec, err := NewCodec(cfg.secrets(), WithCodecClock(m.now))
	if err != nil {
		return nil, err
	}
	m.codec = codec

	transport, err := cookie.NewFromConfig(cfg.Cookie,
		cookie.WithPath("/"),
		cookie.WithSecure(!m.env.IsLocal()),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	m.transport = transport

	return m, nil
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string {
	return CookieName
}

// Environment returns the deployment environment the manager was configured for.
func (m *Manager) Environment() environment.Environment {
	return m.env
}

// Codec exposes the token codec, e.g. for offline token inspection.
func (m *Manager) Codec() *Codec {
	return m.codec
}

// CreateSession issues a session for userID. The returned instruction must
// be written to the response. Nothing is written to the store on failure.
func (m *Manager) CreateSession(ctx context.Context, userID string, remember bool) (Record, cookie.Instruction, error) {
	if err := checkUserID(userID); err != nil {
		return Record{}, cookie.Instruction{}, err
	}

	policy := PolicyFor(remember)
	rec := NewRecord(userID, policy, m.now(), m.cfg.TTL(policy))

	token, err := m.codec.Encode(rec)
	if err != nil {
		return Record{}, cookie.Instruction{}, fmt.Errorf("encode session: %w", err)
	}

	if m.store != nil {
		if err := m.store.Save(ctx, token, rec); err != nil {
			m.log.ErrorContext(ctx, "failed to save session",
				logger.UserID(userID),
				logger.Error(err),
			)
			return Record{}, cookie.Instruction{}, errors.Join(ErrStoreUnavailable, err)
		}
	}

	m.observer.SessionCreated(policy)
	m.log.InfoContext(ctx, "session created",
		logger.UserID(rec.UserID),
		logger.SessionID(rec.ID),
		slog.String("policy", policy.String()),
		slog.Time("expires_at", rec.ExpiresAt),
	)

	return rec, m.transport.Set(CookieName, token, rec.TTL()), nil
}

// ResolveSession reads the session cookie from h. Any failure resolves to
// an unauthenticated Resolution; the request itself is never failed here.
func (m *Manager) ResolveSession(ctx context.Context, h cookie.HeaderReader) Resolution {
	token, err := m.transport.Read(h, CookieName)
	if err != nil {
		m.observer.SessionResolved(OutcomeAnonymous)
		return Resolution{}
	}

	rec, err := m.codec.Decode(token)
	if err != nil {
		return m.reject(ctx, err, true)
	}

	if m.store != nil {
		stored, err := m.store.Get(ctx, token)
		switch {
		case errors.Is(err, ErrSessionNotFound):
			return m.reject(ctx, ErrSessionRevoked, true)
		case err != nil:
			m.log.ErrorContext(ctx, "session store lookup failed",
				logger.SessionID(rec.ID),
				logger.Error(err),
			)
			// the cookie may still be good once the store is back
			return m.reject(ctx, errors.Join(ErrStoreUnavailable, err), false)
		case stored.ID != rec.ID || stored.UserID != rec.UserID:
			return m.reject(ctx, ErrSessionRevoked, true)
		}
	}

	m.observer.SessionResolved(OutcomeAuthenticated)
	return Resolution{Record: rec, Authenticated: true}
}

// DestroySession removes the server-side session, if any, and returns the
// instruction that clears the cookie. It always succeeds from the client's
// point of view; store failures are logged.
func (m *Manager) DestroySession(ctx context.Context, h cookie.HeaderReader) cookie.Instruction {
	if m.store != nil {
		if token, err := m.transport.Read(h, CookieName); err == nil {
			if err := m.store.Delete(ctx, token); err != nil {
				m.log.ErrorContext(ctx, "failed to delete session", logger.Error(err))
			}
		}
	}

	m.observer.SessionDestroyed()
	m.log.DebugContext(ctx, "session destroyed")

	return m.ClearInstruction()
}

// RevokeUser ends every session of userID. It needs a store implementing UserRevoker.
func (m *Manager) RevokeUser(ctx context.Context, userID string) error {
	if err := checkUserID(userID); err != nil {
		return err
	}
	revoker, ok := m.store.(UserRevoker)
	if !ok {
		return ErrRevocationUnsupported
	}
	if err := revoker.DeleteByUserID(ctx, userID); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	m.observer.UserRevoked()
	m.log.InfoContext(ctx, "user sessions revoked", logger.UserID(userID))
	return nil
}

// ClearInstruction returns the instruction that removes the session cookie.
func (m *Manager) ClearInstruction() cookie.Instruction {
	return m.transport.Clear(CookieName)
}

// WriteInstruction renders ins as a Set-Cookie header on w.
func (m *Manager) WriteInstruction(w cookie.HeaderWriter, ins cookie.Instruction) error {
	return m.transport.Write(w, ins)
}

func (m *Manager) reject(ctx context.Context, reason error, clear bool) Resolution {
	m.observer.SessionResolved(OutcomeOf(reason))

	m.log.Log(ctx, rejectLevel(reason), "session rejected", logger.Reason(reason))
	return Resolution{ClearCookie: clear, Reason: reason}
}

func rejectLevel(reason error) slog.Level {
	switch {
	case errors.Is(reason, ErrInvalidSignature), errors.Is(reason, ErrStoreUnavailable):
		return slog.LevelWarn
	case errors.Is(reason, ErrMalformedToken):
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// checkUserID rejects identifiers that would not survive the JSON claims
// unchanged.
func checkUserID(userID string) error {
	switch {
	case userID == "":
		return ErrEmptyUserID
	case !utf8.ValidString(userID):
		return ErrInvalidUserID
	}
	return nil
}
