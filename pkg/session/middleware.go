package session

import (
	"net/http"

	"github.com/dmitrymomot/websession/pkg/cookie"
	"github.com/dmitrymomot/websession/pkg/logger"
)

// Login creates a session for userID and sets the session cookie on w.
// Outside local development it refuses plaintext requests.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, userID string, remember bool) (Record, error) {
	if !m.transportAllowed(r) {
		return Record{}, ErrTransportPrecondition
	}

	rec, ins, err := m.CreateSession(r.Context(), userID, remember)
	if err != nil {
		return Record{}, err
	}
	if err := m.transport.Write(cookie.ResponseHeaders(w), ins); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Logout destroys the current session and clears the session cookie on w.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	if !m.transportAllowed(r) {
		return ErrTransportPrecondition
	}
	return m.transport.Write(cookie.ResponseHeaders(w), m.DestroySession(r.Context(), cookie.RequestHeaders(r)))
}

// Middleware resolves the session of every request. Authenticated records
// are put in the request context; stale cookies are cleared on the response.
// Plaintext requests outside local development are redirected to https.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.transportAllowed(r) {
			redirectToHTTPS(w, r)
			return
		}

		res := m.ResolveSession(r.Context(), cookie.RequestHeaders(r))
		if res.ClearCookie {
			if err := m.transport.Write(cookie.ResponseHeaders(w), m.ClearInstruction()); err != nil {
				m.log.ErrorContext(r.Context(), "failed to clear session cookie", logger.Error(err))
			}
		}

		ctx := markResolved(r.Context())
		if res.Authenticated {
			ctx = WithRecord(ctx, res.Record)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth redirects requests without an authenticated session to
// loginURL. It reuses the record placed by Middleware when present.
func (m *Manager) RequireAuth(loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}
			if resolved(r.Context()) {
				http.Redirect(w, r, loginURL, http.StatusSeeOther)
				return
			}

			if !m.transportAllowed(r) {
				redirectToHTTPS(w, r)
				return
			}

			res := m.ResolveSession(r.Context(), cookie.RequestHeaders(r))
			if res.ClearCookie {
				if err := m.transport.Write(cookie.ResponseHeaders(w), m.ClearInstruction()); err != nil {
					m.log.ErrorContext(r.Context(), "failed to clear session cookie", logger.Error(err))
				}
			}
			if !res.Authenticated {
				http.Redirect(w, r, loginURL, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithRecord(r.Context(), res.Record)))
		})
	}
}
