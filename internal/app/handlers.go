package app

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/websession/pkg/cookie"
	"github.com/dmitrymomot/websession/pkg/logger"
	"github.com/dmitrymomot/websession/pkg/session"
)

const maxFormBytes = 64 << 10

const loginPage = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Sign in</title></head>
<body>
<form method="post" action="/login">
<label>User ID <input name="user_id" autocomplete="username" required></label>
<label><input type="checkbox" name="remember" value="on"> Remember me</label>
<button type="submit">Sign in</button>
</form>
</body>
</html>
`

type sessionResponse struct {
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Remember  bool      `json:"remember"`
}

func newSessionResponse(rec session.Record) sessionResponse {
	return sessionResponse{
		UserID:    rec.UserID,
		SessionID: rec.ID,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
		Remember:  rec.Remember,
	}
}

func (a *App) loginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.FromContext(r.Context()); ok {
		http.Redirect(w, r, MePath, http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(loginPage))
}

func (a *App) login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid form body")
		return
	}

	userID, err := a.auth.Authenticate(r.Context(), r)
	if err != nil {
		if errors.Is(err, ErrLoginDisabled) {
			writeError(w, http.StatusNotImplemented, "login_disabled", "no authenticator is configured")
			return
		}
		a.log.InfoContext(r.Context(), "login refused", logger.Reason(err))
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	rec, err := a.sessions.Login(w, r, userID, isChecked(r.PostFormValue("remember")))
	if err != nil {
		a.sessionError(w, r, err)
		return
	}

	if acceptsJSON(r) {
		writeJSON(w, http.StatusOK, newSessionResponse(rec))
		return
	}
	http.Redirect(w, r, MePath, http.StatusSeeOther)
}

func (a *App) logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Logout(w, r); err != nil {
		a.sessionError(w, r, err)
		return
	}

	if acceptsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

func (a *App) logoutAll(w http.ResponseWriter, r *http.Request) {
	rec := session.MustFromContext(r.Context())

	if err := a.sessions.RevokeUser(r.Context(), rec.UserID); err != nil {
		a.sessionError(w, r, err)
		return
	}
	if err := a.sessions.WriteInstruction(cookie.ResponseHeaders(w), a.sessions.ClearInstruction()); err != nil {
		a.log.ErrorContext(r.Context(), "failed to clear session cookie", logger.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newSessionResponse(session.MustFromContext(r.Context())))
}

func (a *App) sessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrTransportPrecondition):
		writeError(w, http.StatusForbidden, "insecure_transport", "https is required")
	case errors.Is(err, session.ErrEmptyUserID):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
	case errors.Is(err, session.ErrRevocationUnsupported):
		writeError(w, http.StatusNotImplemented, "revocation_unsupported", "the session store cannot revoke by user")
	default:
		a.log.ErrorContext(r.Context(), "session operation failed", logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "sessions are temporarily unavailable")
	}
}

func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}
