package session_test

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/websession/pkg/session"
)

func whoami(w http.ResponseWriter, r *http.Request) {
	userID, ok := session.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	_, _ = w.Write([]byte(userID))
}

func TestManager_Login(t *testing.T) {
	t.Parallel()

	m := setupManager(t, testConfig())

	t.Run("sets the session cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "https://example.com/login", nil)

		rec, err := m.Login(w, r, "user-1", true)
		require.NoError(t, err)
		assert.Equal(t, "user-1", rec.UserID)

		c := sessionCookie(t, w)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, int(session.RememberTTL.Seconds()), c.MaxAge)
	})

	t.Run("refuses plaintext", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "http://example.com/login", nil)

		_, err := m.Login(w, r, "user-1", false)
		assert.ErrorIs(t, err, session.ErrTransportPrecondition)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("accepts forwarded https", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "http://example.com/login", nil)
		r.Header.Set("X-Forwarded-Proto", "https")

		_, err := m.Login(w, r, "user-1", false)
		require.NoError(t, err)
	})

	t.Run("empty user id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "https://example.com/login", nil)

		_, err := m.Login(w, r, "", false)
		assert.ErrorIs(t, err, session.ErrEmptyUserID)
		assert.Empty(t, w.Result().Cookies())
	})
}

func TestManager_Logout(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })
	m := setupManager(t, testConfig(), session.WithStore(store))

	login := httptest.NewRecorder()
	_, err := m.Login(login, httptest.NewRequest(http.MethodPost, "https://example.com/login", nil), "user-1", false)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, m.Logout(w, requestWith(login, http.MethodPost, "/logout")))

	c := sessionCookie(t, w)
	assert.Empty(t, c.Value)
	assert.Less(t, c.MaxAge, 0)

	// replaying the old cookie after logout
	h := m.Middleware(http.HandlerFunc(whoami))
	replay := httptest.NewRecorder()
	h.ServeHTTP(replay, requestWith(login, http.MethodGet, "/me"))
	assert.Equal(t, http.StatusNoContent, replay.Code)

	t.Run("refuses plaintext", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := m.Logout(w, httptest.NewRequest(http.MethodPost, "http://example.com/logout", nil))
		assert.ErrorIs(t, err, session.ErrTransportPrecondition)
	})
}

func TestManager_Middleware(t *testing.T) {
	t.Parallel()

	m := setupManager(t, testConfig())
	h := m.Middleware(http.HandlerFunc(whoami))

	login := httptest.NewRecorder()
	_, err := m.Login(login, httptest.NewRequest(http.MethodPost, "https://example.com/login", nil), "did:ethr:0xabc", false)
	require.NoError(t, err)

	t.Run("authenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, requestWith(login, http.MethodGet, "/me"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "did:ethr:0xabc", w.Body.String())
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "https://example.com/me", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("stale cookie is cleared", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "https://example.com/me", nil)
		r.AddCookie(&http.Cookie{Name: session.CookieName, Value: "v1.forged.token"})

		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		c := sessionCookie(t, w)
		assert.Empty(t, c.Value)
		assert.Less(t, c.MaxAge, 0)
	})

	t.Run("plaintext is redirected", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "http://example.com/me?x=1", nil))

		assert.Equal(t, http.StatusPermanentRedirect, w.Code)
		assert.Equal(t, "https://example.com/me?x=1", w.Header().Get("Location"))
	})

	t.Run("tls connection", func(t *testing.T) {
		r := requestWith(login, http.MethodGet, "/me")
		r.TLS = &tls.ConnectionState{}

		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, "did:ethr:0xabc", w.Body.String())
	})
}

func TestManager_RequireAuth(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	m := setupManager(t, testConfig(), session.WithObserver(obs))
	protected := m.RequireAuth("/login")(http.HandlerFunc(whoami))

	login := httptest.NewRecorder()
	_, err := m.Login(login, httptest.NewRequest(http.MethodPost, "https://example.com/login", nil), "user-1", false)
	require.NoError(t, err)

	t.Run("redirects anonymous to login", func(t *testing.T) {
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "https://example.com/me", nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("standalone", func(t *testing.T) {
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, requestWith(login, http.MethodGet, "/me"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1", w.Body.String())
	})

	t.Run("standalone clears a tampered cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "https://example.com/me", nil)
		r.AddCookie(&http.Cookie{Name: session.CookieName, Value: sessionCookie(t, login).Value + "x"})
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, r)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
	})

	t.Run("behind middleware resolves once", func(t *testing.T) {
		h := m.Middleware(protected)

		before := len(obs.resolved)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "https://example.com/me", nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Len(t, obs.resolved, before+1)
	})
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := session.FromContext(r.Context())
	assert.False(t, ok)
	_, ok = session.UserIDFromContext(r.Context())
	assert.False(t, ok)
	assert.Panics(t, func() { session.MustFromContext(r.Context()) })

	rec := session.Record{ID: "id", UserID: "user-1"}
	ctx := session.WithRecord(r.Context(), rec)

	got, ok := session.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, rec, got)
	assert.Equal(t, rec, session.MustFromContext(ctx))

	userID, ok := session.UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)
}
