package session_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/websession/pkg/logger"
	"github.com/dmitrymomot/websession/pkg/session"
)

const (
	testSecret    = "test-secret-key-that-is-long-enough-1"
	rotatedSecret = "test-secret-key-that-is-long-enough-2"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() session.Config {
	cfg := session.DefaultConfig()
	cfg.Secrets = []string{testSecret}
	cfg.CleanupInterval = 0
	return cfg
}

func setupManager(t *testing.T, cfg session.Config, opts ...session.Option) *session.Manager {
	t.Helper()

	opts = append([]session.Option{session.WithLogger(logger.Discard())}, opts...)
	m, err := session.New(cfg, opts...)
	require.NoError(t, err)
	return m
}

// requestWith returns an https request carrying the cookies set on w.
func requestWith(w *httptest.ResponseRecorder, method, target string) *http.Request {
	r := httptest.NewRequest(method, "https://example.com"+target, nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	require.FailNow(t, "no session cookie in response")
	return nil
}

type recordingObserver struct {
	mu        sync.Mutex
	created   []session.Policy
	resolved  []session.Outcome
	destroyed int
	revoked   int
}

func (o *recordingObserver) SessionCreated(p session.Policy) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.created = append(o.created, p)
}

func (o *recordingObserver) SessionResolved(out session.Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resolved = append(o.resolved, out)
}

func (o *recordingObserver) SessionDestroyed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.destroyed++
}

func (o *recordingObserver) UserRevoked() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.revoked++
}
