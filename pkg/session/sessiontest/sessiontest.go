package sessiontest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/websession/pkg/cookie"
	"github.com/dmitrymomot/websession/pkg/session"
)

// DefaultDomain is the cookie domain reported for injected cookies.
const DefaultDomain = "localhost"

// ErrNoSessionCookie indicates the manager produced no session cookie.
var ErrNoSessionCookie = errors.New("sessiontest.no_session_cookie")

// Cookie is a session cookie ready to hand to an HTTP client or a browser.
type Cookie struct {
	Name     string    `json:"name" yaml:"name"`
	Value    string    `json:"value" yaml:"value"`
	Domain   string    `json:"domain" yaml:"domain"`
	Path     string    `json:"path" yaml:"path"`
	Expires  time.Time `json:"expires" yaml:"expires"`
	HTTPOnly bool      `json:"httpOnly" yaml:"httpOnly"`
	Secure   bool      `json:"secure" yaml:"secure"`
	SameSite string    `json:"sameSite" yaml:"sameSite"`
	UserID   string    `json:"userId" yaml:"userId"`
}

// Option configures Issue.
type Option func(*options)

type options struct {
	domain   string
	remember bool
}

// WithDomain overrides the reported cookie domain.
func WithDomain(domain string) Option {
	return func(o *options) {
		if domain != "" {
			o.domain = domain
		}
	}
}

// WithRemember issues a remember-me session.
func WithRemember() Option {
	return func(o *options) {
		o.remember = true
	}
}

// Issue creates a session for userID through m and returns its cookie.
// An empty userID gets a synthetic "test-user-<uuid>" identity.
func Issue(ctx context.Context, m *session.Manager, userID string, opts ...Option) (Cookie, error) {
	o := options{domain: DefaultDomain}
	for _, opt := range opts {
		opt(&o)
	}
	if userID == "" {
		userID = "test-user-" + uuid.NewString()
	}

	rec, ins, err := m.CreateSession(ctx, userID, o.remember)
	if err != nil {
		return Cookie{}, err
	}

	// round-trip through a real response so the cookie is exactly what a browser receives
	w := httptest.NewRecorder()
	if err := m.WriteInstruction(cookie.ResponseHeaders(w), ins); err != nil {
		return Cookie{}, err
	}

	for _, c := range w.Result().Cookies() {
		if c.Name != m.CookieName() || c.Value == "" {
			continue
		}
		return Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   o.domain,
			Path:     "/",
			Expires:  rec.ExpiresAt,
			HTTPOnly: c.HttpOnly,
			Secure:   c.Secure,
			SameSite: sameSiteName(c.SameSite),
			UserID:   rec.UserID,
		}, nil
	}
	return Cookie{}, ErrNoSessionCookie
}

// MustIssue is Issue for tests. The optional userID defaults to a synthetic one.
func MustIssue(tb testing.TB, m *session.Manager, userID ...string) Cookie {
	tb.Helper()

	id := ""
	if len(userID) > 0 {
		id = userID[0]
	}

	c, err := Issue(context.Background(), m, id)
	if err != nil {
		tb.Fatalf("sessiontest: issue session: %v", err)
	}
	return c
}

// HTTPCookie converts c for use with net/http.
func (c Cookie) HTTPCookie() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Expires:  c.Expires,
		HttpOnly: c.HTTPOnly,
		Secure:   c.Secure,
		SameSite: parseSameSite(c.SameSite),
	}
}

// AddTo attaches the cookie to an outgoing request.
func (c Cookie) AddTo(r *http.Request) {
	r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
}

// Install stores the cookie in jar as a host-only cookie for u.
func (c Cookie) Install(jar http.CookieJar, u *url.URL) {
	hc := c.HTTPCookie()
	hc.Domain = ""
	jar.SetCookies(u, []*http.Cookie{hc})
}

// Header returns the cookie as a Cookie request header value.
func (c Cookie) Header() string {
	return c.Name + "=" + c.Value
}

func sameSiteName(s http.SameSite) string {
	switch s {
	case http.SameSiteStrictMode:
		return "Strict"
	case http.SameSiteNoneMode:
		return "None"
	default:
		return "Lax"
	}
}

func parseSameSite(s string) http.SameSite {
	mode, err := cookie.ParseSameSite(s)
	if err != nil {
		return http.SameSiteLaxMode
	}
	return mode
}
