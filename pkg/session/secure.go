package session

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/websession/pkg/environment"
)

const (
	headerForwardedProto = "X-Forwarded-Proto"
	headerHSTS           = "Strict-Transport-Security"
	hstsValue            = "max-age=63072000; includeSubDomains"
)

// IsSecureRequest reports whether r arrived over TLS. With trustForwardedProto
// the first X-Forwarded-Proto value set by a terminating proxy counts as well.
func IsSecureRequest(r *http.Request, trustForwardedProto bool) bool {
	if r.TLS != nil {
		return true
	}
	if !trustForwardedProto {
		return false
	}

	proto := r.Header.Get(headerForwardedProto)
	if i := strings.IndexByte(proto, ','); i >= 0 {
		proto = proto[:i]
	}
	return strings.EqualFold(strings.TrimSpace(proto), "https")
}

// RequireSecureTransport redirects plaintext requests to https outside of
// local development and marks secure responses with HSTS.
func RequireSecureTransport(env environment.Environment, trustForwardedProto bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if env.IsLocal() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsSecureRequest(r, trustForwardedProto) {
				redirectToHTTPS(w, r)
				return
			}
			w.Header().Set(headerHSTS, hstsValue)
			next.ServeHTTP(w, r)
		})
	}
}

// SecureTransport is RequireSecureTransport configured from the manager.
func (m *Manager) SecureTransport() func(http.Handler) http.Handler {
	return RequireSecureTransport(m.env, m.cfg.TrustForwardedProto)
}

func (m *Manager) transportAllowed(r *http.Request) bool {
	return m.env.IsLocal() || IsSecureRequest(r, m.cfg.TrustForwardedProto)
}

func redirectToHTTPS(w http.ResponseWriter, r *http.Request) {
	// 308 keeps the method and body, so a login POST is not downgraded to GET
	http.Redirect(w, r, "https://"+r.Host+r.URL.RequestURI(), http.StatusPermanentRedirect)
}
