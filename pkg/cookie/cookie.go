package cookie

import (
	"errors"
	"net/http"
	"time"
)

const (
	headerCookie    = "Cookie"
	headerSetCookie = "Set-Cookie"
)

// Transport renders Instructions into Set-Cookie headers and reads cookie
// values back out of Cookie headers.
type Transport struct {
	defaults Options
}

// New creates a Transport. Defaults are Path "/", SameSite Lax and no
// Secure attribute; SameSite None is refused with ErrInsecureSameSite.
func New(opts ...Option) (*Transport, error) {
	defaults := Options{
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}

	defaults = applyOptions(defaults, opts)

	switch defaults.SameSite {
	case http.SameSiteLaxMode, http.SameSiteStrictMode:
	case http.SameSiteNoneMode:
		return nil, ErrInsecureSameSite
	default:
		return nil, ErrInvalidSameSite
	}

	return &Transport{defaults: defaults}, nil
}

// Defaults returns the attributes applied to every instruction.
func (t *Transport) Defaults() Options {
	return t.defaults
}

// Set returns an instruction that stores value under name for ttl.
func (t *Transport) Set(name, value string, ttl time.Duration) Instruction {
	maxAge := int(ttl / time.Second)
	if ttl > 0 && maxAge == 0 {
		// Max-Age=0 would turn the cookie into a browser-session cookie.
		maxAge = 1
	}

	return Instruction{
		Name:     name,
		Value:    value,
		Path:     t.defaults.Path,
		Domain:   t.defaults.Domain,
		MaxAge:   maxAge,
		Secure:   t.defaults.Secure,
		HTTPOnly: true,
		SameSite: t.defaults.SameSite,
	}
}

// Clear returns an instruction that removes the named cookie. Path and
// Domain match Set so the browser overwrites the same cookie.
func (t *Transport) Clear(name string) Instruction {
	return Instruction{
		Name:     name,
		Value:    "",
		Path:     t.defaults.Path,
		Domain:   t.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   t.defaults.Secure,
		HTTPOnly: true,
		SameSite: t.defaults.SameSite,
	}
}

// Write appends the Set-Cookie header for ins.
func (t *Transport) Write(w HeaderWriter, ins Instruction) error {
	c := ins.Cookie()
	if err := c.Valid(); err != nil {
		return errors.Join(ErrInvalidCookie, err)
	}
	w.AddHeader(headerSetCookie, c.String())
	return nil
}

// Read returns the value of the cookie called exactly name. The Cookie
// header may carry any number of cookies; malformed neighbours are skipped.
func (t *Transport) Read(h HeaderReader, name string) (string, error) {
	line, ok := h.Header(headerCookie)
	if !ok || line == "" {
		return "", ErrCookieNotFound
	}

	req := http.Request{Header: http.Header{headerCookie: {line}}}
	c, err := req.Cookie(name)
	if err != nil || c.Value == "" {
		return "", ErrCookieNotFound
	}
	return c.Value, nil
}
