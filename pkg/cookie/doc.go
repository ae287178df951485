// Package cookie maps abstract cookie instructions onto the HTTP wire format.
//
// It is the transport layer of the session subsystem: callers describe the
// cookie they want set or cleared as an Instruction and the Transport renders
// it into a Set-Cookie header. In the other direction the Transport locates a
// cookie value inside an inbound Cookie header by exact name match.
//
// # Overview
//
// The package never looks at a full http.Request or http.ResponseWriter on its
// own. It depends on two narrow capabilities instead:
//
//   - HeaderReader – read a single header value
//   - HeaderWriter – append a header value
//
// Adapters for net/http are provided by RequestHeaders and ResponseHeaders,
// and Headers is a small in-memory implementation of both for tests and
// non-HTTP callers.
//
// # Usage
//
//	import "github.com/dmitrymomot/websession/pkg/cookie"
//
//	tr, err := cookie.New(cookie.WithSecure(true), cookie.WithDomain("example.com"))
//	if err != nil { log.Fatal(err) }
//
//	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
//	    ins := tr.Set("sid", "opaque-token", 8*time.Hour)
//	    _ = tr.Write(cookie.ResponseHeaders(w), ins)
//
//	    value, err := tr.Read(cookie.RequestHeaders(r), "sid")
//	    _, _ = value, err
//	})
//
// # Security defaults
//
// HttpOnly is always set and cannot be disabled. SameSite defaults to Lax and
// may be tightened to Strict; SameSite=None is rejected because it would send
// the cookie on cross-site requests. Secure is off by default only so local
// development over plain HTTP works; production callers enable it.
//
// # Error Handling
//
// Sentinel errors such as ErrCookieNotFound, ErrInvalidCookie and
// ErrInsecureSameSite can be matched with errors.Is.
package cookie
