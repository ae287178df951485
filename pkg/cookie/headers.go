package cookie

import (
	"net/http"
	"strings"
)

// HeaderReader exposes the inbound headers of a request.
type HeaderReader interface {
	// Header returns the value for name and whether it was present.
	Header(name string) (string, bool)
}

// HeaderWriter appends headers to an outgoing response.
type HeaderWriter interface {
	AddHeader(name, value string)
}

// RequestHeaders adapts an *http.Request to HeaderReader.
func RequestHeaders(r *http.Request) HeaderReader {
	return Headers(r.Header)
}

// ResponseHeaders adapts an http.ResponseWriter to HeaderWriter.
func ResponseHeaders(w http.ResponseWriter) HeaderWriter {
	return Headers(w.Header())
}

// Headers is a header map usable as both HeaderReader and HeaderWriter.
type Headers http.Header

// Header returns the header value. Repeated Cookie lines, as sent by
// HTTP/2 clients, are joined with "; " so they parse as one cookie list;
// other headers return their first value.
func (h Headers) Header(name string) (string, bool) {
	values := http.Header(h).Values(name)
	if len(values) == 0 {
		return "", false
	}
	if http.CanonicalHeaderKey(name) == "Cookie" {
		return strings.Join(values, "; "), true
	}
	return values[0], true
}

// AddHeader appends value to name.
func (h Headers) AddHeader(name, value string) {
	http.Header(h).Add(name, value)
}
