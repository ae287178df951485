package cookie

import (
	"net/http"
	"time"
)

// Instruction describes a cookie to set or clear, independent of wire format.
type Instruction struct {
	Name     string
	Value    string
	Path     string
	Domain   string
	MaxAge   int // seconds; negative clears the cookie
	Expires  time.Time
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
}

// IsClear reports whether the instruction removes the cookie.
func (i Instruction) IsClear() bool {
	return i.MaxAge < 0
}

// Cookie converts the instruction to an *http.Cookie.
func (i Instruction) Cookie() *http.Cookie {
	return &http.Cookie{
		Name:     i.Name,
		Value:    i.Value,
		Path:     i.Path,
		Domain:   i.Domain,
		MaxAge:   i.MaxAge,
		Expires:  i.Expires,
		Secure:   i.Secure,
		HttpOnly: i.HTTPOnly,
		SameSite: i.SameSite,
	}
}

// String renders the Set-Cookie header value.
func (i Instruction) String() string {
	return i.Cookie().String()
}
