package cookie

import "errors"

var (
	ErrCookieNotFound   = errors.New("cookie.not_found")
	ErrInvalidCookie    = errors.New("cookie.invalid")
	ErrInsecureSameSite = errors.New("cookie.insecure_same_site")
	ErrInvalidSameSite  = errors.New("cookie.invalid_same_site")
)
