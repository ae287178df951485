package app

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/websession/pkg/environment"
)

var (
	ErrInvalidCredentials = errors.New("app.invalid_credentials")
	ErrLoginDisabled      = errors.New("app.login_disabled")
)

// Authenticator turns a login request into a user ID. Credential checks
// live outside this service; implementations adapt whatever identity
// provider the deployment uses.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) (userID string, err error)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, r *http.Request) (string, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context, r *http.Request) (string, error) {
	return f(ctx, r)
}

// DevAuthenticator trusts the user_id form field. Local development only.
type DevAuthenticator struct{}

func (DevAuthenticator) Authenticate(_ context.Context, r *http.Request) (string, error) {
	userID := strings.TrimSpace(r.PostFormValue("user_id"))
	if userID == "" {
		return "", ErrInvalidCredentials
	}
	return userID, nil
}

type disabledAuthenticator struct{}

func (disabledAuthenticator) Authenticate(context.Context, *http.Request) (string, error) {
	return "", ErrLoginDisabled
}

// DefaultAuthenticator returns DevAuthenticator in local environments and
// an authenticator that refuses every login elsewhere.
func DefaultAuthenticator(env environment.Environment) Authenticator {
	if env.IsLocal() {
		return DevAuthenticator{}
	}
	return disabledAuthenticator{}
}
