package session

import "errors"

var (
	// ErrMalformedToken indicates the token does not have the expected shape
	ErrMalformedToken = errors.New("session.malformed_token")

	// ErrInvalidSignature indicates the token was not signed by any configured secret
	ErrInvalidSignature = errors.New("session.invalid_signature")

	// ErrSessionExpired indicates the session has expired
	ErrSessionExpired = errors.New("session.expired")

	// ErrSessionNotFound indicates no session was found
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrSessionRevoked indicates a validly signed session is no longer known to the store
	ErrSessionRevoked = errors.New("session.revoked")

	// ErrStoreUnavailable indicates the store could not answer
	ErrStoreUnavailable = errors.New("session.store_unavailable")

	// ErrUnauthenticated is the single outcome callers see for any rejected or missing session
	ErrUnauthenticated = errors.New("session.unauthenticated")

	// ErrEmptyUserID indicates a session was requested for an empty user identifier
	ErrEmptyUserID = errors.New("session.empty_user_id")

	// ErrInvalidUserID indicates a user identifier that is not valid UTF-8
	ErrInvalidUserID = errors.New("session.invalid_user_id")

	// ErrInvalidRecord indicates a record cannot be encoded
	ErrInvalidRecord = errors.New("session.invalid_record")

	// ErrTransportPrecondition indicates a session operation over a plaintext connection
	ErrTransportPrecondition = errors.New("session.insecure_transport")

	// ErrRevocationUnsupported indicates the configured store cannot revoke by user
	ErrRevocationUnsupported = errors.New("session.revocation_unsupported")

	// ErrNoSecret indicates no signing secret is configured
	ErrNoSecret = errors.New("session.no_secret")

	// ErrSecretTooShort indicates a signing secret is shorter than MinSecretLength
	ErrSecretTooShort = errors.New("session.secret_too_short")

	// ErrInvalidConfig indicates the configuration cannot produce a working manager
	ErrInvalidConfig = errors.New("session.invalid_config")
)
