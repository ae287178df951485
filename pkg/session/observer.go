package session

import "errors"

// Outcome classifies the result of resolving a request.
type Outcome string

const (
	OutcomeAuthenticated    Outcome = "authenticated"
	OutcomeAnonymous        Outcome = "anonymous"
	OutcomeMalformed        Outcome = "malformed"
	OutcomeInvalidSignature Outcome = "invalid_signature"
	OutcomeExpired          Outcome = "expired"
	OutcomeRevoked          Outcome = "revoked"
	OutcomeStoreUnavailable Outcome = "store_unavailable"
)

// OutcomeOf maps a resolution reason to an Outcome. A nil reason is anonymous.
func OutcomeOf(reason error) Outcome {
	switch {
	case reason == nil:
		return OutcomeAnonymous
	case errors.Is(reason, ErrMalformedToken):
		return OutcomeMalformed
	case errors.Is(reason, ErrInvalidSignature):
		return OutcomeInvalidSignature
	case errors.Is(reason, ErrSessionExpired):
		return OutcomeExpired
	case errors.Is(reason, ErrSessionRevoked):
		return OutcomeRevoked
	default:
		return OutcomeStoreUnavailable
	}
}

// Observer receives session lifecycle events. Implementations must be
// safe for concurrent use.
type Observer interface {
	SessionCreated(p Policy)
	SessionResolved(o Outcome)
	SessionDestroyed()
	UserRevoked()
}

type nopObserver struct{}

func (nopObserver) SessionCreated(Policy)   {}
func (nopObserver) SessionResolved(Outcome) {}
func (nopObserver) SessionDestroyed()       {}
func (nopObserver) UserRevoked()            {}
