package session

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Policy selects the lifetime of a new session.
type Policy uint8

const (
	// PolicyDefault is a working-day session.
	PolicyDefault Policy = iota
	// PolicyRemember is the long-lived "remember me" session.
	PolicyRemember
)

// PolicyFor maps the remember-me choice to a Policy.
func PolicyFor(remember bool) Policy {
	if remember {
		return PolicyRemember
	}
	return PolicyDefault
}

func (p Policy) String() string {
	switch p {
	case PolicyRemember:
		return "remember"
	default:
		return "default"
	}
}

// Record is the authenticated session as seen by application code.
// Times are UTC with second precision so a record survives encoding unchanged.
type Record struct {
	ID        string    `json:"id" yaml:"id"`
	UserID    string    `json:"user_id" yaml:"user_id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
	Remember  bool      `json:"remember,omitempty" yaml:"remember,omitempty"`
}

// NewRecord creates a record for userID starting at now and lasting ttl.
func NewRecord(userID string, policy Policy, now time.Time, ttl time.Duration) Record {
	createdAt := now.UTC().Truncate(time.Second)
	return Record{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(ttl.Truncate(time.Second)),
		Remember:  policy == PolicyRemember,
	}
}

// Policy returns the lifetime policy the record was created with.
func (r Record) Policy() Policy {
	return PolicyFor(r.Remember)
}

// IsExpired reports whether the record is past its expiry at now.
func (r Record) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// TTL returns the full lifetime of the record.
func (r Record) TTL() time.Duration {
	return r.ExpiresAt.Sub(r.CreatedAt)
}

func (r Record) valid() bool {
	return r.ID != "" && r.UserID != "" && utf8.ValidString(r.UserID) &&
		!r.CreatedAt.IsZero() && r.ExpiresAt.After(r.CreatedAt)
}
