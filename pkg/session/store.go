package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Store defines the interface for server-side session state. Without a
// store the signed cookie alone carries the session.
type Store interface {
	// Save stores rec under token
	Save(ctx context.Context, token string, rec Record) error

	// Get returns the record for token or ErrSessionNotFound
	Get(ctx context.Context, token string) (Record, error)

	// Delete removes the record for token; deleting an unknown token is not an error
	Delete(ctx context.Context, token string) error
}

// UserRevoker is an optional interface for stores that can drop every
// session of one user.
type UserRevoker interface {
	DeleteByUserID(ctx context.Context, userID string) error
}

// TokenKey returns the storage key for token. Stores never keep raw tokens.
func TokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
