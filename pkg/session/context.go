package session

import "context"

type (
	recordContextKey   struct{}
	resolvedContextKey struct{}
)

// WithRecord adds an authenticated session record to the context
func WithRecord(ctx context.Context, rec Record) context.Context {
	return context.WithValue(ctx, recordContextKey{}, rec)
}

// FromContext retrieves the session record from the context
func FromContext(ctx context.Context) (Record, bool) {
	rec, ok := ctx.Value(recordContextKey{}).(Record)
	return rec, ok
}

// MustFromContext retrieves the session record from the context or panics
func MustFromContext(ctx context.Context) Record {
	rec, ok := FromContext(ctx)
	if !ok {
		panic("session: not found in context")
	}
	return rec
}

// UserIDFromContext retrieves the user ID of the authenticated session in context
func UserIDFromContext(ctx context.Context) (string, bool) {
	rec, ok := FromContext(ctx)
	if !ok || rec.UserID == "" {
		return "", false
	}
	return rec.UserID, true
}

func markResolved(ctx context.Context) context.Context {
	return context.WithValue(ctx, resolvedContextKey{}, true)
}

func resolved(ctx context.Context) bool {
	ok, _ := ctx.Value(resolvedContextKey{}).(bool)
	return ok
}
