package auth

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// IdentityContextKey is the key for storing the Identity in request context
	IdentityContextKey ContextKey = "identity"
)

// Identity names the user and the company a request acts on behalf of.
// This is a transient value that is injected into the request by the auth
// middleware from verified token claims.
type Identity struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
}

// WithIdentity returns a child context carrying the identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, identity)
}

// IdentityFromContext extracts the Identity from a request context.
// The second return value is false if the request had no valid token.
//
// Usage in handlers:
//
//	identity, ok := auth.IdentityFromContext(r.Context())
//	if !ok {
//	    // Handle unauthorized request
//	}
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(Identity)
	return identity, ok
}
