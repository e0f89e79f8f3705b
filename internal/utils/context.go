// Package utils provides general-purpose helpers used across the
// application: context keys, password hashing, session tokens, JSON
// responses, the HTTP client and identifier generation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-expense-tracker/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
func (c contextKey) String() string {
	return string(c)
}

// IdentityCtxKey is the key the auth middleware stores the caller
// [models.Identity] under.
var IdentityCtxKey = contextKey("identity")

// GetIdentityFromContext retrieves the caller identity from the context.
// ok is false when the value is missing or has an unexpected type.
func GetIdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(IdentityCtxKey).(models.Identity)
	return identity, ok
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, IdentityCtxKey, identity)
}
