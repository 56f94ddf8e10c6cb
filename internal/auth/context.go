package auth

import (
	"context"

	"github.com/clinicore/backend/internal/domain"
)

type identityKey struct{}

// WithIdentity stores the caller's identity in the context.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity established by the session
// middleware, if any.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok
}
