package auth

import (
	"context"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

// UserFromContext returns the authenticated identity placed in the request
// context by the auth middleware.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

// ContextWithUser is used by middleware and tests to inject an identity.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}
