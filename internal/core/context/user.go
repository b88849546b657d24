// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// UserContext identifies the caller of a request: the acting user and the
// owner (company) whose collections the request may touch.
type UserContext struct {
	UserID  string
	OwnerID string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// GetOwnerID returns owner ID from context or empty string.
func GetOwnerID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.OwnerID
	}
	return ""
}
