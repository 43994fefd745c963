package middleware

import (
	"context"

	"github.com/freshhfarm/storefront-backend/pkg/db/models"
)

type contextKey string

const (
	ctxCaller contextKey = "caller"
)

// CallerFromContext returns the authenticated user attached by Auth, or nil
// when the request is anonymous.
func CallerFromContext(ctx context.Context) *models.User {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxCaller).(*models.User); ok {
		return v
	}
	return nil
}

// WithCaller injects the authenticated user into the context.
func WithCaller(ctx context.Context, user *models.User) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCaller, user)
}

// RoleFromContext returns the caller's role string, or "" for anonymous
// requests. Used by logging; authorization goes through the users package.
func RoleFromContext(ctx context.Context) string {
	if caller := CallerFromContext(ctx); caller != nil {
		return string(caller.Role)
	}
	return ""
}
