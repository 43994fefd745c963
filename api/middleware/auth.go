package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/freshhfarm/storefront-backend/api/responses"
	"github.com/freshhfarm/storefront-backend/pkg/config"
	"github.com/freshhfarm/storefront-backend/pkg/db/models"
	pkgerrors "github.com/freshhfarm/storefront-backend/pkg/errors"
	"github.com/freshhfarm/storefront-backend/pkg/identity"
	"github.com/freshhfarm/storefront-backend/pkg/logger"
)

// CallerLoader resolves the provider subject from a verified session token to
// a local user record.
type CallerLoader interface {
	FindByClerkID(ctx context.Context, clerkID string) (*models.User, error)
}

// Auth verifies the bearer session token, loads the matching user and seeds
// the request context with it. Users that have been synced via webhook but
// deactivated are rejected.
func Auth(cfg config.IdentityConfig, loader CallerLoader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := identity.VerifySessionToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token"))
				return
			}

			subject, err := claims.SubjectID()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token"))
				return
			}

			caller, err := loader.FindByClerkID(r.Context(), subject)
			if err != nil {
				if pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeNotFound {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown user"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user"))
				return
			}
			if !caller.IsActive {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "account deactivated"))
				return
			}

			ctx := WithCaller(r.Context(), caller)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    caller.ID.String(),
					"actor_role": string(caller.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
