package middleware

import (
	"net/http"

	"github.com/freshhfarm/storefront-backend/api/responses"
	"github.com/freshhfarm/storefront-backend/internal/users"
	"github.com/freshhfarm/storefront-backend/pkg/enums"
	"github.com/freshhfarm/storefront-backend/pkg/logger"
)

// RequireRole gates a route to callers holding one of the allowed roles.
func RequireRole(logg *logger.Logger, allowed ...enums.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := users.Authorize(CallerFromContext(r.Context()), allowed...); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
