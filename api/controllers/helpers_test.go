package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freshhfarm/storefront-backend/api/middleware"
	"github.com/freshhfarm/storefront-backend/pkg/db/models"
)

// withURLParam injects a chi route parameter so handlers can be exercised
// without a router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withCaller threads an authenticated user through the request context.
func withCaller(r *http.Request, caller *models.User) *http.Request {
	return r.WithContext(middleware.WithCaller(r.Context(), caller))
}
