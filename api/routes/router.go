package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freshhfarm/storefront-backend/api/controllers"
	"github.com/freshhfarm/storefront-backend/api/middleware"
	"github.com/freshhfarm/storefront-backend/internal/cart"
	"github.com/freshhfarm/storefront-backend/internal/coupons"
	"github.com/freshhfarm/storefront-backend/internal/orders"
	"github.com/freshhfarm/storefront-backend/internal/products"
	"github.com/freshhfarm/storefront-backend/internal/users"
	"github.com/freshhfarm/storefront-backend/pkg/config"
	"github.com/freshhfarm/storefront-backend/pkg/enums"
	"github.com/freshhfarm/storefront-backend/pkg/logger"
	"github.com/freshhfarm/storefront-backend/pkg/metrics"
	pkgredis "github.com/freshhfarm/storefront-backend/pkg/redis"
)

// Deps bundles everything the router needs.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           controllers.Pinger
	Redis        *pkgredis.Client
	Idempotency  pkgredis.IdempotencyStore
	HTTPMetrics  *metrics.HTTPMetrics
	CallerLoader middleware.CallerLoader

	Users    users.Service
	Products products.Service
	Cart     cart.Service
	Coupons  coupons.Service
	Orders   orders.Service
}

// NewRouter wires middleware, public endpoints and the authenticated API.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
		r.Method(http.MethodGet, "/metrics", deps.HTTPMetrics.Handler())
	}

	auth := middleware.Auth(cfg.Identity, deps.CallerLoader, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
		}))
	})

	r.Route("/api/users", func(r chi.Router) {
		// The identity provider signs this call itself; no session token.
		r.Post("/webhook", controllers.IdentityWebhook(cfg.Identity, deps.Users, deps.Redis, logg))

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/me", controllers.Me(deps.Users, logg))
			r.Patch("/me", controllers.UpdateMe(deps.Users, logg))
			r.With(middleware.RequireRole(logg, enums.UserRoleAdmin)).
				Patch("/{userId}/role", controllers.UpdateUserRole(deps.Users, logg))
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(deps.Products, logg))
		r.Get("/{productId}", controllers.GetProduct(deps.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(auth)
			writers := middleware.RequireRole(logg, enums.UserRoleInventory, enums.UserRoleAdmin)
			r.With(writers).Post("/", controllers.CreateProduct(deps.Products, logg))
			r.With(writers).Put("/{productId}", controllers.UpdateProduct(deps.Products, logg))
			r.With(writers).Delete("/{productId}", controllers.DeleteProduct(deps.Products, logg))
			r.Post("/{productId}/reviews", controllers.AddProductReview(deps.Products, logg))
		})
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", controllers.GetCart(deps.Cart, logg))
		r.Delete("/", controllers.ClearCart(deps.Cart, logg))
		r.Post("/items", controllers.AddCartItem(deps.Cart, logg))
		r.Patch("/items/{itemId}", controllers.UpdateCartItem(deps.Cart, logg))
		r.Delete("/items/{itemId}", controllers.RemoveCartItem(deps.Cart, logg))
		r.Post("/coupons", controllers.ApplyCartCoupon(deps.Cart, logg))
		r.Delete("/coupons", controllers.RemoveCartCoupon(deps.Cart, logg))
	})

	r.Route("/api/coupons", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))
		r.Post("/", controllers.CreateCoupon(deps.Coupons, logg))
		r.Get("/", controllers.ListCoupons(deps.Coupons, logg))
		r.Delete("/{couponId}", controllers.DeleteCoupon(deps.Coupons, logg))
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.Idempotency(deps.Idempotency, logg))

		r.Post("/", controllers.CreateOrder(deps.Orders, logg))
		r.Get("/my-orders", controllers.ListMyOrders(deps.Orders, logg))
		r.With(middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleSeller, enums.UserRoleSupport)).
			Get("/", controllers.ListOrders(deps.Orders, logg))
		r.Get("/{orderId}", controllers.GetOrder(deps.Orders, logg))
		r.With(middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleSeller)).
			Patch("/{orderId}/status", controllers.UpdateOrderStatus(deps.Orders, logg))
		r.Patch("/{orderId}/cancel", controllers.CancelOrder(deps.Orders, logg))
	})

	return r
}
