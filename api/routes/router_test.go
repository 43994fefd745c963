package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshhfarm/storefront-backend/internal/cart"
	"github.com/freshhfarm/storefront-backend/internal/coupons"
	"github.com/freshhfarm/storefront-backend/internal/orders"
	"github.com/freshhfarm/storefront-backend/internal/products"
	"github.com/freshhfarm/storefront-backend/internal/users"
	"github.com/freshhfarm/storefront-backend/pkg/config"
	"github.com/freshhfarm/storefront-backend/pkg/db/models"
	"github.com/freshhfarm/storefront-backend/pkg/enums"
	"github.com/freshhfarm/storefront-backend/pkg/identity"
	"github.com/freshhfarm/storefront-backend/pkg/logger"
	"github.com/freshhfarm/storefront-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

// stubCallerLoader maps clerk ids to pre-seeded users.
type stubCallerLoader struct {
	byClerkID map[string]*models.User
}

func (s *stubCallerLoader) FindByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	if u, ok := s.byClerkID[clerkID]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubUserService struct{}

func (stubUserService) SyncFromWebhook(ctx context.Context, input users.WebhookUser) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

func (stubUserService) DeactivateFromWebhook(ctx context.Context, clerkID string) error {
	return nil
}

func (stubUserService) Me(ctx context.Context, caller *models.User) (*users.UserDTO, error) {
	return users.FromModel(caller), nil
}

func (stubUserService) UpdateMe(ctx context.Context, caller *models.User, input users.UpdateMeInput) (*users.UserDTO, error) {
	return users.FromModel(caller), nil
}

func (stubUserService) UpdateRole(ctx context.Context, caller *models.User, targetID uuid.UUID, role enums.UserRole) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

type stubProductService struct{}

func (stubProductService) List(ctx context.Context, filters products.ListFilters, page pagination.Params) (*products.ListResult, error) {
	return &products.ListResult{}, nil
}

func (stubProductService) Get(ctx context.Context, id uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: id}, nil
}

func (stubProductService) Create(ctx context.Context, caller *models.User, input products.CreateProductInput) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (stubProductService) Update(ctx context.Context, caller *models.User, id uuid.UUID, input products.UpdateProductInput) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: id}, nil
}

func (stubProductService) Delete(ctx context.Context, caller *models.User, id uuid.UUID) error {
	return nil
}

func (stubProductService) AddReview(ctx context.Context, caller *models.User, id uuid.UUID, input products.AddReviewInput) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: id}, nil
}

type stubCartService struct{}

func (stubCartService) Get(ctx context.Context, caller *models.User) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) AddItem(ctx context.Context, caller *models.User, input cart.AddItemInput) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) UpdateItem(ctx context.Context, caller *models.User, itemID uuid.UUID, input cart.UpdateItemInput) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) RemoveItem(ctx context.Context, caller *models.User, itemID uuid.UUID) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) ApplyCoupon(ctx context.Context, caller *models.User, code string) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) RemoveCoupon(ctx context.Context, caller *models.User) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) Clear(ctx context.Context, caller *models.User) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

type stubCouponService struct{}

func (stubCouponService) Create(ctx context.Context, caller *models.User, input coupons.CreateCouponInput) (*models.Coupon, error) {
	return &models.Coupon{}, nil
}

func (stubCouponService) List(ctx context.Context, caller *models.User) ([]models.Coupon, error) {
	return nil, nil
}

func (stubCouponService) Delete(ctx context.Context, caller *models.User, id uuid.UUID) error {
	return nil
}

func (stubCouponService) Resolve(ctx context.Context, code string) (*models.Coupon, error) {
	return nil, gorm.ErrRecordNotFound
}

type stubOrderService struct{}

func (stubOrderService) Create(ctx context.Context, caller *models.User, input orders.CreateOrderInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrderService) ListMine(ctx context.Context, caller *models.User, params pagination.Params) (*orders.ListResult, error) {
	return &orders.ListResult{}, nil
}

func (stubOrderService) List(ctx context.Context, caller *models.User, params pagination.Params) (*orders.ListResult, error) {
	return &orders.ListResult{}, nil
}

func (stubOrderService) Get(ctx context.Context, caller *models.User, id uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: id}, nil
}

func (stubOrderService) UpdateStatus(ctx context.Context, caller *models.User, id uuid.UUID, input orders.UpdateStatusInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: id}, nil
}

func (stubOrderService) Cancel(ctx context.Context, caller *models.User, id uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: id, Status: enums.OrderStatusCancelled}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Env: "test", Port: "0"},
		Identity: config.IdentityConfig{SecretKey: "secret", Issuer: "freshhfarm-test"},
		CORS:     config.CORSConfig{AllowedOrigin: "http://localhost:5173"},
	}
}

func newTestRouter(cfg *config.Config, loader *stubCallerLoader) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:       cfg,
		Logger:       logg,
		DB:           stubPinger{},
		CallerLoader: loader,
		Users:        stubUserService{},
		Products:     stubProductService{},
		Cart:         stubCartService{},
		Coupons:      stubCouponService{},
		Orders:       stubOrderService{},
	})
}

func seededLoader(role enums.UserRole) *stubCallerLoader {
	return &stubCallerLoader{byClerkID: map[string]*models.User{
		"user_test": {ID: uuid.New(), ClerkID: "user_test", Role: role, IsActive: true},
	}}
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := identity.MintSessionToken(cfg.Identity, time.Now(), "user_test", time.Hour)
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig(), seededLoader(enums.UserRoleCustomer))
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCartRejectsMissingToken(t *testing.T) {
	router := newTestRouter(testConfig(), seededLoader(enums.UserRoleCustomer))
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCartAcceptsValidToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, seededLoader(enums.UserRoleCustomer))
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestProductWritesRequireInventoryRole(t *testing.T) {
	cfg := testConfig()

	customerRouter := newTestRouter(cfg, seededLoader(enums.UserRoleCustomer))
	req := httptest.NewRequest(http.MethodDelete, "/api/products/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	customerRouter.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	inventoryRouter := newTestRouter(cfg, seededLoader(enums.UserRoleInventory))
	req = httptest.NewRequest(http.MethodDelete, "/api/products/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp = httptest.NewRecorder()
	inventoryRouter.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for inventory staff got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCouponAdminOnly(t *testing.T) {
	cfg := testConfig()

	sellerRouter := newTestRouter(cfg, seededLoader(enums.UserRoleSeller))
	req := httptest.NewRequest(http.MethodGet, "/api/coupons", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	sellerRouter.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for seller got %d", resp.Code)
	}

	adminRouter := newTestRouter(cfg, seededLoader(enums.UserRoleAdmin))
	req = httptest.NewRequest(http.MethodGet, "/api/coupons", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp = httptest.NewRecorder()
	adminRouter.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCheckoutRequiresIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, seededLoader(enums.UserRoleCustomer))

	// The idempotency store is nil in this fixture, so the middleware is a
	// pass-through and the missing body surfaces instead.
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body got %d", resp.Code)
	}
}

func TestDeactivatedUserIsRejected(t *testing.T) {
	cfg := testConfig()
	loader := &stubCallerLoader{byClerkID: map[string]*models.User{
		"user_test": {ID: uuid.New(), ClerkID: "user_test", Role: enums.UserRoleCustomer, IsActive: false},
	}}
	router := newTestRouter(cfg, loader)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for deactivated user got %d", resp.Code)
	}
}
