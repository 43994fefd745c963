package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/freshhfarm/storefront-backend/internal/cart"
	"github.com/freshhfarm/storefront-backend/pkg/db/models"
	"github.com/freshhfarm/storefront-backend/pkg/enums"
)

type stubCartService struct {
	addFn    func(ctx context.Context, caller *models.User, input cart.AddItemInput) (*cart.CartDTO, error)
	updateFn func(ctx context.Context, caller *models.User, itemID uuid.UUID, input cart.UpdateItemInput) (*cart.CartDTO, error)
	applyFn  func(ctx context.Context, caller *models.User, code string) (*cart.CartDTO, error)
}

func (s stubCartService) Get(ctx context.Context, caller *models.User) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (s stubCartService) AddItem(ctx context.Context, caller *models.User, input cart.AddItemInput) (*cart.CartDTO, error) {
	if s.addFn != nil {
		return s.addFn(ctx, caller, input)
	}
	return &cart.CartDTO{}, nil
}

func (s stubCartService) UpdateItem(ctx context.Context, caller *models.User, itemID uuid.UUID, input cart.UpdateItemInput) (*cart.CartDTO, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, caller, itemID, input)
	}
	return &cart.CartDTO{}, nil
}

func (s stubCartService) RemoveItem(ctx context.Context, caller *models.User, itemID uuid.UUID) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (s stubCartService) ApplyCoupon(ctx context.Context, caller *models.User, code string) (*cart.CartDTO, error) {
	if s.applyFn != nil {
		return s.applyFn(ctx, caller, code)
	}
	return &cart.CartDTO{}, nil
}

func (s stubCartService) RemoveCoupon(ctx context.Context, caller *models.User) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (s stubCartService) Clear(ctx context.Context, caller *models.User) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func TestAddCartItemValidatesQuantity(t *testing.T) {
	body := `{"product_id": "` + uuid.NewString() + `", "quantity": 0}`
	resp := httptest.NewRecorder()
	AddCartItem(stubCartService{}, nil).ServeHTTP(resp,
		httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(body)))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAddCartItemPassesVariantThrough(t *testing.T) {
	productID := uuid.New()
	var got cart.AddItemInput
	svc := stubCartService{
		addFn: func(ctx context.Context, caller *models.User, input cart.AddItemInput) (*cart.CartDTO, error) {
			got = input
			return &cart.CartDTO{}, nil
		},
	}

	body := `{"product_id": "` + productID.String() + `", "quantity": 2, "variant": {"size": "500g"}}`
	caller := &models.User{ID: uuid.New(), Role: enums.UserRoleCustomer, IsActive: true}
	req := withCaller(httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(body)), caller)
	resp := httptest.NewRecorder()
	AddCartItem(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if got.ProductID != productID || got.Quantity != 2 {
		t.Fatalf("unexpected input %+v", got)
	}
	if got.Variant.Size == nil || *got.Variant.Size != "500g" {
		t.Fatalf("expected variant size, got %+v", got.Variant)
	}
}

func TestUpdateCartItemPassesFlagsThrough(t *testing.T) {
	itemID := uuid.New()
	var gotItem uuid.UUID
	var got cart.UpdateItemInput
	svc := stubCartService{
		updateFn: func(ctx context.Context, caller *models.User, id uuid.UUID, input cart.UpdateItemInput) (*cart.CartDTO, error) {
			gotItem = id
			got = input
			return &cart.CartDTO{}, nil
		},
	}

	body := `{"quantity": 3, "saved_for_later": true}`
	caller := &models.User{ID: uuid.New(), Role: enums.UserRoleCustomer, IsActive: true}
	req := withCaller(httptest.NewRequest(http.MethodPatch, "/api/cart/items/"+itemID.String(), strings.NewReader(body)), caller)
	req = withURLParam(req, "itemId", itemID.String())
	resp := httptest.NewRecorder()
	UpdateCartItem(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotItem != itemID {
		t.Fatalf("expected item %s, got %s", itemID, gotItem)
	}
	if got.Quantity == nil || *got.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %+v", got.Quantity)
	}
	if got.SavedForLater == nil || !*got.SavedForLater {
		t.Fatalf("expected saved_for_later true, got %+v", got.SavedForLater)
	}
}

func TestApplyCartCouponRequiresCode(t *testing.T) {
	resp := httptest.NewRecorder()
	ApplyCartCoupon(stubCartService{}, nil).ServeHTTP(resp,
		httptest.NewRequest(http.MethodPost, "/api/cart/coupons", strings.NewReader(`{}`)))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
}
