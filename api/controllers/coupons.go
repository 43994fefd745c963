package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/freshhfarm/storefront-backend/api/middleware"
	"github.com/freshhfarm/storefront-backend/api/responses"
	"github.com/freshhfarm/storefront-backend/api/validators"
	"github.com/freshhfarm/storefront-backend/internal/coupons"
	"github.com/freshhfarm/storefront-backend/pkg/enums"
	pkgerrors "github.com/freshhfarm/storefront-backend/pkg/errors"
	"github.com/freshhfarm/storefront-backend/pkg/logger"
)

type createCouponRequest struct {
	Code            string          `json:"code" validate:"required"`
	Description     *string         `json:"description"`
	DiscountType    string          `json:"discount_type" validate:"required"`
	DiscountValue   decimal.Decimal `json:"discount_value" validate:"required"`
	MinimumPurchase decimal.Decimal `json:"minimum_purchase"`
	ValidFrom       *time.Time      `json:"valid_from"`
	ValidUntil      *time.Time      `json:"valid_until"`
	UsageLimit      *int            `json:"usage_limit"`
}

// CreateCoupon publishes a coupon; admin only.
func CreateCoupon(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCouponRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateStruct(&req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discountType, err := enums.ParseDiscountType(req.DiscountType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown discount type"))
			return
		}

		input := coupons.CreateCouponInput{
			Code:            req.Code,
			Description:     req.Description,
			DiscountType:    discountType,
			DiscountValue:   req.DiscountValue,
			MinimumPurchase: req.MinimumPurchase,
			ValidUntil:      req.ValidUntil,
			UsageLimit:      req.UsageLimit,
		}
		if req.ValidFrom != nil {
			input.ValidFrom = *req.ValidFrom
		}

		coupon, err := svc.Create(r.Context(), middleware.CallerFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, coupon)
	}
}

// ListCoupons returns all coupons; admin only.
func ListCoupons(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context(), middleware.CallerFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// DeleteCoupon removes a coupon; admin only.
func DeleteCoupon(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "couponId"), "coupon id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), middleware.CallerFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
