package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/freshhfarm/storefront-backend/api/middleware"
	"github.com/freshhfarm/storefront-backend/api/responses"
	"github.com/freshhfarm/storefront-backend/api/validators"
	"github.com/freshhfarm/storefront-backend/internal/products"
	"github.com/freshhfarm/storefront-backend/pkg/enums"
	pkgerrors "github.com/freshhfarm/storefront-backend/pkg/errors"
	"github.com/freshhfarm/storefront-backend/pkg/logger"
	"github.com/freshhfarm/storefront-backend/pkg/pagination"
	"github.com/freshhfarm/storefront-backend/pkg/types"
)

type createProductRequest struct {
	Name          string                `json:"name" validate:"required"`
	Description   string                `json:"description" validate:"required"`
	OriginalPrice decimal.Decimal       `json:"original_price" validate:"required"`
	OfferPrice    decimal.Decimal       `json:"offer_price" validate:"required"`
	Category      string                `json:"category" validate:"required"`
	ImageURLs     []string              `json:"image_urls"`
	InStock       int                   `json:"in_stock" validate:"gte=0"`
	Unit          string                `json:"unit"`
	NutritionInfo *string               `json:"nutrition_info"`
	Origin        *string               `json:"origin"`
	IsOrganic     bool                  `json:"is_organic"`
	IsSeasonal    bool                  `json:"is_seasonal"`
	Variants      types.ProductVariants `json:"variants"`
}

type updateProductRequest struct {
	Name          *string                `json:"name"`
	Description   *string                `json:"description"`
	OriginalPrice *decimal.Decimal       `json:"original_price"`
	OfferPrice    *decimal.Decimal       `json:"offer_price"`
	Category      *string                `json:"category"`
	ImageURLs     *[]string              `json:"image_urls"`
	InStock       *int                   `json:"in_stock"`
	Unit          *string                `json:"unit"`
	NutritionInfo *string                `json:"nutrition_info"`
	Origin        *string                `json:"origin"`
	IsOrganic     *bool                  `json:"is_organic"`
	IsSeasonal    *bool                  `json:"is_seasonal"`
	Variants      *types.ProductVariants `json:"variants"`
}

type addReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

// ListProducts is the public catalog browse endpoint.
func ListProducts(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := parseProductFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		list, err := svc.List(r.Context(), filters, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func parseProductFilters(r *http.Request) (products.ListFilters, error) {
	var filters products.ListFilters
	q := r.URL.Query()

	if raw := strings.TrimSpace(q.Get("category")); raw != "" {
		category, err := enums.ParseProductCategory(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
		}
		filters.Category = &category
	}
	for key, dest := range map[string]**bool{
		"organic":  &filters.IsOrganic,
		"seasonal": &filters.IsSeasonal,
		"in_stock": &filters.InStock,
	} {
		raw := strings.TrimSpace(q.Get(key))
		if raw == "" {
			continue
		}
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, key+" must be a boolean")
		}
		*dest = &value
	}
	filters.Query = strings.TrimSpace(q.Get("q"))
	return filters, nil
}

// GetProduct returns one listing by id.
func GetProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// CreateProduct publishes a listing; inventory/admin only.
func CreateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateStruct(&req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseProductCategory(req.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown category"))
			return
		}

		dto, err := svc.Create(r.Context(), middleware.CallerFromContext(r.Context()), products.CreateProductInput{
			Name:          req.Name,
			Description:   req.Description,
			OriginalPrice: req.OriginalPrice,
			OfferPrice:    req.OfferPrice,
			Category:      category,
			ImageURLs:     req.ImageURLs,
			InStock:       req.InStock,
			Unit:          req.Unit,
			NutritionInfo: req.NutritionInfo,
			Origin:        req.Origin,
			IsOrganic:     req.IsOrganic,
			IsSeasonal:    req.IsSeasonal,
			Variants:      req.Variants,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// UpdateProduct applies a partial edit to a listing; inventory/admin only.
func UpdateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := products.UpdateProductInput{
			Name:          req.Name,
			Description:   req.Description,
			OriginalPrice: req.OriginalPrice,
			OfferPrice:    req.OfferPrice,
			ImageURLs:     req.ImageURLs,
			InStock:       req.InStock,
			Unit:          req.Unit,
			NutritionInfo: req.NutritionInfo,
			Origin:        req.Origin,
			IsOrganic:     req.IsOrganic,
			IsSeasonal:    req.IsSeasonal,
			Variants:      req.Variants,
		}
		if req.Category != nil {
			category, err := enums.ParseProductCategory(*req.Category)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown category"))
				return
			}
			input.Category = &category
		}

		dto, err := svc.Update(r.Context(), middleware.CallerFromContext(r.Context()), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// DeleteProduct removes a listing; inventory/admin only.
func DeleteProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "product id")
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

// AddProductReview records or replaces the caller's review of a product.
func AddProductReview(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req addReviewRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateStruct(&req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.AddReview(r.Context(), middleware.CallerFromContext(r.Context()), id, products.AddReviewInput{
			Rating:  req.Rating,
			Comment: req.Comment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}
