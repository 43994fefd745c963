package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshhfarm/storefront-backend/pkg/db/models"
	"github.com/freshhfarm/storefront-backend/pkg/enums"
	"github.com/freshhfarm/storefront-backend/pkg/types"
)

// ProductDTO is the transport shape for catalog listings.
type ProductDTO struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	OriginalPrice decimal.Decimal       `json:"original_price"`
	OfferPrice    decimal.Decimal       `json:"offer_price"`
	Category      enums.ProductCategory `json:"category"`
	ImageURLs     []string              `json:"image_urls"`
	InStock       int                   `json:"in_stock"`
	Unit          string                `json:"unit"`
	NutritionInfo *string               `json:"nutrition_info,omitempty"`
	Origin        *string               `json:"origin,omitempty"`
	IsOrganic     bool                  `json:"is_organic"`
	IsSeasonal    bool                  `json:"is_seasonal"`
	Variants      types.ProductVariants `json:"variants"`
	Ratings       types.RatingSummary   `json:"ratings"`
	Reviews       types.Reviews         `json:"reviews"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Category   *enums.ProductCategory
	IsOrganic  *bool
	IsSeasonal *bool
	InStock    *bool
	Query      string
}

// ListResult is one page of the catalog plus the cursor for the next page.
type ListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// CreateProductInput carries the fields required to publish a listing.
type CreateProductInput struct {
	Name          string
	Description   string
	OriginalPrice decimal.Decimal
	OfferPrice    decimal.Decimal
	Category      enums.ProductCategory
	ImageURLs     []string
	InStock       int
	Unit          string
	NutritionInfo *string
	Origin        *string
	IsOrganic     bool
	IsSeasonal    bool
	Variants      types.ProductVariants
}

// UpdateProductInput applies a partial edit; nil fields are left untouched.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	OriginalPrice *decimal.Decimal
	OfferPrice    *decimal.Decimal
	Category      *enums.ProductCategory
	ImageURLs     *[]string
	InStock       *int
	Unit          *string
	NutritionInfo *string
	Origin        *string
	IsOrganic     *bool
	IsSeasonal    *bool
	Variants      *types.ProductVariants
}

// AddReviewInput captures a customer review submission.
type AddReviewInput struct {
	Rating  int
	Comment string
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		OriginalPrice: p.OriginalPrice,
		OfferPrice:    p.OfferPrice,
		Category:      p.Category,
		ImageURLs:     append([]string(nil), p.ImageURLs...),
		InStock:       p.InStock,
		Unit:          p.Unit,
		NutritionInfo: p.NutritionInfo,
		Origin:        p.Origin,
		IsOrganic:     p.IsOrganic,
		IsSeasonal:    p.IsSeasonal,
		Variants:      p.Variants,
		Ratings:       p.Ratings,
		Reviews:       p.Reviews,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
