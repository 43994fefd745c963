package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshhfarm/storefront-backend/pkg/db/models"
	"github.com/freshhfarm/storefront-backend/pkg/types"
)

// CartItemDTO is one cart line with its priced total and a product snapshot
// for rendering.
type CartItemDTO struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Name          string          `json:"name"`
	ImageURL      *string         `json:"image_url,omitempty"`
	Unit          string          `json:"unit,omitempty"`
	Quantity      int             `json:"quantity"`
	Variant       types.Variant   `json:"variant"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	LineTotal     decimal.Decimal `json:"line_total"`
	SavedForLater bool            `json:"saved_for_later"`
}

// CartDTO is the priced cart returned by every cart endpoint.
type CartDTO struct {
	ID         uuid.UUID     `json:"id"`
	Items      []CartItemDTO `json:"items"`
	CouponCode *string       `json:"coupon_code,omitempty"`
	Quote      Quote         `json:"quote"`
}

// AddItemInput captures an add-to-cart request.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Variant   types.Variant
}

// UpdateItemInput carries the mutable fields of an existing line. Nil fields
// are left untouched.
type UpdateItemInput struct {
	Quantity      *int
	SavedForLater *bool
}

func buildCartDTO(record *models.Cart, quote *Quote) *CartDTO {
	dto := &CartDTO{
		ID:         record.ID,
		Items:      make([]CartItemDTO, 0, len(record.Items)),
		CouponCode: record.CouponCode,
	}
	if quote != nil {
		dto.Quote = *quote
	}
	for _, item := range record.Items {
		line := CartItemDTO{
			ID:            item.ID,
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			Variant:       item.Variant,
			UnitPrice:     item.UnitPrice,
			LineTotal:     item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2),
			SavedForLater: item.SavedForLater,
		}
		if item.Product != nil {
			line.Name = item.Product.Name
			line.Unit = item.Product.Unit
			if len(item.Product.ImageURLs) > 0 {
				first := item.Product.ImageURLs[0]
				line.ImageURL = &first
			}
		}
		dto.Items = append(dto.Items, line)
	}
	return dto
}
