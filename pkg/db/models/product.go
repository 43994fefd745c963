package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/freshhfarm/storefront-backend/pkg/enums"
	"github.com/freshhfarm/storefront-backend/pkg/types"
)

// Product represents the canonical catalog listing. OfferPrice is the price
// buyers pay; OriginalPrice is the struck-through list price and is not
// validated against it.
type Product struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string                `gorm:"column:name;not null"`
	Description   string                `gorm:"column:description;not null"`
	OriginalPrice decimal.Decimal       `gorm:"column:original_price;type:numeric(12,2);not null"`
	OfferPrice    decimal.Decimal       `gorm:"column:offer_price;type:numeric(12,2);not null"`
	Category      enums.ProductCategory `gorm:"column:category;not null"`
	ImageURLs     pq.StringArray        `gorm:"column:image_urls;type:text[];not null;default:ARRAY[]::text[]"`
	InStock       int                   `gorm:"column:in_stock;not null;default:0"`
	Unit          string                `gorm:"column:unit;not null;default:'kg'"`
	NutritionInfo *string               `gorm:"column:nutrition_info"`
	Origin        *string               `gorm:"column:origin"`
	IsOrganic     bool                  `gorm:"column:is_organic;not null;default:false"`
	IsSeasonal    bool                  `gorm:"column:is_seasonal;not null;default:false"`
	Variants      types.ProductVariants `gorm:"column:variants;type:jsonb;serializer:json"`
	Ratings       types.RatingSummary   `gorm:"column:ratings;type:jsonb;serializer:json"`
	Reviews       types.Reviews         `gorm:"column:reviews;type:jsonb;serializer:json"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
