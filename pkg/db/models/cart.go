package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshhfarm/storefront-backend/pkg/types"
)

// Cart is the single open cart per user. A cart row is created lazily on
// first access and survives checkout (its items are cleared instead).
type Cart struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	CouponCode *string    `gorm:"column:coupon_code"`
	Items      []CartItem `gorm:"foreignKey:CartID"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// CartItem is one (product, variant) line in a cart. VariantKey is a
// normalized rendering of Variant and backs the unique index that makes
// concurrent adds of the same line merge instead of duplicate.
type CartItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID       uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:uq_cart_items_line,priority:1"`
	ProductID    uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uq_cart_items_line,priority:2"`
	Product      *Product        `gorm:"foreignKey:ProductID"`
	Quantity     int             `gorm:"column:quantity;not null"`
	Variant      types.Variant   `gorm:"column:variant;type:jsonb;serializer:json"`
	VariantKey   string          `gorm:"column:variant_key;not null;default:'';uniqueIndex:uq_cart_items_line,priority:3"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	SavedForLater bool           `gorm:"column:saved_for_later;not null;default:false"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
