package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshhfarm/storefront-backend/pkg/enums"
)

// Coupon codes are stored uppercase; lookups normalize before matching.
// UsageCount is incremented at checkout but UsageLimit is not enforced
// at apply time.
type Coupon struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code            string             `gorm:"column:code;not null;uniqueIndex"`
	Description     *string            `gorm:"column:description"`
	DiscountType    enums.DiscountType `gorm:"column:discount_type;not null"`
	DiscountValue   decimal.Decimal    `gorm:"column:discount_value;type:numeric(12,2);not null"`
	MinimumPurchase decimal.Decimal    `gorm:"column:minimum_purchase;type:numeric(12,2);not null;default:0"`
	IsActive        bool               `gorm:"column:is_active;not null;default:true"`
	ValidFrom       time.Time          `gorm:"column:valid_from;not null"`
	ValidUntil      *time.Time         `gorm:"column:valid_until"`
	UsageLimit      *int               `gorm:"column:usage_limit"`
	UsageCount      int                `gorm:"column:usage_count;not null;default:0"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// Redeemable reports whether the coupon can be applied at the given time.
// Usage limits are intentionally not checked here.
func (c Coupon) Redeemable(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if now.Before(c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false
	}
	return true
}
