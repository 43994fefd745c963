package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshhfarm/storefront-backend/pkg/enums"
	"github.com/freshhfarm/storefront-backend/pkg/types"
)

// Order is an immutable snapshot of a checkout. Item names, prices and the
// shipping address are copied at placement time so later catalog or profile
// edits never rewrite order history.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	User            *User                `gorm:"foreignKey:UserID"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID"`
	Subtotal        decimal.Decimal      `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Discount        decimal.Decimal      `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	Total           decimal.Decimal      `gorm:"column:total;type:numeric(12,2);not null"`
	Status          enums.OrderStatus    `gorm:"column:status;not null;default:'Processing'"`
	PaymentMethod   enums.PaymentMethod  `gorm:"column:payment_method;not null;default:'cod'"`
	ShippingAddress types.Address        `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	CouponApplied   *types.AppliedCoupon `gorm:"column:coupon_applied;type:jsonb;serializer:json"`
	DeliveryNotes   *string              `gorm:"column:delivery_notes"`
	Tracking        *types.TrackingInfo  `gorm:"column:tracking;type:jsonb;serializer:json"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is a frozen line of an order.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Name      string          `gorm:"column:name;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Variant   types.Variant   `gorm:"column:variant;type:jsonb;serializer:json"`
	ImageURL  *string         `gorm:"column:image_url"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
