package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppliedCoupon snapshots the coupon applied to an order at checkout time.
type AppliedCoupon struct {
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
}

// TrackingInfo carries carrier details attached by staff during fulfillment.
type TrackingInfo struct {
	Carrier        string     `json:"carrier,omitempty"`
	TrackingNumber string     `json:"tracking_number,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}
