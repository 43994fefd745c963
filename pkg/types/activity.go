package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ActivityKind discriminates the activity log entry payloads.
type ActivityKind string

const (
	ActivityKindRoleChanged  ActivityKind = "role_changed"
	ActivityKindOrderPlaced  ActivityKind = "order_placed"
	ActivityKindProfileSync  ActivityKind = "profile_sync"
	ActivityKindOrderCancel  ActivityKind = "order_cancelled"
	ActivityKindCouponChange ActivityKind = "coupon_change"
)

// RoleChangedActivity records an admin changing the user's role.
type RoleChangedActivity struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// OrderActivity references an order placed or cancelled by the user.
type OrderActivity struct {
	OrderID uuid.UUID       `json:"order_id"`
	Total   decimal.Decimal `json:"total"`
}

// CouponActivity records a coupon being applied to or removed from the cart.
type CouponActivity struct {
	Code    string `json:"code"`
	Applied bool   `json:"applied"`
}

// ActivityEntry is a tagged union: exactly one payload field matching Kind is
// set. The open-ended map of the legacy schema is deliberately not carried.
type ActivityEntry struct {
	Kind        ActivityKind         `json:"kind"`
	At          time.Time            `json:"at"`
	RoleChanged *RoleChangedActivity `json:"role_changed,omitempty"`
	Order       *OrderActivity       `json:"order,omitempty"`
	Coupon      *CouponActivity      `json:"coupon,omitempty"`
}

// ActivityLog is the JSONB-persisted activity list on a user.
type ActivityLog []ActivityEntry
