package cart

import (
	"github.com/shopspring/decimal"

	"github.com/freshhfarm/storefront-backend/pkg/db/models"
	"github.com/freshhfarm/storefront-backend/pkg/enums"
	pkgerrors "github.com/freshhfarm/storefront-backend/pkg/errors"
	"github.com/freshhfarm/storefront-backend/pkg/types"
)

// Quote is the priced view of a cart: line totals, coupon discount and the
// amount the customer pays.
type Quote struct {
	Subtotal decimal.Decimal      `json:"subtotal"`
	Discount decimal.Decimal      `json:"discount"`
	Total    decimal.Decimal      `json:"total"`
	Coupon   *types.AppliedCoupon `json:"coupon,omitempty"`
}

// BuildQuote prices the active cart lines and applies the coupon if one is
// attached. Saved-for-later lines are excluded. The total is clamped at zero
// when a fixed discount exceeds the subtotal.
func BuildQuote(items []models.CartItem, coupon *models.Coupon) (*Quote, error) {
	subtotal := decimal.Zero
	for _, item := range items {
		if item.SavedForLater {
			continue
		}
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)

	quote := &Quote{
		Subtotal: subtotal,
		Discount: decimal.Zero,
		Total:    subtotal,
	}
	if coupon == nil {
		return quote, nil
	}

	// MinimumPurchase is advisory; the discount applies regardless of the
	// subtotal.
	var discount decimal.Decimal
	switch coupon.DiscountType {
	case enums.DiscountTypePercentage:
		discount = subtotal.Mul(coupon.DiscountValue).Div(decimal.NewFromInt(100))
	case enums.DiscountTypeFixed:
		discount = coupon.DiscountValue
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown discount type")
	}
	discount = discount.Round(2)
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	quote.Discount = discount
	quote.Total = total
	quote.Coupon = &types.AppliedCoupon{Code: coupon.Code, Discount: discount}
	return quote, nil
}
