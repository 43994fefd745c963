package cart

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/freshhfarm/storefront-backend/pkg/db/models"
	"github.com/freshhfarm/storefront-backend/pkg/enums"
)

func item(price int64, qty int) models.CartItem {
	return models.CartItem{UnitPrice: decimal.NewFromInt(price), Quantity: qty}
}

func TestBuildQuoteNoCoupon(t *testing.T) {
	quote, err := BuildQuote([]models.CartItem{item(100, 2), item(50, 1)}, nil)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !quote.Subtotal.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected subtotal 250, got %s", quote.Subtotal)
	}
	if !quote.Total.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected total 250, got %s", quote.Total)
	}
	if quote.Coupon != nil {
		t.Fatal("no coupon should be reported")
	}
}

func TestBuildQuotePercentageCoupon(t *testing.T) {
	coupon := &models.Coupon{
		Code:          "FRESH10",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
	}

	quote, err := BuildQuote([]models.CartItem{item(100, 2)}, coupon)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !quote.Discount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected discount 20, got %s", quote.Discount)
	}
	if !quote.Total.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("expected total 180, got %s", quote.Total)
	}
	if quote.Coupon == nil || quote.Coupon.Code != "FRESH10" {
		t.Fatalf("expected applied coupon, got %+v", quote.Coupon)
	}
}

func TestBuildQuoteFixedCouponClampsAtZero(t *testing.T) {
	coupon := &models.Coupon{
		Code:          "FLAT250",
		DiscountType:  enums.DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(250),
	}

	quote, err := BuildQuote([]models.CartItem{item(100, 2)}, coupon)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !quote.Total.IsZero() {
		t.Fatalf("expected total clamped to 0, got %s", quote.Total)
	}
	if !quote.Discount.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected full discount recorded, got %s", quote.Discount)
	}
}

func TestBuildQuoteMinimumPurchaseIsAdvisory(t *testing.T) {
	coupon := &models.Coupon{
		Code:            "BIGCART",
		DiscountType:    enums.DiscountTypePercentage,
		DiscountValue:   decimal.NewFromInt(10),
		MinimumPurchase: decimal.NewFromInt(500),
	}

	quote, err := BuildQuote([]models.CartItem{item(100, 2)}, coupon)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !quote.Discount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("discount must apply below the advisory minimum, got %s", quote.Discount)
	}
	if !quote.Total.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("expected total 180, got %s", quote.Total)
	}
}

func TestBuildQuoteSkipsSavedForLater(t *testing.T) {
	saved := item(1000, 1)
	saved.SavedForLater = true

	quote, err := BuildQuote([]models.CartItem{item(100, 1), saved}, nil)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !quote.Subtotal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("saved-for-later lines must not be priced, got %s", quote.Subtotal)
	}
}

func TestBuildQuoteRoundsToPaise(t *testing.T) {
	coupon := &models.Coupon{
		Code:          "ODD",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(33),
	}

	quote, err := BuildQuote([]models.CartItem{item(99, 1)}, coupon)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if quote.Discount.Exponent() < -2 {
		t.Fatalf("discount should round to 2 places, got %s", quote.Discount)
	}
	if !quote.Discount.Equal(decimal.RequireFromString("32.67")) {
		t.Fatalf("expected discount 32.67, got %s", quote.Discount)
	}
}
