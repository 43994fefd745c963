package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Variant identifies a size/weight sub-SKU reference on a cart or order line.
type Variant struct {
	Size   *string  `json:"size,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
}

// Key returns a normalized fingerprint so that (product, variant) uniqueness
// can be enforced by the database. The empty variant yields "".
func (v Variant) Key() string {
	size := ""
	if v.Size != nil {
		size = strings.ToLower(strings.TrimSpace(*v.Size))
	}
	weight := ""
	if v.Weight != nil {
		weight = strconv.FormatFloat(*v.Weight, 'f', -1, 64)
	}
	if size == "" && weight == "" {
		return ""
	}
	return fmt.Sprintf("size=%s|weight=%s", size, weight)
}

// IsZero reports whether no variant attribute is set.
func (v Variant) IsZero() bool {
	return v.Size == nil && v.Weight == nil
}

// ProductVariant is a sellable sub-SKU with its own pricing and stock.
type ProductVariant struct {
	Size       *string         `json:"size,omitempty"`
	Weight     *float64        `json:"weight,omitempty"`
	Price      decimal.Decimal `json:"price"`
	OfferPrice decimal.Decimal `json:"offer_price"`
	InStock    int             `json:"in_stock"`
}

// Ref returns the identifying portion of the product variant.
func (p ProductVariant) Ref() Variant {
	return Variant{Size: p.Size, Weight: p.Weight}
}

// ProductVariants is the JSONB-persisted variant list on a product.
type ProductVariants []ProductVariant

// Find returns the variant matching the reference, or nil.
func (ps ProductVariants) Find(ref Variant) *ProductVariant {
	key := ref.Key()
	for i := range ps {
		if ps[i].Ref().Key() == key {
			return &ps[i]
		}
	}
	return nil
}
