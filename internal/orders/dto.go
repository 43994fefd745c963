package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshhfarm/storefront-backend/pkg/db/models"
	"github.com/freshhfarm/storefront-backend/pkg/enums"
	"github.com/freshhfarm/storefront-backend/pkg/types"
)

// OrderItemDTO is a frozen order line as rendered to the buyer.
type OrderItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Variant   types.Variant   `json:"variant"`
	ImageURL  *string         `json:"image_url,omitempty"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderDTO is the transport shape for a placed order.
type OrderDTO struct {
	ID              uuid.UUID            `json:"id"`
	UserID          uuid.UUID            `json:"user_id"`
	Items           []OrderItemDTO       `json:"items"`
	Subtotal        decimal.Decimal      `json:"subtotal"`
	Discount        decimal.Decimal      `json:"discount"`
	Total           decimal.Decimal      `json:"total"`
	Status          enums.OrderStatus    `json:"status"`
	PaymentMethod   enums.PaymentMethod  `json:"payment_method"`
	ShippingAddress types.Address        `json:"shipping_address"`
	CouponApplied   *types.AppliedCoupon `json:"coupon_applied,omitempty"`
	DeliveryNotes   *string              `json:"delivery_notes,omitempty"`
	Tracking        *types.TrackingInfo  `json:"tracking,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// CreateOrderInput captures a checkout request. Payment defaults to cash on
// delivery, the only supported method.
type CreateOrderInput struct {
	ShippingAddress types.Address
	PaymentMethod   string
	DeliveryNotes   *string
}

// UpdateStatusInput carries a staff status change plus optional carrier info.
type UpdateStatusInput struct {
	Status         string
	Carrier        string
	TrackingNumber string
}

// ListResult is one page of orders plus the cursor for the next page.
type ListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// FromModel maps the persistence model to its DTO.
func FromModel(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:              order.ID,
		UserID:          order.UserID,
		Items:           make([]OrderItemDTO, 0, len(order.Items)),
		Subtotal:        order.Subtotal,
		Discount:        order.Discount,
		Total:           order.Total,
		Status:          order.Status,
		PaymentMethod:   order.PaymentMethod,
		ShippingAddress: order.ShippingAddress,
		CouponApplied:   order.CouponApplied,
		DeliveryNotes:   order.DeliveryNotes,
		Tracking:        order.Tracking,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Variant:   item.Variant,
			ImageURL:  item.ImageURL,
			LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return dto
}
