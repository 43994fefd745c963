package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/freshhfarm/storefront-backend/internal/cart"
	"github.com/freshhfarm/storefront-backend/internal/coupons"
	"github.com/freshhfarm/storefront-backend/internal/products"
	"github.com/freshhfarm/storefront-backend/internal/users"
	"github.com/freshhfarm/storefront-backend/pkg/db/models"
	"github.com/freshhfarm/storefront-backend/pkg/enums"
	pkgerrors "github.com/freshhfarm/storefront-backend/pkg/errors"
	"github.com/freshhfarm/storefront-backend/pkg/logger"
	"github.com/freshhfarm/storefront-backend/pkg/pagination"
	"github.com/freshhfarm/storefront-backend/pkg/types"
)

// Roles allowed to read the full order book and to move orders through
// fulfillment.
var (
	orderReadRoles   = []enums.UserRole{enums.UserRoleAdmin, enums.UserRoleSeller, enums.UserRoleSupport}
	orderStatusRoles = []enums.UserRole{enums.UserRoleAdmin, enums.UserRoleSeller}
)

// txRunner executes fn inside a database transaction. *db.Client satisfies it.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type activityRecorder interface {
	AppendActivity(ctx context.Context, id uuid.UUID, entry types.ActivityEntry) error
}

// Service exposes checkout and order management.
type Service interface {
	Create(ctx context.Context, caller *models.User, input CreateOrderInput) (*OrderDTO, error)
	ListMine(ctx context.Context, caller *models.User, params pagination.Params) (*ListResult, error)
	List(ctx context.Context, caller *models.User, params pagination.Params) (*ListResult, error)
	Get(ctx context.Context, caller *models.User, id uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, caller *models.User, id uuid.UUID, input UpdateStatusInput) (*OrderDTO, error)
	Cancel(ctx context.Context, caller *models.User, id uuid.UUID) (*OrderDTO, error)
}

type service struct {
	repo         OrderRepository
	carts        cart.CartRepository
	products     products.ProductRepository
	coupons      coupons.CouponRepository
	tx           txRunner
	activity     activityRecorder
	minimumTotal decimal.Decimal
	logg         *logger.Logger
	now          func() time.Time
}

// NewService wires the order service. The activity recorder is optional.
func NewService(
	repo OrderRepository,
	carts cart.CartRepository,
	productRepo products.ProductRepository,
	couponRepo coupons.CouponRepository,
	tx txRunner,
	activity activityRecorder,
	minimumTotal int,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders: repository is required")
	}
	if carts == nil {
		return nil, fmt.Errorf("orders: cart repository is required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("orders: product repository is required")
	}
	if couponRepo == nil {
		return nil, fmt.Errorf("orders: coupon repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("orders: transaction runner is required")
	}
	return &service{
		repo:         repo,
		carts:        carts,
		products:     productRepo,
		coupons:      couponRepo,
		tx:           tx,
		activity:     activity,
		minimumTotal: decimal.NewFromInt(int64(minimumTotal)),
		logg:         logg,
		now:          time.Now,
	}, nil
}

// Create places an order from the caller's cart: line snapshots, server-side
// totals, stock decrements and the cart wipe happen in a single transaction.
func (s *service) Create(ctx context.Context, caller *models.User, input CreateOrderInput) (*OrderDTO, error) {
	if err := users.Authorize(caller); err != nil {
		return nil, err
	}

	method := enums.PaymentMethodCOD
	if raw := strings.TrimSpace(input.PaymentMethod); raw != "" {
		parsed, err := enums.ParsePaymentMethod(strings.ToLower(raw))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "only cash on delivery is supported")
		}
		method = parsed
	}

	address := input.ShippingAddress.Normalize()
	if address.Street == "" || address.City == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address requires street and city")
	}

	record, err := s.carts.FindByUser(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	lines := activeLines(record.Items)
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	coupon, err := s.redeemableCoupon(ctx, record.CouponCode)
	if err != nil {
		return nil, err
	}

	quote, err := cart.BuildQuote(lines, coupon)
	if err != nil {
		return nil, err
	}

	if quote.Total.LessThan(s.minimumTotal) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("order total must be at least %s", s.minimumTotal)).
			WithDetails(map[string]any{"minimum_total": s.minimumTotal, "total": quote.Total})
	}

	order := &models.Order{
		UserID:          caller.ID,
		Subtotal:        quote.Subtotal,
		Discount:        quote.Discount,
		Total:           quote.Total,
		Status:          enums.OrderStatusProcessing,
		PaymentMethod:   method,
		ShippingAddress: address,
		CouponApplied:   quote.Coupon,
		DeliveryNotes:   input.DeliveryNotes,
		Items:           snapshotLines(lines),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		productRepo := s.products.WithTx(tx)
		for _, line := range lines {
			if err := productRepo.AdjustStock(ctx, line.ProductID, -line.Quantity); err != nil {
				return err
			}
		}
		if coupon != nil {
			if err := s.coupons.WithTx(tx).IncrementUsage(ctx, coupon.ID); err != nil {
				return err
			}
		}
		cartRepo := s.carts.WithTx(tx)
		if err := cartRepo.ClearItems(ctx, record.ID); err != nil {
			return err
		}
		return cartRepo.SetCoupon(ctx, record.ID, nil)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "placing order")
	}

	s.recordOrderActivity(ctx, caller.ID, types.ActivityKindOrderPlaced, order)
	return FromModel(order), nil
}

// ListMine returns the caller's orders newest-first.
func (s *service) ListMine(ctx context.Context, caller *models.User, params pagination.Params) (*ListResult, error) {
	if err := users.Authorize(caller); err != nil {
		return nil, err
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListByUser(ctx, caller.ID, cursor, pagination.LimitWithBuffer(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return buildPage(rows, limit), nil
}

// List returns a page across all orders; staff only.
func (s *service) List(ctx context.Context, caller *models.User, params pagination.Params) (*ListResult, error) {
	if err := users.Authorize(caller, orderReadRoles...); err != nil {
		return nil, err
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, cursor, pagination.LimitWithBuffer(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return buildPage(rows, limit), nil
}

// Get loads one order; the owner and admins may read it.
func (s *service) Get(ctx context.Context, caller *models.User, id uuid.UUID) (*OrderDTO, error) {
	if err := users.Authorize(caller); err != nil {
		return nil, err
	}
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != caller.ID {
		if err := users.Authorize(caller, enums.UserRoleAdmin); err != nil {
			return nil, err
		}
	}
	return FromModel(order), nil
}

// UpdateStatus moves the order to any valid status. Returned is only
// reachable through this staff path.
func (s *service) UpdateStatus(ctx context.Context, caller *models.User, id uuid.UUID, input UpdateStatusInput) (*OrderDTO, error) {
	if err := users.Authorize(caller, orderStatusRoles...); err != nil {
		return nil, err
	}
	status, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	var tracking *types.TrackingInfo
	if input.Carrier != "" || input.TrackingNumber != "" {
		at := s.now().UTC()
		tracking = &types.TrackingInfo{
			Carrier:        input.Carrier,
			TrackingNumber: input.TrackingNumber,
			UpdatedAt:      &at,
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, status, tracking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating order status")
	}
	order.Status = status
	if tracking != nil {
		order.Tracking = tracking
	}
	return FromModel(order), nil
}

// Cancel lets the buyer cancel their own order while it has not shipped.
func (s *service) Cancel(ctx context.Context, caller *models.User, id uuid.UUID) (*OrderDTO, error) {
	if err := users.Authorize(caller); err != nil {
		return nil, err
	}
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != caller.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not your order")
	}
	// Cancelling an already-cancelled order is a no-op, not an error.
	if order.Status == enums.OrderStatusCancelled {
		return FromModel(order), nil
	}
	if !order.Status.Cancellable() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order can no longer be cancelled in status %s", order.Status))
	}

	if err := s.repo.UpdateStatus(ctx, id, enums.OrderStatusCancelled, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancelling order")
	}
	order.Status = enums.OrderStatusCancelled

	s.recordOrderActivity(ctx, caller.ID, types.ActivityKindOrderCancel, order)
	return FromModel(order), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return order, nil
}

// redeemableCoupon resolves an attached cart coupon; codes that have lapsed
// since they were attached are ignored rather than blocking checkout.
func (s *service) redeemableCoupon(ctx context.Context, code *string) (*models.Coupon, error) {
	if code == nil {
		return nil, nil
	}
	coupon, err := s.coupons.FindByCode(ctx, *code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading coupon")
	}
	if !coupon.Redeemable(s.now()) {
		return nil, nil
	}
	return coupon, nil
}

func (s *service) recordOrderActivity(ctx context.Context, userID uuid.UUID, kind types.ActivityKind, order *models.Order) {
	if s.activity == nil {
		return
	}
	entry := types.ActivityEntry{
		Kind:  kind,
		At:    s.now().UTC(),
		Order: &types.OrderActivity{OrderID: order.ID, Total: order.Total},
	}
	if err := s.activity.AppendActivity(ctx, userID, entry); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "order_id", order.ID.String()), "orders.activity_append_failed")
	}
}

func activeLines(items []models.CartItem) []models.CartItem {
	lines := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.SavedForLater {
			continue
		}
		lines = append(lines, item)
	}
	return lines
}

// snapshotLines freezes cart lines into order lines. Name and image come from
// the preloaded product so later catalog edits never rewrite order history.
func snapshotLines(lines []models.CartItem) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		item := models.OrderItem{
			ProductID: line.ProductID,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Variant:   line.Variant,
		}
		if line.Product != nil {
			item.Name = line.Product.Name
			if len(line.Product.ImageURLs) > 0 {
				url := line.Product.ImageURLs[0]
				item.ImageURL = &url
			}
		}
		items = append(items, item)
	}
	return items
}

func buildPage(rows []models.Order, limit int) *ListResult {
	result := &ListResult{Orders: make([]OrderDTO, 0, min(len(rows), limit))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Orders = append(result.Orders, *FromModel(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result
}
