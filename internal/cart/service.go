package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshhfarm/storefront-backend/internal/users"
	"github.com/freshhfarm/storefront-backend/pkg/db/models"
	pkgerrors "github.com/freshhfarm/storefront-backend/pkg/errors"
	"github.com/freshhfarm/storefront-backend/pkg/logger"
	"github.com/freshhfarm/storefront-backend/pkg/types"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type couponResolver interface {
	Resolve(ctx context.Context, code string) (*models.Coupon, error)
}

type activityRecorder interface {
	AppendActivity(ctx context.Context, id uuid.UUID, entry types.ActivityEntry) error
}

// Service exposes the customer cart operations.
type Service interface {
	Get(ctx context.Context, caller *models.User) (*CartDTO, error)
	AddItem(ctx context.Context, caller *models.User, input AddItemInput) (*CartDTO, error)
	UpdateItem(ctx context.Context, caller *models.User, itemID uuid.UUID, input UpdateItemInput) (*CartDTO, error)
	RemoveItem(ctx context.Context, caller *models.User, itemID uuid.UUID) (*CartDTO, error)
	ApplyCoupon(ctx context.Context, caller *models.User, code string) (*CartDTO, error)
	RemoveCoupon(ctx context.Context, caller *models.User) (*CartDTO, error)
	Clear(ctx context.Context, caller *models.User) (*CartDTO, error)
}

type service struct {
	repo     CartRepository
	products productLoader
	coupons  couponResolver
	activity activityRecorder
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the cart service backed by the provided stack.
func NewService(repo CartRepository, products productLoader, coupons couponResolver, activity activityRecorder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("coupon resolver required")
	}
	return &service{
		repo:     repo,
		products: products,
		coupons:  coupons,
		activity: activity,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Get returns the caller's cart, creating an empty one on first access. A
// coupon that stopped being redeemable since it was attached is dropped.
func (s *service) Get(ctx context.Context, caller *models.User) (*CartDTO, error) {
	if err := users.Authorize(caller); err != nil {
		return nil, err
	}
	record, err := s.repo.FindOrCreateByUser(ctx, caller.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	return s.priced(ctx, record)
}

// AddItem merges the quantity into the matching (product, variant) line.
func (s *service) AddItem(ctx context.Context, caller *models.User, input AddItemInput) (*CartDTO, error) {
	if err := users.Authorize(caller); err != nil {
		return nil, err
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}

	unitPrice := product.OfferPrice
	stock := product.InStock
	if !input.Variant.IsZero() {
		variant := product.Variants.Find(input.Variant)
		if variant == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product variant")
		}
		unitPrice = variant.OfferPrice
		stock = variant.InStock
	}
	if stock <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is out of stock")
	}

	record, err := s.repo.FindOrCreateByUser(ctx, caller.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	item := &models.CartItem{
		CartID:     record.ID,
		ProductID:  product.ID,
		Quantity:   input.Quantity,
		Variant:    input.Variant,
		VariantKey: input.Variant.Key(),
		UnitPrice:  unitPrice,
	}
	if err := s.repo.AddItemQuantity(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adding cart item")
	}

	return s.reload(ctx, caller)
}

// UpdateItem overwrites a line's quantity and/or saved-for-later flag.
// Quantity zero removes the line.
func (s *service) UpdateItem(ctx context.Context, caller *models.User, itemID uuid.UUID, input UpdateItemInput) (*CartDTO, error) {
	if err := users.Authorize(caller); err != nil {
		return nil, err
	}
	if input.Quantity == nil && input.SavedForLater == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	record, err := s.mustCart(ctx, caller)
	if err != nil {
		return nil, err
	}
	if _, err := s.mustItem(ctx, record.ID, itemID); err != nil {
		return nil, err
	}

	if input.Quantity != nil && *input.Quantity == 0 {
		if err := s.repo.DeleteItem(ctx, record.ID, itemID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing cart item")
		}
		return s.reload(ctx, caller)
	}

	if input.Quantity != nil {
		if err := s.repo.UpdateItemQuantity(ctx, record.ID, itemID, *input.Quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating cart item")
		}
	}
	if input.SavedForLater != nil {
		if err := s.repo.SetItemSavedForLater(ctx, record.ID, itemID, *input.SavedForLater); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating cart item")
		}
	}

	return s.reload(ctx, caller)
}

func (s *service) RemoveItem(ctx context.Context, caller *models.User, itemID uuid.UUID) (*CartDTO, error) {
	if err := users.Authorize(caller); err != nil {
		return nil, err
	}

	record, err := s.mustCart(ctx, caller)
	if err != nil {
		return nil, err
	}
	if _, err := s.mustItem(ctx, record.ID, itemID); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItem(ctx, record.ID, itemID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing cart item")
	}
	return s.reload(ctx, caller)
}

// ApplyCoupon resolves the code and attaches it. The coupon's minimum
// purchase is advisory and does not gate attachment.
func (s *service) ApplyCoupon(ctx context.Context, caller *models.User, code string) (*CartDTO, error) {
	if err := users.Authorize(caller); err != nil {
		return nil, err
	}

	coupon, err := s.coupons.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}

	record, err := s.mustCart(ctx, caller)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetCoupon(ctx, record.ID, &coupon.Code); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attaching coupon")
	}
	s.recordCouponChange(ctx, caller.ID, coupon.Code, true)

	return s.reload(ctx, caller)
}

func (s *service) RemoveCoupon(ctx context.Context, caller *models.User) (*CartDTO, error) {
	if err := users.Authorize(caller); err != nil {
		return nil, err
	}

	record, err := s.mustCart(ctx, caller)
	if err != nil {
		return nil, err
	}
	if record.CouponCode != nil {
		code := *record.CouponCode
		if err := s.repo.SetCoupon(ctx, record.ID, nil); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detaching coupon")
		}
		s.recordCouponChange(ctx, caller.ID, code, false)
	}
	return s.reload(ctx, caller)
}

// Clear removes every line and the coupon, leaving an empty cart.
func (s *service) Clear(ctx context.Context, caller *models.User) (*CartDTO, error) {
	if err := users.Authorize(caller); err != nil {
		return nil, err
	}

	record, err := s.mustCart(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ClearItems(ctx, record.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
	}
	if record.CouponCode != nil {
		if err := s.repo.SetCoupon(ctx, record.ID, nil); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detaching coupon")
		}
	}
	return s.reload(ctx, caller)
}

func (s *service) mustCart(ctx context.Context, caller *models.User) (*models.Cart, error) {
	record, err := s.repo.FindOrCreateByUser(ctx, caller.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	return record, nil
}

func (s *service) mustItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	item, err := s.repo.FindItem(ctx, cartID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart item")
	}
	return item, nil
}

func (s *service) reload(ctx context.Context, caller *models.User) (*CartDTO, error) {
	record, err := s.repo.FindByUser(ctx, caller.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reloading cart")
	}
	return s.priced(ctx, record)
}

// priced builds the quote for the cart, detaching a coupon that is no longer
// redeemable.
func (s *service) priced(ctx context.Context, record *models.Cart) (*CartDTO, error) {
	var coupon *models.Coupon
	if record.CouponCode != nil {
		resolved, err := s.coupons.Resolve(ctx, *record.CouponCode)
		switch {
		case err == nil:
			coupon = resolved
		case pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeNotFound:
			if detachErr := s.repo.SetCoupon(ctx, record.ID, nil); detachErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, detachErr, "detaching coupon")
			}
			record.CouponCode = nil
		default:
			return nil, err
		}
	}

	quote, err := BuildQuote(record.Items, coupon)
	if err != nil {
		return nil, err
	}

	return buildCartDTO(record, quote), nil
}

func (s *service) recordCouponChange(ctx context.Context, userID uuid.UUID, code string, applied bool) {
	if s.activity == nil {
		return
	}
	entry := types.ActivityEntry{
		Kind:   types.ActivityKindCouponChange,
		At:     s.now().UTC(),
		Coupon: &types.CouponActivity{Code: code, Applied: applied},
	}
	if err := s.activity.AppendActivity(ctx, userID, entry); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "coupon_code", code), "cart.activity_append_failed")
	}
}
