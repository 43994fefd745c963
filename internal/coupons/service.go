package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/freshhfarm/storefront-backend/internal/users"
	"github.com/freshhfarm/storefront-backend/pkg/db"
	"github.com/freshhfarm/storefront-backend/pkg/db/models"
	"github.com/freshhfarm/storefront-backend/pkg/enums"
	pkgerrors "github.com/freshhfarm/storefront-backend/pkg/errors"
	"github.com/freshhfarm/storefront-backend/pkg/logger"
)

// CouponRepository is the persistence surface the service depends on.
type CouponRepository interface {
	WithTx(tx *gorm.DB) CouponRepository
	Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error)
	Save(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error)
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	List(ctx context.Context) ([]models.Coupon, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateCouponInput carries the fields to publish a coupon.
type CreateCouponInput struct {
	Code            string
	Description     *string
	DiscountType    enums.DiscountType
	DiscountValue   decimal.Decimal
	MinimumPurchase decimal.Decimal
	ValidFrom       time.Time
	ValidUntil      *time.Time
	UsageLimit      *int
}

// Service exposes coupon administration and redemption checks.
type Service interface {
	Create(ctx context.Context, caller *models.User, input CreateCouponInput) (*models.Coupon, error)
	List(ctx context.Context, caller *models.User) ([]models.Coupon, error)
	Delete(ctx context.Context, caller *models.User, id uuid.UUID) error
	// Resolve returns the coupon matching code if it is redeemable right
	// now; inactive, not-yet-valid and expired codes all surface as not
	// found so probing reveals nothing.
	Resolve(ctx context.Context, code string) (*models.Coupon, error)
}

type service struct {
	repo CouponRepository
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds the coupons service.
func NewService(repo CouponRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupons repository required")
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, caller *models.User, input CreateCouponInput) (*models.Coupon, error) {
	if err := users.Authorize(caller, enums.UserRoleAdmin); err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	if !input.DiscountType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown discount type")
	}
	if !input.DiscountValue.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
	}
	if input.DiscountType == enums.DiscountTypePercentage && input.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
	}
	if input.MinimumPurchase.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum purchase cannot be negative")
	}
	if input.ValidUntil != nil && input.ValidUntil.Before(input.ValidFrom) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid_until precedes valid_from")
	}

	validFrom := input.ValidFrom
	if validFrom.IsZero() {
		validFrom = s.now().UTC()
	}

	coupon := &models.Coupon{
		Code:            code,
		Description:     input.Description,
		DiscountType:    input.DiscountType,
		DiscountValue:   input.DiscountValue,
		MinimumPurchase: input.MinimumPurchase,
		IsActive:        true,
		ValidFrom:       validFrom,
		ValidUntil:      input.ValidUntil,
		UsageLimit:      input.UsageLimit,
	}

	created, err := s.repo.Create(ctx, coupon)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_coupons_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating coupon")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "coupon_code", created.Code), "coupon.created")
	}
	return created, nil
}

func (s *service) List(ctx context.Context, caller *models.User) ([]models.Coupon, error) {
	if err := users.Authorize(caller, enums.UserRoleAdmin); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing coupons")
	}
	return rows, nil
}

func (s *service) Delete(ctx context.Context, caller *models.User, id uuid.UUID) error {
	if err := users.Authorize(caller, enums.UserRoleAdmin); err != nil {
		return err
	}
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting coupon")
	}
	return nil
}

func (s *service) Resolve(ctx context.Context, code string) (*models.Coupon, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Invalid or expired coupon")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading coupon")
	}
	if !coupon.Redeemable(s.now().UTC()) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Invalid or expired coupon")
	}
	return coupon, nil
}
