package products

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
	"github.com/freshhfarm/storefront-backend/pkg/db/models"
	"github.com/freshhfarm/storefront-backend/pkg/enums"
	pkgerrors "github.com/freshhfarm/storefront-backend/pkg/errors"
	"github.com/freshhfarm/storefront-backend/pkg/logger"
	"github.com/freshhfarm/storefront-backend/pkg/pagination"
	"github.com/freshhfarm/storefront-backend/pkg/types"
)

// Write access to the catalog is restricted to fulfillment staff and admins.
var catalogWriteRoles = []enums.UserRole{enums.UserRoleInventory, enums.UserRoleAdmin}

// Service exposes catalog operations.
type Service interface {
	List(ctx context.Context, filters ListFilters, page pagination.Params) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, caller *models.User, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, caller *models.User, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, caller *models.User, id uuid.UUID) error
	AddReview(ctx context.Context, caller *models.User, id uuid.UUID, input AddReviewInput) (*ProductDTO, error)
}

type service struct {
	repo ProductRepository
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds the catalog service.
func NewService(repo ProductRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

// List is the public browse endpoint.
func (s *service) List(ctx context.Context, filters ListFilters, page pagination.Params) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if filters.Category != nil && !filters.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category").WithDetails(map[string]any{"category": string(*filters.Category)})
	}

	limit := pagination.NormalizeLimit(page.Limit)
	rows, err := s.repo.List(ctx, filters, cursor, pagination.LimitWithBuffer(page.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}

	result := &ListResult{Products: make([]ProductDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Products = append(result.Products, *FromModel(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

func (s *service) Create(ctx context.Context, caller *models.User, input CreateProductInput) (*ProductDTO, error) {
	if err := users.Authorize(caller, catalogWriteRoles...); err != nil {
		return nil, err
	}
	if err := validateListing(input.Name, input.Description, input.Category, input.OriginalPrice, input.OfferPrice); err != nil {
		return nil, err
	}
	if input.InStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = "kg"
	}

	product := &models.Product{
		Name:          strings.TrimSpace(input.Name),
		Description:   strings.TrimSpace(input.Description),
		OriginalPrice: input.OriginalPrice,
		OfferPrice:    input.OfferPrice,
		Category:      input.Category,
		ImageURLs:     input.ImageURLs,
		InStock:       input.InStock,
		Unit:          unit,
		NutritionInfo: input.NutritionInfo,
		Origin:        input.Origin,
		IsOrganic:     input.IsOrganic,
		IsSeasonal:    input.IsSeasonal,
		Variants:      input.Variants,
		Reviews:       types.Reviews{},
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating product")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "product_id", created.ID.String()), "product.created")
	}
	return FromModel(created), nil
}

func (s *service) Update(ctx context.Context, caller *models.User, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if err := users.Authorize(caller, catalogWriteRoles...); err != nil {
		return nil, err
	}

	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.OriginalPrice != nil {
		product.OriginalPrice = *input.OriginalPrice
	}
	if input.OfferPrice != nil {
		product.OfferPrice = *input.OfferPrice
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.ImageURLs != nil {
		product.ImageURLs = *input.ImageURLs
	}
	if input.InStock != nil {
		if *input.InStock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		product.InStock = *input.InStock
	}
	if input.Unit != nil {
		product.Unit = strings.TrimSpace(*input.Unit)
	}
	if input.NutritionInfo != nil {
		product.NutritionInfo = input.NutritionInfo
	}
	if input.Origin != nil {
		product.Origin = input.Origin
	}
	if input.IsOrganic != nil {
		product.IsOrganic = *input.IsOrganic
	}
	if input.IsSeasonal != nil {
		product.IsSeasonal = *input.IsSeasonal
	}
	if input.Variants != nil {
		product.Variants = *input.Variants
	}

	if err := validateListing(product.Name, product.Description, product.Category, product.OriginalPrice, product.OfferPrice); err != nil {
		return nil, err
	}

	updated, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating product")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, caller *models.User, id uuid.UUID) error {
	if err := users.Authorize(caller, catalogWriteRoles...); err != nil {
		return err
	}
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting product")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "product_id", id.String()), "product.deleted")
	}
	return nil
}

// AddReview appends a review and refreshes the cached rating summary. One
// review per user per product; resubmission replaces the earlier one.
func (s *service) AddReview(ctx context.Context, caller *models.User, id uuid.UUID, input AddReviewInput) (*ProductDTO, error) {
	if err := users.Authorize(caller); err != nil {
		return nil, err
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	review := types.Review{
		UserID:    caller.ID,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
		CreatedAt: s.now().UTC(),
	}

	replaced := false
	for i := range product.Reviews {
		if product.Reviews[i].UserID == caller.ID {
			product.Reviews[i] = review
			replaced = true
			break
		}
	}
	if !replaced {
		product.Reviews = append(product.Reviews, review)
	}
	product.Ratings = product.Reviews.Summarize()

	updated, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving review")
	}
	return FromModel(updated), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	return product, nil
}

func validateListing(name, description string, category enums.ProductCategory, original, offer decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(description) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if !category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown category").WithDetails(map[string]any{"category": string(category)})
	}
	if !offer.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "offer price must be positive")
	}
	if !original.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "original price must be positive")
	}
	// The offer price is deliberately not checked against the original
	// price; listings may carry an offer above list.
	return nil
}
