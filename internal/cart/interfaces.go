package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshhfarm/storefront-backend/pkg/db/models"
)

// CartRepository exposes cart persistence. AddItemQuantity must be atomic:
// concurrent adds of the same (cart, product, variant) line increment the
// stored quantity instead of duplicating rows or losing updates.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItemQuantity(ctx context.Context, item *models.CartItem) error
	FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error
	SetItemSavedForLater(ctx context.Context, cartID, itemID uuid.UUID, saved bool) error
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
	ClearItems(ctx context.Context, cartID uuid.UUID) error
	SetCoupon(ctx context.Context, cartID uuid.UUID, code *string) error
}
