package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/freshhfarm/storefront-backend/pkg/db/models"
	"github.com/freshhfarm/storefront-backend/pkg/enums"
	"github.com/freshhfarm/storefront-backend/pkg/types"
)

// UserDTO is the transport shape for user payloads.
type UserDTO struct {
	ID          uuid.UUID         `json:"id"`
	ClerkID     string            `json:"clerk_id"`
	Email       string            `json:"email"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	ImageURL    *string           `json:"image_url,omitempty"`
	PhoneNumber *string           `json:"phone_number,omitempty"`
	Role        enums.UserRole    `json:"role"`
	Addresses   types.AddressList `json:"addresses"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// WebhookUser captures the profile fields the identity provider pushes on
// user.created and user.updated events.
type WebhookUser struct {
	ClerkID   string
	Email     string
	FirstName string
	LastName  string
	ImageURL  *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	addresses := u.Addresses
	if addresses == nil {
		addresses = types.AddressList{}
	}

	return &UserDTO{
		ID:          u.ID,
		ClerkID:     u.ClerkID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		ImageURL:    u.ImageURL,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		Addresses:   addresses,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
