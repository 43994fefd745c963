package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/freshhfarm/storefront-backend/pkg/enums"
	"github.com/freshhfarm/storefront-backend/pkg/types"
)

// User mirrors an identity-provider account. Records are created and kept in
// sync by the provider's webhook; the role field is owned by this service.
type User struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClerkID     string             `gorm:"column:clerk_id;not null;uniqueIndex"`
	Email       string             `gorm:"column:email;type:text;not null;uniqueIndex"`
	FirstName   string             `gorm:"column:first_name;not null"`
	LastName    string             `gorm:"column:last_name;not null;default:''"`
	ImageURL    *string            `gorm:"column:image_url"`
	PhoneNumber *string            `gorm:"column:phone_number"`
	Role        enums.UserRole     `gorm:"column:role;not null;default:'customer'"`
	Permissions pq.StringArray     `gorm:"column:permissions;type:text[];not null;default:ARRAY[]::text[]"`
	Addresses   types.AddressList  `gorm:"column:addresses;type:jsonb;serializer:json"`
	ActivityLog types.ActivityLog  `gorm:"column:activity_log;type:jsonb;serializer:json"`
	IsActive    bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
