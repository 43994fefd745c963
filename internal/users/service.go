package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshhfarm/storefront-backend/pkg/db/models"
	"github.com/freshhfarm/storefront-backend/pkg/enums"
	pkgerrors "github.com/freshhfarm/storefront-backend/pkg/errors"
	"github.com/freshhfarm/storefront-backend/pkg/logger"
	"github.com/freshhfarm/storefront-backend/pkg/types"
)

// Service exposes user profile and administration operations.
type Service interface {
	SyncFromWebhook(ctx context.Context, input WebhookUser) (*UserDTO, error)
	DeactivateFromWebhook(ctx context.Context, clerkID string) error
	Me(ctx context.Context, caller *models.User) (*UserDTO, error)
	UpdateMe(ctx context.Context, caller *models.User, input UpdateMeInput) (*UserDTO, error)
	UpdateRole(ctx context.Context, caller *models.User, targetID uuid.UUID, role enums.UserRole) (*UserDTO, error)
}

// UpdateMeInput carries the self-service profile fields a customer may edit.
type UpdateMeInput struct {
	PhoneNumber *string
	Addresses   *types.AddressList
}

type service struct {
	repo UserRepository
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds a users service backed by the provided repository.
func NewService(repo UserRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

// SyncFromWebhook upserts the local mirror of a provider user. New users
// start as customers; existing users keep their role and addresses while
// profile fields are refreshed.
func (s *service) SyncFromWebhook(ctx context.Context, input WebhookUser) (*UserDTO, error) {
	clerkID := strings.TrimSpace(input.ClerkID)
	if clerkID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "webhook payload missing user id")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "webhook payload missing email")
	}

	existing, err := s.repo.FindByClerkID(ctx, clerkID)
	switch {
	case err == nil:
		existing.Email = email
		existing.FirstName = strings.TrimSpace(input.FirstName)
		existing.LastName = strings.TrimSpace(input.LastName)
		existing.ImageURL = input.ImageURL
		existing.IsActive = true
		existing.ActivityLog = append(existing.ActivityLog, types.ActivityEntry{
			Kind: types.ActivityKindProfileSync,
			At:   s.now().UTC(),
		})
		updated, saveErr := s.repo.Save(ctx, existing)
		if saveErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, saveErr, "updating user")
		}
		return FromModel(updated), nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		user := &models.User{
			ClerkID:   clerkID,
			Email:     email,
			FirstName: strings.TrimSpace(input.FirstName),
			LastName:  strings.TrimSpace(input.LastName),
			ImageURL:  input.ImageURL,
			Role:      enums.UserRoleCustomer,
			IsActive:  true,
			ActivityLog: types.ActivityLog{{
				Kind: types.ActivityKindProfileSync,
				At:   s.now().UTC(),
			}},
		}
		created, createErr := s.repo.Create(ctx, user)
		if createErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "creating user")
		}
		if s.logg != nil {
			s.logg.Info(s.logg.WithUserID(ctx, created.ID.String()), "user.synced")
		}
		return FromModel(created), nil

	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading user")
	}
}

// DeactivateFromWebhook handles user.deleted events. The row is kept so
// order history stays attributable.
func (s *service) DeactivateFromWebhook(ctx context.Context, clerkID string) error {
	clerkID = strings.TrimSpace(clerkID)
	if clerkID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "webhook payload missing user id")
	}
	if err := s.repo.Deactivate(ctx, clerkID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivating user")
	}
	return nil
}

func (s *service) Me(ctx context.Context, caller *models.User) (*UserDTO, error) {
	if err := Authorize(caller); err != nil {
		return nil, err
	}
	return FromModel(caller), nil
}

// UpdateMe lets the caller edit their own contact fields.
func (s *service) UpdateMe(ctx context.Context, caller *models.User, input UpdateMeInput) (*UserDTO, error) {
	if err := Authorize(caller); err != nil {
		return nil, err
	}

	if input.PhoneNumber != nil {
		trimmed := strings.TrimSpace(*input.PhoneNumber)
		if trimmed == "" {
			caller.PhoneNumber = nil
		} else {
			caller.PhoneNumber = &trimmed
		}
	}
	if input.Addresses != nil {
		normalized := make(types.AddressList, 0, len(*input.Addresses))
		for _, addr := range *input.Addresses {
			addr = addr.Normalize()
			if addr.Street == "" || addr.City == "" {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "address requires street and city")
			}
			normalized = append(normalized, addr)
		}
		caller.Addresses = normalized
	}

	updated, err := s.repo.Save(ctx, caller)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving profile")
	}
	return FromModel(updated), nil
}

// UpdateRole changes another user's role. Admin only; the change is recorded
// in the target's activity log.
func (s *service) UpdateRole(ctx context.Context, caller *models.User, targetID uuid.UUID, role enums.UserRole) (*UserDTO, error) {
	if err := Authorize(caller, enums.UserRoleAdmin); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role").WithDetails(map[string]any{"role": string(role)})
	}
	if targetID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "target user id is required")
	}

	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading user")
	}

	if target.Role == role {
		return FromModel(target), nil
	}

	previous := target.Role
	target.Role = role
	target.ActivityLog = append(target.ActivityLog, types.ActivityEntry{
		Kind: types.ActivityKindRoleChanged,
		At:   s.now().UTC(),
		RoleChanged: &types.RoleChangedActivity{
			From: string(previous),
			To:   string(role),
		},
	})

	updated, err := s.repo.Save(ctx, target)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving role change")
	}

	if s.logg != nil {
		fields := map[string]any{
			"target_user_id": target.ID.String(),
			"from_role":      string(previous),
			"to_role":        string(role),
		}
		s.logg.Info(s.logg.WithFields(ctx, fields), "user.role_changed")
	}
	return FromModel(updated), nil
}
