package controllers

import (
	"context"
	"io"
	"net/http"
	"time"

	"encoding/json"

	"github.com/go-chi/chi/v5"

	"github.com/freshhfarm/storefront-backend/api/middleware"
	"github.com/freshhfarm/storefront-backend/api/responses"
	"github.com/freshhfarm/storefront-backend/api/validators"
	"github.com/freshhfarm/storefront-backend/internal/users"
	"github.com/freshhfarm/storefront-backend/pkg/config"
	"github.com/freshhfarm/storefront-backend/pkg/enums"
	pkgerrors "github.com/freshhfarm/storefront-backend/pkg/errors"
	"github.com/freshhfarm/storefront-backend/pkg/identity"
	"github.com/freshhfarm/storefront-backend/pkg/logger"
	"github.com/freshhfarm/storefront-backend/pkg/types"
)

const webhookBodyLimit = 1 << 20

// webhookReplayGuard marks a delivery id as seen; a second sighting within
// the TTL returns false.
type webhookReplayGuard interface {
	MarkWebhookDelivery(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error)
}

type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		ImageURL       string `json:"image_url"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

type updateMeRequest struct {
	PhoneNumber *string            `json:"phone_number"`
	Addresses   *types.AddressList `json:"addresses"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// IdentityWebhook ingests user lifecycle events pushed by the identity
// provider. The raw body is HMAC-verified before parsing and each delivery id
// is only processed once.
func IdentityWebhook(cfg config.IdentityConfig, svc users.Service, guard webhookReplayGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading webhook body"))
			return
		}

		signature := r.Header.Get("X-Webhook-Signature")
		if err := identity.VerifyWebhookSignature(cfg.WebhookSecret, body, signature); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "webhook signature rejected"))
			return
		}

		if guard != nil {
			deliveryID := r.Header.Get("X-Webhook-Id")
			fresh, err := guard.MarkWebhookDelivery(r.Context(), deliveryID, 24*time.Hour)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "webhook replay check"))
				return
			}
			if !fresh {
				logg.Info(logg.WithField(r.Context(), "delivery_id", deliveryID), "webhook.replay_ignored")
				responses.WriteSuccess(w, map[string]string{"status": "already processed"})
				return
			}
		}

		var event webhookEvent
		if err := json.Unmarshal(body, &event); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parsing webhook payload"))
			return
		}
		if event.Data.ID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "webhook payload missing user id"))
			return
		}

		switch event.Type {
		case "user.created", "user.updated":
			input := users.WebhookUser{
				ClerkID:   event.Data.ID,
				FirstName: event.Data.FirstName,
				LastName:  event.Data.LastName,
			}
			if len(event.Data.EmailAddresses) > 0 {
				input.Email = event.Data.EmailAddresses[0].EmailAddress
			}
			if event.Data.ImageURL != "" {
				url := event.Data.ImageURL
				input.ImageURL = &url
			}
			dto, err := svc.SyncFromWebhook(r.Context(), input)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, dto)
		case "user.deleted":
			if err := svc.DeactivateFromWebhook(r.Context(), event.Data.ID); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
		default:
			logg.Info(logg.WithField(r.Context(), "event_type", event.Type), "webhook.event_ignored")
			responses.WriteSuccess(w, map[string]string{"status": "ignored"})
		}
	}
}

// Me returns the caller's profile.
func Me(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dto, err := svc.Me(r.Context(), middleware.CallerFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// UpdateMe edits the caller's phone number and saved addresses.
func UpdateMe(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateMeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateMe(r.Context(), middleware.CallerFromContext(r.Context()), users.UpdateMeInput{
			PhoneNumber: req.PhoneNumber,
			Addresses:   req.Addresses,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// UpdateUserRole reassigns a user's role; admin only.
func UpdateUserRole(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetID, err := validators.ParsePathUUID(chi.URLParam(r, "userId"), "user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateRoleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateStruct(&req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseUserRole(req.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown role"))
			return
		}

		dto, err := svc.UpdateRole(r.Context(), middleware.CallerFromContext(r.Context()), targetID, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
