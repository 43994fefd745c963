package users

import (
	"github.com/freshhfarm/storefront-backend/pkg/db/models"
	"github.com/freshhfarm/storefront-backend/pkg/enums"
	pkgerrors "github.com/freshhfarm/storefront-backend/pkg/errors"
)

// Authorize checks that the caller holds one of the allowed roles. A nil
// caller means the request never passed authentication and yields 401; an
// authenticated caller with the wrong role yields 403. An empty allow list
// only requires authentication.
func Authorize(caller *models.User, allowed ...enums.UserRole) error {
	if caller == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if !caller.IsActive {
		return pkgerrors.New(pkgerrors.CodeForbidden, "account deactivated")
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, role := range allowed {
		if caller.Role == role {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
}
