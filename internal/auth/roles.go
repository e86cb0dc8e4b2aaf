package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/policy"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// RequireOrganization ensures the caller belongs to an organization;
// users without one cannot touch tenant-scoped records.
func RequireOrganization() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.User.OrganizationID == nil {
			return apperrors.NewForbidden("organization membership required")
		}
		return c.Next()
	}
}

// RequireOrgManager gates the organization admin surface (user, group
// and membership management, org-wide stats).
func RequireOrgManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.User.OrganizationID == nil || !policy.CanManageOrg(principal.Actor) {
			return apperrors.NewForbidden("admin or supervisor role required")
		}
		return c.Next()
	}
}
