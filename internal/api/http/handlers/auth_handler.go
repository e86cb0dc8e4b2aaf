package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AuthHandler serves registration, login and the organization surface.
type AuthHandler struct {
	auth        *service.AuthService
	allowSignup bool
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService, allowSignup bool) *AuthHandler {
	return &AuthHandler{auth: authService, allowSignup: allowSignup}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	if !h.allowSignup {
		return apperrors.NewForbidden("signup is disabled")
	}

	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	result, err := h.auth.Register(c.Context(), service.RegisterInput{
		Username:         req.Username,
		Email:            req.Email,
		Password:         req.Password,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		OrganizationName: req.OrganizationName,
		OrganizationCode: req.OrganizationCode,
		Role:             req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(authResponse(result))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	result, err := h.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(authResponse(result))
}

// Me handles GET /me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(dto.UserFromDomain(principal.User))
}

// Organization handles GET /organization. The invite code is only
// revealed to admins and supervisors.
func (h *AuthHandler) Organization(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	org, err := h.auth.Organization(c.Context(), principal.Actor)
	if err != nil {
		return err
	}

	resp := dto.OrganizationResponse{ID: org.ID, Name: org.Name, Domain: org.Domain}
	if policy.CanManageOrg(principal.Actor) {
		resp.InviteCode = org.InviteCode
	}
	return c.JSON(resp)
}

// RotateInvite handles POST /organization/rotate-invite.
func (h *AuthHandler) RotateInvite(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	org, err := h.auth.RotateInvite(c.Context(), principal.Actor)
	if err != nil {
		return err
	}
	return c.JSON(dto.OrganizationResponse{
		ID:         org.ID,
		Name:       org.Name,
		Domain:     org.Domain,
		InviteCode: org.InviteCode,
	})
}

func authResponse(result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		User:      dto.UserFromDomain(result.User),
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	}
}
