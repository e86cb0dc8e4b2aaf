package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// GroupsHandler serves group and membership management.
type GroupsHandler struct {
	groups *service.GroupService
}

// NewGroupsHandler constructs the handler.
func NewGroupsHandler(groups *service.GroupService) *GroupsHandler {
	return &GroupsHandler{groups: groups}
}

// List handles GET /groups.
func (h *GroupsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	groups, err := h.groups.ListGroups(c.Context(), principal.Actor)
	if err != nil {
		return err
	}

	items := make([]dto.GroupResponse, 0, len(groups))
	for i := range groups {
		items = append(items, dto.GroupFromDomain(&groups[i]))
	}
	return c.JSON(fiber.Map{"items": items, "count": len(items)})
}

// Create handles POST /groups.
func (h *GroupsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	group, err := h.groups.CreateGroup(c.Context(), principal.Actor, req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.GroupFromDomain(group))
}

// SetManager handles POST /groups/:id/manager.
func (h *GroupsHandler) SetManager(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.SetManagerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	group, err := h.groups.SetManager(c.Context(), principal.Actor, c.Params("id"), req.Manager)
	if err != nil {
		return err
	}
	return c.JSON(dto.GroupFromDomain(group))
}

// ListMembers handles GET /groups/:id/members.
func (h *GroupsHandler) ListMembers(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	members, err := h.groups.ListMembers(c.Context(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}

	items := make([]dto.GroupMemberResponse, 0, len(members))
	for _, member := range members {
		items = append(items, dto.MemberFromDomain(member))
	}
	return c.JSON(fiber.Map{"items": items, "count": len(items)})
}

// AddMember handles POST /groups/:id/members/:userID.
func (h *GroupsHandler) AddMember(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.groups.AddMember(c.Context(), principal.Actor, c.Params("id"), c.Params("userID")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveMember handles DELETE /groups/:id/members/:userID.
func (h *GroupsHandler) RemoveMember(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.groups.RemoveMember(c.Context(), principal.Actor, c.Params("id"), c.Params("userID")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
