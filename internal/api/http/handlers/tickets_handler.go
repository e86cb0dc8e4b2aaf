package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketsHandler serves the ticket workflow endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(tickets *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets}
}

// Create handles POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	ticket, err := h.tickets.CreateTicket(c.Context(), principal.Actor, service.TicketCreateInput{
		GroupID:      req.GroupID,
		CustomerName: req.CustomerName,
		Subject:      req.Subject,
		Description:  req.Description,
		Priority:     req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TicketFromDomain(ticket))
}

// List handles GET /tickets. Status and priority filters accept
// comma-separated values; search matches subject, description and
// customer name.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	filter := service.TicketListFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if groupID := c.Query("group_id"); groupID != "" {
		filter.GroupID = &groupID
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.SearchTerm = &search
	}
	for _, raw := range splitCSV(c.Query("status")) {
		status := domain.TicketStatus(strings.ToUpper(raw))
		if !domain.ValidStatus(status) {
			return apperrors.NewValidationError("invalid status filter", map[string]any{"status": raw})
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	for _, raw := range splitCSV(c.Query("priority")) {
		priority := domain.TicketPriority(strings.ToUpper(raw))
		if !domain.ValidPriority(priority) {
			return apperrors.NewValidationError("invalid priority filter", map[string]any{"priority": raw})
		}
		filter.Priorities = append(filter.Priorities, priority)
	}

	tickets, err := h.tickets.ListTickets(c.Context(), principal.Actor, filter)
	if err != nil {
		return err
	}

	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.TicketFromDomain(&tickets[i]))
	}
	return c.JSON(fiber.Map{"items": items, "count": len(items)})
}

// Get handles GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	ticket, comments, attachments, err := h.tickets.GetTicket(c.Context(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}

	resp := dto.TicketDetailResponse{
		TicketResponse: dto.TicketFromDomain(ticket),
		Comments:       make([]dto.CommentResponse, 0, len(comments)),
		Attachments:    make([]dto.AttachmentResponse, 0, len(attachments)),
	}
	for i := range comments {
		resp.Comments = append(resp.Comments, dto.CommentFromDomain(&comments[i]))
	}
	for i := range attachments {
		resp.Attachments = append(resp.Attachments, dto.AttachmentFromDomain(&attachments[i]))
	}
	return c.JSON(resp)
}

// Assign handles POST /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	ticket, err := h.tickets.Assign(c.Context(), principal.Actor, c.Params("id"), req.Assignee)
	if err != nil {
		return err
	}
	return c.JSON(dto.TicketFromDomain(ticket))
}

// Close handles POST /tickets/:id/close.
func (h *TicketsHandler) Close(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CloseTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	ticket, err := h.tickets.Close(c.Context(), principal.Actor, c.Params("id"), req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(dto.TicketFromDomain(ticket))
}

// AddComment handles POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	comment, err := h.tickets.AddComment(c.Context(), principal.Actor, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CommentFromDomain(comment))
}

// AddAttachment handles POST /tickets/:id/attachments.
func (h *TicketsHandler) AddAttachment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateAttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	attachment, err := h.tickets.AddAttachment(c.Context(), principal.Actor, c.Params("id"), req.FileKey, req.FileName)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AttachmentFromDomain(attachment))
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
