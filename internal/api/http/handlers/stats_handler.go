package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// StatsHandler serves the dashboard rollups.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs the handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Admin handles GET /stats/admin: the org-wide rollup.
func (h *StatsHandler) Admin(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	result, err := h.stats.AdminStats(c.Context(), principal.Actor)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Me handles GET /stats/me: the rollup over the caller's own
// visibility scope.
func (h *StatsHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	result, err := h.stats.MyStats(c.Context(), principal.Actor)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
