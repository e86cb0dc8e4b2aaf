package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles everything the router wires up.
type RouteConfig struct {
	AuthMiddleware *auth.Middleware
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Groups         *handlers.GroupsHandler
	Stats          *handlers.StatsHandler
}

// RegisterRoutes mounts all endpoints. Everything under /api/v1 except
// register and login requires a bearer token; the org-scoped surface
// additionally requires organization membership, and the admin surface
// the ADMIN or SUPERVISOR role.
func RegisterRoutes(app *fiber.App, rc RouteConfig) {
	app.Get("/health/live", rc.Health.Live)
	app.Get("/health/ready", rc.Health.Ready)

	api := app.Group("/api/v1")
	api.Post("/auth/register", rc.Auth.Register)
	api.Post("/auth/login", rc.Auth.Login)

	authed := api.Group("", rc.AuthMiddleware.Handle)
	authed.Get("/me", rc.Auth.Me)

	org := authed.Group("", auth.RequireOrganization())
	org.Get("/organization", rc.Auth.Organization)
	org.Post("/organization/rotate-invite", auth.RequireOrgManager(), rc.Auth.RotateInvite)

	org.Post("/tickets", rc.Tickets.Create)
	org.Get("/tickets", rc.Tickets.List)
	org.Get("/tickets/:id", rc.Tickets.Get)
	org.Post("/tickets/:id/assign", rc.Tickets.Assign)
	org.Post("/tickets/:id/close", rc.Tickets.Close)
	org.Post("/tickets/:id/comments", rc.Tickets.AddComment)
	org.Post("/tickets/:id/attachments", rc.Tickets.AddAttachment)

	org.Get("/groups", rc.Groups.List)
	org.Post("/groups", auth.RequireOrgManager(), rc.Groups.Create)
	org.Post("/groups/:id/manager", auth.RequireOrgManager(), rc.Groups.SetManager)
	org.Get("/groups/:id/members", rc.Groups.ListMembers)
	org.Post("/groups/:id/members/:userID", auth.RequireOrgManager(), rc.Groups.AddMember)
	org.Delete("/groups/:id/members/:userID", auth.RequireOrgManager(), rc.Groups.RemoveMember)

	org.Get("/users", auth.RequireOrgManager(), rc.Users.List)
	org.Post("/users", auth.RequireOrgManager(), rc.Users.Create)
	org.Patch("/users/:id", auth.RequireOrgManager(), rc.Users.Update)

	org.Get("/stats/me", rc.Stats.Me)
	org.Get("/stats/admin", auth.RequireOrgManager(), rc.Stats.Admin)
}
