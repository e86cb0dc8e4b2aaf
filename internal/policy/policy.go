package policy

import (
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Actor is the per-request identity the policy operates on. It is built
// once by the auth middleware and threaded explicitly through every
// service call; there is no ambient current-user state.
type Actor struct {
	ID             string
	OrganizationID string
	Role           domain.UserRole
}

// CanManageOrg gates the organization admin surface: user management,
// group management, membership rosters, org-wide stats.
func CanManageOrg(actor Actor) bool {
	return actor.Role == domain.RoleAdmin || actor.Role == domain.RoleSupervisor
}

// CanAssign reports whether the actor may assign the ticket: org
// admins/supervisors always, otherwise only the ticket group's manager.
func CanAssign(actor Actor, group *domain.Group) bool {
	if CanManageOrg(actor) {
		return true
	}
	return group != nil && group.ManagerID != nil && *group.ManagerID == actor.ID
}

// CanClose reports whether the actor may close the ticket: the current
// assignee, or org admins/supervisors.
func CanClose(actor Actor, ticket *domain.Ticket) bool {
	if CanManageOrg(actor) {
		return true
	}
	return ticket.AssigneeID != nil && *ticket.AssigneeID == actor.ID
}

// CanView is the object-level mirror of the list predicate rendered by
// TicketScope. Unassigned tickets are visible only to the group's
// manager (the triage gate); once assigned, every group member can see
// and collaborate. Creators and assignees retain visibility regardless
// of membership changes.
func CanView(actor Actor, ticket *domain.Ticket, group *domain.Group, memberGroupIDs map[string]struct{}) bool {
	if ticket.OrganizationID != actor.OrganizationID {
		return false
	}
	if CanManageOrg(actor) {
		return true
	}
	if ticket.CreatedByID == actor.ID {
		return true
	}
	if ticket.AssigneeID != nil && *ticket.AssigneeID == actor.ID {
		return true
	}
	if ticket.AssigneeID == nil {
		return group != nil && group.ManagerID != nil && *group.ManagerID == actor.ID
	}
	_, member := memberGroupIDs[ticket.GroupID]
	return member
}

// TicketScope is the query-level form of the visibility predicate.
// A nil ActorID means full tenant visibility; otherwise the repository
// restricts rows to the four-clause agent predicate for that actor.
type TicketScope struct {
	OrganizationID string
	ActorID        *string
}

// ScopeFor derives the listing scope for an actor.
func ScopeFor(actor Actor) TicketScope {
	scope := TicketScope{OrganizationID: actor.OrganizationID}
	if !CanManageOrg(actor) {
		id := actor.ID
		scope.ActorID = &id
	}
	return scope
}
