package dto

import (
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateGroupRequest payload.
type CreateGroupRequest struct {
	Name string `json:"name"`
}

// SetManagerRequest payload.
type SetManagerRequest struct {
	Manager string `json:"manager"`
}

// GroupResponse represents a group.
type GroupResponse struct {
	ID             string  `json:"id"`
	OrganizationID string  `json:"organization_id"`
	Name           string  `json:"name"`
	ManagerID      *string `json:"manager_id"`
}

// GroupMemberResponse is one roster entry.
type GroupMemberResponse struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Name     string          `json:"name"`
	Role     domain.UserRole `json:"role"`
	IsActive bool            `json:"is_active"`
}

// GroupFromDomain maps a domain group to its response form.
func GroupFromDomain(group *domain.Group) GroupResponse {
	return GroupResponse{
		ID:             group.ID,
		OrganizationID: group.OrganizationID,
		Name:           group.Name,
		ManagerID:      group.ManagerID,
	}
}

// MemberFromDomain maps a roster entry.
func MemberFromDomain(member domain.GroupMember) GroupMemberResponse {
	return GroupMemberResponse{
		ID:       member.ID,
		Username: member.Username,
		Name:     member.Name,
		Role:     member.Role,
		IsActive: member.IsActive,
	}
}
