package domain

import "time"

// Group is a work queue within an organization. The manager, when set,
// must belong to the same organization and is the triage gate for the
// group's unassigned tickets.
type Group struct {
	ID             string
	OrganizationID string
	Name           string
	ManagerID      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// GroupMembership joins a user to a group. The (group, user) pair is
// unique; membership defines who can see the group's assigned tickets.
type GroupMembership struct {
	ID        string
	GroupID   string
	UserID    string
	CreatedAt time.Time
}

// GroupMember is the roster view of a membership row.
type GroupMember struct {
	ID       string
	Username string
	Name     string
	Role     UserRole
	IsActive bool
}
