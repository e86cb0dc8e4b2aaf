package domain

import (
	"strings"
	"time"
)

// UserRole enumerates the closed set of organization roles.
type UserRole string

const (
	RoleAgent      UserRole = "AGENT"
	RoleSupervisor UserRole = "SUPERVISOR"
	RoleAdmin      UserRole = "ADMIN"
)

// ValidRole reports whether the value is one of the three known roles.
func ValidRole(role UserRole) bool {
	switch role {
	case RoleAgent, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

// User is an organization member. OrganizationID is nil until the user
// has created or joined an organization; users without one cannot own
// tenant-scoped records.
type User struct {
	ID             string
	OrganizationID *string
	Username       string
	Email          string
	FirstName      string
	LastName       string
	Role           UserRole
	PasswordHash   string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DisplayName returns the trimmed first/last name pair, falling back to
// the username when both are blank.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Username
	}
	return name
}
