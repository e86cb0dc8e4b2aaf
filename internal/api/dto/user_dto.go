package dto

import (
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RegisterRequest payload. Provide organization_name to create a new
// organization or organization_code to join an existing one.
type RegisterRequest struct {
	Username         string          `json:"username"`
	Email            string          `json:"email"`
	Password         string          `json:"password"`
	FirstName        string          `json:"first_name"`
	LastName         string          `json:"last_name"`
	OrganizationName string          `json:"organization_name"`
	OrganizationCode string          `json:"organization_code"`
	Role             domain.UserRole `json:"role"`
}

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse returns the user plus an access token.
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"access"`
	ExpiresAt int64        `json:"expires_at"`
}

// UserResponse represents a user.
type UserResponse struct {
	ID             string          `json:"id"`
	OrganizationID *string         `json:"organization_id"`
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Name           string          `json:"name"`
	Role           domain.UserRole `json:"role"`
	IsActive       bool            `json:"is_active"`
}

// OrganizationResponse represents an organization. The invite code is
// only included on the admin surface.
type OrganizationResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Domain     string `json:"domain"`
	InviteCode string `json:"invite_code,omitempty"`
}

// CreateUserRequest payload for org user administration.
type CreateUserRequest struct {
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Role      domain.UserRole `json:"role"`
}

// UpdateUserRequest payload; omitted fields are left unchanged.
type UpdateUserRequest struct {
	Email     *string          `json:"email"`
	FirstName *string          `json:"first_name"`
	LastName  *string          `json:"last_name"`
	Role      *domain.UserRole `json:"role"`
	IsActive  *bool            `json:"is_active"`
}

// UserFromDomain maps a domain user to its response form.
func UserFromDomain(user *domain.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		OrganizationID: user.OrganizationID,
		Username:       user.Username,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Name:           user.DisplayName(),
		Role:           user.Role,
		IsActive:       user.IsActive,
	}
}
