package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// UserService provides org-scoped user administration for admins and
// supervisors.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// UserCreateInput describes the admin user-creation payload.
type UserCreateInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.UserRole
}

// UserUpdateInput carries optional field updates; nil leaves a field
// unchanged.
type UserUpdateInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Role      *domain.UserRole
	IsActive  *bool
}

// ListUsers returns users of the actor's organization.
func (s *UserService) ListUsers(ctx context.Context, actor policy.Actor, limit, offset int) ([]domain.User, error) {
	if !policy.CanManageOrg(actor) {
		return nil, apperrors.NewForbidden("admin or supervisor role required")
	}
	users, err := s.users.ListByOrganization(ctx, actor.OrganizationID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// CreateUser creates a user inside the actor's organization.
func (s *UserService) CreateUser(ctx context.Context, actor policy.Actor, input UserCreateInput) (*domain.User, error) {
	if !policy.CanManageOrg(actor) {
		return nil, apperrors.NewForbidden("admin or supervisor role required")
	}
	username := strings.TrimSpace(input.Username)
	if len(username) < 3 {
		return nil, apperrors.NewValidationError("username must be at least 3 characters", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	role := input.Role
	if role == "" {
		role = domain.RoleAgent
	}
	if !domain.ValidRole(role) {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewConflict("username is already taken", map[string]any{"username": username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	orgID := actor.OrganizationID
	user := &domain.User{
		OrganizationID: &orgID,
		Username:       username,
		Email:          strings.TrimSpace(input.Email),
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		Role:           role,
		PasswordHash:   hash,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateUser applies partial updates to a user in the actor's
// organization.
func (s *UserService) UpdateUser(ctx context.Context, actor policy.Actor, userID string, input UserUpdateInput) (*domain.User, error) {
	if !policy.CanManageOrg(actor) {
		return nil, apperrors.NewForbidden("admin or supervisor role required")
	}
	user, err := s.users.GetByIDInOrganization(ctx, userID, actor.OrganizationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}

	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Role != nil {
		if !domain.ValidRole(*input.Role) {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *input.Role})
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
