package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AuthService coordinates registration, the invite-code join flow and
// login.
type AuthService struct {
	users      repository.UserRepository
	orgs       repository.OrganizationRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	OrgRepo  repository.OrganizationRepository
}

// RegisterInput describes the registration payload. Exactly one of
// OrganizationName (create) and OrganizationCode (join) may be set;
// with neither, a personal organization is created.
type RegisterInput struct {
	Username         string
	Email            string
	Password         string
	FirstName        string
	LastName         string
	OrganizationName string
	OrganizationCode string
	Role             domain.UserRole
}

// AuthResult is a logged-in user plus their access token.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt int64
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		orgs:       deps.OrgRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the token manager for the auth middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Register creates an account, creating or joining an organization.
// Creating an organization makes the user its ADMIN; joining by invite
// code grants the requested role, defaulting to AGENT.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	orgName := strings.TrimSpace(input.OrganizationName)
	orgCode := strings.TrimSpace(input.OrganizationCode)

	if len(username) < 3 {
		return nil, apperrors.NewValidationError("username must be at least 3 characters", nil)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("valid email required", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if orgName != "" && orgCode != "" {
		return nil, apperrors.NewValidationError("provide either organization_name to create a new org, or organization_code to join an existing one, not both", nil)
	}
	if orgName == "" && orgCode == "" {
		orgName = username + "'s Organization"
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewConflict("username is already taken", map[string]any{"username": username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email is already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	var org *domain.Organization
	role := input.Role
	if orgName != "" {
		if _, err := s.orgs.GetByName(ctx, orgName); err == nil {
			return nil, apperrors.NewConflict("organization name already exists; use organization_code to join", map[string]any{"organization_name": orgName})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		org = &domain.Organization{
			Name:       orgName,
			InviteCode: mintInviteCode(),
		}
		if err := s.orgs.Create(ctx, org); err != nil {
			return nil, apperrors.MapError(err)
		}
		role = domain.RoleAdmin
	} else {
		existing, err := s.orgs.GetByInviteCode(ctx, orgCode)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("invalid organization code", nil)
			}
			return nil, apperrors.MapError(err)
		}
		org = existing
		if role == "" {
			role = domain.RoleAgent
		}
		if !domain.ValidRole(role) {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
		}
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		OrganizationID: &org.ID,
		Username:       username,
		Email:          email,
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		Role:           role,
		PasswordHash:   hash,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	return s.issueToken(user)
}

// Login authenticates by username and password.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorized("account disabled")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.issueToken(user)
}

// RotateInvite mints a fresh invite code for the actor's organization,
// invalidating the previous one.
func (s *AuthService) RotateInvite(ctx context.Context, actor policy.Actor) (*domain.Organization, error) {
	if !policy.CanManageOrg(actor) {
		return nil, apperrors.NewForbidden("admin or supervisor role required")
	}
	code := mintInviteCode()
	if err := s.orgs.UpdateInviteCode(ctx, actor.OrganizationID, code); err != nil {
		return nil, apperrors.MapError(err)
	}
	org, err := s.orgs.GetByID(ctx, actor.OrganizationID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return org, nil
}

// Organization resolves the actor's organization record.
func (s *AuthService) Organization(ctx context.Context, actor policy.Actor) (*domain.Organization, error) {
	org, err := s.orgs.GetByID(ctx, actor.OrganizationID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return org, nil
}

func (s *AuthService) issueToken(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp.Unix()}, nil
}

// mintInviteCode produces a 32-char random token, matching the hex
// form the invite join flow expects.
func mintInviteCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
