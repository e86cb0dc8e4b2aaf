package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// GroupService manages groups and their membership rosters within one
// organization.
type GroupService struct {
	groups      repository.GroupRepository
	memberships repository.MembershipRepository
	users       repository.UserRepository
	dispatcher  events.Dispatcher
}

// GroupDependencies bundles repositories for group service.
type GroupDependencies struct {
	GroupRepo      repository.GroupRepository
	MembershipRepo repository.MembershipRepository
	UserRepo       repository.UserRepository
	Dispatcher     events.Dispatcher
}

// NewGroupService constructs the service.
func NewGroupService(deps GroupDependencies) *GroupService {
	return &GroupService{
		groups:      deps.GroupRepo,
		memberships: deps.MembershipRepo,
		users:       deps.UserRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// ListGroups returns the groups of the actor's organization.
func (s *GroupService) ListGroups(ctx context.Context, actor policy.Actor) ([]domain.Group, error) {
	groups, err := s.groups.ListByOrganization(ctx, actor.OrganizationID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return groups, nil
}

// CreateGroup creates a group in the actor's organization. The name
// must be unique within the organization.
func (s *GroupService) CreateGroup(ctx context.Context, actor policy.Actor, name string) (*domain.Group, error) {
	if !policy.CanManageOrg(actor) {
		return nil, apperrors.NewForbidden("admin or supervisor role required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}

	if _, err := s.groups.GetByName(ctx, actor.OrganizationID, name); err == nil {
		return nil, apperrors.NewConflict("group name already exists in organization", map[string]any{"name": name})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	group := &domain.Group{
		OrganizationID: actor.OrganizationID,
		Name:           name,
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, apperrors.MapError(err)
	}
	return group, nil
}

// SetManager replaces the group's manager. The manager must be a user
// of the group's organization.
func (s *GroupService) SetManager(ctx context.Context, actor policy.Actor, groupID, userID string) (*domain.Group, error) {
	group, err := s.loadOwnGroup(ctx, actor, groupID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageOrg(actor) {
		return nil, apperrors.NewForbidden("admin or supervisor role required")
	}

	user, err := s.users.GetByIDInOrganization(ctx, userID, group.OrganizationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("user not in your organization", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}

	if err := s.groups.SetManager(ctx, group.ID, &user.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	group.ManagerID = &user.ID
	return group, nil
}

// AddMember adds a user to the group roster. Idempotent: re-adding an
// existing member succeeds without effect.
func (s *GroupService) AddMember(ctx context.Context, actor policy.Actor, groupID, userID string) error {
	group, err := s.loadOwnGroup(ctx, actor, groupID)
	if err != nil {
		return err
	}

	if _, err := s.users.GetByIDInOrganization(ctx, userID, group.OrganizationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("user not in your organization", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}

	if err := s.memberships.Add(ctx, group.ID, userID); err != nil {
		return apperrors.MapError(err)
	}
	s.publishEvent(ctx, actor, events.EventMemberAdded, group.ID, userID)
	return nil
}

// RemoveMember removes a user from the roster; a no-op when absent.
func (s *GroupService) RemoveMember(ctx context.Context, actor policy.Actor, groupID, userID string) error {
	group, err := s.loadOwnGroup(ctx, actor, groupID)
	if err != nil {
		return err
	}
	if err := s.memberships.Remove(ctx, group.ID, userID); err != nil {
		return apperrors.MapError(err)
	}
	s.publishEvent(ctx, actor, events.EventMemberRemoved, group.ID, userID)
	return nil
}

// ListMembers returns the group roster.
func (s *GroupService) ListMembers(ctx context.Context, actor policy.Actor, groupID string) ([]domain.GroupMember, error) {
	group, err := s.loadOwnGroup(ctx, actor, groupID)
	if err != nil {
		return nil, err
	}
	members, err := s.memberships.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if members == nil {
		members = []domain.GroupMember{}
	}
	return members, nil
}

// loadOwnGroup resolves a group and verifies it belongs to the actor's
// organization. The check is on the group row itself, so it also holds
// for groups that do not have any members yet.
func (s *GroupService) loadOwnGroup(ctx context.Context, actor policy.Actor, groupID string) (*domain.Group, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("group", map[string]any{"group_id": groupID})
		}
		return nil, apperrors.MapError(err)
	}
	if group.OrganizationID != actor.OrganizationID {
		return nil, apperrors.NewNotFound("group", map[string]any{"group_id": groupID})
	}
	return group, nil
}

func (s *GroupService) publishEvent(ctx context.Context, actor policy.Actor, eventType events.EventType, groupID, userID string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:             uuid.NewString(),
		Type:           eventType,
		OrganizationID: actor.OrganizationID,
		ActorID:        actor.ID,
		Timestamp:      time.Now(),
		Payload: events.MembershipPayload{
			GroupID: groupID,
			UserID:  userID,
		},
	})
}
