package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/policy"
)

type groupFixture struct {
	svc         *GroupService
	groups      *fakeGroupRepo
	memberships *fakeMembershipRepo
	users       *fakeUserRepo
	dispatcher  *recordingDispatcher

	admin policy.Actor
	agent policy.Actor
}

func newGroupFixture(t *testing.T) *groupFixture {
	t.Helper()

	f := &groupFixture{
		groups:      newFakeGroupRepo(),
		memberships: newFakeMembershipRepo(),
		users:       newFakeUserRepo(),
		dispatcher:  &recordingDispatcher{},
	}
	f.admin = policy.Actor{ID: "admin", OrganizationID: orgA, Role: domain.RoleAdmin}
	f.agent = policy.Actor{ID: "agent", OrganizationID: orgA, Role: domain.RoleAgent}

	org := orgA
	f.users.add(domain.User{ID: "admin", OrganizationID: &org, Username: "admin", Role: domain.RoleAdmin, IsActive: true})
	f.users.add(domain.User{ID: "agent", OrganizationID: &org, Username: "agent", Role: domain.RoleAgent, IsActive: true})

	f.svc = NewGroupService(GroupDependencies{
		GroupRepo:      f.groups,
		MembershipRepo: f.memberships,
		UserRepo:       f.users,
		Dispatcher:     f.dispatcher,
	})
	return f
}

func TestCreateGroup(t *testing.T) {
	f := newGroupFixture(t)

	group, err := f.svc.CreateGroup(context.Background(), f.admin, "  Support  ")
	require.NoError(t, err)
	assert.Equal(t, "Support", group.Name)
	assert.Equal(t, orgA, group.OrganizationID)

	t.Run("duplicate name conflicts", func(t *testing.T) {
		_, err := f.svc.CreateGroup(context.Background(), f.admin, "Support")
		assert.Equal(t, "CONFLICT", errCode(t, err))
	})

	t.Run("agent cannot create groups", func(t *testing.T) {
		_, err := f.svc.CreateGroup(context.Background(), f.agent, "Ops")
		assert.Equal(t, "FORBIDDEN", errCode(t, err))
	})

	t.Run("blank name rejected", func(t *testing.T) {
		_, err := f.svc.CreateGroup(context.Background(), f.admin, "  ")
		assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
	})
}

func TestSetManager(t *testing.T) {
	f := newGroupFixture(t)
	group := f.groups.add(domain.Group{OrganizationID: orgA, Name: "Support"})

	updated, err := f.svc.SetManager(context.Background(), f.admin, group.ID, "agent")
	require.NoError(t, err)
	require.NotNil(t, updated.ManagerID)
	assert.Equal(t, "agent", *updated.ManagerID)

	t.Run("manager must be in organization", func(t *testing.T) {
		other := orgB
		f.users.add(domain.User{ID: "outsider", OrganizationID: &other, Username: "outsider", Role: domain.RoleAgent})
		_, err := f.svc.SetManager(context.Background(), f.admin, group.ID, "outsider")
		assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
	})
}

func TestMembership(t *testing.T) {
	f := newGroupFixture(t)
	group := f.groups.add(domain.Group{OrganizationID: orgA, Name: "Support"})

	t.Run("add is idempotent", func(t *testing.T) {
		require.NoError(t, f.svc.AddMember(context.Background(), f.admin, group.ID, "agent"))
		require.NoError(t, f.svc.AddMember(context.Background(), f.admin, group.ID, "agent"))

		members, err := f.svc.ListMembers(context.Background(), f.admin, group.ID)
		require.NoError(t, err)
		assert.Len(t, members, 1)
		assert.Contains(t, f.dispatcher.typesSeen(), events.EventMemberAdded)
	})

	t.Run("remove absent member is a no-op", func(t *testing.T) {
		assert.NoError(t, f.svc.RemoveMember(context.Background(), f.admin, group.ID, "ghost"))
	})

	t.Run("user must be in the group's organization", func(t *testing.T) {
		other := orgB
		f.users.add(domain.User{ID: "stranger", OrganizationID: &other, Username: "stranger"})
		err := f.svc.AddMember(context.Background(), f.admin, group.ID, "stranger")
		assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
	})

	t.Run("foreign group is hidden even with no members", func(t *testing.T) {
		foreign := f.groups.add(domain.Group{OrganizationID: orgB, Name: "Other"})
		err := f.svc.AddMember(context.Background(), f.admin, foreign.ID, "agent")
		assert.Equal(t, "NOT_FOUND", errCode(t, err))
	})
}
