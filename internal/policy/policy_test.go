package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func ptr(s string) *string { return &s }

func TestCanManageOrg(t *testing.T) {
	assert.True(t, CanManageOrg(Actor{Role: domain.RoleAdmin}))
	assert.True(t, CanManageOrg(Actor{Role: domain.RoleSupervisor}))
	assert.False(t, CanManageOrg(Actor{Role: domain.RoleAgent}))
}

func TestCanAssign(t *testing.T) {
	group := &domain.Group{ID: "g1", ManagerID: ptr("alice")}

	t.Run("admin can always assign", func(t *testing.T) {
		assert.True(t, CanAssign(Actor{ID: "x", Role: domain.RoleAdmin}, group))
	})
	t.Run("group manager can assign", func(t *testing.T) {
		assert.True(t, CanAssign(Actor{ID: "alice", Role: domain.RoleAgent}, group))
	})
	t.Run("plain agent cannot assign", func(t *testing.T) {
		assert.False(t, CanAssign(Actor{ID: "bob", Role: domain.RoleAgent}, group))
	})
	t.Run("agent cannot assign when group missing", func(t *testing.T) {
		assert.False(t, CanAssign(Actor{ID: "alice", Role: domain.RoleAgent}, nil))
	})
	t.Run("agent cannot assign when group has no manager", func(t *testing.T) {
		assert.False(t, CanAssign(Actor{ID: "alice", Role: domain.RoleAgent}, &domain.Group{ID: "g2"}))
	})
}

func TestCanClose(t *testing.T) {
	ticket := &domain.Ticket{ID: "t1", AssigneeID: ptr("alice")}

	assert.True(t, CanClose(Actor{ID: "x", Role: domain.RoleSupervisor}, ticket))
	assert.True(t, CanClose(Actor{ID: "alice", Role: domain.RoleAgent}, ticket))
	assert.False(t, CanClose(Actor{ID: "bob", Role: domain.RoleAgent}, ticket))
	assert.False(t, CanClose(Actor{ID: "alice", Role: domain.RoleAgent}, &domain.Ticket{ID: "t2"}))
}

func TestCanView(t *testing.T) {
	const org = "acme"
	group := &domain.Group{ID: "g1", OrganizationID: org, ManagerID: ptr("mgr")}

	tests := []struct {
		name    string
		actor   Actor
		ticket  *domain.Ticket
		group   *domain.Group
		member  map[string]struct{}
		visible bool
	}{
		{
			name:    "other organization never visible",
			actor:   Actor{ID: "a", OrganizationID: "other", Role: domain.RoleAdmin},
			ticket:  &domain.Ticket{OrganizationID: org, GroupID: "g1"},
			group:   group,
			visible: false,
		},
		{
			name:    "admin sees everything in org",
			actor:   Actor{ID: "a", OrganizationID: org, Role: domain.RoleAdmin},
			ticket:  &domain.Ticket{OrganizationID: org, GroupID: "g1"},
			group:   group,
			visible: true,
		},
		{
			name:    "creator always sees own ticket",
			actor:   Actor{ID: "creator", OrganizationID: org, Role: domain.RoleAgent},
			ticket:  &domain.Ticket{OrganizationID: org, GroupID: "g1", CreatedByID: "creator"},
			group:   group,
			visible: true,
		},
		{
			name:    "assignee sees assigned ticket without membership",
			actor:   Actor{ID: "bob", OrganizationID: org, Role: domain.RoleAgent},
			ticket:  &domain.Ticket{OrganizationID: org, GroupID: "g1", AssigneeID: ptr("bob")},
			group:   group,
			visible: true,
		},
		{
			name:    "manager sees unassigned ticket in managed group",
			actor:   Actor{ID: "mgr", OrganizationID: org, Role: domain.RoleAgent},
			ticket:  &domain.Ticket{OrganizationID: org, GroupID: "g1"},
			group:   group,
			visible: true,
		},
		{
			name:    "plain member does not see unassigned ticket",
			actor:   Actor{ID: "bob", OrganizationID: org, Role: domain.RoleAgent},
			ticket:  &domain.Ticket{OrganizationID: org, GroupID: "g1"},
			group:   group,
			member:  map[string]struct{}{"g1": {}},
			visible: false,
		},
		{
			name:    "member sees assigned ticket in their group",
			actor:   Actor{ID: "bob", OrganizationID: org, Role: domain.RoleAgent},
			ticket:  &domain.Ticket{OrganizationID: org, GroupID: "g1", AssigneeID: ptr("carol")},
			group:   group,
			member:  map[string]struct{}{"g1": {}},
			visible: true,
		},
		{
			name:    "non member does not see assigned ticket",
			actor:   Actor{ID: "bob", OrganizationID: org, Role: domain.RoleAgent},
			ticket:  &domain.Ticket{OrganizationID: org, GroupID: "g1", AssigneeID: ptr("carol")},
			group:   group,
			visible: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			member := tc.member
			if member == nil {
				member = map[string]struct{}{}
			}
			assert.Equal(t, tc.visible, CanView(tc.actor, tc.ticket, tc.group, member))
		})
	}
}

func TestScopeFor(t *testing.T) {
	t.Run("admin gets full tenant scope", func(t *testing.T) {
		scope := ScopeFor(Actor{ID: "a", OrganizationID: "acme", Role: domain.RoleAdmin})
		assert.Equal(t, "acme", scope.OrganizationID)
		assert.Nil(t, scope.ActorID)
	})
	t.Run("agent gets actor restricted scope", func(t *testing.T) {
		scope := ScopeFor(Actor{ID: "a", OrganizationID: "acme", Role: domain.RoleAgent})
		require.NotNil(t, scope.ActorID)
		assert.Equal(t, "a", *scope.ActorID)
	})
}

func TestTerminalStatus(t *testing.T) {
	status, err := TerminalStatus()
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, status)
}
