package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

type fakeStatsRepo struct {
	total      int
	byStatus   map[domain.TicketStatus]int
	byPriority map[domain.TicketPriority]int
	createdAts []time.Time
	top        []repository.AssigneeCount
	lastScope  policy.TicketScope
}

func (f *fakeStatsRepo) CountTotal(_ context.Context, scope policy.TicketScope) (int, error) {
	f.lastScope = scope
	return f.total, nil
}

func (f *fakeStatsRepo) CountByStatus(_ context.Context, _ policy.TicketScope) (map[domain.TicketStatus]int, error) {
	return f.byStatus, nil
}

func (f *fakeStatsRepo) CountByPriority(_ context.Context, _ policy.TicketScope) (map[domain.TicketPriority]int, error) {
	return f.byPriority, nil
}

func (f *fakeStatsRepo) ListCreatedSince(_ context.Context, _ policy.TicketScope, _ time.Time) ([]time.Time, error) {
	return f.createdAts, nil
}

func (f *fakeStatsRepo) TopAssignees(_ context.Context, _ policy.TicketScope, _ int) ([]repository.AssigneeCount, error) {
	return f.top, nil
}

func TestFillDays(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	createdAts := []time.Time{
		time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local),
		time.Date(2024, 5, 1, 23, 59, 0, 0, time.Local),
		time.Date(2024, 5, 4, 12, 0, 0, 0, time.Local),
	}

	days := fillDays(start, 7, createdAts)
	require.Len(t, days, 7)
	assert.Equal(t, "2024-05-01", days[0].Date)
	assert.Equal(t, 2, days[0].Count)
	assert.Equal(t, 0, days[1].Count)
	assert.Equal(t, 1, days[3].Count)
	assert.Equal(t, "2024-05-07", days[6].Date)
	assert.Equal(t, 0, days[6].Count)
}

func TestStats(t *testing.T) {
	agent := "alice"
	repo := &fakeStatsRepo{
		total:      4,
		byStatus:   map[domain.TicketStatus]int{domain.TicketStatusOpen: 3, domain.TicketStatusResolved: 1},
		byPriority: map[domain.TicketPriority]int{domain.TicketPriorityHigh: 4},
		top: []repository.AssigneeCount{
			{Username: &agent, Count: 3},
			{Username: nil, Count: 1},
		},
	}
	svc := NewStatsService(repo, nil, 0, nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 7, 15, 0, 0, 0, time.Local) }

	t.Run("admin rollup spans the organization", func(t *testing.T) {
		admin := policy.Actor{ID: "a", OrganizationID: orgA, Role: domain.RoleAdmin}
		result, err := svc.AdminStats(context.Background(), admin)
		require.NoError(t, err)
		assert.Equal(t, "org", result.Scope)
		assert.Equal(t, 4, result.TotalTickets)
		assert.Nil(t, repo.lastScope.ActorID)
		require.Len(t, result.Last7Days, 7)
		assert.Equal(t, "2024-05-01", result.Last7Days[0].Date)
		assert.Equal(t, "2024-05-07", result.Last7Days[6].Date)
		require.Len(t, result.TopAgents, 2)
		assert.Equal(t, "alice", result.TopAgents[0].Agent)
		assert.Equal(t, "Unassigned", result.TopAgents[1].Agent)
	})

	t.Run("agent cannot read admin stats", func(t *testing.T) {
		agentActor := policy.Actor{ID: "b", OrganizationID: orgA, Role: domain.RoleAgent}
		_, err := svc.AdminStats(context.Background(), agentActor)
		assert.Equal(t, "FORBIDDEN", errCode(t, err))
	})

	t.Run("my stats restrict the scope for agents", func(t *testing.T) {
		agentActor := policy.Actor{ID: "b", OrganizationID: orgA, Role: domain.RoleAgent}
		result, err := svc.MyStats(context.Background(), agentActor)
		require.NoError(t, err)
		assert.Equal(t, "me", result.Scope)
		require.NotNil(t, repo.lastScope.ActorID)
		assert.Equal(t, "b", *repo.lastScope.ActorID)
	})

	t.Run("my stats widen to org for supervisors", func(t *testing.T) {
		supervisor := policy.Actor{ID: "s", OrganizationID: orgA, Role: domain.RoleSupervisor}
		result, err := svc.MyStats(context.Background(), supervisor)
		require.NoError(t, err)
		assert.Equal(t, "org", result.Scope)
		assert.Nil(t, repo.lastScope.ActorID)
	})
}
