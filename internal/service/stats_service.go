package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const (
	statsWindowDays = 7
	topAgentsLimit  = 5
	unassignedLabel = "Unassigned"
)

// DayCount is one bucket of the daily histogram.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AgentCount is one row of the top-assignees rollup.
type AgentCount struct {
	Agent string `json:"agent"`
	Count int    `json:"count"`
}

// StatsResult is the rollup over a visibility-scoped ticket set.
type StatsResult struct {
	Scope        string                        `json:"scope"`
	TotalTickets int                           `json:"total_tickets"`
	ByStatus     map[domain.TicketStatus]int   `json:"by_status"`
	ByPriority   map[domain.TicketPriority]int `json:"by_priority"`
	Last7Days    []DayCount                    `json:"last_7_days"`
	TopAgents    []AgentCount                  `json:"top_agents"`
}

// StatsService computes read-only rollups from the visibility-filtered
// ticket set, caching results in Redis for a short interval.
type StatsService struct {
	stats    repository.StatsRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewStatsService constructs the service. A nil cache disables caching.
func NewStatsService(stats repository.StatsRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *StatsService {
	return &StatsService{
		stats:    stats,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// AdminStats returns the org-wide rollup; admin/supervisor only.
func (s *StatsService) AdminStats(ctx context.Context, actor policy.Actor) (*StatsResult, error) {
	if !policy.CanManageOrg(actor) {
		return nil, apperrors.NewForbidden("admin or supervisor role required")
	}
	scope := policy.TicketScope{OrganizationID: actor.OrganizationID}
	return s.compute(ctx, scope, "org", "stats:org:"+actor.OrganizationID)
}

// MyStats returns the rollup over the actor's own visibility scope.
// Admins and supervisors see the whole organization; the label tells
// callers which scope they got.
func (s *StatsService) MyStats(ctx context.Context, actor policy.Actor) (*StatsResult, error) {
	scope := policy.ScopeFor(actor)
	label := "me"
	key := "stats:me:" + actor.OrganizationID + ":" + actor.ID
	if scope.ActorID == nil {
		label = "org"
		key = "stats:org:" + actor.OrganizationID
	}
	return s.compute(ctx, scope, label, key)
}

func (s *StatsService) compute(ctx context.Context, scope policy.TicketScope, label, cacheKey string) (*StatsResult, error) {
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	total, err := s.stats.CountTotal(ctx, scope)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byStatus, err := s.stats.CountByStatus(ctx, scope)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byPriority, err := s.stats.CountByPriority(ctx, scope)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	today := dateOnly(s.now())
	start := today.AddDate(0, 0, -(statsWindowDays - 1))
	createdAts, err := s.stats.ListCreatedSince(ctx, scope, start)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	topRows, err := s.stats.TopAssignees(ctx, scope, topAgentsLimit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	topAgents := make([]AgentCount, 0, len(topRows))
	for _, row := range topRows {
		agent := unassignedLabel
		if row.Username != nil {
			agent = *row.Username
		}
		topAgents = append(topAgents, AgentCount{Agent: agent, Count: row.Count})
	}

	result := &StatsResult{
		Scope:        label,
		TotalTickets: total,
		ByStatus:     byStatus,
		ByPriority:   byPriority,
		Last7Days:    fillDays(start, statsWindowDays, createdAts),
		TopAgents:    topAgents,
	}
	s.toCache(ctx, cacheKey, result)
	return result, nil
}

// fillDays buckets timestamps by server-local calendar date and emits
// one entry per day, dense: days with zero tickets still appear.
func fillDays(start time.Time, days int, createdAts []time.Time) []DayCount {
	counts := make(map[string]int, days)
	for _, ts := range createdAts {
		counts[dateOnly(ts.Local()).Format(time.DateOnly)]++
	}

	result := make([]DayCount, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format(time.DateOnly)
		result = append(result, DayCount{Date: date, Count: counts[date]})
	}
	return result
}

// dateOnly truncates to midnight in the server's local timezone.
func dateOnly(t time.Time) time.Time {
	year, month, day := t.Local().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func (s *StatsService) fromCache(ctx context.Context, key string) *StatsResult {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var result StatsResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil
	}
	return &result
}

func (s *StatsService) toCache(ctx context.Context, key string, result *StatsResult) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Debug("stats cache write failed", zap.Error(err))
	}
}
