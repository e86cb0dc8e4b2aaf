package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/policy"
)

// AssigneeCount is one row of the top-assignees rollup. Username is nil
// for unassigned tickets.
type AssigneeCount struct {
	Username *string
	Count    int
}

// StatsRepository computes rollups over the visibility-scoped ticket set.
type StatsRepository interface {
	CountTotal(ctx context.Context, scope policy.TicketScope) (int, error)
	CountByStatus(ctx context.Context, scope policy.TicketScope) (map[domain.TicketStatus]int, error)
	CountByPriority(ctx context.Context, scope policy.TicketScope) (map[domain.TicketPriority]int, error)
	ListCreatedSince(ctx context.Context, scope policy.TicketScope, since time.Time) ([]time.Time, error)
	TopAssignees(ctx context.Context, scope policy.TicketScope, limit int) ([]AssigneeCount, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository constructs repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

const scopedTickets = `FROM tickets t JOIN groups g ON g.id = t.group_id`

func (r *statsRepository) CountTotal(ctx context.Context, scope policy.TicketScope) (int, error) {
	args := []any{}
	clauses := scopeClauses(scope, &args)
	query := fmt.Sprintf(`SELECT COUNT(DISTINCT t.id) %s WHERE %s`, scopedTickets, strings.Join(clauses, " AND "))

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *statsRepository) CountByStatus(ctx context.Context, scope policy.TicketScope) (map[domain.TicketStatus]int, error) {
	args := []any{}
	clauses := scopeClauses(scope, &args)
	query := fmt.Sprintf(`SELECT t.status, COUNT(DISTINCT t.id) %s WHERE %s GROUP BY t.status`,
		scopedTickets, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.TicketStatus]int)
	for rows.Next() {
		var status domain.TicketStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		result[status] = count
	}
	return result, rows.Err()
}

func (r *statsRepository) CountByPriority(ctx context.Context, scope policy.TicketScope) (map[domain.TicketPriority]int, error) {
	args := []any{}
	clauses := scopeClauses(scope, &args)
	query := fmt.Sprintf(`SELECT t.priority, COUNT(DISTINCT t.id) %s WHERE %s GROUP BY t.priority`,
		scopedTickets, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.TicketPriority]int)
	for rows.Next() {
		var priority domain.TicketPriority
		var count int
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		result[priority] = count
	}
	return result, rows.Err()
}

// ListCreatedSince returns raw creation timestamps; calendar bucketing
// happens in the service in a single fixed timezone rather than via
// storage-engine date functions.
func (r *statsRepository) ListCreatedSince(ctx context.Context, scope policy.TicketScope, since time.Time) ([]time.Time, error) {
	args := []any{}
	clauses := scopeClauses(scope, &args)
	args = append(args, since)
	clauses = append(clauses, fmt.Sprintf("t.created_at >= $%d", len(args)))
	query := fmt.Sprintf(`SELECT DISTINCT t.id, t.created_at %s WHERE %s`,
		scopedTickets, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []time.Time
	for rows.Next() {
		var id string
		var createdAt time.Time
		if err := rows.Scan(&id, &createdAt); err != nil {
			return nil, err
		}
		result = append(result, createdAt)
	}
	return result, rows.Err()
}

func (r *statsRepository) TopAssignees(ctx context.Context, scope policy.TicketScope, limit int) ([]AssigneeCount, error) {
	if limit <= 0 {
		limit = 5
	}
	args := []any{}
	clauses := scopeClauses(scope, &args)
	query := fmt.Sprintf(`
        SELECT u.username, COUNT(DISTINCT t.id) AS c
        %s LEFT JOIN users u ON u.id = t.assignee_id
        WHERE %s
        GROUP BY u.username
        ORDER BY c DESC
        LIMIT %d`, scopedTickets, strings.Join(clauses, " AND "), limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AssigneeCount
	for rows.Next() {
		var row AssigneeCount
		if err := rows.Scan(&row.Username, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
