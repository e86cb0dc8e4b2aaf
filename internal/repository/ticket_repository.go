package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/policy"
)

// TicketFilter captures listing parameters. Scope carries the
// visibility predicate; the rest are caller-chosen refinements.
type TicketFilter struct {
	Scope      policy.TicketScope
	GroupID    *string
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	SearchTerm *string
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	UpdateAssignee(ctx context.Context, ticketID string, assigneeID *string) error
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Close(ctx context.Context, ticketID, authorID, commentBody string, target domain.TicketStatus) (*domain.Ticket, *domain.Comment, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `t.id, t.organization_id, t.group_id, t.customer_name, t.subject, t.description,
               t.status, t.priority, t.assignee_id, t.created_by_id, t.created_at, t.updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (organization_id, group_id, customer_name, subject, description, status, priority, assignee_id, created_by_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.OrganizationID,
		ticket.GroupID,
		ticket.CustomerName,
		ticket.Subject,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.AssigneeID,
		ticket.CreatedByID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets t WHERE t.id=$1`
	var ticket domain.Ticket
	if err := scanTicket(r.pool.QueryRow(ctx, query, id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// UpdateAssignee writes the single assignee field. Concurrent assigns
// race last-writer-wins; row-level atomicity is enough here.
func (r *ticketRepository) UpdateAssignee(ctx context.Context, ticketID string, assigneeID *string) error {
	const query = `UPDATE tickets SET assignee_id=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, assigneeID, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT DISTINCT ` + ticketColumns + `
             FROM tickets t JOIN groups g ON g.id = t.group_id`
	args := []any{}
	clauses := scopeClauses(filter.Scope, &args)

	if filter.GroupID != nil {
		args = append(args, *filter.GroupID)
		clauses = append(clauses, fmt.Sprintf("t.group_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(t.subject) LIKE %s OR LOWER(t.description) LIKE %s OR LOWER(t.customer_name) LIKE %s)", placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY t.updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// Close appends the closing comment and drives the ticket to the
// terminal status in one transaction, so a comment never persists
// without the status write. The comment is appended on every call;
// updated_at is refreshed even when the status already matches.
func (r *ticketRepository) Close(ctx context.Context, ticketID, authorID, commentBody string, target domain.TicketStatus) (*domain.Ticket, *domain.Comment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	comment := &domain.Comment{
		TicketID: ticketID,
		AuthorID: authorID,
		Body:     commentBody,
	}
	const insertComment = `
        INSERT INTO comments (ticket_id, author_id, body)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insertComment, comment.TicketID, comment.AuthorID, comment.Body).
		Scan(&comment.ID, &comment.CreatedAt); err != nil {
		return nil, nil, err
	}

	const updateTicket = `
        UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2
        RETURNING id, organization_id, group_id, customer_name, subject, description,
                  status, priority, assignee_id, created_by_id, created_at, updated_at`
	var ticket domain.Ticket
	if err := scanTicket(tx.QueryRow(ctx, updateTicket, target, ticketID), &ticket); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return &ticket, comment, nil
}

// scopeClauses renders the visibility predicate. Admin/supervisor
// scopes reduce to the tenant clause; agent scopes add the four-way OR
// over creator, assignee, managed-unassigned and member-of-assigned.
func scopeClauses(scope policy.TicketScope, args *[]any) []string {
	*args = append(*args, scope.OrganizationID)
	clauses := []string{fmt.Sprintf("t.organization_id=$%d", len(*args))}

	if scope.ActorID != nil {
		*args = append(*args, *scope.ActorID)
		n := len(*args)
		clauses = append(clauses, fmt.Sprintf(`(
            t.created_by_id=$%d
            OR t.assignee_id=$%d
            OR (t.assignee_id IS NULL AND g.manager_id=$%d)
            OR (t.assignee_id IS NOT NULL AND t.group_id IN (SELECT group_id FROM group_memberships WHERE user_id=$%d))
        )`, n, n, n, n))
	}
	return clauses
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.OrganizationID,
		&ticket.GroupID,
		&ticket.CustomerName,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.AssigneeID,
		&ticket.CreatedByID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
