package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// MembershipRepository manages the group roster join table.
type MembershipRepository interface {
	Add(ctx context.Context, groupID, userID string) error
	Remove(ctx context.Context, groupID, userID string) error
	Exists(ctx context.Context, groupID, userID string) (bool, error)
	ListGroupIDsByUser(ctx context.Context, userID string) ([]string, error)
	ListMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error)
}

type membershipRepository struct {
	pool *pgxpool.Pool
}

// NewMembershipRepository constructs repository.
func NewMembershipRepository(pool *pgxpool.Pool) MembershipRepository {
	return &membershipRepository{pool: pool}
}

// Add is an upsert; re-adding an existing member is a no-op. The
// conflict target is the (group, user) unique pair, which also absorbs
// duplicate-key races without a lock.
func (r *membershipRepository) Add(ctx context.Context, groupID, userID string) error {
	const query = `
        INSERT INTO group_memberships (group_id, user_id)
        VALUES ($1,$2)
        ON CONFLICT (group_id, user_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, groupID, userID)
	return err
}

// Remove is a no-op when the membership is absent.
func (r *membershipRepository) Remove(ctx context.Context, groupID, userID string) error {
	const query = `DELETE FROM group_memberships WHERE group_id=$1 AND user_id=$2`
	_, err := r.pool.Exec(ctx, query, groupID, userID)
	return err
}

func (r *membershipRepository) Exists(ctx context.Context, groupID, userID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM group_memberships WHERE group_id=$1 AND user_id=$2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, groupID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *membershipRepository) ListGroupIDsByUser(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT group_id FROM group_memberships WHERE user_id=$1`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	return result, rows.Err()
}

func (r *membershipRepository) ListMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error) {
	const query = `
        SELECT u.id, u.username, u.first_name, u.last_name, u.role, u.is_active
        FROM group_memberships m
        JOIN users u ON u.id = m.user_id
        WHERE m.group_id=$1
        ORDER BY u.username`
	rows, err := r.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.GroupMember
	for rows.Next() {
		var member domain.GroupMember
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Username, &user.FirstName, &user.LastName, &user.Role, &user.IsActive); err != nil {
			return nil, err
		}
		member = domain.GroupMember{
			ID:       user.ID,
			Username: user.Username,
			Name:     user.DisplayName(),
			Role:     user.Role,
			IsActive: user.IsActive,
		}
		result = append(result, member)
	}
	return result, rows.Err()
}
