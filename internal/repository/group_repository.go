package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// GroupRepository manages persistence for groups.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	GetByID(ctx context.Context, id string) (*domain.Group, error)
	GetByName(ctx context.Context, organizationID, name string) (*domain.Group, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]domain.Group, error)
	SetManager(ctx context.Context, groupID string, managerID *string) error
	Delete(ctx context.Context, id string) error
}

type groupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository constructs repository.
func NewGroupRepository(pool *pgxpool.Pool) GroupRepository {
	return &groupRepository{pool: pool}
}

func (r *groupRepository) Create(ctx context.Context, group *domain.Group) error {
	const query = `
        INSERT INTO groups (organization_id, name, manager_id)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		group.OrganizationID,
		group.Name,
		group.ManagerID,
	).Scan(&group.ID, &group.CreatedAt, &group.UpdatedAt)
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	const query = `
        SELECT id, organization_id, name, manager_id, created_at, updated_at
        FROM groups WHERE id=$1`
	var group domain.Group
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&group.ID,
		&group.OrganizationID,
		&group.Name,
		&group.ManagerID,
		&group.CreatedAt,
		&group.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) GetByName(ctx context.Context, organizationID, name string) (*domain.Group, error) {
	const query = `
        SELECT id, organization_id, name, manager_id, created_at, updated_at
        FROM groups WHERE organization_id=$1 AND name=$2`
	var group domain.Group
	if err := r.pool.QueryRow(ctx, query, organizationID, name).Scan(
		&group.ID,
		&group.OrganizationID,
		&group.Name,
		&group.ManagerID,
		&group.CreatedAt,
		&group.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) ListByOrganization(ctx context.Context, organizationID string) ([]domain.Group, error) {
	const query = `
        SELECT id, organization_id, name, manager_id, created_at, updated_at
        FROM groups WHERE organization_id=$1 ORDER BY name`
	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Group
	for rows.Next() {
		var group domain.Group
		if err := rows.Scan(&group.ID, &group.OrganizationID, &group.Name, &group.ManagerID, &group.CreatedAt, &group.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, group)
	}
	return result, rows.Err()
}

func (r *groupRepository) SetManager(ctx context.Context, groupID string, managerID *string) error {
	const query = `UPDATE groups SET manager_id=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, managerID, groupID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *groupRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM groups WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
