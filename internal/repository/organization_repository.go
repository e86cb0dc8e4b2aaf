package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// OrganizationRepository manages persistence for organizations.
type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	GetByName(ctx context.Context, name string) (*domain.Organization, error)
	GetByInviteCode(ctx context.Context, code string) (*domain.Organization, error)
	UpdateInviteCode(ctx context.Context, id, code string) error
}

type organizationRepository struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository constructs repository.
func NewOrganizationRepository(pool *pgxpool.Pool) OrganizationRepository {
	return &organizationRepository{pool: pool}
}

func (r *organizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	const query = `
        INSERT INTO organizations (name, domain, invite_code)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		org.Name,
		org.Domain,
		org.InviteCode,
	).Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	const query = `
        SELECT id, name, domain, invite_code, created_at, updated_at
        FROM organizations WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *organizationRepository) GetByName(ctx context.Context, name string) (*domain.Organization, error) {
	const query = `
        SELECT id, name, domain, invite_code, created_at, updated_at
        FROM organizations WHERE LOWER(name)=LOWER($1)`
	return r.fetchSingle(ctx, query, name)
}

func (r *organizationRepository) GetByInviteCode(ctx context.Context, code string) (*domain.Organization, error) {
	const query = `
        SELECT id, name, domain, invite_code, created_at, updated_at
        FROM organizations WHERE invite_code=$1`
	return r.fetchSingle(ctx, query, code)
}

func (r *organizationRepository) UpdateInviteCode(ctx context.Context, id, code string) error {
	const query = `UPDATE organizations SET invite_code=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, code, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *organizationRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Organization, error) {
	var org domain.Organization
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&org.ID,
		&org.Name,
		&org.Domain,
		&org.InviteCode,
		&org.CreatedAt,
		&org.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &org, nil
}
