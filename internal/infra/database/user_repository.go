package database

import (
	"context"
	"database/sql"

	"github.com/tucanviajes/crm-backend/internal/entity"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	query := `
		SELECT id, organization_id, branch_id, email, name, role, active, created_at
		FROM users
		WHERE id = $1
	`

	var u entity.User
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.OrganizationID, &u.BranchID, &u.Email, &u.Name, &u.Role, &u.Active, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ListByBranch(ctx context.Context, orgID, branchID string) ([]*entity.User, error) {
	query := `
		SELECT id, organization_id, branch_id, email, name, role, active, created_at
		FROM users
		WHERE organization_id = $1 AND branch_id = $2 AND active = true
		ORDER BY name
	`

	rows, err := r.DB.QueryContext(ctx, query, orgID, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.OrganizationID, &u.BranchID, &u.Email, &u.Name, &u.Role, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}
