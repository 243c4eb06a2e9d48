package database

import (
	"context"
	"database/sql"

	"github.com/tucanviajes/crm-backend/internal/entity"
)

type BranchRepository struct {
	DB *sql.DB
}

func NewBranchRepository(db *sql.DB) *BranchRepository {
	return &BranchRepository{DB: db}
}

func (r *BranchRepository) ListByOrganization(ctx context.Context, orgID string) ([]*entity.Branch, error) {
	query := `
		SELECT id, organization_id, name, province, phone, created_at
		FROM branches
		WHERE organization_id = $1
		ORDER BY name
	`

	rows, err := r.DB.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var branches []*entity.Branch
	for rows.Next() {
		var b entity.Branch
		var province, phone sql.NullString
		if err := rows.Scan(&b.ID, &b.OrganizationID, &b.Name, &province, &phone, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.Province = province.String
		b.Phone = phone.String
		branches = append(branches, &b)
	}
	return branches, rows.Err()
}

func (r *BranchRepository) FindByID(ctx context.Context, id string) (*entity.Branch, error) {
	query := `
		SELECT id, organization_id, name, province, phone, created_at
		FROM branches
		WHERE id = $1
	`

	var b entity.Branch
	var province, phone sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.OrganizationID, &b.Name, &province, &phone, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Province = province.String
	b.Phone = phone.String
	return &b, nil
}
