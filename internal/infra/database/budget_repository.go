package database

import (
	"context"
	"database/sql"

	"github.com/tucanviajes/crm-backend/internal/entity"
)

type BudgetRepository struct {
	DB *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{DB: db}
}

func (r *BudgetRepository) Create(ctx context.Context, b *entity.Budget) error {
	query := `
		INSERT INTO budgets (
			id, organization_id, branch_id, contact_id, title, destination,
			amount_cents, currency, status, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.DB.ExecContext(ctx, query,
		b.ID,
		b.OrganizationID,
		b.BranchID,
		b.ContactID,
		b.Title,
		nullString(b.Destination),
		b.AmountCents,
		b.Currency,
		b.Status,
		b.CreatedBy,
		b.CreatedAt,
		b.UpdatedAt,
	)
	return err
}

func (r *BudgetRepository) List(ctx context.Context, orgID, branchID string) ([]*entity.Budget, error) {
	query := `
		SELECT id, organization_id, branch_id, contact_id, title, destination,
		       amount_cents, currency, status, created_by, created_at, updated_at
		FROM budgets
		WHERE organization_id = $1 AND branch_id = $2
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, orgID, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []*entity.Budget
	for rows.Next() {
		var b entity.Budget
		var destination sql.NullString
		err := rows.Scan(
			&b.ID, &b.OrganizationID, &b.BranchID, &b.ContactID, &b.Title,
			&destination, &b.AmountCents, &b.Currency, &b.Status,
			&b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		b.Destination = destination.String
		budgets = append(budgets, &b)
	}
	return budgets, rows.Err()
}

func (r *BudgetRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE budgets SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.DB.ExecContext(ctx, query, status, id)
	return err
}
