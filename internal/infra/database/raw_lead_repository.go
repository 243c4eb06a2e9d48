package database

import (
	"context"
	"database/sql"

	"github.com/tucanviajes/crm-backend/internal/entity"
)

type RawLeadRepository struct {
	DB *sql.DB
}

func NewRawLeadRepository(db *sql.DB) *RawLeadRepository {
	return &RawLeadRepository{DB: db}
}

func (r *RawLeadRepository) Create(ctx context.Context, raw *entity.RawLead) error {
	query := `
		INSERT INTO raw_leads (id, organization_id, branch_id, source, payload, processed, created_at)
		VALUES ($1, $2, $3, $4, $5, false, $6)
	`

	_, err := r.DB.ExecContext(ctx, query,
		raw.ID,
		raw.OrganizationID,
		raw.BranchID,
		raw.Source,
		raw.Payload,
		raw.CreatedAt,
	)
	return err
}

func (r *RawLeadRepository) MarkProcessed(ctx context.Context, id string, leadID string) error {
	query := `UPDATE raw_leads SET processed = true, lead_id = $1 WHERE id = $2`
	_, err := r.DB.ExecContext(ctx, query, leadID, id)
	return err
}
