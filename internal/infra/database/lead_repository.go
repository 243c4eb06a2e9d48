package database

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/tucanviajes/crm-backend/internal/entity"
	"github.com/tucanviajes/crm-backend/internal/usecase"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Create inserta el lead. El número de consulta sale de la secuencia por
// organización (trigger lead_inquiry_number) y vuelve en el RETURNING.
func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (
			id, organization_id, branch_id, name, phone, province,
			origin, pax_count, travel_date, status, source,
			converted_to_contact, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, false, $12, $13)
		RETURNING inquiry_number
	`

	err := r.DB.QueryRowContext(ctx, query,
		lead.ID,
		lead.OrganizationID,
		lead.BranchID,
		lead.Name,
		nullString(lead.Phone),
		nullString(lead.Province),
		nullString(lead.Origin),
		lead.PaxCount,
		lead.TravelDate,
		lead.Status,
		lead.Source,
		lead.CreatedAt,
		lead.UpdatedAt,
	).Scan(&lead.InquiryNumber)

	if err != nil {
		log.Printf("❌ Error al insertar lead: %v", err)
		return err
	}

	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `
		SELECT id, organization_id, branch_id, name, phone, province,
		       origin, pax_count, travel_date, status, assigned_to,
		       inquiry_number, converted_to_contact, source, created_at, updated_at
		FROM leads
		WHERE id = $1
	`

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrLeadNotFound
	}
	return lead, err
}

// ListActive: el working set del pipeline. Los convertidos quedan afuera,
// siguen existiendo solo para historial y auditoría.
func (r *LeadRepository) ListActive(ctx context.Context, orgID, branchID string) ([]*entity.Lead, error) {
	query := `
		SELECT id, organization_id, branch_id, name, phone, province,
		       origin, pax_count, travel_date, status, assigned_to,
		       inquiry_number, converted_to_contact, source, created_at, updated_at
		FROM leads
		WHERE organization_id = $1
		  AND branch_id = $2
		  AND converted_to_contact = false
		ORDER BY inquiry_number DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, orgID, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status entity.LeadStatus, converted bool) error {
	query := `
		UPDATE leads
		SET status = $1, converted_to_contact = $2, updated_at = NOW()
		WHERE id = $3
	`
	res, err := r.DB.ExecContext(ctx, query, status, converted, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return usecase.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) UpdateAssignment(ctx context.Context, id string, assignedTo *string) error {
	query := `UPDATE leads SET assigned_to = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, assignedTo, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return usecase.ErrLeadNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	var phone, province, origin sql.NullString
	var travelDate sql.NullTime

	err := row.Scan(
		&lead.ID,
		&lead.OrganizationID,
		&lead.BranchID,
		&lead.Name,
		&phone,
		&province,
		&origin,
		&lead.PaxCount,
		&travelDate,
		&lead.Status,
		&lead.AssignedTo,
		&lead.InquiryNumber,
		&lead.Converted,
		&lead.Source,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Phone = phone.String
	lead.Province = province.String
	lead.Origin = origin.String
	if travelDate.Valid {
		t := travelDate.Time
		lead.TravelDate = &t
	}

	return &lead, nil
}
