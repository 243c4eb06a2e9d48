package database

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tucanviajes/crm-backend/internal/entity"
	"github.com/tucanviajes/crm-backend/internal/usecase"
)

type ContactRepository struct {
	DB *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

func (r *ContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	query := `
		INSERT INTO contacts (
			id, organization_id, branch_id, name, phone, email, province,
			origin, pax_count, travel_date,
			original_lead_id, original_lead_status, original_inquiry_number,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.DB.ExecContext(ctx, query,
		c.ID,
		c.OrganizationID,
		c.BranchID,
		c.Name,
		nullString(c.Phone),
		nullString(c.Email),
		nullString(c.Province),
		nullString(c.Origin),
		c.PaxCount,
		c.TravelDate,
		c.OriginalLeadID,
		nullString(string(c.OriginalLeadStatus)),
		c.OriginalInquiry,
		c.CreatedAt,
		c.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Unique sobre original_lead_id: un lead nunca produce dos contactos.
			return entity.ErrContactAlreadyExists
		}
		log.Printf("❌ Error al insertar contacto: %v", err)
		return err
	}

	return nil
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*entity.Contact, error) {
	query := `
		SELECT id, organization_id, branch_id, name, phone, email, province,
		       origin, pax_count, travel_date,
		       original_lead_id, original_lead_status, original_inquiry_number,
		       created_at, updated_at
		FROM contacts
		WHERE id = $1
	`

	contact, err := scanContact(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrContactNotFound
	}
	return contact, err
}

func (r *ContactRepository) List(ctx context.Context, orgID, branchID string) ([]*entity.Contact, error) {
	query := `
		SELECT id, organization_id, branch_id, name, phone, email, province,
		       origin, pax_count, travel_date,
		       original_lead_id, original_lead_status, original_inquiry_number,
		       created_at, updated_at
		FROM contacts
		WHERE organization_id = $1 AND branch_id = $2
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, orgID, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*entity.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// Delete existe solo como compensación de la saga de conversión. Los
// contactos no se borran desde la API.
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	return err
}

func scanContact(row rowScanner) (*entity.Contact, error) {
	var c entity.Contact
	var phone, email, province, origin, leadStatus sql.NullString
	var travelDate sql.NullTime
	var inquiry sql.NullInt64

	err := row.Scan(
		&c.ID,
		&c.OrganizationID,
		&c.BranchID,
		&c.Name,
		&phone,
		&email,
		&province,
		&origin,
		&c.PaxCount,
		&travelDate,
		&c.OriginalLeadID,
		&leadStatus,
		&inquiry,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Phone = phone.String
	c.Email = email.String
	c.Province = province.String
	c.Origin = origin.String
	c.OriginalLeadStatus = entity.LeadStatus(leadStatus.String)
	c.OriginalInquiry = inquiry.Int64
	if travelDate.Valid {
		t := travelDate.Time
		c.TravelDate = &t
	}

	return &c, nil
}
