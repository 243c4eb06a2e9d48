package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/tucanviajes/crm-backend/internal/entity"
)

type ScheduledEmailRepository struct {
	DB *sql.DB
}

func NewScheduledEmailRepository(db *sql.DB) *ScheduledEmailRepository {
	return &ScheduledEmailRepository{DB: db}
}

func (r *ScheduledEmailRepository) Create(ctx context.Context, e *entity.ScheduledEmail) error {
	query := `
		INSERT INTO scheduled_emails (
			id, organization_id, recipients, subject, body, send_at, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.DB.ExecContext(ctx, query,
		e.ID,
		e.OrganizationID,
		strings.Join(e.To, ","),
		e.Subject,
		e.Body,
		e.SendAt,
		e.Status,
		e.CreatedAt,
	)
	return err
}

// FindDue toma los PENDING vencidos. FOR UPDATE SKIP LOCKED para que dos
// instancias del worker no manden el mismo mail.
func (r *ScheduledEmailRepository) FindDue(ctx context.Context, now time.Time) ([]*entity.ScheduledEmail, error) {
	query := `
		SELECT id, organization_id, recipients, subject, body, send_at, status, sent_at, created_at
		FROM scheduled_emails
		WHERE status = 'PENDING' AND send_at <= $1
		ORDER BY send_at
		LIMIT 50
		FOR UPDATE SKIP LOCKED
	`

	rows, err := r.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []*entity.ScheduledEmail
	for rows.Next() {
		var e entity.ScheduledEmail
		var recipients string
		var sentAt sql.NullTime
		err := rows.Scan(
			&e.ID, &e.OrganizationID, &recipients, &e.Subject, &e.Body,
			&e.SendAt, &e.Status, &sentAt, &e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		e.To = strings.Split(recipients, ",")
		if sentAt.Valid {
			t := sentAt.Time
			e.SentAt = &t
		}
		due = append(due, &e)
	}
	return due, rows.Err()
}

func (r *ScheduledEmailRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	query := `UPDATE scheduled_emails SET status = 'SENT', sent_at = $1 WHERE id = $2`
	_, err := r.DB.ExecContext(ctx, query, sentAt, id)
	return err
}

func (r *ScheduledEmailRepository) MarkFailed(ctx context.Context, id string) error {
	query := `UPDATE scheduled_emails SET status = 'FAILED' WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, id)
	return err
}
