package database

import (
	"context"
	"database/sql"

	"github.com/tucanviajes/crm-backend/internal/entity"
)

// LeadHistoryRepository es append-only a propósito: no hay UPDATE ni
// DELETE sobre lead_history en ningún lado del código.
type LeadHistoryRepository struct {
	DB *sql.DB
}

func NewLeadHistoryRepository(db *sql.DB) *LeadHistoryRepository {
	return &LeadHistoryRepository{DB: db}
}

func (r *LeadHistoryRepository) Append(ctx context.Context, h *entity.LeadHistory) error {
	query := `
		INSERT INTO lead_history (id, lead_id, action, description, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.DB.ExecContext(ctx, query,
		h.ID,
		h.LeadID,
		h.Action,
		h.Description,
		nullString(h.ActorID),
		h.CreatedAt,
	)
	return err
}

func (r *LeadHistoryRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.LeadHistory, error) {
	query := `
		SELECT id, lead_id, action, description, actor_id, created_at
		FROM lead_history
		WHERE lead_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*entity.LeadHistory
	for rows.Next() {
		var h entity.LeadHistory
		var actor sql.NullString
		if err := rows.Scan(&h.ID, &h.LeadID, &h.Action, &h.Description, &actor, &h.CreatedAt); err != nil {
			return nil, err
		}
		h.ActorID = actor.String
		entries = append(entries, &h)
	}
	return entries, rows.Err()
}
