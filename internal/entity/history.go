package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Acciones registradas en el historial de un lead.
const (
	ActionStatusChange       = "status_change"
	ActionAssignmentChange   = "assignment_change"
	ActionConvertedToContact = "converted_to_contact"
)

// LeadHistory is an immutable audit record. Rows are only ever appended;
// the repository deliberately exposes no Update or Delete.
type LeadHistory struct {
	ID          string    `json:"id"`
	LeadID      string    `json:"lead_id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	ActorID     string    `json:"actor_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewLeadHistory(leadID, action, description, actorID string) *LeadHistory {
	return &LeadHistory{
		ID:          uuid.New().String(),
		LeadID:      leadID,
		Action:      action,
		Description: description,
		ActorID:     actorID,
		CreatedAt:   time.Now(),
	}
}

type LeadHistoryRepositoryInterface interface {
	Append(ctx context.Context, h *LeadHistory) error
	ListByLead(ctx context.Context, leadID string) ([]*LeadHistory, error)
}
