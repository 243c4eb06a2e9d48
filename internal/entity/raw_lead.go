package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RawLead guarda el payload crudo que llegó por webhook (Make.com, Facebook
// Lead Ads) antes de cualquier extracción de campos. Se conserva siempre,
// incluso si la conversión automática a Lead falla.
type RawLead struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	BranchID       string    `json:"branch_id"`
	Source         string    `json:"source"` // make, facebook
	Payload        []byte    `json:"payload"`
	Processed      bool      `json:"processed"`
	LeadID         *string   `json:"lead_id,omitempty"` // lead creado a partir de este payload
	CreatedAt      time.Time `json:"created_at"`
}

func NewRawLead(orgID, branchID, source string, payload []byte) *RawLead {
	return &RawLead{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		BranchID:       branchID,
		Source:         source,
		Payload:        payload,
		CreatedAt:      time.Now(),
	}
}

type RawLeadRepositoryInterface interface {
	Create(ctx context.Context, r *RawLead) error
	MarkProcessed(ctx context.Context, id string, leadID string) error
}
