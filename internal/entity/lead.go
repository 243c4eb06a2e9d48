package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// LeadStatus is the pipeline position of a lead, in funnel order.
type LeadStatus string

const (
	StatusNew                  LeadStatus = "new"
	StatusAssigned             LeadStatus = "assigned"
	StatusContacted            LeadStatus = "contacted"
	StatusFollowed             LeadStatus = "followed"
	StatusInterested           LeadStatus = "interested"
	StatusReserved             LeadStatus = "reserved"
	StatusLiquidated           LeadStatus = "liquidated"
	StatusEffectiveReservation LeadStatus = "effective_reservation"
)

// Llegar a cualquiera de estos estados materializa un Contact.
var contactProducing = map[LeadStatus]bool{
	StatusContacted:            true,
	StatusFollowed:             true,
	StatusInterested:           true,
	StatusReserved:             true,
	StatusLiquidated:           true,
	StatusEffectiveReservation: true,
}

func (s LeadStatus) Valid() bool {
	switch s {
	case StatusNew, StatusAssigned, StatusContacted, StatusFollowed,
		StatusInterested, StatusReserved, StatusLiquidated, StatusEffectiveReservation:
		return true
	}
	return false
}

// ProducesContact reports whether landing on this status triggers the
// lead to contact conversion.
func (s LeadStatus) ProducesContact() bool {
	return contactProducing[s]
}

type Lead struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	BranchID       string     `json:"branch_id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone,omitempty"`
	Province       string     `json:"province,omitempty"`
	Origin         string     `json:"origin,omitempty"` // destino consultado
	PaxCount       int        `json:"pax_count,omitempty"`
	TravelDate     *time.Time `json:"travel_date,omitempty"`
	Status         LeadStatus `json:"status"`
	AssignedTo     *string    `json:"assigned_to,omitempty"`
	InquiryNumber  int64      `json:"inquiry_number"` // correlativo por organización, lo asigna el banco
	Converted      bool       `json:"converted_to_contact"`
	Source         string     `json:"source,omitempty"` // manual, facebook, make
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func NewLead(orgID, branchID, name, phone, province string) (*Lead, error) {
	lead := &Lead{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		BranchID:       branchID,
		Name:           name,
		Phone:          phone,
		Province:       province,
		Status:         StatusNew,
		Source:         "manual",
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.OrganizationID == "" {
		return errors.New("organization_id is required")
	}
	if l.BranchID == "" {
		return errors.New("branch_id is required")
	}
	if l.Name == "" {
		return errors.New("name is required")
	}
	if !l.Status.Valid() {
		return errors.New("invalid lead status")
	}
	return nil
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	// ListActive excludes leads already converted to contact.
	ListActive(ctx context.Context, orgID, branchID string) ([]*Lead, error)
	UpdateStatus(ctx context.Context, id string, status LeadStatus, converted bool) error
	UpdateAssignment(ctx context.Context, id string, assignedTo *string) error
}
