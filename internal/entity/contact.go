package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrContactAlreadyExists = errors.New("contact already exists for this lead")

// Contact es un cliente real. Puede crearse a mano o materializarse desde
// un Lead cuando su status entra al conjunto convertidor.
type Contact struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	BranchID       string     `json:"branch_id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone,omitempty"`
	Email          string     `json:"email,omitempty"`
	Province       string     `json:"province,omitempty"`
	Origin         string     `json:"origin,omitempty"`
	PaxCount       int        `json:"pax_count,omitempty"`
	TravelDate     *time.Time `json:"travel_date,omitempty"`

	// Back-reference al lead de origen, vacío si el contacto fue creado directo.
	OriginalLeadID     *string    `json:"original_lead_id,omitempty"`
	OriginalLeadStatus LeadStatus `json:"original_lead_status,omitempty"`
	OriginalInquiry    int64      `json:"original_inquiry_number,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewContactFromLead copies the travel-relevant fields and records where the
// contact came from. newStatus is the status the lead is landing on, not the
// one it had.
func NewContactFromLead(lead *Lead, newStatus LeadStatus) *Contact {
	leadID := lead.ID
	return &Contact{
		ID:                 uuid.New().String(),
		OrganizationID:     lead.OrganizationID,
		BranchID:           lead.BranchID,
		Name:               lead.Name,
		Phone:              lead.Phone,
		Province:           lead.Province,
		Origin:             lead.Origin,
		PaxCount:           lead.PaxCount,
		TravelDate:         lead.TravelDate,
		OriginalLeadID:     &leadID,
		OriginalLeadStatus: newStatus,
		OriginalInquiry:    lead.InquiryNumber,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
}

func NewContact(orgID, branchID, name, phone, email, province string) (*Contact, error) {
	c := &Contact{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		BranchID:       branchID,
		Name:           name,
		Phone:          phone,
		Email:          email,
		Province:       province,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Contact) Validate() error {
	if c.OrganizationID == "" {
		return errors.New("organization_id is required")
	}
	if c.BranchID == "" {
		return errors.New("branch_id is required")
	}
	if c.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type ContactRepositoryInterface interface {
	Create(ctx context.Context, c *Contact) error
	FindByID(ctx context.Context, id string) (*Contact, error)
	List(ctx context.Context, orgID, branchID string) ([]*Contact, error)
	Delete(ctx context.Context, id string) error
}
