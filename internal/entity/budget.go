package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Budget es un presupuesto de viaje armado para un contacto.
type Budget struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	BranchID       string    `json:"branch_id"`
	ContactID      string    `json:"contact_id"`
	Title          string    `json:"title"`
	Destination    string    `json:"destination"`
	AmountCents    int64     `json:"amount_cents"`
	Currency       string    `json:"currency"` // ARS, USD
	Status         string    `json:"status"`   // DRAFT, SENT, ACCEPTED, REJECTED
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewBudget(orgID, branchID, contactID, title, destination, currency, createdBy string, amountCents int64) (*Budget, error) {
	b := &Budget{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		BranchID:       branchID,
		ContactID:      contactID,
		Title:          title,
		Destination:    destination,
		AmountCents:    amountCents,
		Currency:       currency,
		Status:         "DRAFT",
		CreatedBy:      createdBy,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}

	return b, nil
}

func (b *Budget) Validate() error {
	if b.OrganizationID == "" {
		return errors.New("organization_id is required")
	}
	if b.ContactID == "" {
		return errors.New("contact_id is required")
	}
	if b.Title == "" {
		return errors.New("title is required")
	}
	if b.AmountCents < 0 {
		return errors.New("amount_cents must not be negative")
	}
	if b.Currency != "ARS" && b.Currency != "USD" {
		return errors.New("currency must be ARS or USD")
	}
	return nil
}

type BudgetRepositoryInterface interface {
	Create(ctx context.Context, b *Budget) error
	List(ctx context.Context, orgID, branchID string) ([]*Budget, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
