package entity

import (
	"context"
	"time"
)

// Branch es una sucursal de la agencia. Casi todas las lecturas y escrituras
// se filtran por el par organization/branch.
type Branch struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Province       string    `json:"province,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type BranchRepositoryInterface interface {
	ListByOrganization(ctx context.Context, orgID string) ([]*Branch, error)
	FindByID(ctx context.Context, id string) (*Branch, error)
}
