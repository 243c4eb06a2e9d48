package entity

import (
	"context"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleAgent   Role = "agent"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleAgent
}

type User struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	BranchID       string    `json:"branch_id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           Role      `json:"role"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*User, error)
	ListByBranch(ctx context.Context, orgID, branchID string) ([]*User, error)
}
