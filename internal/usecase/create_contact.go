package usecase

import (
	"context"

	"github.com/tucanviajes/crm-backend/internal/entity"
)

// CreateContactUseCase crea un contacto directo, sin lead de origen.
type CreateContactUseCase struct {
	ContactRepo entity.ContactRepositoryInterface
}

func NewCreateContactUseCase(contactRepo entity.ContactRepositoryInterface) *CreateContactUseCase {
	return &CreateContactUseCase{ContactRepo: contactRepo}
}

type CreateContactInput struct {
	OrganizationID string `json:"organization_id"`
	BranchID       string `json:"branch_id"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Province       string `json:"province"`
}

func (uc *CreateContactUseCase) Execute(ctx context.Context, input CreateContactInput) (*entity.Contact, error) {
	validationErrors := ValidateCreateContactInput(input)
	if len(validationErrors) > 0 {
		errMsg := "validation failed: "
		for _, e := range validationErrors {
			errMsg += e.Field + " (" + e.Message + "), "
		}
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: errMsg}
	}

	contact, err := entity.NewContact(
		input.OrganizationID, input.BranchID,
		input.Name, input.Phone, input.Email, input.Province,
	)
	if err != nil {
		return nil, &DomainError{Code: "INVALID_CONTACT", Message: err.Error()}
	}

	if err := uc.ContactRepo.Create(ctx, contact); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to persist contact: " + err.Error()}
	}

	return contact, nil
}
