package usecase

import (
	"context"
	"time"

	"github.com/tucanviajes/crm-backend/internal/entity"
)

type CreateLeadUseCase struct {
	LeadRepo    entity.LeadRepositoryInterface
	HistoryRepo entity.LeadHistoryRepositoryInterface
}

func NewCreateLeadUseCase(
	leadRepo entity.LeadRepositoryInterface,
	historyRepo entity.LeadHistoryRepositoryInterface,
) *CreateLeadUseCase {
	return &CreateLeadUseCase{LeadRepo: leadRepo, HistoryRepo: historyRepo}
}

type CreateLeadInput struct {
	OrganizationID string `json:"organization_id"`
	BranchID       string `json:"branch_id"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Province       string `json:"province"`
	Origin         string `json:"origin"`
	PaxCount       int    `json:"pax_count"`
	TravelDate     string `json:"travel_date"` // YYYY-MM-DD
	Source         string `json:"source"`
	ActorID        string `json:"actor_id"`
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput) (*entity.Lead, error) {
	validationErrors := ValidateCreateLeadInput(input)
	if len(validationErrors) > 0 {
		errMsg := "validation failed: "
		for _, e := range validationErrors {
			errMsg += e.Field + " (" + e.Message + "), "
		}
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: errMsg}
	}

	lead, err := entity.NewLead(input.OrganizationID, input.BranchID, input.Name, input.Phone, input.Province)
	if err != nil {
		return nil, &DomainError{Code: "INVALID_LEAD", Message: err.Error()}
	}

	lead.Origin = input.Origin
	lead.PaxCount = input.PaxCount
	if input.Source != "" {
		lead.Source = input.Source
	}
	if input.TravelDate != "" {
		// Validado más arriba, el error acá es imposible.
		t, _ := time.Parse("2006-01-02", input.TravelDate)
		lead.TravelDate = &t
	}

	// El repo completa InquiryNumber con la secuencia de la organización.
	if err := uc.LeadRepo.Create(ctx, lead); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to persist lead: " + err.Error()}
	}

	history := entity.NewLeadHistory(
		lead.ID,
		entity.ActionStatusChange,
		"Lead creado con estado new (origen: "+lead.Source+")",
		input.ActorID,
	)
	if err := uc.HistoryRepo.Append(ctx, history); err != nil {
		return nil, err
	}

	return lead, nil
}
