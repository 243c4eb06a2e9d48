package usecase

import (
	"context"
	"fmt"

	"github.com/tucanviajes/crm-backend/internal/entity"
)

// AssignLeadUseCase reasigna un lead a un agente (o lo desasigna con nil).
// Transición paralela al pipeline: no interactúa con la conversión.
type AssignLeadUseCase struct {
	LeadRepo    entity.LeadRepositoryInterface
	HistoryRepo entity.LeadHistoryRepositoryInterface
}

func NewAssignLeadUseCase(
	leadRepo entity.LeadRepositoryInterface,
	historyRepo entity.LeadHistoryRepositoryInterface,
) *AssignLeadUseCase {
	return &AssignLeadUseCase{LeadRepo: leadRepo, HistoryRepo: historyRepo}
}

type AssignLeadInput struct {
	LeadID     string  `json:"lead_id"`
	AssignedTo *string `json:"assigned_to"` // nil desasigna
	ActorID    string  `json:"actor_id"`
}

func (uc *AssignLeadUseCase) Execute(ctx context.Context, input AssignLeadInput) (*entity.Lead, error) {
	lead, err := uc.LeadRepo.FindByID(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}

	if err := uc.LeadRepo.UpdateAssignment(ctx, lead.ID, input.AssignedTo); err != nil {
		return nil, err
	}

	description := "Lead desasignado"
	if input.AssignedTo != nil {
		description = fmt.Sprintf("Lead asignado al agente %s", *input.AssignedTo)
	}

	history := entity.NewLeadHistory(lead.ID, entity.ActionAssignmentChange, description, input.ActorID)
	if err := uc.HistoryRepo.Append(ctx, history); err != nil {
		return nil, err
	}

	lead.AssignedTo = input.AssignedTo
	return lead, nil
}
