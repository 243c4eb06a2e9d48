package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/tucanviajes/crm-backend/internal/entity"
)

// ChangeLeadStatusUseCase gobierna la transición de estados del lead y la
// materialización one-way lead→contact.
//
// Cualquier estado puede pasar a cualquier otro (los agentes saltean etapas
// con clientes que llegan decididos), pero aterrizar en un estado del
// conjunto convertidor dispara la conversión, una sola vez por lead: con
// converted_to_contact en true el lead queda de solo lectura para el
// pipeline y los cambios posteriores son updates planos.
type ChangeLeadStatusUseCase struct {
	LeadRepo    entity.LeadRepositoryInterface
	ContactRepo entity.ContactRepositoryInterface
	HistoryRepo entity.LeadHistoryRepositoryInterface
}

func NewChangeLeadStatusUseCase(
	leadRepo entity.LeadRepositoryInterface,
	contactRepo entity.ContactRepositoryInterface,
	historyRepo entity.LeadHistoryRepositoryInterface,
) *ChangeLeadStatusUseCase {
	return &ChangeLeadStatusUseCase{
		LeadRepo:    leadRepo,
		ContactRepo: contactRepo,
		HistoryRepo: historyRepo,
	}
}

type ChangeLeadStatusInput struct {
	LeadID    string            `json:"lead_id"`
	NewStatus entity.LeadStatus `json:"new_status"`
	ActorID   string            `json:"actor_id"`
}

type ChangeLeadStatusOutput struct {
	Lead      *entity.Lead    `json:"lead"`
	Contact   *entity.Contact `json:"contact,omitempty"`
	Converted bool            `json:"converted"`
}

func (uc *ChangeLeadStatusUseCase) Execute(ctx context.Context, input ChangeLeadStatusInput) (*ChangeLeadStatusOutput, error) {
	if !input.NewStatus.Valid() {
		return nil, &DomainError{
			Code:    "INVALID_STATUS",
			Message: fmt.Sprintf("estado inválido: %q", input.NewStatus),
		}
	}

	lead, err := uc.LeadRepo.FindByID(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}

	if input.NewStatus.ProducesContact() && !lead.Converted {
		return uc.convert(ctx, lead, input)
	}

	// Update plano: o el estado destino no convierte, o el lead ya fue
	// convertido y no produce un segundo contacto.
	if err := uc.LeadRepo.UpdateStatus(ctx, lead.ID, input.NewStatus, lead.Converted); err != nil {
		return nil, err
	}

	history := entity.NewLeadHistory(
		lead.ID,
		entity.ActionStatusChange,
		fmt.Sprintf("Estado cambiado de %s a %s", lead.Status, input.NewStatus),
		input.ActorID,
	)
	if err := uc.HistoryRepo.Append(ctx, history); err != nil {
		return nil, err
	}

	lead.Status = input.NewStatus
	return &ChangeLeadStatusOutput{Lead: lead, Converted: false}, nil
}

// convert materializa el contacto y marca el lead. Saga con compensación:
// si el update del lead o el historial fallan, el contacto recién insertado
// se borra en vez de quedar huérfano.
func (uc *ChangeLeadStatusUseCase) convert(ctx context.Context, lead *entity.Lead, input ChangeLeadStatusInput) (*ChangeLeadStatusOutput, error) {
	contact := entity.NewContactFromLead(lead, input.NewStatus)
	history := entity.NewLeadHistory(
		lead.ID,
		entity.ActionConvertedToContact,
		fmt.Sprintf("Lead convertido a contacto al pasar a %s (consulta #%d)", input.NewStatus, lead.InquiryNumber),
		input.ActorID,
	)

	prevStatus := lead.Status

	txn := NewTransaction()

	txn.AddStep("create_contact",
		func(ctx context.Context) error {
			return uc.ContactRepo.Create(ctx, contact)
		},
		func(ctx context.Context) error {
			return uc.ContactRepo.Delete(ctx, contact.ID)
		},
	)

	txn.AddStep("update_lead",
		func(ctx context.Context) error {
			return uc.LeadRepo.UpdateStatus(ctx, lead.ID, input.NewStatus, true)
		},
		func(ctx context.Context) error {
			return uc.LeadRepo.UpdateStatus(ctx, lead.ID, prevStatus, false)
		},
	)

	txn.AddStep("append_history",
		func(ctx context.Context) error {
			return uc.HistoryRepo.Append(ctx, history)
		},
		nil,
	)

	if err := txn.Execute(ctx); err != nil {
		return nil, &TechnicalError{
			Code:    "CONVERSION_FAILED",
			Message: "failed to convert lead to contact: " + err.Error(),
		}
	}

	log.Printf("✅ Lead %s convertido a contacto %s (estado %s)", lead.ID, contact.ID, input.NewStatus)

	lead.Status = input.NewStatus
	lead.Converted = true

	return &ChangeLeadStatusOutput{
		Lead:      lead,
		Contact:   contact,
		Converted: true,
	}, nil
}
