package usecase

import (
	"context"
	"time"

	"github.com/tucanviajes/crm-backend/internal/entity"
)

// EmailSender manda el mail ya mismo y devuelve un message id.
type EmailSender interface {
	Send(to []string, subject, body string) (string, error)
}

// SendEmailUseCase: envío inmediato o diferido. Con ScheduledFor en el
// futuro se persiste una fila que el worker de barrido procesa a término.
type SendEmailUseCase struct {
	Sender        EmailSender
	ScheduledRepo entity.ScheduledEmailRepositoryInterface
}

func NewSendEmailUseCase(
	sender EmailSender,
	scheduledRepo entity.ScheduledEmailRepositoryInterface,
) *SendEmailUseCase {
	return &SendEmailUseCase{Sender: sender, ScheduledRepo: scheduledRepo}
}

type SendEmailInput struct {
	OrganizationID string   `json:"organization_id"`
	To             []string `json:"to"`
	Subject        string   `json:"subject"`
	Body           string   `json:"body"`
	ScheduledFor   string   `json:"scheduled_for,omitempty"` // RFC3339, vacío = ahora
}

type SendEmailOutput struct {
	MessageID   string `json:"message_id,omitempty"`
	ScheduledID string `json:"scheduled_id,omitempty"`
	Scheduled   bool   `json:"scheduled"`
}

func (uc *SendEmailUseCase) Execute(ctx context.Context, input SendEmailInput) (*SendEmailOutput, error) {
	validationErrors := ValidateSendEmailInput(input)
	if len(validationErrors) > 0 {
		errMsg := "validation failed: "
		for _, e := range validationErrors {
			errMsg += e.Field + " (" + e.Message + "), "
		}
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: errMsg}
	}

	if input.ScheduledFor != "" {
		sendAt, err := parseScheduleTime(input.ScheduledFor)
		if err == nil && sendAt.After(time.Now()) {
			scheduled, err := entity.NewScheduledEmail(input.OrganizationID, input.To, input.Subject, input.Body, sendAt)
			if err != nil {
				return nil, &DomainError{Code: "INVALID_EMAIL", Message: err.Error()}
			}
			if err := uc.ScheduledRepo.Create(ctx, scheduled); err != nil {
				return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to schedule email: " + err.Error()}
			}
			return &SendEmailOutput{ScheduledID: scheduled.ID, Scheduled: true}, nil
		}
		// Fecha en el pasado: se manda ya.
	}

	messageID, err := uc.Sender.Send(input.To, input.Subject, input.Body)
	if err != nil {
		return nil, &TechnicalError{Code: "SMTP_ERROR", Message: "failed to send email: " + err.Error()}
	}

	return &SendEmailOutput{MessageID: messageID}, nil
}
