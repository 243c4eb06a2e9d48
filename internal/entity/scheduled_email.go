package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ScheduledEmail es un envío diferido. El worker de barrido lo toma cuando
// send_at queda en el pasado.
type ScheduledEmail struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	To             []string   `json:"to"`
	Subject        string     `json:"subject"`
	Body           string     `json:"body"`
	SendAt         time.Time  `json:"send_at"`
	Status         string     `json:"status"` // PENDING, SENT, FAILED
	SentAt         *time.Time `json:"sent_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func NewScheduledEmail(orgID string, to []string, subject, body string, sendAt time.Time) (*ScheduledEmail, error) {
	e := &ScheduledEmail{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		To:             to,
		Subject:        subject,
		Body:           body,
		SendAt:         sendAt,
		Status:         "PENDING",
		CreatedAt:      time.Now(),
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *ScheduledEmail) Validate() error {
	if len(e.To) == 0 {
		return errors.New("at least one recipient is required")
	}
	for _, addr := range e.To {
		if !strings.Contains(addr, "@") {
			return errors.New("invalid recipient: " + addr)
		}
	}
	if e.Subject == "" {
		return errors.New("subject is required")
	}
	return nil
}

type ScheduledEmailRepositoryInterface interface {
	Create(ctx context.Context, e *ScheduledEmail) error
	// FindDue devuelve los PENDING con send_at vencido.
	FindDue(ctx context.Context, now time.Time) ([]*ScheduledEmail, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	MarkFailed(ctx context.Context, id string) error
}
