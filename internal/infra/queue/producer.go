package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RawLeadPayload viaja del webhook al consumidor de ingesta.
type RawLeadPayload struct {
	RawLeadID      string          `json:"raw_lead_id"`
	OrganizationID string          `json:"organization_id"`
	BranchID       string          `json:"branch_id"`
	Source         string          `json:"source"` // make, facebook
	Fields         json.RawMessage `json:"fields"` // payload crudo del tercero
}

type RawLeadProducerInterface interface {
	PublishRawLead(ctx context.Context, payload RawLeadPayload) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Conn: conn, Ch: ch}
}

func (p *RabbitMQProducer) PublishRawLead(ctx context.Context, payload RawLeadPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // sobrevive al restart del broker
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish raw lead: %w", err)
	}

	return nil
}
