package queue

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tucanviajes/crm-backend/internal/entity"
	"github.com/tucanviajes/crm-backend/internal/infra/integration/facebook"
	"github.com/tucanviajes/crm-backend/internal/usecase"
)

var nonDigits = regexp.MustCompile(`\D`)

// LeadCreator es el contrato hacia el caso de uso de creación.
type LeadCreator interface {
	Execute(ctx context.Context, input usecase.CreateLeadInput) (*entity.Lead, error)
}

// Worker consume los payloads crudos del webhook, extrae campos con la
// heurística de alias y crea el Lead por el mismo camino que un alta manual.
type Worker struct {
	Channel     *amqp.Channel
	CreateLead  LeadCreator
	RawLeadRepo entity.RawLeadRepositoryInterface
}

func NewWorker(ch *amqp.Channel, createLead LeadCreator, rawLeadRepo entity.RawLeadRepositoryInterface) *Worker {
	return &Worker{
		Channel:     ch,
		CreateLead:  createLead,
		RawLeadRepo: rawLeadRepo,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual, más seguro)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ Failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload RawLeadPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [INGESTA] JSON inválido: %s", err)
				// Mensaje podrido: a la DLQ sin requeue, no trabamos la fila.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [INGESTA] Lead crudo recibido (source=%s, raw=%s)", payload.Source, payload.RawLeadID)

			if err := w.processMessage(context.Background(), payload); err != nil {
				log.Printf("❌ [INGESTA] Falló la conversión: %s", err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker de ingesta esperando en la fila '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(ctx context.Context, payload RawLeadPayload) error {
	extracted := facebook.Extract(payload.Fields)

	// Campos en formato raro: mejor un lead incompleto que uno en la DLQ.
	if extracted.TravelDate != "" {
		if _, err := time.Parse("2006-01-02", extracted.TravelDate); err != nil {
			log.Printf("⚠️ [INGESTA] Fecha ilegible %q, se descarta", extracted.TravelDate)
			extracted.TravelDate = ""
		}
	}
	if digits := nonDigits.ReplaceAllString(extracted.Phone, ""); len(digits) < 8 || len(digits) > 15 {
		if extracted.Phone != "" {
			log.Printf("⚠️ [INGESTA] Teléfono ilegible %q, se descarta", extracted.Phone)
		}
		extracted.Phone = ""
	}

	lead, err := w.CreateLead.Execute(ctx, usecase.CreateLeadInput{
		OrganizationID: payload.OrganizationID,
		BranchID:       payload.BranchID,
		Name:           extracted.Name,
		Phone:          extracted.Phone,
		Province:       extracted.Province,
		Origin:         extracted.Origin,
		PaxCount:       extracted.PaxCount,
		TravelDate:     extracted.TravelDate,
		Source:         payload.Source,
	})
	if err != nil {
		return err
	}

	if err := w.RawLeadRepo.MarkProcessed(ctx, payload.RawLeadID, lead.ID); err != nil {
		// El lead ya existe; perder la marca es tolerable, se loguea y sigue.
		log.Printf("⚠️ [INGESTA] No se pudo marcar raw_lead %s: %v", payload.RawLeadID, err)
	}

	log.Printf("✅ [INGESTA] Lead %s creado desde %s (consulta #%d)", lead.ID, payload.Source, lead.InquiryNumber)
	return nil
}
