package worker

import (
	"context"
	"log"
	"time"

	"github.com/tucanviajes/crm-backend/internal/entity"
	"github.com/tucanviajes/crm-backend/internal/usecase"
)

// ScheduledEmailWorker barre los envíos diferidos vencidos y los despacha.
type ScheduledEmailWorker struct {
	repo         entity.ScheduledEmailRepositoryInterface
	sender       usecase.EmailSender
	tickInterval time.Duration
}

func NewScheduledEmailWorker(repo entity.ScheduledEmailRepositoryInterface, sender usecase.EmailSender) *ScheduledEmailWorker {
	return &ScheduledEmailWorker{
		repo:         repo,
		sender:       sender,
		tickInterval: 1 * time.Minute,
	}
}

func (w *ScheduledEmailWorker) Start(ctx context.Context) {
	log.Println("🕒 Scheduled email worker iniciado")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Scheduled email worker detenido")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ScheduledEmailWorker) sweep(ctx context.Context) {
	due, err := w.repo.FindDue(ctx, time.Now())
	if err != nil {
		log.Printf("❌ Error buscando mails vencidos: %v", err)
		return
	}

	for _, email := range due {
		if _, err := w.sender.Send(email.To, email.Subject, email.Body); err != nil {
			log.Printf("❌ Envío diferido %s falló: %v", email.ID, err)
			if err := w.repo.MarkFailed(ctx, email.ID); err != nil {
				log.Printf("⚠️ No se pudo marcar FAILED %s: %v", email.ID, err)
			}
			continue
		}

		if err := w.repo.MarkSent(ctx, email.ID, time.Now()); err != nil {
			log.Printf("⚠️ No se pudo marcar SENT %s: %v", email.ID, err)
		}
	}

	if len(due) > 0 {
		log.Printf("✅ %d mail(s) diferidos procesados", len(due))
	}
}
