package usecase

import (
	"context"
	"fmt"
	"log"
)

// Transaction ejecuta pasos en orden y, si uno falla, corre las
// compensaciones de los que ya pasaron, en orden inverso. Operación y
// compensación se registran juntas: el apareo es estructural, no depende
// de ninguna convención de orden de llamadas.
type Transaction struct {
	steps []step
}

type step struct {
	name       string
	fn         func(context.Context) error
	compensate func(context.Context) error // nil si el paso no revierte nada
}

func NewTransaction() *Transaction {
	return &Transaction{}
}

// AddStep registra una operación con su compensación (nil si no tiene).
func (t *Transaction) AddStep(name string, fn, compensate func(context.Context) error) {
	t.steps = append(t.steps, step{name: name, fn: fn, compensate: compensate})
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, s := range t.steps {
		if err := s.fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", s.name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAtIndex int) {
	for i := failedAtIndex - 1; i >= 0; i-- {
		s := t.steps[i]
		if s.compensate == nil {
			continue
		}
		if err := s.compensate(ctx); err != nil {
			log.Printf("⚠️ WARNING: Compensation '%s' failed: %v (inconsistency risk!)", s.name, err)
		}
	}
}
