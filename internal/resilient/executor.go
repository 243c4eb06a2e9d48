package resilient

import (
	"context"
	"log"

	"github.com/tucanviajes/crm-backend/internal/auth"
)

// SessionRefresher es la porción del auth.Manager que el executor necesita.
type SessionRefresher interface {
	Refresh(ctx context.Context) (*auth.Session, error)
}

// ReadSetCache invalida los conjuntos de lectura cacheados tras una mutación.
type ReadSetCache interface {
	Invalidate(ctx context.Context, entity, orgID, branchID string) error
}

// Scope identifica qué lecturas cacheadas ensucia una mutación.
type Scope struct {
	Entity         string
	OrganizationID string
	BranchID       string
}

// Executor wraps every remote read/write. Its only recovery trick: when an
// operation dies with an auth-expiry error, refresh the session once and
// re-run the operation exactly once. Everything else passes through.
type Executor struct {
	sessions SessionRefresher
	cache    ReadSetCache
}

func New(sessions SessionRefresher, cache ReadSetCache) *Executor {
	return &Executor{sessions: sessions, cache: cache}
}

// Do runs op with the single refresh-and-retry recovery. Explicit loop,
// bounded: the ceiling is auditable right here.
func (e *Executor) Do(ctx context.Context, op func(ctx context.Context) error) error {
	err := op(ctx)
	if err == nil {
		return nil
	}

	if !auth.IsAuthExpired(err) {
		// Errores normales suben intactos, sin refresh de por medio.
		return err
	}

	sess, refreshErr := e.sessions.Refresh(ctx)
	if refreshErr != nil || sess == nil {
		// Refresh agotado: error terminal, el caller manda al login.
		return auth.ErrSessionExpired
	}

	// Un solo reintento. Su resultado es final, éxito o no.
	return op(ctx)
}

// DoMutation runs Do and, on success, invalidates the read sets the
// mutation dirtied. Cache coherence only; the store already committed.
// Una conversión ensucia leads y contacts a la vez, por eso varios scopes.
func (e *Executor) DoMutation(ctx context.Context, op func(ctx context.Context) error, scopes ...Scope) error {
	if err := e.Do(ctx, op); err != nil {
		return err
	}

	if e.cache == nil {
		return nil
	}
	for _, scope := range scopes {
		if scope.Entity == "" {
			continue
		}
		if err := e.cache.Invalidate(ctx, scope.Entity, scope.OrganizationID, scope.BranchID); err != nil {
			log.Printf("⚠️ Invalidación de cache falló (%s): %v", scope.Entity, err)
		}
	}
	return nil
}
