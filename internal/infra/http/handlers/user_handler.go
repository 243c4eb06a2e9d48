package handlers

import (
	"context"
	"net/http"

	"github.com/tucanviajes/crm-backend/internal/auth"
	"github.com/tucanviajes/crm-backend/internal/entity"
	"github.com/tucanviajes/crm-backend/internal/resilient"
)

// UserHandler lista los agentes activos de la sucursal. Lo usa el selector
// de asignación de leads.
type UserHandler struct {
	Repo     entity.UserRepositoryInterface
	Executor *resilient.Executor
}

func NewUserHandler(repo entity.UserRepositoryInterface, executor *resilient.Executor) *UserHandler {
	return &UserHandler{Repo: repo, Executor: executor}
}

func (h *UserHandler) HandleListByBranch(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var users []*entity.User
	err := h.Executor.Do(r.Context(), func(ctx context.Context) error {
		var err error
		users, err = h.Repo.ListByBranch(ctx, id.OrganizationID, id.BranchID)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}
