package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tucanviajes/crm-backend/internal/auth"
	"github.com/tucanviajes/crm-backend/internal/entity"
	"github.com/tucanviajes/crm-backend/internal/resilient"
)

type BranchHandler struct {
	Repo     entity.BranchRepositoryInterface
	Executor *resilient.Executor
}

func NewBranchHandler(repo entity.BranchRepositoryInterface, executor *resilient.Executor) *BranchHandler {
	return &BranchHandler{Repo: repo, Executor: executor}
}

func (h *BranchHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var branches []*entity.Branch
	err := h.Executor.Do(r.Context(), func(ctx context.Context) error {
		var err error
		branches, err = h.Repo.ListByOrganization(ctx, id.OrganizationID)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, branches)
}

func (h *BranchHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	branchID := chi.URLParam(r, "branchID")

	var branch *entity.Branch
	err := h.Executor.Do(r.Context(), func(ctx context.Context) error {
		var err error
		branch, err = h.Repo.FindByID(ctx, branchID)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}
	if branch == nil {
		writeError(w, http.StatusNotFound, "branch not found")
		return
	}

	writeJSON(w, http.StatusOK, branch)
}
