package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tucanviajes/crm-backend/internal/auth"
	"github.com/tucanviajes/crm-backend/internal/entity"
	"github.com/tucanviajes/crm-backend/internal/infra/cache"
	"github.com/tucanviajes/crm-backend/internal/resilient"
)

type BudgetHandler struct {
	BudgetRepo entity.BudgetRepositoryInterface
	Executor   *resilient.Executor
	Cache      *cache.ReadSetCache
}

func NewBudgetHandler(
	budgetRepo entity.BudgetRepositoryInterface,
	executor *resilient.Executor,
	readCache *cache.ReadSetCache,
) *BudgetHandler {
	return &BudgetHandler{BudgetRepo: budgetRepo, Executor: executor, Cache: readCache}
}

func (h *BudgetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	if h.Cache != nil {
		if raw, hit := h.Cache.GetList(r.Context(), "budgets", id.OrganizationID, id.BranchID); hit {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(raw)
			return
		}
	}

	var budgets []*entity.Budget
	err := h.Executor.Do(r.Context(), func(ctx context.Context) error {
		var err error
		budgets, err = h.BudgetRepo.List(ctx, id.OrganizationID, id.BranchID)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}

	body, _ := json.Marshal(budgets)
	if h.Cache != nil {
		_ = h.Cache.SetList(r.Context(), "budgets", id.OrganizationID, id.BranchID, body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

type createBudgetRequest struct {
	ContactID   string `json:"contact_id"`
	Title       string `json:"title"`
	Destination string `json:"destination"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

func (h *BudgetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req createBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	budget, err := entity.NewBudget(
		id.OrganizationID, id.BranchID, req.ContactID,
		req.Title, req.Destination, req.Currency, id.UserID, req.AmountCents,
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.Executor.DoMutation(r.Context(), func(ctx context.Context) error {
		return h.BudgetRepo.Create(ctx, budget)
	}, resilient.Scope{Entity: "budgets", OrganizationID: id.OrganizationID, BranchID: id.BranchID})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, budget)
}

type budgetStatusRequest struct {
	Status string `json:"status"`
}

func (h *BudgetHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req budgetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	switch req.Status {
	case "DRAFT", "SENT", "ACCEPTED", "REJECTED":
	default:
		writeError(w, http.StatusBadRequest, "invalid budget status")
		return
	}

	budgetID := chi.URLParam(r, "budgetID")
	err := h.Executor.DoMutation(r.Context(), func(ctx context.Context) error {
		return h.BudgetRepo.UpdateStatus(ctx, budgetID, req.Status)
	}, resilient.Scope{Entity: "budgets", OrganizationID: id.OrganizationID, BranchID: id.BranchID})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": budgetID, "status": req.Status})
}
