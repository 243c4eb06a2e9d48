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
	"github.com/tucanviajes/crm-backend/internal/usecase"
)

type ContactHandler struct {
	ContactRepo   entity.ContactRepositoryInterface
	CreateContact *usecase.CreateContactUseCase
	Executor      *resilient.Executor
	Cache         *cache.ReadSetCache
}

func NewContactHandler(
	contactRepo entity.ContactRepositoryInterface,
	createContact *usecase.CreateContactUseCase,
	executor *resilient.Executor,
	readCache *cache.ReadSetCache,
) *ContactHandler {
	return &ContactHandler{
		ContactRepo:   contactRepo,
		CreateContact: createContact,
		Executor:      executor,
		Cache:         readCache,
	}
}

func (h *ContactHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	if h.Cache != nil {
		if raw, hit := h.Cache.GetList(r.Context(), "contacts", id.OrganizationID, id.BranchID); hit {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(raw)
			return
		}
	}

	var contacts []*entity.Contact
	err := h.Executor.Do(r.Context(), func(ctx context.Context) error {
		var err error
		contacts, err = h.ContactRepo.List(ctx, id.OrganizationID, id.BranchID)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}

	body, _ := json.Marshal(contacts)
	if h.Cache != nil {
		_ = h.Cache.SetList(r.Context(), "contacts", id.OrganizationID, id.BranchID, body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *ContactHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var input usecase.CreateContactInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	input.OrganizationID = id.OrganizationID
	input.BranchID = id.BranchID

	var contact *entity.Contact
	err := h.Executor.DoMutation(r.Context(), func(ctx context.Context) error {
		var err error
		contact, err = h.CreateContact.Execute(ctx, input)
		return err
	}, resilient.Scope{Entity: "contacts", OrganizationID: id.OrganizationID, BranchID: id.BranchID})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, contact)
}

func (h *ContactHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")

	var contact *entity.Contact
	err := h.Executor.Do(r.Context(), func(ctx context.Context) error {
		var err error
		contact, err = h.ContactRepo.FindByID(ctx, contactID)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}
