package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tucanviajes/crm-backend/internal/auth"
	"github.com/tucanviajes/crm-backend/internal/entity"
	"github.com/tucanviajes/crm-backend/internal/infra/cache"
	"github.com/tucanviajes/crm-backend/internal/infra/http/middleware"
	"github.com/tucanviajes/crm-backend/internal/infra/integration/whatsapp"
	"github.com/tucanviajes/crm-backend/internal/resilient"
	"github.com/tucanviajes/crm-backend/internal/usecase"
)

type LeadHandler struct {
	LeadRepo     entity.LeadRepositoryInterface
	HistoryRepo  entity.LeadHistoryRepositoryInterface
	CreateLead   *usecase.CreateLeadUseCase
	ChangeStatus *usecase.ChangeLeadStatusUseCase
	AssignLead   *usecase.AssignLeadUseCase
	Executor     *resilient.Executor
	Cache        *cache.ReadSetCache
	AgencyName   string
}

func NewLeadHandler(
	leadRepo entity.LeadRepositoryInterface,
	historyRepo entity.LeadHistoryRepositoryInterface,
	createLead *usecase.CreateLeadUseCase,
	changeStatus *usecase.ChangeLeadStatusUseCase,
	assignLead *usecase.AssignLeadUseCase,
	executor *resilient.Executor,
	readCache *cache.ReadSetCache,
	agencyName string,
) *LeadHandler {
	return &LeadHandler{
		LeadRepo:     leadRepo,
		HistoryRepo:  historyRepo,
		CreateLead:   createLead,
		ChangeStatus: changeStatus,
		AssignLead:   assignLead,
		Executor:     executor,
		Cache:        readCache,
		AgencyName:   agencyName,
	}
}

// HandleList devuelve el working set de leads de la sucursal. Los
// convertidos no aparecen.
func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	if h.Cache != nil {
		if raw, hit := h.Cache.GetList(r.Context(), "leads", id.OrganizationID, id.BranchID); hit {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(raw)
			return
		}
	}

	var leads []*entity.Lead
	err := h.Executor.Do(r.Context(), func(ctx context.Context) error {
		var err error
		leads, err = h.LeadRepo.ListActive(ctx, id.OrganizationID, id.BranchID)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}

	body, _ := json.Marshal(leads)
	if h.Cache != nil {
		_ = h.Cache.SetList(r.Context(), "leads", id.OrganizationID, id.BranchID, body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	input.OrganizationID = id.OrganizationID
	input.BranchID = id.BranchID
	input.ActorID = id.UserID

	var lead *entity.Lead
	err := h.Executor.DoMutation(r.Context(), func(ctx context.Context) error {
		var err error
		lead, err = h.CreateLead.Execute(ctx, input)
		return err
	}, resilient.Scope{Entity: "leads", OrganizationID: id.OrganizationID, BranchID: id.BranchID})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	var lead *entity.Lead
	err := h.Executor.Do(r.Context(), func(ctx context.Context) error {
		var err error
		lead, err = h.LeadRepo.FindByID(ctx, leadID)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	var entries []*entity.LeadHistory
	err := h.Executor.Do(r.Context(), func(ctx context.Context) error {
		var err error
		entries, err = h.HistoryRepo.ListByLead(ctx, leadID)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

type changeStatusRequest struct {
	NewStatus entity.LeadStatus `json:"new_status"`
}

func (h *LeadHandler) HandleChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	input := usecase.ChangeLeadStatusInput{
		LeadID:    chi.URLParam(r, "leadID"),
		NewStatus: req.NewStatus,
		ActorID:   id.UserID,
	}

	var output *usecase.ChangeLeadStatusOutput
	err := h.Executor.DoMutation(r.Context(), func(ctx context.Context) error {
		var err error
		output, err = h.ChangeStatus.Execute(ctx, input)
		return err
	},
		resilient.Scope{Entity: "leads", OrganizationID: id.OrganizationID, BranchID: id.BranchID},
		resilient.Scope{Entity: "contacts", OrganizationID: id.OrganizationID, BranchID: id.BranchID},
	)
	if err != nil {
		respondError(w, err)
		return
	}

	if output.Converted {
		middleware.RecordLeadConversion()
	}

	writeJSON(w, http.StatusOK, output)
}

type assignRequest struct {
	AssignedTo *string `json:"assigned_to"` // null desasigna
}

func (h *LeadHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	input := usecase.AssignLeadInput{
		LeadID:     chi.URLParam(r, "leadID"),
		AssignedTo: req.AssignedTo,
		ActorID:    id.UserID,
	}

	var lead *entity.Lead
	err := h.Executor.DoMutation(r.Context(), func(ctx context.Context) error {
		var err error
		lead, err = h.AssignLead.Execute(ctx, input)
		return err
	}, resilient.Scope{Entity: "leads", OrganizationID: id.OrganizationID, BranchID: id.BranchID})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

// HandleWhatsAppLink arma el deep link wa.me para abrir chat con el lead.
func (h *LeadHandler) HandleWhatsAppLink(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	var lead *entity.Lead
	err := h.Executor.Do(r.Context(), func(ctx context.Context) error {
		var err error
		lead, err = h.LeadRepo.FindByID(ctx, leadID)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}

	if lead.Phone == "" {
		writeError(w, http.StatusBadRequest, "lead has no phone number")
		return
	}

	link, err := whatsapp.DeepLink(lead.Phone, whatsapp.GreetingText(lead.Name, h.AgencyName))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"link": link})
}
