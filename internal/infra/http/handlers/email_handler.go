package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tucanviajes/crm-backend/internal/auth"
	"github.com/tucanviajes/crm-backend/internal/resilient"
	"github.com/tucanviajes/crm-backend/internal/usecase"
)

type EmailHandler struct {
	SendEmail *usecase.SendEmailUseCase
	Executor  *resilient.Executor
}

func NewEmailHandler(sendEmail *usecase.SendEmailUseCase, executor *resilient.Executor) *EmailHandler {
	return &EmailHandler{SendEmail: sendEmail, Executor: executor}
}

func (h *EmailHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var input usecase.SendEmailInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	input.OrganizationID = id.OrganizationID

	var output *usecase.SendEmailOutput
	err := h.Executor.Do(r.Context(), func(ctx context.Context) error {
		var err error
		output, err = h.SendEmail.Execute(ctx, input)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}

	status := http.StatusOK
	if output.Scheduled {
		status = http.StatusAccepted
	}
	writeJSON(w, status, output)
}
