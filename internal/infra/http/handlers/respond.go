package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/tucanviajes/crm-backend/internal/auth"
	"github.com/tucanviajes/crm-backend/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondError mapea la taxonomía de errores a códigos HTTP. El vencimiento
// terminal de sesión va con 401 para que el front redirija al login.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrSessionExpired):
		writeError(w, http.StatusUnauthorized, "session expired, please sign in again")
	case errors.Is(err, usecase.ErrLeadNotFound), errors.Is(err, usecase.ErrContactNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case usecase.IsDomainError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case usecase.IsTechnicalError(err):
		log.Printf("❌ Error técnico: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error, please retry")
	default:
		log.Printf("❌ Error no clasificado: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error, please retry")
	}
}
