package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tucanviajes/crm-backend/internal/auth"
	"github.com/tucanviajes/crm-backend/internal/infra/http/middleware"
)

// SessionHandler expone el ciclo de vida de la sesión contra el backend
// de auth. El access token viaja en la respuesta (es el bearer que el
// front manda en cada request); el refresh token se queda de este lado.
type SessionHandler struct {
	Sessions *auth.Manager
	Idle     *auth.IdleDetector
}

func NewSessionHandler(sessions *auth.Manager, idle *auth.IdleDetector) *SessionHandler {
	return &SessionHandler{Sessions: sessions, Idle: idle}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func newSessionResponse(s *auth.Session) sessionResponse {
	return sessionResponse{
		UserID:      s.UserID,
		Email:       s.Email,
		AccessToken: s.AccessToken,
		ExpiresAt:   s.ExpiresAt,
	}
}

func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	sess, err := h.Sessions.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		var ae *auth.Error
		if errors.As(err, &ae) && ae.Kind == auth.KindInvalidCredentials {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, http.StatusBadGateway, "auth backend unavailable")
		return
	}

	if h.Idle != nil {
		h.Idle.Start()
	}

	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if h.Idle != nil {
		h.Idle.Stop()
	}
	_ = h.Sessions.SignOut(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// HandleRefresh fuerza un refresh (lo usa el modal de "¿seguís ahí?").
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Sessions.Refresh(r.Context())
	if err != nil {
		if auth.IsAuthExpired(err) {
			middleware.RecordSessionRefresh("terminal")
			writeError(w, http.StatusUnauthorized, "session expired, please sign in again")
			return
		}
		middleware.RecordSessionRefresh("transient")
		writeError(w, http.StatusServiceUnavailable, "refresh failed, retry later")
		return
	}

	middleware.RecordSessionRefresh("ok")
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

// HandleActivity registra actividad del usuario para el detector de idle.
// El front lo pega en throttle desde sus listeners de input/scroll/focus.
func (h *SessionHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	if h.Idle != nil {
		if r.URL.Query().Get("resume") == "true" {
			h.Idle.Resume()
		} else {
			h.Idle.Touch()
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
