package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tucanviajes/crm-backend/internal/entity"
	"github.com/tucanviajes/crm-backend/internal/infra/http/middleware"
	"github.com/tucanviajes/crm-backend/internal/infra/queue"
)

// WebhookHandler recibe leads de terceros (Make.com, Facebook Lead Ads).
// Autenticación por secreto compartido en header, no por sesión de usuario.
// El payload crudo se persiste siempre; la conversión a Lead corre async
// por la fila.
type WebhookHandler struct {
	RawLeadRepo entity.RawLeadRepositoryInterface
	Producer    queue.RawLeadProducerInterface
	secret      string
	trustProxy  bool
	rateLimiter *RateLimiter
}

// trustProxy solo en true cuando hay un reverse proxy nuestro adelante:
// los headers X-Forwarded-For / X-Real-IP los puede poner cualquiera.
func NewWebhookHandler(
	rawLeadRepo entity.RawLeadRepositoryInterface,
	producer queue.RawLeadProducerInterface,
	secret string,
	trustProxy bool,
) *WebhookHandler {
	return &WebhookHandler{
		RawLeadRepo: rawLeadRepo,
		Producer:    producer,
		secret:      secret,
		trustProxy:  trustProxy,
		rateLimiter: NewRateLimiter(30, time.Minute), // 30 req/min por IP
	}
}

type webhookRequest struct {
	OrganizationID string          `json:"organization_id"`
	BranchID       string          `json:"branch_id"`
	Source         string          `json:"source"`
	Fields         json.RawMessage `json:"fields"`
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(h.clientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "too many requests")
		return
	}

	provided := r.Header.Get("X-Webhook-Secret")
	if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
		writeError(w, http.StatusUnauthorized, "invalid_secret")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}

	var req webhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.OrganizationID == "" || req.BranchID == "" {
		writeError(w, http.StatusBadRequest, "organization_id and branch_id are required")
		return
	}
	if req.Source == "" {
		req.Source = "make"
	}
	if len(req.Fields) == 0 {
		// Escenarios viejos de Make mandan los campos sueltos en la raíz.
		req.Fields = body
	}

	raw := entity.NewRawLead(req.OrganizationID, req.BranchID, req.Source, req.Fields)
	if err := h.RawLeadRepo.Create(r.Context(), raw); err != nil {
		log.Printf("❌ No se pudo guardar raw lead: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store lead")
		return
	}

	payload := queue.RawLeadPayload{
		RawLeadID:      raw.ID,
		OrganizationID: req.OrganizationID,
		BranchID:       req.BranchID,
		Source:         req.Source,
		Fields:         req.Fields,
	}
	if err := h.Producer.PublishRawLead(r.Context(), payload); err != nil {
		// El crudo ya está guardado; se puede reprocesar a mano.
		log.Printf("❌ Error fila: %v", err)
		middleware.RecordIntegrationError("rabbitmq")
		writeError(w, http.StatusInternalServerError, "failed to enqueue lead")
		return
	}

	middleware.RecordWebhookIngest(req.Source)
	writeJSON(w, http.StatusAccepted, map[string]string{"raw_lead_id": raw.ID})
}

// clientIP resuelve la IP para el rate limit. Con proxy de confianza
// toma el primer salto de X-Forwarded-For (o X-Real-IP); sin proxy los
// headers se ignoran, si no alcanza con rotarlos para saltear el límite.
func (h *WebhookHandler) clientIP(r *http.Request) string {
	if h.trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			return strings.TrimSpace(strings.Split(xff, ",")[0])
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return xri
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
