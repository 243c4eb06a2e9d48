package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tucanviajes/crm-backend/internal/entity"
	"github.com/tucanviajes/crm-backend/internal/infra/queue"
)

type MockRawLeadRepository struct {
	mock.Mock
}

func (m *MockRawLeadRepository) Create(ctx context.Context, r *entity.RawLead) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRawLeadRepository) MarkProcessed(ctx context.Context, id string, leadID string) error {
	args := m.Called(ctx, id, leadID)
	return args.Error(0)
}

type MockRawLeadProducer struct {
	mock.Mock
}

func (m *MockRawLeadProducer) PublishRawLead(ctx context.Context, payload queue.RawLeadPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

const testSecret = "super-secreto"

func webhookBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"organization_id": "org-1",
		"branch_id":       "br-1",
		"source":          "facebook",
		"fields": map[string]string{
			"nombre":   "María Pérez",
			"telefono": "3514445555",
		},
	})
	require.NoError(t, err)
	return body
}

func TestWebhook_RejectsMissingOrWrongSecret(t *testing.T) {
	handler := NewWebhookHandler(new(MockRawLeadRepository), new(MockRawLeadProducer), testSecret, false)

	t.Run("sin header", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/webhook/leads", bytes.NewReader(webhookBody(t)))
		w := httptest.NewRecorder()

		handler.Handle(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("secreto incorrecto", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/webhook/leads", bytes.NewReader(webhookBody(t)))
		req.Header.Set("X-Webhook-Secret", "adivinado")
		w := httptest.NewRecorder()

		handler.Handle(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestWebhook_StoresRawLeadAndEnqueues(t *testing.T) {
	repo := new(MockRawLeadRepository)
	producer := new(MockRawLeadProducer)
	handler := NewWebhookHandler(repo, producer, testSecret, false)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *entity.RawLead) bool {
		return r.OrganizationID == "org-1" && r.Source == "facebook"
	})).Return(nil)
	producer.On("PublishRawLead", mock.Anything, mock.MatchedBy(func(p queue.RawLeadPayload) bool {
		return p.OrganizationID == "org-1" && p.Source == "facebook" && p.RawLeadID != ""
	})).Return(nil)

	req := httptest.NewRequest("POST", "/webhook/leads", bytes.NewReader(webhookBody(t)))
	req.Header.Set("X-Webhook-Secret", testSecret)
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["raw_lead_id"])
	repo.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestWebhook_RequiresOrgAndBranch(t *testing.T) {
	handler := NewWebhookHandler(new(MockRawLeadRepository), new(MockRawLeadProducer), testSecret, false)

	body, _ := json.Marshal(map[string]string{"source": "make"})
	req := httptest.NewRequest("POST", "/webhook/leads", bytes.NewReader(body))
	req.Header.Set("X-Webhook-Secret", testSecret)
	w := httptest.NewRecorder()

	handler.Handle(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_FlatPayloadFallsBackToWholeBody(t *testing.T) {
	repo := new(MockRawLeadRepository)
	producer := new(MockRawLeadProducer)
	handler := NewWebhookHandler(repo, producer, testSecret, false)

	// Escenario viejo de Make: sin envoltorio "fields".
	body, _ := json.Marshal(map[string]string{
		"organization_id": "org-1",
		"branch_id":       "br-1",
		"nombre":          "Juan Gómez",
	})

	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *entity.RawLead) bool {
		return bytes.Contains(r.Payload, []byte("Juan Gómez"))
	})).Return(nil)
	producer.On("PublishRawLead", mock.Anything, mock.Anything).Return(nil)

	req := httptest.NewRequest("POST", "/webhook/leads", bytes.NewReader(body))
	req.Header.Set("X-Webhook-Secret", testSecret)
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	repo.AssertExpectations(t)
}

func TestWebhook_MissingSourceDefaultsToMake(t *testing.T) {
	repo := new(MockRawLeadRepository)
	producer := new(MockRawLeadProducer)
	handler := NewWebhookHandler(repo, producer, testSecret, false)

	body, _ := json.Marshal(map[string]any{
		"organization_id": "org-1",
		"branch_id":       "br-1",
		"fields":          map[string]string{"nombre": "Ana"},
	})

	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *entity.RawLead) bool {
		return r.Source == "make"
	})).Return(nil)
	producer.On("PublishRawLead", mock.Anything, mock.Anything).Return(nil)

	req := httptest.NewRequest("POST", "/webhook/leads", bytes.NewReader(body))
	req.Header.Set("X-Webhook-Secret", testSecret)
	w := httptest.NewRecorder()

	handler.Handle(w, req)
	assert.Equal(t, http.StatusAccepted, w.Code)
	repo.AssertExpectations(t)
}

func TestWebhook_ClientIPIgnoresHeadersWithoutTrustedProxy(t *testing.T) {
	handler := NewWebhookHandler(new(MockRawLeadRepository), new(MockRawLeadProducer), testSecret, false)

	// Rotar X-Forwarded-For no fabrica visitantes nuevos: sin proxy de
	// confianza la cuenta va contra la dirección real de la conexión.
	req := httptest.NewRequest("POST", "/webhook/leads", nil)
	req.RemoteAddr = "10.0.0.9:52100"
	req.Header.Set("X-Forwarded-For", "1.1.1.1")
	assert.Equal(t, "10.0.0.9", handler.clientIP(req))

	req.Header.Set("X-Forwarded-For", "2.2.2.2")
	req.Header.Set("X-Real-IP", "3.3.3.3")
	assert.Equal(t, "10.0.0.9", handler.clientIP(req))
}

func TestWebhook_ClientIPTakesFirstHopBehindTrustedProxy(t *testing.T) {
	handler := NewWebhookHandler(new(MockRawLeadRepository), new(MockRawLeadProducer), testSecret, true)

	req := httptest.NewRequest("POST", "/webhook/leads", nil)
	req.RemoteAddr = "10.0.0.9:52100"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.9")
	assert.Equal(t, "203.0.113.7", handler.clientIP(req))

	req.Header.Del("X-Forwarded-For")
	req.Header.Set("X-Real-IP", "203.0.113.8")
	assert.Equal(t, "203.0.113.8", handler.clientIP(req))

	req.Header.Del("X-Real-IP")
	assert.Equal(t, "10.0.0.9", handler.clientIP(req))
}

func TestWebhook_RateLimiterCapsBursts(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"), "la cuarta dentro de la ventana se corta")
	assert.True(t, rl.Allow("5.6.7.8"), "otra IP tiene su propia cuenta")
}
