package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tucanviajes/crm-backend/internal/entity"
)

const testSecret = "clave-de-test"

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func validClaims(expiresIn time.Duration) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
		Email:          "agente@tucanviajes.com",
		OrganizationID: "org-1",
		BranchID:       "br-1",
		Role:           entity.RoleAgent,
	}
}

func TestVerify_AcceptsValidToken(t *testing.T) {
	v := NewVerifier(testSecret)

	claims, err := v.Verify(signToken(t, validClaims(time.Hour)), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "org-1", claims.OrganizationID)
	assert.Equal(t, entity.RoleAgent, claims.Role)
}

func TestVerify_ExpiredTokenIsAuthExpired(t *testing.T) {
	v := NewVerifier(testSecret)

	_, err := v.Verify(signToken(t, validClaims(-time.Hour)), time.Now())
	require.Error(t, err)
	assert.True(t, IsAuthExpired(err))
}

func TestVerify_WrongSecretRejected(t *testing.T) {
	other := NewVerifier("otra-clave")

	_, err := other.Verify(signToken(t, validClaims(time.Hour)), time.Now())
	assert.Error(t, err)
}

func TestVerify_MissingSubjectRejected(t *testing.T) {
	v := NewVerifier(testSecret)
	claims := validClaims(time.Hour)
	claims.Subject = ""

	_, err := v.Verify(signToken(t, claims), time.Now())
	assert.Error(t, err)
}

func TestVerify_TokenWithoutExpiryRejected(t *testing.T) {
	v := NewVerifier(testSecret)
	claims := validClaims(time.Hour)
	claims.ExpiresAt = nil

	_, err := v.Verify(signToken(t, claims), time.Now())
	assert.Error(t, err)
}

func TestRequireAccessToken_InjectsIdentity(t *testing.T) {
	v := NewVerifier(testSecret)

	var got Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFrom(r.Context())
	})

	req := httptest.NewRequest("GET", "/leads", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims(time.Hour)))
	w := httptest.NewRecorder()

	RequireAccessToken(v)(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "br-1", got.BranchID)
}

func TestRequireAccessToken_MissingHeaderIs401(t *testing.T) {
	v := NewVerifier(testSecret)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no debería llegar al handler")
	})

	req := httptest.NewRequest("GET", "/leads", nil)
	w := httptest.NewRecorder()

	RequireAccessToken(v)(next).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_ForbidsOutsiders(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	guard := RequireRole(entity.RoleAdmin, entity.RoleManager)(next)

	t.Run("agente rechazado", func(t *testing.T) {
		req := httptest.NewRequest("PATCH", "/leads/x/assign", nil)
		req = req.WithContext(WithIdentity(req.Context(), Identity{UserID: "u", Role: entity.RoleAgent}))
		w := httptest.NewRecorder()

		guard.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("manager pasa", func(t *testing.T) {
		req := httptest.NewRequest("PATCH", "/leads/x/assign", nil)
		req = req.WithContext(WithIdentity(req.Context(), Identity{UserID: "u", Role: entity.RoleManager}))
		w := httptest.NewRecorder()

		guard.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("sin identidad 401", func(t *testing.T) {
		req := httptest.NewRequest("PATCH", "/leads/x/assign", nil)
		w := httptest.NewRecorder()

		guard.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
