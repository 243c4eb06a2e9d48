package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tucanviajes/crm-backend/internal/entity"
)

const bearerPrefix = "Bearer "

// Claims son los claims que emite el backend de auth en el access token.
type Claims struct {
	jwt.RegisteredClaims

	Email          string      `json:"email"`
	OrganizationID string      `json:"org_id"`
	BranchID       string      `json:"branch_id"`
	Role           entity.Role `json:"role"`
}

// Verifier valida access tokens localmente, sin viaje al backend.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Verify(tokenString string, now time.Time) (Claims, error) {
	var claims Claims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30*time.Second),
		jwt.WithExpirationRequired(),
	)

	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return Claims{}, &Error{Kind: KindAuthExpired, Message: "invalid access token", Err: err}
	}

	if claims.Subject == "" {
		return Claims{}, &Error{Kind: KindAuthExpired, Message: "subject missing in access token"}
	}

	return claims, nil
}

type Identity struct {
	UserID         string
	Email          string
	OrganizationID string
	BranchID       string
	Role           entity.Role
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// RequireAccessToken verifica el bearer token e inyecta la identidad en el
// contexto del request. No hace chequeo de rol; eso es de RequireRole.
func RequireAccessToken(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := v.Verify(strings.TrimPrefix(raw, bearerPrefix), time.Now())
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := WithIdentity(r.Context(), Identity{
				UserID:         claims.Subject,
				Email:          claims.Email,
				OrganizationID: claims.OrganizationID,
				BranchID:       claims.BranchID,
				Role:           claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rechaza con 403 a quien no tenga uno de los roles pedidos.
func RequireRole(roles ...entity.Role) func(http.Handler) http.Handler {
	allowed := make(map[entity.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				unauthorized(w, "missing identity")
				return
			}
			if !allowed[id.Role] {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]string{"error": "insufficient role"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
