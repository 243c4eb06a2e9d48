package auth

import "time"

// Session es el juego de credenciales del usuario logueado. Hay a lo sumo
// una sesión vigente por instancia del Manager. El struct no serializa los
// tokens; el access token sale solo por la respuesta de login/refresh y el
// refresh token no sale nunca.
type Session struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
