package auth

import (
	"errors"
	"strings"
)

// ErrSessionExpired is the terminal error surfaced when a refresh could not
// recover the session. Callers are expected to send the user back to login.
var ErrSessionExpired = errors.New("session expired, please sign in again")

type ErrorKind int

const (
	// KindAuthExpired: credencial vencida o inválida. Recuperable con un
	// refresh; terminal si el refresh también falla.
	KindAuthExpired ErrorKind = iota
	// KindTransient: red caída, timeout. No toca la sesión.
	KindTransient
	// KindInvalidCredentials: login rechazado.
	KindInvalidCredentials
)

// Error is decided once at the auth client boundary so the upper layers
// never have to re-derive the class from message text.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Tokens que delatan un backend quejándose de credenciales vencidas.
// Substring match, case sensitive, igual que el comportamiento observado
// del SDK hosteado.
var authExpiryTokens = []string{"JWT", "token", "session", "expired"}

// IsAuthExpired classifies an error as auth-expiry. Typed errors win; the
// message heuristic only kicks in for opaque errors coming straight from
// the backend SDK.
func IsAuthExpired(err error) bool {
	if err == nil {
		return false
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == KindAuthExpired
	}

	msg := err.Error()
	for _, tok := range authExpiryTokens {
		if strings.Contains(msg, tok) {
			return true
		}
	}
	return false
}

// IsTransient reports whether the error is a network/timeout failure that
// leaves the stored session intact.
func IsTransient(err error) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == KindTransient
	}
	return false
}
