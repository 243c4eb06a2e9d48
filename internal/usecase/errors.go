package usecase

import "errors"

var (
	ErrLeadNotFound    = errors.New("lead not found")
	ErrContactNotFound = errors.New("contact not found")
)

// DomainError: regla de negocio violada. Se muestra al usuario tal cual.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError: infraestructura rota. Se loguea, al usuario le llega
// un mensaje genérico con opción de reintentar.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}
