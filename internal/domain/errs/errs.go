// Package errs define la taxonomía de errores de dominio del relay.
//
// Cada error lleva un Kind (discriminante) y un Code estable. Las capas
// superiores deciden el status HTTP a partir del Kind, nunca del mensaje.
package errs

import (
	"errors"
	"fmt"
)

// Kind es el discriminante de la taxonomía.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthentication
	KindNotFound
	KindConflict
	KindConfiguration
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindConfiguration:
		return "configuration"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// Error es un error de dominio tipado.
// Op identifica la operación que falló (ej: "tenant.Resolve").
// Err es la causa; se loguea, nunca se devuelve al cliente.
type Error struct {
	Kind Kind
	Code string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String() + ": " + e.Code
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is compara por Kind y Code, de modo que errors.Is(err, ErrTenantNotFound)
// funciona aunque el error haya sido re-envuelto con otra Op o causa.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// New crea un error sin causa.
func New(kind Kind, code string) *Error {
	return &Error{Kind: kind, Code: code}
}

// E envuelve una causa en un error tipado tomando Kind y Code del sentinel.
func E(op string, sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Op: op, Err: cause}
}

// Ef es como E pero construye la causa con formato.
func Ef(op string, sentinel *Error, format string, args ...any) *Error {
	return E(op, sentinel, fmt.Errorf(format, args...))
}

// KindOf devuelve el Kind del primer *Error en la cadena, o KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf devuelve el Code del primer *Error en la cadena.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// =================================================================================
// SENTINELS
// =================================================================================

var (
	// Validation
	ErrMissingFields = New(KindValidation, "missing_fields")
	ErrInvalidInput  = New(KindValidation, "invalid_input")
	ErrMissingTenant = New(KindValidation, "missing_tenant")
	// El provider rechazó la operación por el input (4xx que no es conflicto).
	ErrProviderRejected = New(KindValidation, "provider_rejected")

	// Authentication
	ErrInvalidCredentials = New(KindAuthentication, "invalid_credentials")
	ErrInvalidClientToken = New(KindAuthentication, "invalid_client_token")
	ErrInvalidUserToken   = New(KindAuthentication, "invalid_user_token")
	ErrMissingToken       = New(KindAuthentication, "missing_token")
	ErrTenantMismatch     = New(KindAuthentication, "tenant_mismatch")

	// NotFound
	ErrTenantNotFound  = New(KindNotFound, "tenant_not_found")
	ErrProfileNotFound = New(KindNotFound, "profile_not_found")

	// Conflict
	ErrDuplicateUser = New(KindConflict, "duplicate_user")

	// Configuration
	ErrMissingSecret  = New(KindConfiguration, "missing_secret")
	ErrInvalidSetting = New(KindConfiguration, "invalid_setting")

	// Upstream
	ErrProvider = New(KindUpstream, "provider_error")
	ErrTimeout  = New(KindUpstream, "timeout")
)
