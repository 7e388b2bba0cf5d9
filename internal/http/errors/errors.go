// Package errors traduce errores de dominio (internal/domain/errs) a
// respuestas HTTP {code, message, detail}. La causa nunca sale al cliente.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/errs"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// FromError convierte cualquier error en un AppError. Los *AppError pasan
// tal cual; los de dominio se mapean por sentinel y después por Kind; el
// resto es un 500 genérico que conserva la causa para el log.
func FromError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stderrors.Is(err, errs.ErrMissingTenant):
		return ErrMissingTenant.WithCause(err)
	case stderrors.Is(err, errs.ErrMissingFields):
		return ErrMissingFields.WithCause(err)
	case stderrors.Is(err, errs.ErrProviderRejected):
		return ErrProviderRejected.WithCause(err)
	case stderrors.Is(err, errs.ErrInvalidCredentials):
		return ErrInvalidCredentials.WithCause(err)
	case stderrors.Is(err, errs.ErrTenantNotFound):
		return ErrTenantNotFound.WithCause(err)
	case stderrors.Is(err, errs.ErrProfileNotFound):
		return ErrProfileNotFound.WithCause(err)
	case stderrors.Is(err, errs.ErrDuplicateUser):
		return ErrEmailAlreadyInUse.WithCause(err)
	case stderrors.Is(err, errs.ErrTimeout):
		return ErrUpstreamTimeout.WithCause(err)
	}

	switch errs.KindOf(err) {
	case errs.KindValidation:
		return ErrBadRequest.WithCause(err)
	case errs.KindAuthentication:
		// token de cliente/usuario inválido, faltante o de otro tenant
		return ErrForbidden.WithCause(err)
	case errs.KindNotFound:
		return ErrNotFound.WithCause(err)
	case errs.KindConflict:
		return ErrEmailAlreadyInUse.WithCause(err)
	case errs.KindConfiguration:
		return ErrMisconfigured.WithCause(err)
	case errs.KindUpstream:
		return ErrUpstream.WithCause(err)
	}
	return ErrInternalServerError.WithCause(err)
}

// WriteError escribe la respuesta JSON del error.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	resp := errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}
