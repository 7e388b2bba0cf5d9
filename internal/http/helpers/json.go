// Package helpers contiene funciones HTTP compartidas por middlewares y controllers.
package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	httperrors "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/errors"
)

// MaxBodyBytes es el límite de todos los bodies JSON de la API.
const MaxBodyBytes = 64 << 10

// ReadJSON decodifica el body en v con límite de MaxBodyBytes. Campos
// desconocidos se ignoran. Devuelve un *AppError listo para WriteError.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.As(err, &mbe):
			return httperrors.ErrBodyTooLarge.WithCause(err)
		case errors.Is(err, io.EOF):
			return httperrors.ErrMissingFields.WithCause(err)
		default:
			return httperrors.ErrInvalidJSON.WithCause(err)
		}
	}
	return nil
}

// WriteJSON escribe v como JSON con el status dado.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteRawJSON relaya JSON ya serializado (respuesta del provider) sin re-encodear.
func WriteRawJSON(w http.ResponseWriter, status int, raw json.RawMessage) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

