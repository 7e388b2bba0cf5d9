package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// BearerToken extrae el token de "Authorization: Bearer <token>".
// Devuelve "" si el header falta o no es Bearer.
func BearerToken(r *http.Request) string {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(ah) < len("Bearer ") || !strings.EqualFold(ah[:len("Bearer ")], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(ah[len("Bearer "):])
}

// Nombres aceptados para el tenant. AppToRegisterWith es el nombre legacy.
const (
	TenantParam       = "tenantName"
	LegacyTenantParam = "AppToRegisterWith"
)

// TenantName devuelve el tenant del request: query string en GET/HEAD/DELETE,
// body JSON en POST/PUT/PATCH. El body se lee hasta MaxBodyBytes y se repone
// completo para el handler.
func TenantName(r *http.Request) string {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return tenantFromBody(r)
	default:
		q := r.URL.Query()
		if v := strings.TrimSpace(q.Get(TenantParam)); v != "" {
			return v
		}
		return strings.TrimSpace(q.Get(LegacyTenantParam))
	}
}

func tenantFromBody(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	b, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(b), r.Body))
	if err != nil || len(b) == 0 || len(b) > MaxBodyBytes {
		return ""
	}

	var m struct {
		TenantName        string `json:"tenantName"`
		AppToRegisterWith string `json:"AppToRegisterWith"`
	}
	if json.Unmarshal(b, &m) != nil {
		return ""
	}
	if v := strings.TrimSpace(m.TenantName); v != "" {
		return v
	}
	return strings.TrimSpace(m.AppToRegisterWith)
}
