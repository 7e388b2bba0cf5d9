package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	dto "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/dto/auth"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/middlewares"
	svc "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/services/auth"
)

type recordingRegister struct{ app string }

func (r *recordingRegister) Register(_ context.Context, appName string, in dto.CredentialsRequest) (json.RawMessage, error) {
	r.app = appName
	return json.RawMessage(`{"email":"` + in.Email + `"}`), nil
}

func TestRegister_UsesAppFromClientGate(t *testing.T) {
	reg := &recordingRegister{}
	c := NewIdentityController(svc.Services{Register: reg})

	body := `{"tenantName":"app1","email":"a@example.com","password":"pw"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req = req.WithContext(middlewares.ContextWithClient(req.Context(), "app1"))
	rec := httptest.NewRecorder()
	c.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.JSONEq(t, `{"email":"a@example.com"}`, rec.Body.String())
	require.Equal(t, "app1", reg.app)
}

func TestRegister_WithoutClientContextIsForbidden(t *testing.T) {
	c := NewIdentityController(svc.Services{Register: &recordingRegister{}})
	rec := httptest.NewRecorder()
	c.Register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRegister_InvalidJSON(t *testing.T) {
	c := NewIdentityController(svc.Services{Register: &recordingRegister{}})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"email":`))
	req = req.WithContext(middlewares.ContextWithClient(req.Context(), "app1"))
	rec := httptest.NewRecorder()
	c.Register(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
