package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	dto "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/dto/health"
)

type stubHealth dto.HealthResponse

func (s stubHealth) Check(context.Context) dto.HealthResponse { return dto.HealthResponse(s) }

func TestHealth_StatusCode(t *testing.T) {
	cases := []struct {
		status string
		code   int
	}{
		{dto.StatusOK, http.StatusOK},
		{dto.StatusUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		c := NewHealthController(stubHealth{Status: tc.status, Checks: map[string]any{"users": 0}})
		rec := httptest.NewRecorder()
		c.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, tc.code, rec.Code)
		require.Contains(t, rec.Body.String(), `"status":"`+tc.status+`"`)
	}
}
