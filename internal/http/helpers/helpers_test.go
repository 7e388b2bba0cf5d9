package helpers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	httperrors "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/errors"
)

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc.def":  "abc.def",
		"bearer   abc ":   "abc",
		"Basic dXNlcg==":  "",
		"Bearer":          "",
		"":                "",
		"BearerXabc.def":  "",
	}
	for header, want := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		require.Equal(t, want, BearerToken(r), "header %q", header)
	}
}

func TestTenantName_QueryForReads(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/profile?tenantName=+app1+", nil)
	require.Equal(t, "app1", TenantName(r))

	r = httptest.NewRequest(http.MethodGet, "/profile?AppToRegisterWith=legacy", nil)
	require.Equal(t, "legacy", TenantName(r))

	// en GET el body no cuenta
	r = httptest.NewRequest(http.MethodGet, "/profile", strings.NewReader(`{"tenantName":"app1"}`))
	require.Empty(t, TenantName(r))
}

func TestTenantName_BodyForWritesRestoresBody(t *testing.T) {
	body := `{"email":"a@example.com","tenantName":"app1"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/login?tenantName=ignored", strings.NewReader(body))
	require.Equal(t, "app1", TenantName(r))

	rest, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	require.Equal(t, body, string(rest))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"AppToRegisterWith":"legacy"}`))
	require.Equal(t, "legacy", TenantName(r))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`not json`))
	require.Empty(t, TenantName(r))
}

func TestReadJSON(t *testing.T) {
	var v struct {
		Email string `json:"email"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.c","extra":1}`))
	require.NoError(t, ReadJSON(httptest.NewRecorder(), r, &v))
	require.Equal(t, "a@b.c", v.Email)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	require.ErrorIs(t, ReadJSON(httptest.NewRecorder(), r, &v), httperrors.ErrInvalidJSON)

	big := `{"email":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	require.ErrorIs(t, ReadJSON(httptest.NewRecorder(), r, &v), httperrors.ErrBodyTooLarge)
}

