package middlewares

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/repository"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/jwt"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/store/memory"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/tenant"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/util/retry"
)

const clientSecret = "client-signing-secret"

func testTenant(name, secret string) repository.Tenant {
	return repository.Tenant{
		Name:             name,
		ClientID:         name + "-id",
		ClientSecretHash: "$2a$10$unused",
		ProviderURL:      "http://" + name + ".invalid",
		ServiceKey:       "svc",
		AnonKey:          "anon",
		JWTSecret:        secret,
	}
}

func userToken(t *testing.T, secret, sub string, exp time.Time) string {
	t.Helper()
	s, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, jwtv5.MapClaims{
		"sub":  sub,
		"role": "authenticated",
		"exp":  exp.Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code   string `json:"code"`
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Empty(t, body.Detail)
	return body.Code
}

func TestRequireClientToken(t *testing.T) {
	tokens := jwt.NewService(clientSecret)
	var seen *ClientContext
	h := RequireClientToken(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetClient(r.Context())
		require.Nil(t, GetUser(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))

	good, _, err := tokens.IssueClientToken("app1")
	require.NoError(t, err)
	expired, _, err := jwt.NewService(clientSecret, jwt.WithClock(func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	})).IssueClientToken("app1")
	require.NoError(t, err)
	foreign, _, err := jwt.NewService("other-secret").IssueClientToken("app1")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + good, http.StatusNoContent},
		{"missing", "", http.StatusForbidden},
		{"not bearer", "Basic " + good, http.StatusForbidden},
		{"expired", "Bearer " + expired, http.StatusForbidden},
		{"other signer", "Bearer " + foreign, http.StatusForbidden},
		{"garbage", "Bearer abc.def.ghi", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodPost, "/auth/register", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusNoContent {
				require.NotNil(t, seen)
				require.Equal(t, "app1", seen.AppName)
				return
			}
			require.Nil(t, seen)
			require.Equal(t, "FORBIDDEN", errCode(t, rec))
		})
	}
}

func TestRequireUserToken(t *testing.T) {
	dir := memory.NewDirectory(testTenant("app1", "secret-1"), testTenant("app2", "secret-2"))
	resolver := tenant.NewRegistry(dir, retry.Policy{MaxTries: 1})
	tokens := jwt.NewService(clientSecret)

	var seen *UserContext
	h := RequireUserToken(resolver, tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUser(r.Context())
		require.Nil(t, GetClient(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))

	now := time.Now()
	tok1 := userToken(t, "secret-1", "11111111-1111-1111-1111-111111111111", now.Add(time.Hour))
	expired := userToken(t, "secret-1", "11111111-1111-1111-1111-111111111111", now.Add(-time.Minute))
	clientTok, _, err := tokens.IssueClientToken("app1")
	require.NoError(t, err)

	cases := []struct {
		name   string
		target string
		token  string
		status int
		code   string
	}{
		{"valid", "/ping?tenantName=app1", tok1, http.StatusNoContent, ""},
		{"legacy param", "/ping?AppToRegisterWith=app1", tok1, http.StatusNoContent, ""},
		{"missing token", "/ping?tenantName=app1", "", http.StatusForbidden, "FORBIDDEN"},
		{"missing tenant", "/ping", tok1, http.StatusBadRequest, "MISSING_TENANT"},
		{"unknown tenant", "/ping?tenantName=nope", tok1, http.StatusNotFound, "TENANT_NOT_FOUND"},
		{"other tenant secret", "/ping?tenantName=app2", tok1, http.StatusForbidden, "FORBIDDEN"},
		{"expired", "/ping?tenantName=app1", expired, http.StatusForbidden, "FORBIDDEN"},
		{"client token", "/ping?tenantName=app1", clientTok, http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			if tc.code != "" {
				require.Equal(t, tc.code, errCode(t, rec))
				require.Nil(t, seen)
				return
			}
			require.NotNil(t, seen)
			require.Equal(t, "app1", seen.Tenant.Name)
			require.Equal(t, "11111111-1111-1111-1111-111111111111", seen.UserID())
		})
	}
}

func TestRequireUserToken_TenantFromBodyOnPost(t *testing.T) {
	dir := memory.NewDirectory(testTenant("app1", "secret-1"))
	resolver := tenant.NewRegistry(dir, retry.Policy{MaxTries: 1})

	var body string
	h := RequireUserToken(resolver, jwt.NewService(clientSecret))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))

	payload := `{"tenantName":"app1","x":1}`
	req := httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+userToken(t, "secret-1", "11111111-1111-1111-1111-111111111111", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, payload, body)
}
