package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/errs"
)

func TestFromError_StatusByKind(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing fields", errs.E("op", errs.ErrMissingFields, nil), http.StatusBadRequest, "MISSING_FIELDS"},
		{"missing tenant", errs.E("op", errs.ErrMissingTenant, nil), http.StatusBadRequest, "MISSING_TENANT"},
		{"provider rejected", errs.E("op", errs.ErrProviderRejected, nil), http.StatusBadRequest, "PROVIDER_REJECTED"},
		{"invalid input", errs.E("op", errs.ErrInvalidInput, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"invalid credentials", errs.E("op", errs.ErrInvalidCredentials, nil), http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"bad client token", errs.E("op", errs.ErrInvalidClientToken, nil), http.StatusForbidden, "FORBIDDEN"},
		{"bad user token", errs.E("op", errs.ErrInvalidUserToken, nil), http.StatusForbidden, "FORBIDDEN"},
		{"tenant mismatch", errs.E("op", errs.ErrTenantMismatch, nil), http.StatusForbidden, "FORBIDDEN"},
		{"unknown tenant", errs.E("op", errs.ErrTenantNotFound, nil), http.StatusNotFound, "TENANT_NOT_FOUND"},
		{"no profile", errs.E("op", errs.ErrProfileNotFound, nil), http.StatusNotFound, "PROFILE_NOT_FOUND"},
		{"duplicate", errs.E("op", errs.ErrDuplicateUser, nil), http.StatusConflict, "EMAIL_ALREADY_IN_USE"},
		{"missing secret", errs.E("op", errs.ErrMissingSecret, nil), http.StatusInternalServerError, "SERVER_MISCONFIGURED"},
		{"provider", errs.E("op", errs.ErrProvider, nil), http.StatusInternalServerError, "UPSTREAM_ERROR"},
		{"timeout", errs.E("op", errs.ErrTimeout, nil), http.StatusServiceUnavailable, "UPSTREAM_TIMEOUT"},
		{"plain", stderrors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromError(tc.err)
			assert.Equal(t, tc.status, got.HTTPStatus)
			assert.Equal(t, tc.code, got.Code)
			assert.ErrorIs(t, got, tc.err)
		})
	}
}

func TestFromError_AppErrorPassesThrough(t *testing.T) {
	got := FromError(ErrMethodNotAllowed)
	require.Same(t, ErrMethodNotAllowed, got)
}

func TestWithDetailDoesNotMutateBase(t *testing.T) {
	e := ErrBadRequest.WithDetail("email is required")
	require.Equal(t, "email is required", e.Detail)
	require.Empty(t, ErrBadRequest.Detail)
}

func TestWriteError_NeverWritesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	cause := stderrors.New("secret=s3cr3t")
	WriteError(rec, errs.E("credentials.Verify", errs.ErrInvalidCredentials, cause))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	require.NotContains(t, rec.Body.String(), "s3cr3t")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "INVALID_CREDENTIALS", body["code"])
	require.NotContains(t, body, "detail")
}
