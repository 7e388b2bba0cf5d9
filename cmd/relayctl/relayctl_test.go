package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHashSecret(t *testing.T) {
	out, err := run(t, "hash-secret", "s3cret")
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	_, err = run(t, "hash-secret", "s3cret", "--cost", "4")
	require.Error(t, err)
}

func TestClientToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/client-token", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"client_jwt":"tok","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	out, err := run(t, "client-token", "--url", srv.URL, "--client-id", "id", "--client-secret", "s")
	require.NoError(t, err)
	require.Equal(t, "tok", strings.TrimSpace(out))

	_, err = run(t, "client-token", "--url", srv.URL)
	require.Error(t, err)
}

func TestMigrate_RejectsUnknownTarget(t *testing.T) {
	_, err := run(t, "migrate", "everything", "--dsn", "postgres://x")
	require.Error(t, err)
}
