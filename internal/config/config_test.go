package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/errs"
)

func TestLoad_EnvOnlyAppliesDefaults(t *testing.T) {
	t.Setenv("DIRECTORY_DSN", "postgres://u:p@localhost:5432/dir")

	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":3000", c.Server.Addr)
	require.Equal(t, time.Hour, c.Client.TokenTTL)
	require.Equal(t, 5*time.Second, c.Provider.Timeout)
	require.Equal(t, "profiles", c.Provider.ProfilesTable)
	require.Equal(t, "auth.users", c.Directory.UsersTable)
	require.Equal(t, []string{"*"}, c.Server.CORSAllowedOrigins)
	require.False(t, c.Rate.Enabled)
	require.False(t, c.TLSEnabled())
}

func TestLoad_YAMLThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.yaml")
	yml := `
server:
  addr: ":9000"
directory:
  dsn: "postgres://from-yaml"
provider:
  timeout: 2s
rate:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("SERVER_ADDR", ":9100")
	t.Setenv("SERVER_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9100", c.Server.Addr)
	require.Equal(t, "postgres://from-yaml", c.Directory.DSN)
	require.Equal(t, 2*time.Second, c.Provider.Timeout)
	require.True(t, c.Rate.Enabled)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, c.Server.CORSAllowedOrigins)
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	t.Setenv("DIRECTORY_DSN", "postgres://x")
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("missing dsn", func(t *testing.T) {
		t.Setenv("DIRECTORY_DSN", "")
		_, err := Load("")
		require.Error(t, err)
	})
	t.Run("tls half configured", func(t *testing.T) {
		t.Setenv("DIRECTORY_DSN", "postgres://x")
		t.Setenv("SERVER_TLS_CERT_FILE", "cert.pem")
		_, err := Load("")
		require.Error(t, err)
	})
	t.Run("redis backend without addr", func(t *testing.T) {
		t.Setenv("DIRECTORY_DSN", "postgres://x")
		t.Setenv("RATE_ENABLED", "true")
		t.Setenv("RATE_BACKEND", "redis")
		_, err := Load("")
		require.Error(t, err)
	})
}

func TestParseConfirmPolicy(t *testing.T) {
	v, err := ParseConfirmPolicy("true")
	require.NoError(t, err)
	require.True(t, v)

	v, err = ParseConfirmPolicy("false")
	require.NoError(t, err)
	require.False(t, v)

	for _, bad := range []string{"", "TRUE", "1", "yes", " true"} {
		_, err := ParseConfirmPolicy(bad)
		require.Error(t, err, "value %q", bad)
		require.True(t, errors.Is(err, errs.ErrInvalidSetting))
		require.Equal(t, errs.KindConfiguration, errs.KindOf(err))
	}
}
