package pg

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/repository"
)

func TestQuoteTable(t *testing.T) {
	require.Equal(t, `"applications"`, quoteTable("applications"))
	require.Equal(t, `"auth"."users"`, quoteTable("auth.users"))
	require.Equal(t, `"weird""name"`, quoteTable(`weird"name`))
}

// Integración: requiere TEST_DIRECTORY_DSN apuntando a un Postgres descartable.
func TestStore_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_DIRECTORY_DSN")
	if dsn == "" {
		t.Skip("TEST_DIRECTORY_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	schema := fmt.Sprintf("relay_test_%d", time.Now().UnixNano())
	_, err = pool.Exec(ctx, fmt.Sprintf(`
		CREATE SCHEMA %[1]s;
		CREATE TABLE %[1]s.applications (
			application_name       text PRIMARY KEY,
			client_id              text UNIQUE,
			client_secret_hash     text,
			supabase_url           text,
			supabase_role_key      text,
			supabase_anonymous_key text,
			supabase_jwt_secret    text
		);
		CREATE TABLE %[1]s.users (id uuid PRIMARY KEY);
		INSERT INTO %[1]s.applications VALUES
			('app1', 'cid-1', '$2a$10$hash', 'https://p.example', 'svc', 'anon', 'jwtsecret'),
			('partial', 'cid-2', NULL, NULL, NULL, NULL, NULL);
	`, schema))
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
	})

	s := NewWithPool(pool, Options{
		ApplicationsTable: schema + ".applications",
		UsersTable:        schema + ".users",
	})

	tn, err := s.GetByName(ctx, "app1")
	require.NoError(t, err)
	require.True(t, tn.Complete())
	require.Equal(t, "jwtsecret", tn.JWTSecret)

	partial, err := s.GetByName(ctx, "partial")
	require.NoError(t, err)
	require.False(t, partial.Complete())

	_, err = s.GetByName(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)

	cred, err := s.GetCredential(ctx, "cid-1")
	require.NoError(t, err)
	require.Equal(t, "app1", cred.AppName)

	_, err = s.GetCredential(ctx, "nope")
	require.ErrorIs(t, err, repository.ErrNotFound)

	apps, err := s.CountApplications(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, apps)

	users, err := s.CountUsers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 0, users)
}
