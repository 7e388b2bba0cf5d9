package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/repository"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/observability/logger"
)

// Options ajusta el pool y los nombres de tabla del directorio.
type Options struct {
	MaxConns          int32
	ApplicationsTable string // default "applications"
	UsersTable        string // default "auth.users"
}

// Store implementa repository.TenantRepository y repository.DirectoryStats
// sobre la base principal (directorio).
type Store struct {
	pool      *pgxpool.Pool
	appsTable string
	userTable string
}

var (
	_ repository.TenantRepository = (*Store)(nil)
	_ repository.DirectoryStats   = (*Store)(nil)
)

func New(ctx context.Context, dsn string, opts Options) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if opts.MaxConns > 0 {
		pcfg.MaxConns = opts.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: new pool: %w", err)
	}

	// Arranque no bloqueante: el relay puede levantar con el directorio caído,
	// /health lo reporta como unavailable.
	log := logger.L().With(logger.Component("directory"))
	if err := pool.Ping(ctx); err != nil {
		log.Warn("directory ping failed at startup", logger.Err(err))
	} else {
		log.Info("directory pool ready", logger.Int("max_conns", int(pcfg.MaxConns)))
	}

	return NewWithPool(pool, opts), nil
}

// NewWithPool envuelve un pool existente (tests, tooling).
func NewWithPool(pool *pgxpool.Pool, opts Options) *Store {
	if opts.ApplicationsTable == "" {
		opts.ApplicationsTable = "applications"
	}
	if opts.UsersTable == "" {
		opts.UsersTable = "auth.users"
	}
	return &Store{
		pool:      pool,
		appsTable: quoteTable(opts.ApplicationsTable),
		userTable: quoteTable(opts.UsersTable),
	}
}

// Pool expone el pool interno (metrics, migraciones).
func (s *Store) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

// Close cierra el pool (idempotente).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) GetByName(ctx context.Context, appName string) (*repository.Tenant, error) {
	const q = `
		SELECT application_name,
		       COALESCE(client_id, ''),
		       COALESCE(client_secret_hash, ''),
		       COALESCE(supabase_url, ''),
		       COALESCE(supabase_role_key, ''),
		       COALESCE(supabase_anonymous_key, ''),
		       COALESCE(supabase_jwt_secret, '')
		FROM %s
		WHERE application_name = $1`

	var t repository.Tenant
	err := s.pool.QueryRow(ctx, fmt.Sprintf(q, s.appsTable), appName).Scan(
		&t.Name, &t.ClientID, &t.ClientSecretHash,
		&t.ProviderURL, &t.ServiceKey, &t.AnonKey, &t.JWTSecret,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: get application: %w", err)
	}
	return &t, nil
}

func (s *Store) GetCredential(ctx context.Context, clientID string) (*repository.ClientCredential, error) {
	const q = `
		SELECT client_id, COALESCE(client_secret_hash, ''), application_name
		FROM %s
		WHERE client_id = $1`

	var c repository.ClientCredential
	err := s.pool.QueryRow(ctx, fmt.Sprintf(q, s.appsTable), clientID).Scan(&c.ClientID, &c.SecretHash, &c.AppName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: get credential: %w", err)
	}
	return &c, nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	return s.count(ctx, s.userTable)
}

func (s *Store) CountApplications(ctx context.Context) (int64, error) {
	return s.count(ctx, s.appsTable)
}

func (s *Store) count(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("pg: count %s: %w", table, err)
	}
	return n, nil
}

// quoteTable sanea "schema.table" o "table" como identificador SQL.
func quoteTable(name string) string {
	return pgx.Identifier(strings.Split(strings.TrimSpace(name), ".")).Sanitize()
}
