// Package app cablea el relay: directorio, tokens, gateway del provider,
// services, controllers y router.
package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	rdb "github.com/redis/go-redis/v9"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/config"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/repository"
	httpmetrics "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/controllers"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/router"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/services"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/jwt"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/observability/logger"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/provider/supabase"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/rate"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/security/credentials"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/store/pg"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/tenant"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/util/retry"
)

// Deps son las dependencias externas ya construidas. Build las arma desde
// la config; los tests las pasan directo a New.
type Deps struct {
	Tenants repository.TenantRepository
	Stats   repository.DirectoryStats

	// HTTPClient se comparte por todos los gateways. nil => uno con timeouts razonables.
	HTTPClient  *http.Client
	RateLimiter rate.Limiter

	// Registry para /metrics. nil => prometheus.DefaultRegisterer.
	Registry      prometheus.Registerer
	DirectoryPool func() *pgxpool.Pool
}

type App struct {
	Handler http.Handler
	closers []func()
}

// New arma el handler a partir de deps ya resueltas.
func New(cfg *config.Config, deps Deps) (*App, error) {
	metricsHandler, err := httpmetrics.RegisterMetrics(httpmetrics.MetricsConfig{
		Registry:      deps.Registry,
		DirectoryPool: deps.DirectoryPool,
	})
	if err != nil {
		return nil, fmt.Errorf("app: register metrics: %w", err)
	}

	client := deps.HTTPClient
	if client == nil {
		client = newProviderClient()
	}

	policy := retry.Policy{
		MaxTries:        cfg.Provider.MaxRetries,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
	}

	tokens := jwt.NewService(cfg.Client.JWTSecret, jwt.WithClientTokenTTL(cfg.Client.TokenTTL))
	registry := tenant.NewRegistry(deps.Tenants, policy)
	providers := supabase.NewFactory(supabase.Options{
		HTTPClient:                client,
		Timeout:                   cfg.Provider.Timeout,
		ProfilesTable:             cfg.Provider.ProfilesTable,
		StrictProfileProvisioning: cfg.Auth.StrictProfileProvisioning,
		Retry:                     policy,
	})

	svcs := services.New(services.Deps{
		Verifier:      credentials.NewBcryptVerifier(deps.Tenants),
		Tokens:        tokens,
		Tenants:       registry,
		Providers:     providers,
		Stats:         deps.Stats,
		Retry:         policy,
		ConfirmPolicy: cfg.Register.NoConfirmationEmail,
	})

	handler := router.New(router.Deps{
		Controllers: controllers.New(svcs),
		Tenants:     registry,
		ClientGate:  tokens,
		UserGate:    tokens,
		Metrics:     metricsHandler,
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
		RateLimiter: deps.RateLimiter,
	})

	return &App{Handler: handler}, nil
}

// Build abre el directorio Postgres y, si corresponde, Redis, y arma la app.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.L().With(logger.Component("app"))

	store, err := pg.New(ctx, cfg.Directory.DSN, pg.Options{
		MaxConns:          cfg.Directory.MaxConns,
		ApplicationsTable: cfg.Directory.ApplicationsTable,
		UsersTable:        cfg.Directory.UsersTable,
	})
	if err != nil {
		return nil, err
	}
	closers := []func(){store.Close}

	limiter, closeLimiter, err := buildLimiter(ctx, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	if closeLimiter != nil {
		closers = append(closers, closeLimiter)
	}

	a, err := New(cfg, Deps{
		Tenants:       store,
		Stats:         store,
		RateLimiter:   limiter,
		DirectoryPool: store.Pool,
	})
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, err
	}
	a.closers = closers

	log.Info("app wired",
		logger.Bool("rate_limit", limiter != nil),
		logger.String("rate_backend", cfg.Rate.Backend),
		logger.Bool("strict_profile_provisioning", cfg.Auth.StrictProfileProvisioning),
	)
	return a, nil
}

// Close libera pool y clientes en orden inverso.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func buildLimiter(ctx context.Context, cfg *config.Config) (rate.Limiter, func(), error) {
	if !cfg.Rate.Enabled {
		return nil, nil, nil
	}
	switch cfg.Rate.Backend {
	case "redis":
		client := rdb.NewClient(&rdb.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		// Redis caído al arrancar no es fatal: el middleware deja pasar.
		if err := client.Ping(ctx).Err(); err != nil {
			logger.L().Warn("redis ping failed at startup", logger.Component("rate"), logger.Err(err))
		}
		closeFn := func() { _ = client.Close() }
		return rate.NewRedisLimiter(client, cfg.Redis.Prefix, cfg.Rate.MaxRequests, cfg.Rate.Window), closeFn, nil
	default:
		return rate.NewMemoryLimiter(cfg.Rate.MaxRequests, cfg.Rate.Window), nil, nil
	}
}

func newProviderClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		},
	}
}
