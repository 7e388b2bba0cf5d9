// Package router registra las rutas HTTP del relay sobre chi.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/controllers"
	httperrors "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/errors"
	mw "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/middlewares"
	httpmetrics "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/rate"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/tenant"
)

// Deps contiene lo necesario para armar el handler.
type Deps struct {
	Controllers *controllers.Controllers
	Tenants     tenant.Resolver
	ClientGate  mw.ClientTokenVerifier
	UserGate    mw.UserTokenVerifier

	// Metrics es el handler de /metrics. nil => la ruta no se registra.
	Metrics     http.Handler
	CORSOrigins []string
	// RateLimiter es opcional; aplica solo a /auth/*.
	RateLimiter rate.Limiter
}

// New arma el router completo.
//
//	POST /auth/client-token         público (rate limited)
//	POST /auth/register|login|magic client gate
//	GET  /profile, /ping            user gate
//	GET  /health, /metrics          públicos
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// Recover va adentro de logging y métricas para que un panic cuente como 500.
	r.Use(
		mw.WithRequestID(),
		httpmetrics.WithMetrics,
		mw.WithLogging(),
		mw.WithRecover(),
		mw.WithSecurityHeaders(),
		mw.WithCORS(d.CORSOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	c := d.Controllers

	r.Route("/auth", func(r chi.Router) {
		r.Use(mw.WithNoStore())
		if d.RateLimiter != nil {
			r.Use(mw.WithRateLimit(mw.RateLimitConfig{Limiter: d.RateLimiter, KeyFunc: mw.DefaultRateKey}))
		}

		r.Post("/client-token", c.Auth.ClientToken.Issue)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireClientToken(d.ClientGate))
			r.Post("/register", c.Auth.Identity.Register)
			r.Post("/login", c.Auth.Identity.Login)
			r.Post("/magic", c.Auth.Identity.MagicLink)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.WithNoStore(), mw.RequireUserToken(d.Tenants, d.UserGate))
		r.Get("/profile", c.Profile.Get)
		r.Get("/ping", c.Profile.Ping)
	})

	r.Get("/health", c.Health.Health)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	return r
}
