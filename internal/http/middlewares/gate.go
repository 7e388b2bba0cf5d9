package middlewares

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/errs"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/errors"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/helpers"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/jwt"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/metrics"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/observability/logger"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/tenant"
)

// ClientTokenVerifier es lo que el client gate necesita de jwt.Service.
type ClientTokenVerifier interface {
	VerifyClientToken(token string) (*jwt.ClientClaims, error)
}

// UserTokenVerifier es lo que el user gate necesita de jwt.Service.
type UserTokenVerifier interface {
	VerifyUserToken(token, tenantSecret string) (jwt.UserClaims, error)
}

// RequireClientToken exige un client token válido. Cualquier falla responde
// el mismo 403 genérico; el motivo solo va a log y métricas.
func RequireClientToken(tokens ClientTokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := helpers.BearerToken(r)
			if raw == "" {
				reject(r.Context(), w, "client", "missing_token", errs.E("gate.client", errs.ErrMissingToken, nil))
				return
			}
			claims, err := tokens.VerifyClientToken(raw)
			if err != nil {
				reject(r.Context(), w, "client", "invalid_token", err)
				return
			}

			ctx := withClient(r.Context(), &ClientContext{AppName: claims.AppName})
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.AppName(claims.AppName)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUserToken resuelve el tenant del request y verifica el token de
// usuario con el secreto de ESE tenant.
//
//	START → TOKEN_EXTRACTED → TENANT_RESOLVED → TOKEN_VERIFIED → AUTHORIZED
//
// Sin token → 403, sin tenant → 400, tenant desconocido → 404, token inválido → 403.
func RequireUserToken(tenants tenant.Resolver, tokens UserTokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw := helpers.BearerToken(r)
			if raw == "" {
				reject(ctx, w, "user", "missing_token", errs.E("gate.user", errs.ErrMissingToken, nil))
				return
			}

			t, err := tenants.Resolve(ctx, helpers.TenantName(r))
			if err != nil {
				reason := "unknown_tenant"
				if stderrors.Is(err, errs.ErrMissingTenant) {
					reason = "missing_tenant"
				}
				reject(ctx, w, "user", reason, err)
				return
			}

			claims, err := tokens.VerifyUserToken(raw, t.JWTSecret)
			if err != nil {
				reject(ctx, w, "user", "invalid_token", err)
				return
			}

			ctx = withUser(ctx, &UserContext{Claims: claims, Tenant: t})
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.Tenant(t.Name), logger.UserID(claims.Subject())))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// reject loguea el motivo y responde. Los errores de autenticación salen
// siempre como el mismo 403 sin detalle.
func reject(ctx context.Context, w http.ResponseWriter, gate, reason string, err error) {
	metrics.GateRejections.WithLabelValues(gate, reason).Inc()
	logger.From(ctx).Info("request rejected by gate",
		logger.Layer("middleware"),
		logger.Component(gate+"_gate"),
		logger.String("reason", reason),
		logger.Err(err),
	)

	if errs.KindOf(err) == errs.KindAuthentication {
		errors.WriteError(w, errors.ErrForbidden.WithCause(err))
		return
	}
	errors.WriteError(w, err)
}

