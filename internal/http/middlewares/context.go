package middlewares

import (
	"context"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/repository"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/jwt"
)

// =================================================================================
// CONTEXT KEYS
// =================================================================================

type ctxKey string

const (
	ctxRequestIDKey ctxKey = "request_id"
	ctxClientKey    ctxKey = "client"
	ctxUserKey      ctxKey = "user"
)

// ClientContext lo adjunta el client gate. Solo dice qué aplicación se
// autenticó con client credentials; no hay usuario.
type ClientContext struct {
	AppName string
}

// UserContext lo adjunta el user gate: claims verificadas con el secreto del
// tenant y el tenant ya resuelto, para que el handler no lo vuelva a buscar.
type UserContext struct {
	Claims jwt.UserClaims
	Tenant *repository.Tenant
}

// UserID es el claim sub, que también es la PK de profiles.
func (u *UserContext) UserID() string { return u.Claims.Subject() }

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

func withClient(ctx context.Context, c *ClientContext) context.Context {
	return context.WithValue(ctx, ctxClientKey, c)
}

func withUser(ctx context.Context, u *UserContext) context.Context {
	return context.WithValue(ctx, ctxUserKey, u)
}

// =================================================================================
// GETTERS
// =================================================================================

// GetRequestID devuelve "" si WithRequestID no corrió.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxRequestIDKey).(string); ok {
		return v
	}
	return ""
}

// GetClient devuelve nil fuera de rutas con RequireClientToken.
func GetClient(ctx context.Context) *ClientContext {
	c, _ := ctx.Value(ctxClientKey).(*ClientContext)
	return c
}

// GetUser devuelve nil fuera de rutas con RequireUserToken.
func GetUser(ctx context.Context) *UserContext {
	u, _ := ctx.Value(ctxUserKey).(*UserContext)
	return u
}

// ContextWithClient y ContextWithUser son para tests de controllers y services.
func ContextWithClient(ctx context.Context, appName string) context.Context {
	return withClient(ctx, &ClientContext{AppName: appName})
}

func ContextWithUser(ctx context.Context, claims jwt.UserClaims, t *repository.Tenant) context.Context {
	return withUser(ctx, &UserContext{Claims: claims, Tenant: t})
}
