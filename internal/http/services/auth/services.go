package auth

import (
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/provider"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/security/credentials"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/tenant"
)

// Deps contiene las dependencias para crear los services auth.
type Deps struct {
	Verifier      credentials.Verifier
	Tokens        TokenIssuer
	Tenants       tenant.Resolver
	Providers     provider.Factory
	ConfirmPolicy string
}

// Services agrupa los services del dominio auth.
type Services struct {
	ClientToken ClientTokenService
	Register    RegisterService
	Login       LoginService
	MagicLink   MagicLinkService
}

func NewServices(d Deps) Services {
	identity := IdentityDeps{
		Tenants:       d.Tenants,
		Providers:     d.Providers,
		ConfirmPolicy: d.ConfirmPolicy,
	}
	return Services{
		ClientToken: NewClientTokenService(ClientTokenDeps{Verifier: d.Verifier, Tokens: d.Tokens}),
		Register:    NewRegisterService(identity),
		Login:       NewLoginService(identity),
		MagicLink:   NewMagicLinkService(identity),
	}
}
