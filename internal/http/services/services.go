// Package services es el composition root de los services HTTP.
package services

import (
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/repository"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/services/auth"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/services/health"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/services/profile"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/provider"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/security/credentials"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/tenant"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/util/retry"
)

type Deps struct {
	Verifier      credentials.Verifier
	Tokens        auth.TokenIssuer
	Tenants       tenant.Resolver
	Providers     provider.Factory
	Stats         repository.DirectoryStats
	Retry         retry.Policy
	ConfirmPolicy string
}

type Services struct {
	Auth    auth.Services
	Profile profile.ProfileService
	Health  health.HealthService
}

func New(d Deps) *Services {
	return &Services{
		Auth: auth.NewServices(auth.Deps{
			Verifier:      d.Verifier,
			Tokens:        d.Tokens,
			Tenants:       d.Tenants,
			Providers:     d.Providers,
			ConfirmPolicy: d.ConfirmPolicy,
		}),
		Profile: profile.NewProfileService(profile.Deps{Providers: d.Providers}),
		Health:  health.NewHealthService(health.Deps{Stats: d.Stats, Retry: d.Retry}),
	}
}
