// Package controllers es el composition root de los controllers HTTP.
//
//	svcs := services.New(deps)
//	ctrls := controllers.New(svcs)
//	handler := router.New(router.Deps{Controllers: ctrls, ...})
package controllers

import (
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/controllers/auth"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/controllers/health"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/controllers/profile"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/services"
)

type Controllers struct {
	Auth    *auth.Controllers
	Profile *profile.ProfileController
	Health  *health.HealthController
}

func New(s *services.Services) *Controllers {
	return &Controllers{
		Auth:    auth.NewControllers(s.Auth),
		Profile: profile.NewProfileController(s.Profile),
		Health:  health.NewHealthController(s.Health),
	}
}
