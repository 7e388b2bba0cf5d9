// Package profile contiene el service de GET /profile.
package profile

import (
	"context"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/errs"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/repository"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/observability/logger"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/provider"
)

// ProfileService lee el perfil del usuario autenticado en su tenant.
type ProfileService interface {
	Get(ctx context.Context, t *repository.Tenant, userID string) (*provider.Profile, error)
}

type Deps struct {
	Providers provider.Factory
}

type profileService struct {
	deps Deps
}

func NewProfileService(deps Deps) ProfileService {
	return &profileService{deps: deps}
}

// Get busca la fila de profiles con PK = userID (el sub del token).
func (s *profileService) Get(ctx context.Context, t *repository.Tenant, userID string) (*provider.Profile, error) {
	const op = "ProfileService.Get"
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("profile"), logger.Op(op))

	if t == nil || userID == "" {
		return nil, errs.E(op, errs.ErrInvalidUserToken, nil)
	}

	p, err := s.deps.Providers.ForTenant(t).FetchProfile(ctx, userID)
	if err != nil {
		if errs.KindOf(err) == errs.KindUpstream {
			log.Error("profile fetch failed", logger.Err(err))
		}
		return nil, err
	}
	return p, nil
}
