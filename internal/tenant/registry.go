// Package tenant resuelve un nombre de aplicación a su configuración completa.
//
// No hay cache entre requests: cada Resolve consulta el directorio, porque los
// registros se administran fuera de banda y pueden cambiar en cualquier momento.
package tenant

import (
	"context"
	"errors"
	"strings"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/errs"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/repository"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/observability/logger"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/util/retry"
)

// Resolver es el contrato que consumen el gate y los services.
type Resolver interface {
	Resolve(ctx context.Context, appName string) (*repository.Tenant, error)
}

type Registry struct {
	repo   repository.TenantRepository
	policy retry.Policy
}

var _ Resolver = (*Registry)(nil)

func NewRegistry(repo repository.TenantRepository, policy retry.Policy) *Registry {
	return &Registry{repo: repo, policy: policy}
}

// Resolve devuelve errs.ErrTenantNotFound si no hay registro, si está
// incompleto o si el directorio falla después de los reintentos.
// Un nombre vacío es errs.ErrMissingTenant.
func (r *Registry) Resolve(ctx context.Context, appName string) (*repository.Tenant, error) {
	const op = "tenant.Resolve"
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return nil, errs.E(op, errs.ErrMissingTenant, nil)
	}

	log := logger.From(ctx).With(logger.Component("tenant"), logger.Op(op), logger.Tenant(appName))

	t, err := retry.Do(ctx, op, r.policy, func() (*repository.Tenant, error) {
		t, err := r.repo.GetByName(ctx, appName)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, retry.Permanent(err)
		}
		return t, err
	})
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Warn("directory lookup failed", logger.Err(err))
		}
		return nil, errs.E(op, errs.ErrTenantNotFound, err)
	}

	if !t.Complete() {
		log.Warn("application record incomplete")
		return nil, errs.Ef(op, errs.ErrTenantNotFound, "incomplete record for %q", appName)
	}
	return t, nil
}
