// Package health contiene el service de GET /health.
package health

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/repository"
	dto "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/dto/health"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/observability/logger"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/util/retry"
)

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

type Deps struct {
	Stats repository.DirectoryStats
	Retry retry.Policy
	// Timeout acota el check completo (default 3s).
	Timeout time.Duration
}

type healthService struct {
	deps Deps
}

func NewHealthService(deps Deps) HealthService {
	if deps.Timeout <= 0 {
		deps.Timeout = 3 * time.Second
	}
	return &healthService{deps: deps}
}

const (
	checkUsers        = "users"
	checkApplications = "applications"
)

// Check cuenta usuarios y aplicaciones en paralelo. Está ok solo si los dos
// conteos son > 0.
func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("health"),
		logger.Op("Check"),
	)

	ctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
	defer cancel()

	var users, apps int64
	var usersErr, appsErr error

	// los errores quedan por check; el grupo no cancela al otro
	var g errgroup.Group
	g.Go(func() error {
		users, usersErr = retry.Do(ctx, "health.CountUsers", s.deps.Retry, func() (int64, error) {
			return s.deps.Stats.CountUsers(ctx)
		})
		return nil
	})
	g.Go(func() error {
		apps, appsErr = retry.Do(ctx, "health.CountApplications", s.deps.Retry, func() (int64, error) {
			return s.deps.Stats.CountApplications(ctx)
		})
		return nil
	})
	_ = g.Wait()

	resp := dto.HealthResponse{Status: dto.StatusOK, Checks: map[string]any{}}
	record := func(name string, n int64, err error) {
		switch {
		case err != nil:
			log.Error("health check failed", logger.String("check", name), logger.Err(err))
			resp.Checks[name] = "error"
			resp.Status = dto.StatusUnavailable
		case n <= 0:
			log.Warn("health check empty", logger.String("check", name))
			resp.Checks[name] = n
			resp.Status = dto.StatusUnavailable
		default:
			resp.Checks[name] = n
		}
	}
	record(checkUsers, users, usersErr)
	record(checkApplications, apps, appsErr)
	return resp
}
