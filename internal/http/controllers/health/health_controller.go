// Package health contiene el controller de /health.
package health

import (
	"net/http"

	dto "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/dto/health"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/helpers"
	svc "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/services/health"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/observability/logger"
)

type HealthController struct {
	service svc.HealthService
}

func NewHealthController(service svc.HealthService) *HealthController {
	return &HealthController{service: service}
}

// Health maneja GET /health: 200 si todo está ok, 503 si no.
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("HealthController.Health"))

	response := c.service.Check(ctx)

	status := http.StatusOK
	if response.Status != dto.StatusOK {
		status = http.StatusServiceUnavailable
	}
	log.Debug("health check completed", logger.String("status", response.Status))
	helpers.WriteJSON(w, status, response)
}
