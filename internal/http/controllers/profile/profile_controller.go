// Package profile contiene los controllers de /profile y /ping.
package profile

import (
	"net/http"

	dto "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/dto/profile"
	httperrors "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/errors"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/helpers"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/middlewares"
	svc "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/services/profile"
)

// ProfileController maneja las rutas detrás de RequireUserToken.
type ProfileController struct {
	service svc.ProfileService
}

func NewProfileController(service svc.ProfileService) *ProfileController {
	return &ProfileController{service: service}
}

// Get maneja GET /profile. El tenant y el sub vienen del gate.
func (c *ProfileController) Get(w http.ResponseWriter, r *http.Request) {
	user := middlewares.GetUser(r.Context())
	if user == nil {
		httperrors.WriteError(w, httperrors.ErrForbidden)
		return
	}

	p, err := c.service.Get(r.Context(), user.Tenant, user.UserID())
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, p)
}

// Ping maneja GET /ping: devuelve las claims verificadas.
func (c *ProfileController) Ping(w http.ResponseWriter, r *http.Request) {
	user := middlewares.GetUser(r.Context())
	if user == nil {
		httperrors.WriteError(w, httperrors.ErrForbidden)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.PingResponse{Response: user.Claims, Message: "pong"})
}
