// Package auth contiene los controllers de /auth/*.
package auth

import (
	"net/http"

	dto "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/dto/auth"
	httperrors "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/errors"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/helpers"
	svc "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/services/auth"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/observability/logger"
)

// ClientTokenController maneja POST /auth/client-token.
type ClientTokenController struct {
	service svc.ClientTokenService
}

func NewClientTokenController(service svc.ClientTokenService) *ClientTokenController {
	return &ClientTokenController{service: service}
}

func (c *ClientTokenController) Issue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ClientTokenController.Issue"))

	var req dto.ClientTokenRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	res, err := c.service.Issue(ctx, req)
	if err != nil {
		appErr := httperrors.FromError(err)
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			log.Error("client token exchange failed", logger.Err(err))
		}
		httperrors.WriteError(w, appErr)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}
