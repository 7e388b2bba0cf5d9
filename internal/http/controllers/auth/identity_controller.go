package auth

import (
	"net/http"

	dto "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/dto/auth"
	httperrors "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/errors"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/helpers"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/middlewares"
	svc "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/services/auth"
)

// IdentityController maneja register, login y magic link. Las tres rutas
// van detrás de RequireClientToken.
type IdentityController struct {
	register svc.RegisterService
	login    svc.LoginService
	magic    svc.MagicLinkService
}

func NewIdentityController(s svc.Services) *IdentityController {
	return &IdentityController{register: s.Register, login: s.Login, magic: s.MagicLink}
}

// appName devuelve la aplicación autenticada por el gate, o escribe 403.
func appName(w http.ResponseWriter, r *http.Request) (string, bool) {
	client := middlewares.GetClient(r.Context())
	if client == nil {
		httperrors.WriteError(w, httperrors.ErrForbidden)
		return "", false
	}
	return client.AppName, true
}

// Register maneja POST /auth/register → 201 con el usuario del provider.
func (c *IdentityController) Register(w http.ResponseWriter, r *http.Request) {
	app, ok := appName(w, r)
	if !ok {
		return
	}
	var req dto.CredentialsRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	raw, err := c.register.Register(r.Context(), app, req)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteRawJSON(w, http.StatusCreated, raw)
}

// Login maneja POST /auth/login → 200 con la sesión del provider.
func (c *IdentityController) Login(w http.ResponseWriter, r *http.Request) {
	app, ok := appName(w, r)
	if !ok {
		return
	}
	var req dto.CredentialsRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	raw, err := c.login.Login(r.Context(), app, req)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteRawJSON(w, http.StatusOK, raw)
}

// MagicLink maneja POST /auth/magic → 200 con el ack genérico.
func (c *IdentityController) MagicLink(w http.ResponseWriter, r *http.Request) {
	app, ok := appName(w, r)
	if !ok {
		return
	}
	var req dto.MagicLinkRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	res, err := c.magic.Send(r.Context(), app, req)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}
